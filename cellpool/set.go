package cellpool

import (
	"log/slog"
	"maps"
	"slices"
)

// Factory inflates one template of a cell type.
type Factory[T comparable] func(cellType string) T

// Set keeps one pool per cell type. Pools are created when a factory is
// registered. Growth requested by a starved pool is deferred until the host
// calls [Set.Grow], normally at the start of the next frame.
type Set[T comparable] struct {
	pools     map[string]*Pool[T]
	factories map[string]Factory[T]
	growth    map[string]int

	initialSize int
	deliver     DeliverFunc[T]
	logger      *slog.Logger
}

// NewSet returns a set whose pools start with initialSize templates each.
func NewSet[T comparable](initialSize int, deliver DeliverFunc[T], logger *slog.Logger) *Set[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Set[T]{
		pools:       make(map[string]*Pool[T]),
		factories:   make(map[string]Factory[T]),
		growth:      make(map[string]int),
		initialSize: max(0, initialSize),
		deliver:     deliver,
		logger:      logger,
	}
}

// RegisterFactory sets the factory of cellType and fills its pool with the
// initial templates. Registering again replaces the factory only.
func (s *Set[T]) RegisterFactory(cellType string, factory Factory[T]) {
	s.factories[cellType] = factory
	if _, ok := s.pools[cellType]; ok {
		return
	}

	pool := NewPool(cellType, s.schedule, s.deliver, s.logger)
	s.pools[cellType] = pool
	for range s.initialSize {
		pool.Add(factory(cellType))
	}
}

// Pool returns the pool of cellType.
func (s *Set[T]) Pool(cellType string) (*Pool[T], bool) {
	pool, ok := s.pools[cellType]
	return pool, ok
}

// Request asks the pool of cellType for a template for row.
func (s *Set[T]) Request(cellType string, row, position, listID int) (T, bool) {
	pool, ok := s.pools[cellType]
	if !ok {
		s.logger.Warn("no cell factory registered", slog.String("type", cellType), slog.Int("position", position))
		var zero T
		return zero, false
	}
	return pool.Request(row, position, listID)
}

// Return gives the template of row back to the pool of cellType.
func (s *Set[T]) Return(cellType string, row int) bool {
	pool, ok := s.pools[cellType]
	if !ok {
		return false
	}
	return pool.Return(row)
}

// NeedsGrowth reports whether a pool is waiting for new templates.
func (s *Set[T]) NeedsGrowth() bool {
	return len(s.growth) > 0
}

// Grow inflates the templates requested by starved pools and returns how
// many were created.
func (s *Set[T]) Grow() int {
	created := 0
	for _, cellType := range slices.Sorted(maps.Keys(s.growth)) {
		count := s.growth[cellType]
		delete(s.growth, cellType)

		pool := s.pools[cellType]
		factory := s.factories[cellType]
		for range count {
			pool.Add(factory(cellType))
			created++
		}
		s.logger.Debug("cell pool grown",
			slog.String("type", cellType),
			slog.Int("added", count),
			slog.Int("capacity", pool.Capacity()),
		)
	}
	return created
}

func (s *Set[T]) schedule(cellType string, count int) {
	if count > 0 {
		s.growth[cellType] += count
	}
}
