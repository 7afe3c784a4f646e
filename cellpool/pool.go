// Package cellpool keeps pre-built, unbound cell templates per cell type and
// lends them to rows.
//
// A template belongs to its pool until it is lent to a row, then to that row
// until the row returns it. When a pool runs dry, requests are queued in FIFO
// order and the host is asked to inflate more templates; each template that
// becomes available completes the oldest pending request first.
package cellpool

import (
	"log/slog"
	"slices"
)

// InflationRequest is a queued request for a template of a starved pool.
type InflationRequest struct {
	Row      int
	Position int
	ListID   int
}

// GrowFunc is called when a pool needs count more templates.
type GrowFunc func(cellType string, count int)

// DeliverFunc hands a template to the row of a completed request.
type DeliverFunc[T comparable] func(request InflationRequest, template T)

// Pool holds the templates of one cell type.
type Pool[T comparable] struct {
	cellType string

	free  []T
	owner map[T]int
	lent  map[int]T

	pending []InflationRequest

	capacity int
	created  int
	growing  bool

	grow    GrowFunc
	deliver DeliverFunc[T]
	logger  *slog.Logger
}

// NewPool returns an empty pool for cellType. The pool does not create
// templates itself; the host adds them with [Pool.Add].
func NewPool[T comparable](cellType string, grow GrowFunc, deliver DeliverFunc[T], logger *slog.Logger) *Pool[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pool[T]{
		cellType: cellType,
		owner:    make(map[T]int),
		lent:     make(map[int]T),
		grow:     grow,
		deliver:  deliver,
		logger:   logger,
	}
}

// CellType returns the cell type served by the pool.
func (p *Pool[T]) CellType() string {
	return p.cellType
}

// Add registers a newly inflated template and makes it available.
func (p *Pool[T]) Add(template T) {
	if _, ok := p.owner[template]; ok || slices.Contains(p.free, template) {
		return
	}
	p.created++
	p.capacity = max(p.capacity, p.created)
	if p.created >= p.capacity {
		p.growing = false
	}
	p.TemplateBecameAvailable(template)
}

// Request returns a template for row. A row that already holds a template
// gets the same one back. If the pool is empty, the request is queued and
// false is returned; the row receives its template later through the
// deliver callback.
func (p *Pool[T]) Request(row, position, listID int) (T, bool) {
	if template, ok := p.lent[row]; ok {
		return template, true
	}
	if i := p.pendingIndex(row); i >= 0 {
		p.pending[i].Position = position
		p.pending[i].ListID = listID
		var zero T
		return zero, false
	}

	if n := len(p.free); n > 0 {
		template := p.free[n-1]
		p.free = p.free[:n-1]
		p.assign(row, template)
		return template, true
	}

	p.pending = append(p.pending, InflationRequest{Row: row, Position: position, ListID: listID})
	p.logger.Warn("cell pool starved",
		slog.String("type", p.cellType),
		slog.Int("position", position),
		slog.Int("list", listID),
		slog.Int("pending", len(p.pending)),
		slog.Int("capacity", p.capacity),
	)
	p.requestGrowth()

	var zero T
	return zero, false
}

// requestGrowth doubles the pool once per starvation episode.
func (p *Pool[T]) requestGrowth() {
	if p.growing {
		return
	}
	p.growing = true
	p.capacity = max(1, 2*p.capacity)
	if p.grow != nil {
		p.grow(p.cellType, p.capacity-p.created)
	}
}

// TemplateBecameAvailable completes the oldest pending request with
// template, detaching it from the row that held it before. Without pending
// requests the template is kept for later. It returns the completed request.
func (p *Pool[T]) TemplateBecameAvailable(template T) (InflationRequest, bool) {
	if row, ok := p.owner[template]; ok {
		delete(p.owner, template)
		delete(p.lent, row)
	}

	if len(p.pending) == 0 {
		if !slices.Contains(p.free, template) {
			p.free = append(p.free, template)
		}
		return InflationRequest{}, false
	}

	request := p.pending[0]
	p.pending = slices.Delete(p.pending, 0, 1)
	p.assign(request.Row, template)
	if p.deliver != nil {
		p.deliver(request, template)
	}
	return request, true
}

// Return gives the template held by row back to the pool. A queued request of
// row is cancelled instead. It reports whether row held a template.
func (p *Pool[T]) Return(row int) bool {
	template, ok := p.lent[row]
	if !ok {
		p.Cancel(row)
		return false
	}
	p.TemplateBecameAvailable(template)
	return true
}

// Cancel drops the pending request of row, if any.
func (p *Pool[T]) Cancel(row int) bool {
	i := p.pendingIndex(row)
	if i < 0 {
		return false
	}
	p.pending = slices.Delete(p.pending, i, i+1)
	return true
}

// Template returns the template held by row.
func (p *Pool[T]) Template(row int) (T, bool) {
	template, ok := p.lent[row]
	return template, ok
}

// Owner returns the row holding template.
func (p *Pool[T]) Owner(template T) (int, bool) {
	row, ok := p.owner[template]
	return row, ok
}

// Free returns the number of templates waiting to be lent.
func (p *Pool[T]) Free() int {
	return len(p.free)
}

// Lent returns the number of templates held by rows.
func (p *Pool[T]) Lent() int {
	return len(p.lent)
}

// Capacity returns the target number of templates. It never decreases.
func (p *Pool[T]) Capacity() int {
	return p.capacity
}

// Pending returns a copy of the queued requests, oldest first.
func (p *Pool[T]) Pending() []InflationRequest {
	return slices.Clone(p.pending)
}

func (p *Pool[T]) assign(row int, template T) {
	// A row holds at most one template per pool.
	if previous, ok := p.lent[row]; ok && previous != template {
		delete(p.owner, previous)
		p.free = append(p.free, previous)
	}
	p.lent[row] = template
	p.owner[template] = row
}

func (p *Pool[T]) pendingIndex(row int) int {
	return slices.IndexFunc(p.pending, func(r InflationRequest) bool {
		return r.Row == row
	})
}
