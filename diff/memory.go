package diff

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrPendingCommit is returned by [MemorySource.Stage] when the previous
// staged snapshot has not been committed yet.
var ErrPendingCommit = errors.New("diff: a staged snapshot is still pending")

// Record is one logical list item held by a [MemorySource].
type Record struct {
	Type     string
	Identity int64
	Header   bool
	Fields   map[string]string
}

// Changes is the change set staged together with a snapshot.
type Changes struct {
	Added   []int
	Removed []int
	Moved   []Move
}

type memoryList struct {
	committed []Record
	current   Changes

	pending    []Record
	changes    Changes
	hasPending bool
}

// MemorySource is an in-memory [Source] keyed by list id. Snapshots and their
// change sets are computed by the caller and staged with [MemorySource.Stage];
// the source only stores them. It is safe for concurrent use.
type MemorySource struct {
	mu     sync.Mutex
	lists  map[int]*memoryList
	notify func(listID int)
}

// NewMemorySource returns an empty source.
func NewMemorySource() *MemorySource {
	return &MemorySource{lists: make(map[int]*memoryList)}
}

// SetNotify sets the callback invoked after a snapshot is staged.
func (s *MemorySource) SetNotify(notify func(listID int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify = notify
}

// Put replaces the committed snapshot of listID without a change set. It is
// used to seed a list before it is mounted.
func (s *MemorySource) Put(listID int, records []Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.list(listID)
	list.committed = slices.Clone(records)
	list.current = Changes{}
	list.pending = nil
	list.changes = Changes{}
	list.hasPending = false
}

// Stage records a new snapshot of listID and the change set that leads to it
// from the committed one, then notifies. The snapshot becomes visible on the
// next CommitPending.
func (s *MemorySource) Stage(listID int, records []Record, changes Changes) error {
	s.mu.Lock()
	list := s.list(listID)
	if list.hasPending {
		s.mu.Unlock()
		return fmt.Errorf("stage list %d: %w", listID, ErrPendingCommit)
	}
	list.pending = slices.Clone(records)
	list.changes = Changes{
		Added:   slices.Clone(changes.Added),
		Removed: slices.Clone(changes.Removed),
		Moved:   slices.Clone(changes.Moved),
	}
	list.hasPending = true
	notify := s.notify
	s.mu.Unlock()

	if notify != nil {
		notify(listID)
	}
	return nil
}

// MoveCommitted moves a committed record without producing a change set. It
// is meant for reorders the view has already applied on its own. While a
// snapshot is staged the move is refused with [ErrPendingCommit], since the
// staged change set indexes the committed order.
func (s *MemorySource) MoveCommitted(listID int, from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, ok := s.lists[listID]
	if !ok {
		return fmt.Errorf("move in list %d: unknown list", listID)
	}
	if list.hasPending {
		return fmt.Errorf("move in list %d: %w", listID, ErrPendingCommit)
	}
	n := len(list.committed)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("move %d->%d in list %d: out of range [0,%d)", from, to, listID, n)
	}
	record := list.committed[from]
	list.committed = slices.Delete(list.committed, from, from+1)
	list.committed = slices.Insert(list.committed, to, record)
	return nil
}

// RemoveData forgets everything about listID.
func (s *MemorySource) RemoveData(listID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lists, listID)
}

// Records returns a copy of the committed snapshot of listID.
func (s *MemorySource) Records(listID int) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	if list, ok := s.lists[listID]; ok {
		return slices.Clone(list.committed)
	}
	return nil
}

// Pending reports whether listID has a staged snapshot.
func (s *MemorySource) Pending(listID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, ok := s.lists[listID]
	return ok && list.hasPending
}

func (s *MemorySource) CommitPending(listID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.list(listID)
	if !list.hasPending {
		list.current = Changes{}
		return
	}
	list.committed = list.pending
	list.current = list.changes
	list.pending = nil
	list.changes = Changes{}
	list.hasPending = false
}

func (s *MemorySource) Length(listID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if list, ok := s.lists[listID]; ok {
		return len(list.committed)
	}
	return 0
}

func (s *MemorySource) TypeAt(index int, listID int) string {
	record, ok := s.record(index, listID)
	if !ok {
		return ""
	}
	return record.Type
}

func (s *MemorySource) IdentityHashAt(index int, listID int) int64 {
	record, ok := s.record(index, listID)
	if !ok {
		return 0
	}
	return record.Identity
}

func (s *MemorySource) FieldValue(index int, key string, listID int) []byte {
	record, ok := s.record(index, listID)
	if !ok {
		return nil
	}
	value, ok := record.Fields[key]
	if !ok {
		return nil
	}
	return []byte(value)
}

func (s *MemorySource) IsHeader(index int, listID int) bool {
	record, ok := s.record(index, listID)
	return ok && record.Header
}

func (s *MemorySource) Added(listID int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if list, ok := s.lists[listID]; ok {
		return slices.Clone(list.current.Added)
	}
	return nil
}

func (s *MemorySource) Removed(listID int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if list, ok := s.lists[listID]; ok {
		return slices.Clone(list.current.Removed)
	}
	return nil
}

func (s *MemorySource) Moved(listID int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, ok := s.lists[listID]
	if !ok {
		return nil
	}
	flat := make([]int, 0, 2*len(list.current.Moved))
	for _, move := range list.current.Moved {
		flat = append(flat, move.From, move.To)
	}
	return flat
}

func (s *MemorySource) record(index int, listID int) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, ok := s.lists[listID]
	if !ok || index < 0 || index >= len(list.committed) {
		return Record{}, false
	}
	return list.committed[index], true
}

func (s *MemorySource) list(listID int) *memoryList {
	list, ok := s.lists[listID]
	if !ok {
		list = &memoryList{}
		s.lists[listID] = list
	}
	return list
}

var (
	_ Source   = (*MemorySource)(nil)
	_ Notifier = (*MemorySource)(nil)
)
