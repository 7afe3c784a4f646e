// Package binder connects rows of a list view to records of a diff source.
//
// A binding is stored as a list id and a position, never as a reference to the
// data. Field values are looked up through the source of the list each time a
// row is bound, so a binding outliving its list fails softly.
package binder

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/ayn2op/ultralist/diff"
)

// ErrMissingBinding is returned when a row has no binding, or when the list or
// position it is bound to no longer exists.
var ErrMissingBinding = errors.New("binder: missing binding")

// RowID identifies a row of a list view.
type RowID int

// Binding is the record a row displays.
type Binding struct {
	ListID   int
	Position int
}

// Lookup resolves a list id to its source.
type Lookup func(listID int) (diff.Source, bool)

// FieldFunc receives the value of a field when its row is bound.
type FieldFunc func(value []byte)

// RecycleFunc is notified after a row was bound to position. previous is the
// position the row displayed before, or -1.
type RecycleFunc func(position, previous int)

type rowState struct {
	binding Binding
	bound   bool

	fields    map[string][]FieldFunc
	listeners []RecycleFunc
}

type recycle struct {
	row      RowID
	position int
	previous int
}

// Binder keeps the bindings of all rows of a view. It is not safe for
// concurrent use; the host calls it from its event loop.
type Binder struct {
	lookup Lookup
	rows   map[RowID]*rowState
	queue  []recycle
	logger *slog.Logger
}

// Option configures a Binder.
type Option func(*Binder)

// WithLogger sets the logger used for skipped notifications.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Binder) {
		b.logger = logger
	}
}

// New returns a binder resolving list ids with lookup.
func New(lookup Lookup, opts ...Option) *Binder {
	b := &Binder{
		lookup: lookup,
		rows:   make(map[RowID]*rowState),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

func (b *Binder) state(row RowID) *rowState {
	state, ok := b.rows[row]
	if !ok {
		state = &rowState{fields: make(map[string][]FieldFunc)}
		b.rows[row] = state
	}
	return state
}

// Subscribe registers handler to receive the value of key whenever row is
// bound.
func (b *Binder) Subscribe(row RowID, key string, handler FieldFunc) {
	state := b.state(row)
	state.fields[key] = append(state.fields[key], handler)
}

// OnRecycle registers handler to be notified on [Binder.Flush] after row was
// bound to a new position.
func (b *Binder) OnRecycle(row RowID, handler RecycleFunc) {
	state := b.state(row)
	state.listeners = append(state.listeners, handler)
}

// Bind binds row to position of listID, replacing any previous binding.
// Subscribers receive their values right away; recycle listeners are queued.
func (b *Binder) Bind(row RowID, listID, position int) {
	state := b.state(row)
	previous := -1
	if state.bound {
		previous = state.binding.Position
	}
	state.binding = Binding{ListID: listID, Position: position}
	state.bound = true

	if err := b.push(row, state); err != nil {
		b.logger.Debug("skipping field update", slog.Int("row", int(row)), slog.Any("err", err))
	}
	b.queue = append(b.queue, recycle{row: row, position: position, previous: previous})
}

// Rebind pushes the current values of the stored binding of row again, without
// queuing a recycle notification.
func (b *Binder) Rebind(row RowID) error {
	state, ok := b.rows[row]
	if !ok || !state.bound {
		return fmt.Errorf("rebind row %d: %w", row, ErrMissingBinding)
	}
	return b.push(row, state)
}

// Unbind drops the binding, subscribers and listeners of row.
func (b *Binder) Unbind(row RowID) {
	delete(b.rows, row)
	b.queue = slices.DeleteFunc(b.queue, func(r recycle) bool {
		return r.row == row
	})
}

// Binding returns the stored binding of row.
func (b *Binder) Binding(row RowID) (Binding, bool) {
	state, ok := b.rows[row]
	if !ok || !state.bound {
		return Binding{}, false
	}
	return state.binding, true
}

// Flush delivers the queued recycle notifications in the order rows were
// bound. Notifications of rows whose binding no longer resolves are skipped.
func (b *Binder) Flush() int {
	queue := b.queue
	b.queue = nil

	delivered := 0
	for _, r := range queue {
		state, ok := b.rows[r.row]
		if !ok || !state.bound || state.binding.Position != r.position {
			continue
		}
		if _, err := b.resolve(state.binding); err != nil {
			b.logger.Debug("skipping recycle notification", slog.Int("row", int(r.row)), slog.Any("err", err))
			continue
		}
		for _, listener := range state.listeners {
			listener(r.position, r.previous)
		}
		delivered++
	}
	return delivered
}

func (b *Binder) resolve(binding Binding) (diff.Source, error) {
	source, ok := b.lookup(binding.ListID)
	if !ok {
		return nil, fmt.Errorf("list %d: %w", binding.ListID, ErrMissingBinding)
	}
	if binding.Position < 0 || binding.Position >= source.Length(binding.ListID) {
		return nil, fmt.Errorf("list %d position %d: %w", binding.ListID, binding.Position, ErrMissingBinding)
	}
	return source, nil
}

func (b *Binder) push(row RowID, state *rowState) error {
	source, err := b.resolve(state.binding)
	if err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	for _, key := range slices.Sorted(maps.Keys(state.fields)) {
		value := source.FieldValue(state.binding.Position, key, state.binding.ListID)
		for _, handler := range state.fields[key] {
			handler(value)
		}
	}
	return nil
}
