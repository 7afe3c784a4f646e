// Package diff applies externally computed list diffs to a live view
// collection.
//
// The diff itself is produced by a [Source]: an opaque engine that keeps a
// committed snapshot per list id and reports which indices were added,
// removed and moved since the previous commit. This package only consumes
// that output. It coalesces the index sets into range operations ([Plan]),
// validates them against the live collection and applies them in a fixed
// order ([Applier]), and broadcasts every applied operation to structural
// observers ([Observable]).
package diff

// Source is the contract of the external snapshot/diff engine.
//
// CommitPending must be called exactly once per cycle before Added, Removed
// and Moved are read; it promotes the pending snapshot so that Length,
// TypeAt, IdentityHashAt, FieldValue and IsHeader describe the final order.
type Source interface {
	Length(listID int) int
	TypeAt(index int, listID int) string
	IdentityHashAt(index int, listID int) int64
	// FieldValue returns the UTF-8 encoded value bound to key.
	FieldValue(index int, key string, listID int) []byte
	IsHeader(index int, listID int) bool

	Added(listID int) []int
	Removed(listID int) []int
	// Moved returns flat (from, to) pairs.
	Moved(listID int) []int

	CommitPending(listID int)
}

// Notifier is implemented by sources that announce new pending data. The
// callback may be invoked from any goroutine.
type Notifier interface {
	SetNotify(notify func(listID int))
}

// Move is a single-item move from one position to another.
type Move struct {
	From int
	To   int
}

// Result is the change set between two committed snapshots.
//
// Removed holds ascending positions in the original order. Added holds
// ascending positions in the list as it stands once removals and insertions
// are applied. Moved is applied afterwards, pair by pair, in order.
type Result struct {
	Added   []int
	Removed []int
	Moved   []Move
}

// Empty reports whether the result changes nothing.
func (r Result) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Moved) == 0
}

// Load commits the pending snapshot of listID and returns its change set.
func Load(source Source, listID int) Result {
	source.CommitPending(listID)

	result := Result{
		Added:   source.Added(listID),
		Removed: source.Removed(listID),
	}
	moved := source.Moved(listID)
	// A trailing unpaired value is ignored.
	for i := 0; i+1 < len(moved); i += 2 {
		result.Moved = append(result.Moved, Move{From: moved[i], To: moved[i+1]})
	}
	return result
}
