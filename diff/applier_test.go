package diff

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// sliceAdapter mirrors a list of ints. Inserted slots hold -1 until the test
// fills them.
type sliceAdapter struct {
	items []int
	calls int
}

func (a *sliceAdapter) Len() int { return len(a.items) }

func (a *sliceAdapter) InsertRange(start, count int) {
	a.calls++
	a.items = slices.Insert(a.items, start, slices.Repeat([]int{-1}, count)...)
}

func (a *sliceAdapter) RemoveRange(start, count int) {
	a.calls++
	a.items = slices.Delete(a.items, start, start+count)
}

func (a *sliceAdapter) Move(from, to int) {
	a.calls++
	item := a.items[from]
	a.items = slices.Delete(a.items, from, from+1)
	a.items = slices.Insert(a.items, to, item)
}

func quietApplier() *Applier {
	return NewApplier(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestPlanCoalescesRuns(t *testing.T) {
	ops := Plan(Result{Added: []int{2, 3, 4, 9}})

	require.Equal(t, []Op{
		{Kind: OpInsert, Start: 2, Count: 3},
		{Kind: OpInsert, Start: 9, Count: 1},
	}, ops)
	require.False(t, ops[0].Single())
	require.True(t, ops[1].Single())
	require.Equal(t, "insert range(2,3)", ops[0].String())
	require.Equal(t, "insert single(9)", ops[1].String())
}

func TestPlanOrdersRemovesInsertsMoves(t *testing.T) {
	ops := Plan(Result{
		Added:   []int{0},
		Removed: []int{1, 2, 5, 7, 8},
		Moved:   []Move{{From: 3, To: 0}, {From: 1, To: 2}},
	})

	want := []Op{
		{Kind: OpRemove, Start: 1, Count: 2},
		{Kind: OpRemove, Start: 3, Count: 1},
		{Kind: OpRemove, Start: 4, Count: 2},
		{Kind: OpInsert, Start: 0, Count: 1},
		{Kind: OpMove, Start: 3, To: 0, Count: 1},
		{Kind: OpMove, Start: 1, To: 2, Count: 1},
	}
	if diff := cmp.Diff(want, ops); diff != "" {
		t.Fatalf("Plan() mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyEmptyIsNoop(t *testing.T) {
	adapter := &sliceAdapter{items: []int{0, 1, 2}}
	ops, err := quietApplier().Apply(Result{}, adapter)
	require.NoError(t, err)
	require.Nil(t, ops)
	require.Zero(t, adapter.calls)
}

func TestApplyOutOfRangeKeepsState(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		index  int
	}{
		{"remove past end", Result{Removed: []int{1, 5}}, 4},
		{"insert past end", Result{Added: []int{4}}, 4},
		{"move past end", Result{Moved: []Move{{From: 0, To: 3}}}, 3},
		{"negative remove", Result{Removed: []int{-1}}, -1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			adapter := &sliceAdapter{items: []int{0, 1, 2}}
			_, err := quietApplier().Apply(test.result, adapter)

			var rangeErr *OutOfRangeError
			require.True(t, errors.As(err, &rangeErr), "got %v", err)
			require.Equal(t, test.index, rangeErr.Index)
			require.Equal(t, []int{0, 1, 2}, adapter.items)
			require.Zero(t, adapter.calls)
		})
	}
}

func TestApplyRejectsUnorderedIndices(t *testing.T) {
	adapter := &sliceAdapter{items: []int{0, 1, 2, 3}}
	_, err := quietApplier().Apply(Result{Removed: []int{2, 1}}, adapter)
	require.ErrorIs(t, err, ErrNotAscending)
	require.Zero(t, adapter.calls)
}

// randomDiff builds a change set from old and returns it with the expected
// final order. Inserted items get values >= 1000.
func randomDiff(r *rand.Rand, old []int) (Result, []int) {
	var result Result
	var kept []int
	for i, value := range old {
		if r.IntN(4) == 0 {
			result.Removed = append(result.Removed, i)
			continue
		}
		kept = append(kept, value)
	}

	inserts := r.IntN(5)
	final := slices.Clone(kept)
	for k := 0; k < inserts; k++ {
		at := r.IntN(len(final) + 1)
		final = slices.Insert(final, at, 1000+k)
	}
	for i, value := range final {
		if value >= 1000 {
			result.Added = append(result.Added, i)
		}
	}

	moves := 0
	if len(final) > 1 {
		moves = r.IntN(3)
	}
	for k := 0; k < moves; k++ {
		from, to := r.IntN(len(final)), r.IntN(len(final))
		result.Moved = append(result.Moved, Move{From: from, To: to})
		value := final[from]
		final = slices.Delete(final, from, from+1)
		final = slices.Insert(final, to, value)
	}
	return result, final
}

func TestApplyRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	applier := quietApplier()

	for iteration := 0; iteration < 500; iteration++ {
		n := r.IntN(20)
		old := make([]int, n)
		for i := range old {
			old[i] = i
		}
		result, final := randomDiff(r, old)

		adapter := &sliceAdapter{items: slices.Clone(old)}
		_, err := applier.Apply(result, adapter)
		require.NoError(t, err, "iteration %d: %+v", iteration, result)
		require.Len(t, adapter.items, len(final))

		for i, value := range adapter.items {
			if value == -1 {
				require.GreaterOrEqual(t, final[i], 1000, fmt.Sprintf("iteration %d position %d", iteration, i))
				continue
			}
			require.Equal(t, final[i], value, "iteration %d position %d", iteration, i)
		}
	}
}

type hashAdapter struct {
	source *MemorySource
	listID int
	hashes []int64
}

func (a *hashAdapter) Len() int { return len(a.hashes) }

func (a *hashAdapter) InsertRange(start, count int) {
	fresh := make([]int64, count)
	for i := range fresh {
		fresh[i] = a.source.IdentityHashAt(start+i, a.listID)
	}
	a.hashes = slices.Insert(a.hashes, start, fresh...)
}

func (a *hashAdapter) RemoveRange(start, count int) {
	a.hashes = slices.Delete(a.hashes, start, start+count)
}

func (a *hashAdapter) Move(from, to int) {
	hash := a.hashes[from]
	a.hashes = slices.Delete(a.hashes, from, from+1)
	a.hashes = slices.Insert(a.hashes, to, hash)
}

func records(n int) []Record {
	out := make([]Record, n)
	for i := range out {
		out[i] = Record{Type: "row", Identity: int64(100 + i), Fields: map[string]string{"title": fmt.Sprint("item ", i)}}
	}
	return out
}

func TestCommitRemovesSingleRow(t *testing.T) {
	source := NewMemorySource()
	initial := records(10)
	source.Put(1, initial)

	adapter := &hashAdapter{source: source, listID: 1}
	for i := range initial {
		adapter.hashes = append(adapter.hashes, initial[i].Identity)
	}

	next := slices.Delete(slices.Clone(initial), 3, 4)
	require.NoError(t, source.Stage(1, next, Changes{Removed: []int{3}}))

	ops, err := quietApplier().Commit(source, 1, adapter)
	require.NoError(t, err)
	require.Equal(t, []Op{{Kind: OpRemove, Start: 3, Count: 1}}, ops)
	require.Equal(t, 9, adapter.Len())
	require.Equal(t, initial[4].Identity, adapter.hashes[3])
	require.Equal(t, source.IdentityHashAt(3, 1), adapter.hashes[3])
}

func TestCommitLengthMismatchIsDropped(t *testing.T) {
	source := NewMemorySource()
	source.Put(1, records(4))
	adapter := &hashAdapter{source: source, listID: 1, hashes: []int64{100, 101, 102, 103}}

	// Snapshot shrinks by two but the change set only removes one.
	require.NoError(t, source.Stage(1, records(2), Changes{Removed: []int{0}}))

	_, err := quietApplier().Commit(source, 1, adapter)
	var mismatch *LengthMismatchError
	require.True(t, errors.As(err, &mismatch))
	require.Equal(t, 2, mismatch.Want)
	require.Equal(t, 3, mismatch.Got)
	require.Equal(t, []int64{100, 101, 102, 103}, adapter.hashes)
}
