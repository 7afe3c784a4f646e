package diff

import "fmt"

// OpKind identifies a structural operation.
type OpKind uint8

const (
	OpRemove OpKind = iota
	OpInsert
	OpMove
)

func (k OpKind) String() string {
	switch k {
	case OpRemove:
		return "remove"
	case OpInsert:
		return "insert"
	case OpMove:
		return "move"
	default:
		return fmt.Sprintf("OpKind(%d)", uint8(k))
	}
}

// Op is one structural operation on the live collection.
//
// For inserts and removes, Start and Count describe the affected range in the
// coordinates of the collection at the time the op is applied. A Count of 1 is
// a single-index operation. For moves, Start is the source position and To the
// destination; Count is always 1.
type Op struct {
	Kind  OpKind
	Start int
	Count int
	To    int
}

// Single reports whether the op touches exactly one index.
func (o Op) Single() bool {
	return o.Count == 1
}

func (o Op) String() string {
	switch o.Kind {
	case OpMove:
		return fmt.Sprintf("move(%d->%d)", o.Start, o.To)
	default:
		if o.Single() {
			return fmt.Sprintf("%s single(%d)", o.Kind, o.Start)
		}
		return fmt.Sprintf("%s range(%d,%d)", o.Kind, o.Start, o.Count)
	}
}

// Plan coalesces a result into the ordered operation sequence that the
// [Applier] performs.
//
// Remove runs come first, ascending, each start shifted down by the number of
// items removed by the runs before it so the sequence is valid when applied
// one op at a time. Insert runs follow, ascending, in final positions. Moves
// come last in array order.
func Plan(result Result) []Op {
	if result.Empty() {
		return nil
	}

	ops := make([]Op, 0, len(result.Removed)+len(result.Added)+len(result.Moved))

	removed := 0
	for _, run := range runs(result.Removed) {
		ops = append(ops, Op{Kind: OpRemove, Start: run.start - removed, Count: run.count})
		removed += run.count
	}
	for _, run := range runs(result.Added) {
		ops = append(ops, Op{Kind: OpInsert, Start: run.start, Count: run.count})
	}
	for _, move := range result.Moved {
		ops = append(ops, Op{Kind: OpMove, Start: move.From, Count: 1, To: move.To})
	}
	return ops
}

type run struct {
	start int
	count int
}

// runs groups ascending indices into runs of step 1.
func runs(indices []int) []run {
	var out []run
	for _, index := range indices {
		if n := len(out); n > 0 && out[n-1].start+out[n-1].count == index {
			out[n-1].count++
			continue
		}
		out = append(out, run{start: index, count: 1})
	}
	return out
}
