package diff

import (
	"errors"
	"fmt"
)

// ErrNotAscending is returned when Added or Removed are not strictly
// increasing.
var ErrNotAscending = errors.New("diff: indices are not strictly ascending")

// OutOfRangeError reports an operation that does not fit the live collection.
// The commit that produced it is dropped as a whole.
type OutOfRangeError struct {
	Op     Op
	Index  int
	Length int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("diff: %s: index %d out of range [0,%d)", e.Op, e.Index, e.Length)
}

// LengthMismatchError reports a plan that would leave the live collection at
// a different length than the source's committed snapshot.
type LengthMismatchError struct {
	Want int
	Got  int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("diff: applying the change set yields %d items, source has %d", e.Got, e.Want)
}
