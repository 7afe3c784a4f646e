package diff

import (
	"errors"
	"log/slog"
)

// Adapter is the live view collection that operations are applied to.
type Adapter interface {
	Len() int
	InsertRange(start, count int)
	RemoveRange(start, count int)
	Move(from, to int)
}

// Applier validates and applies change sets.
type Applier struct {
	logger *slog.Logger
}

type Option func(*Applier)

// WithLogger sets the logger used to report dropped commits.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Applier) {
		a.logger = logger
	}
}

// NewApplier returns a new applier.
func NewApplier(options ...Option) *Applier {
	a := &Applier{}
	for _, option := range options {
		option(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// Apply plans result and applies it to adapter. Either every operation is
// applied or none is: the plan is validated against the adapter's length
// first, and an invalid plan leaves the adapter untouched.
func (a *Applier) Apply(result Result, adapter Adapter) ([]Op, error) {
	if result.Empty() {
		return nil, nil
	}
	if err := checkAscending(result); err != nil {
		a.drop(err)
		return nil, err
	}

	ops := Plan(result)
	if _, err := Validate(ops, adapter.Len()); err != nil {
		a.drop(err)
		return nil, err
	}
	apply(ops, adapter)
	return ops, nil
}

// Commit promotes the pending snapshot of listID, then applies its change set
// to adapter. The resulting length must equal the source's committed length,
// otherwise the commit is dropped.
func (a *Applier) Commit(source Source, listID int, adapter Adapter) ([]Op, error) {
	result := Load(source, listID)
	if err := checkAscending(result); err != nil {
		a.drop(err, slog.Int("list", listID))
		return nil, err
	}

	ops := Plan(result)
	length, err := Validate(ops, adapter.Len())
	if err == nil {
		if want := source.Length(listID); length != want {
			err = &LengthMismatchError{Want: want, Got: length}
		}
	}
	if err != nil {
		a.drop(err, slog.Int("list", listID))
		return nil, err
	}
	apply(ops, adapter)
	return ops, nil
}

func (a *Applier) drop(err error, attrs ...any) {
	attrs = append(attrs, slog.Any("err", err))
	var rangeErr *OutOfRangeError
	if errors.As(err, &rangeErr) {
		attrs = append(attrs, slog.String("op", rangeErr.Op.String()))
	}
	a.logger.Warn("dropping diff commit", attrs...)
}

// Validate checks ops against a collection of the given length and returns
// the length after all of them are applied.
func Validate(ops []Op, length int) (int, error) {
	for _, op := range ops {
		switch op.Kind {
		case OpRemove:
			if op.Start < 0 || op.Count < 1 {
				return length, &OutOfRangeError{Op: op, Index: op.Start, Length: length}
			}
			if end := op.Start + op.Count; end > length {
				return length, &OutOfRangeError{Op: op, Index: end - 1, Length: length}
			}
			length -= op.Count
		case OpInsert:
			// Inserting at length appends.
			if op.Start < 0 || op.Start > length || op.Count < 1 {
				return length, &OutOfRangeError{Op: op, Index: op.Start, Length: length}
			}
			length += op.Count
		case OpMove:
			if op.Start < 0 || op.Start >= length {
				return length, &OutOfRangeError{Op: op, Index: op.Start, Length: length}
			}
			if op.To < 0 || op.To >= length {
				return length, &OutOfRangeError{Op: op, Index: op.To, Length: length}
			}
		}
	}
	return length, nil
}

func apply(ops []Op, adapter Adapter) {
	for _, op := range ops {
		switch op.Kind {
		case OpRemove:
			adapter.RemoveRange(op.Start, op.Count)
		case OpInsert:
			adapter.InsertRange(op.Start, op.Count)
		case OpMove:
			adapter.Move(op.Start, op.To)
		}
	}
}

func checkAscending(result Result) error {
	for _, indices := range [][]int{result.Removed, result.Added} {
		for i := 1; i < len(indices); i++ {
			if indices[i] <= indices[i-1] {
				return ErrNotAscending
			}
		}
	}
	return nil
}
