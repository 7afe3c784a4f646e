package diff

import "slices"

// Observer receives every structural mutation applied to a live collection,
// in application order.
type Observer interface {
	OnItemRangeInserted(start, count int)
	OnItemRangeRemoved(start, count int)
	OnItemRangeMoved(from, to, count int)
	// OnChanged signals a change that cannot be expressed as ranges.
	OnChanged()
}

// Observable is a registry of observers. The zero value is ready to use.
type Observable struct {
	observers []Observer
}

// Register adds o unless it is already registered.
func (s *Observable) Register(o Observer) {
	if o == nil || slices.Contains(s.observers, o) {
		return
	}
	s.observers = append(s.observers, o)
}

// Unregister removes o. It is safe to call from within a notification.
func (s *Observable) Unregister(o Observer) {
	i := slices.Index(s.observers, o)
	if i < 0 {
		return
	}
	// Copy so an in-flight notification loop keeps its snapshot.
	observers := make([]Observer, 0, len(s.observers)-1)
	observers = append(observers, s.observers[:i]...)
	observers = append(observers, s.observers[i+1:]...)
	s.observers = observers
}

// Len returns the number of registered observers.
func (s *Observable) Len() int {
	return len(s.observers)
}

// Notify broadcasts op to all observers.
func (s *Observable) Notify(op Op) {
	for _, o := range s.observers {
		switch op.Kind {
		case OpInsert:
			o.OnItemRangeInserted(op.Start, op.Count)
		case OpRemove:
			o.OnItemRangeRemoved(op.Start, op.Count)
		case OpMove:
			o.OnItemRangeMoved(op.Start, op.To, 1)
		}
	}
}

// NotifyChanged broadcasts an unknown change to all observers.
func (s *Observable) NotifyChanged() {
	for _, o := range s.observers {
		o.OnChanged()
	}
}
