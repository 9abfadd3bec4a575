package itc

// Ordering is the result of comparing two stamps in the causal order.
type Ordering int

const (
	// Less means the first stamp's history precedes the second's.
	Less Ordering = iota

	// Equal means both stamps describe the same history.
	Equal

	// Greater means the first stamp's history succeeds the second's.
	Greater

	// Concurrent means neither history precedes the other.
	Concurrent
)

// String returns the name of the ordering.
func (o Ordering) String() string {
	switch o {
	case Less:
		return "Less"
	case Equal:
		return "Equal"
	case Greater:
		return "Greater"
	case Concurrent:
		return "Concurrent"
	}
	return "Invalid"
}

// Stamp is the causal clock held by one replica: an identity tree
// naming the sub-intervals this replica may place events in, and an
// event tree recording the history observed over the whole interval.
//
// All operations except UnmarshalBinary are pure: the receiver and
// arguments are never modified, results are freshly allocated, and no
// result shares structure with an input. A stamp may therefore be read
// from any number of goroutines, but the caller must not hand the same
// *Stamp to concurrent writers of its own bookkeeping; UnmarshalBinary
// is the one method that replaces a stamp's trees.
type Stamp struct {
	id    *ID
	event *Event
}

// Seed returns the initial stamp: full ownership of the interval and
// an empty history. A population of replicas is grown from a single
// seed by forking.
func Seed() *Stamp {
	return &Stamp{id: newIDLeaf(true), event: newEventLeaf(0)}
}

// Clone returns a deep copy of s.
func (s *Stamp) Clone() *Stamp {
	if s == nil {
		return nil
	}
	return &Stamp{id: s.id.clone(), event: s.event.clone()}
}

// IsAnonymous reports whether s is an anonymous (peek) stamp: one
// that owns no part of the interval. Anonymous stamps can observe and
// compare but cannot advance their history.
func (s *Stamp) IsAnonymous() bool {
	return s != nil && s.id != nil && s.id.isZero()
}

// Peek returns an anonymous stamp carrying a copy of s's history.
// Use it to transmit a read-only observation without splitting the
// identity.
func (s *Stamp) Peek() (*Stamp, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Stamp{id: newIDLeaf(false), event: s.event.clone()}, nil
}

// Fork splits s into two stamps with disjoint identities and
// identical histories. Joining the results yields a stamp equal to s.
func (s *Stamp) Fork() (*Stamp, *Stamp, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	a, b := s.id.split()
	return &Stamp{id: a.normalize(), event: s.event.clone()},
		&Stamp{id: b.normalize(), event: s.event.clone()}, nil
}

// Event returns a stamp whose history strictly succeeds s's, by
// inflating the event tree inside the owned sub-intervals: cheaply by
// filling where possible, otherwise by growing the tree. Calling
// Event on an anonymous stamp is a silent no-op: the result compares
// Equal to s.
func (s *Stamp) Event() (*Stamp, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.id.isZero() {
		return s.Clone(), nil
	}
	filled, changed, err := fillEvent(s.event, s.id)
	if err != nil {
		return nil, err
	}
	if changed {
		return &Stamp{id: s.id.clone(), event: filled}, nil
	}
	grown, _, err := growEvent(s.event, s.id)
	if err != nil {
		return nil, err
	}
	return &Stamp{id: s.id.clone(), event: grown.normalize()}, nil
}

// Join merges s and other into a single stamp: the identities are
// summed and the histories take their least upper bound. The two
// identities must be disjoint; joining two stamps that both own some
// sub-interval returns ErrOverlappingInterval.
func (s *Stamp) Join(other *Stamp) (*Stamp, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := other.Validate(); err != nil {
		return nil, err
	}
	id, err := sumIDs(s.id, other.id)
	if err != nil {
		return nil, err
	}
	event, err := joinEvents(s.event, other.event)
	if err != nil {
		return nil, err
	}
	return &Stamp{id: id, event: event}, nil
}

// Compare places the histories of s and other in the causal order.
// Identities are ignored: causality is a property of what has been
// observed, not of current ownership.
func (s *Stamp) Compare(other *Stamp) (Ordering, error) {
	if err := s.Validate(); err != nil {
		return Concurrent, err
	}
	if err := other.Validate(); err != nil {
		return Concurrent, err
	}
	le := leqEvents(s.event, other.event)
	ge := leqEvents(other.event, s.event)
	switch {
	case le && ge:
		return Equal, nil
	case le:
		return Less, nil
	case ge:
		return Greater, nil
	}
	return Concurrent, nil
}

// Equal reports whether s and other describe the same history. It is
// shorthand for Compare returning Equal; invalid stamps are never
// equal to anything.
func (s *Stamp) Equal(other *Stamp) bool {
	ord, err := s.Compare(other)
	return err == nil && ord == Equal
}
