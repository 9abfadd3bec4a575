package itc

// Lifecycle sugar layered on the core operations. These are the
// message-passing idioms of interval tree clocks: a sender advances
// its clock and ships a read-only observation, a receiver merges the
// observation and advances past it, and two replicas synchronise by
// merging and re-splitting their stamps.

// Send advances s and returns the successor stamp together with an
// anonymous message stamp carrying the new history.
func (s *Stamp) Send() (*Stamp, *Stamp, error) {
	next, err := s.Event()
	if err != nil {
		return nil, nil, err
	}
	msg, err := next.Peek()
	if err != nil {
		return nil, nil, err
	}
	return next, msg, nil
}

// Receive merges the message's history into s and advances the
// result, so the receipt itself is a recorded event.
func (s *Stamp) Receive(msg *Stamp) (*Stamp, error) {
	merged, err := s.Join(msg)
	if err != nil {
		return nil, err
	}
	return merged.Event()
}

// Sync merges two stamps and forks the result, leaving both replicas
// with the combined history and a fresh split of the combined
// identity. The identities must be disjoint.
func Sync(a, b *Stamp) (*Stamp, *Stamp, error) {
	merged, err := a.Join(b)
	if err != nil {
		return nil, nil, err
	}
	return merged.Fork()
}

// ForkN splits s into n stamps with pairwise disjoint identities and
// identical histories. n must be at least 1; ForkN(1) is Clone.
func (s *Stamp) ForkN(n int) ([]*Stamp, error) {
	if n < 1 {
		return nil, ErrInvalidParameter
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	out := make([]*Stamp, 0, n)
	cur := s.Clone()
	for len(out) < n-1 {
		a, b, err := cur.Fork()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
		cur = b
	}
	return append(out, cur), nil
}
