package itc

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSeed(t *testing.T) {
	s := Seed()
	require.NoError(t, s.Validate())
	require.Equal(t, "(1; 0)", s.String())
	require.False(t, s.IsAnonymous())
}

func TestForkEventJoin(t *testing.T) {
	s0 := Seed()

	a, b, err := s0.Fork()
	require.NoError(t, err)
	require.Equal(t, "((1, 0); 0)", a.String())
	require.Equal(t, "((0, 1); 0)", b.String())

	a1, err := a.Event()
	require.NoError(t, err)
	require.Equal(t, "((1, 0); (0, 1, 0))", a1.String())

	b1, err := b.Event()
	require.NoError(t, err)
	require.Equal(t, "((0, 1); (0, 0, 1))", b1.String())

	ord, err := a1.Compare(b1)
	require.NoError(t, err)
	require.Equal(t, Concurrent, ord)

	j, err := a1.Join(b1)
	require.NoError(t, err)
	require.Equal(t, "(1; 1)", j.String())

	ord, err = j.Compare(a1)
	require.NoError(t, err)
	require.Equal(t, Greater, ord)

	ord, err = j.Compare(b1)
	require.NoError(t, err)
	require.Equal(t, Greater, ord)
}

func TestPeekCannotAdvance(t *testing.T) {
	s, err := Seed().Event()
	require.NoError(t, err)

	p, err := s.Peek()
	require.NoError(t, err)
	require.True(t, p.IsAnonymous())
	require.Equal(t, "(0; 1)", p.String())

	// Event on an anonymous stamp is a silent no-op.
	p2, err := p.Event()
	require.NoError(t, err)

	ord, err := p2.Compare(s)
	require.NoError(t, err)
	require.Equal(t, Equal, ord)
}

func TestJoinOverlapRejected(t *testing.T) {
	_, err := Seed().Join(Seed())
	require.ErrorIs(t, err, ErrOverlappingInterval)
}

func TestEventCounterOverflow(t *testing.T) {
	s := &Stamp{id: newIDLeaf(true), event: newEventLeaf(counterMax)}
	require.NoError(t, s.Validate())

	_, err := s.Event()
	require.ErrorIs(t, err, ErrCounterOverflow)

	// The failed operation left the input untouched.
	require.Equal(t, counterMax, s.event.count)
	require.NoError(t, s.Validate())
}

func TestCompareReflexive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := drawStamp(t)
		ord, err := s.Compare(s)
		if err != nil {
			t.Fatalf("compare: %v", err)
		}
		if ord != Equal {
			t.Fatalf("compare(s, s) = %v", ord)
		}
	})
}

func TestForkConservation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := drawStamp(t)
		if s.id.isZero() {
			t.Skip("anonymous stamp")
		}
		a, b, err := s.Fork()
		if err != nil {
			t.Fatalf("fork: %v", err)
		}
		back, err := a.Join(b)
		if err != nil {
			t.Fatalf("join of forks: %v", err)
		}
		if !back.id.equal(s.id) {
			t.Fatalf("ids did not sum back: %s vs %s", back.id, s.id)
		}
		ord, err := back.Compare(s)
		if err != nil {
			t.Fatalf("compare: %v", err)
		}
		if ord != Equal {
			t.Fatalf("join(fork(s)) compares %v to s", ord)
		}
	})
}

func TestEventMonotone(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := drawStamp(t)
		next, err := s.Event()
		if err != nil {
			t.Fatalf("event: %v", err)
		}
		ord, err := next.Compare(s)
		if err != nil {
			t.Fatalf("compare: %v", err)
		}
		if ord != Greater {
			t.Fatalf("event(s) compares %v to s", ord)
		}
		if err := next.Validate(); err != nil {
			t.Fatalf("event produced an invalid stamp: %v", err)
		}
	})
}

func TestPeekReadOnly(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := drawStamp(t)
		p, err := s.Peek()
		if err != nil {
			t.Fatalf("peek: %v", err)
		}
		p2, err := p.Event()
		if err != nil {
			t.Fatalf("event on peek: %v", err)
		}
		ord, err := p2.Compare(s)
		if err != nil {
			t.Fatalf("compare: %v", err)
		}
		if ord != Equal {
			t.Fatalf("event(peek(s)) compares %v to s", ord)
		}
	})
}

func TestCompareTransitive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		// Build a chain s < s1 < s2 by repeated events and check
		// orderings along the chain.
		s := drawStamp(t)
		if s.id.isZero() {
			t.Skip("anonymous stamp")
		}
		s1, err := s.Event()
		if err != nil {
			t.Fatalf("event: %v", err)
		}
		s2, err := s1.Event()
		if err != nil {
			t.Fatalf("event: %v", err)
		}
		for _, pair := range [][2]*Stamp{{s, s1}, {s1, s2}, {s, s2}} {
			ord, err := pair[0].Compare(pair[1])
			if err != nil {
				t.Fatalf("compare: %v", err)
			}
			if ord != Less {
				t.Fatalf("chain order violated: got %v", ord)
			}
		}
	})
}

func TestSiblingForksConcurrent(t *testing.T) {
	a, b, err := Seed().Fork()
	require.NoError(t, err)

	a1, err := a.Event()
	require.NoError(t, err)
	b1, err := b.Event()
	require.NoError(t, err)

	ord, err := a1.Compare(b1)
	require.NoError(t, err)
	require.Equal(t, Concurrent, ord)
}

func TestOperationsAreImmutable(t *testing.T) {
	s, err := Seed().Event()
	require.NoError(t, err)
	before := s.String()

	a, b, err := s.Fork()
	require.NoError(t, err)
	require.Equal(t, before, s.String())

	if _, err := a.Event(); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Join(b); err != nil {
		t.Fatal(err)
	}
	require.Equal(t, before, s.String())

	// Mutating one fork's trees never perturbs the other: the clones
	// share no structure.
	a.event.count = 99
	require.Equal(t, before, s.String())
	require.NotContains(t, b.String(), "99")
}

func TestNilAndMissingComponents(t *testing.T) {
	var nilStamp *Stamp
	require.ErrorIs(t, nilStamp.Validate(), ErrInvalidParameter)

	_, _, err := nilStamp.Fork()
	require.ErrorIs(t, err, ErrInvalidParameter)

	_, err = Seed().Join(nil)
	require.ErrorIs(t, err, ErrInvalidParameter)

	require.ErrorIs(t, (&Stamp{}).Validate(), ErrCorruptStamp)
	require.ErrorIs(t, (&Stamp{id: newIDLeaf(true)}).Validate(), ErrCorruptStamp)
	require.ErrorIs(t, (&Stamp{event: newEventLeaf(0)}).Validate(), ErrCorruptStamp)
}
