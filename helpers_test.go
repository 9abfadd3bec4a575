package itc

import (
	"pgregory.net/rapid"
)

// Tree construction shorthand for tests, mirroring the notation in
// the package documentation: identity leaves 0/1, event leaves by
// counter, parenthesised interior nodes.

func id0() *ID { return newIDLeaf(false) }
func id1() *ID { return newIDLeaf(true) }

func idN(l, r *ID) *ID { return newIDNode(l, r) }

func evL(n Counter) *Event { return newEventLeaf(n) }

func evN(n Counter, l, r *Event) *Event {
	return newEventNode(n, l, r)
}

// drawPopulation grows a random replica population from the seed by a
// drawn sequence of fork, event, and join operations. Every stamp in
// the result is reachable through public operations only, so each one
// is valid and normalised by construction.
func drawPopulation(t *rapid.T) []*Stamp {
	pop := []*Stamp{Seed()}
	steps := rapid.IntRange(0, 24).Draw(t, "steps")
	for i := 0; i < steps; i++ {
		switch rapid.IntRange(0, 2).Draw(t, "op") {
		case 0:
			idx := rapid.IntRange(0, len(pop)-1).Draw(t, "fork")
			a, b, err := pop[idx].Fork()
			if err != nil {
				t.Fatalf("fork: %v", err)
			}
			pop[idx] = a
			pop = append(pop, b)
		case 1:
			idx := rapid.IntRange(0, len(pop)-1).Draw(t, "event")
			next, err := pop[idx].Event()
			if err != nil {
				t.Fatalf("event: %v", err)
			}
			pop[idx] = next
		case 2:
			if len(pop) < 2 {
				continue
			}
			i1 := rapid.IntRange(0, len(pop)-1).Draw(t, "joinA")
			i2 := rapid.IntRange(0, len(pop)-1).Draw(t, "joinB")
			if i1 == i2 {
				continue
			}
			joined, err := pop[i1].Join(pop[i2])
			if err != nil {
				t.Fatalf("join: %v", err)
			}
			pop[i1] = joined
			pop = append(pop[:i2], pop[i2+1:]...)
		}
	}
	return pop
}

// drawStamp returns one random member of a random population.
func drawStamp(t *rapid.T) *Stamp {
	pop := drawPopulation(t)
	return pop[rapid.IntRange(0, len(pop)-1).Draw(t, "pick")]
}
