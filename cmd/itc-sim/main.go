// itc-sim drives a population of simulated replicas through random
// fork, event, message, and sync traffic, checking the causal-order
// invariants as it goes. Messages between replicas travel through the
// binary codec, so a run also exercises serialisation end to end.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/phroun/itc"
)

// replica is one simulated participant: a stable name for the logs
// and the stamp it currently holds.
type replica struct {
	name  string
	stamp *itc.Stamp
}

func main() {
	replicas := flag.Int("replicas", 8, "number of replicas to fork from the seed")
	rounds := flag.Int("rounds", 1000, "number of random operations to run")
	seed := flag.Int64("seed", 0, "PRNG seed (0 picks the current time)")
	verbose := flag.Bool("verbose", false, "log every operation")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))
	log.Info().Int64("seed", *seed).Int("replicas", *replicas).
		Int("rounds", *rounds).Msg("starting simulation")

	forks, err := itc.Seed().ForkN(*replicas)
	if err != nil {
		log.Fatal().Err(err).Msg("forking the seed failed")
	}
	pop := make([]*replica, *replicas)
	for i, f := range forks {
		pop[i] = &replica{name: uuid.NewString()[:8], stamp: f}
	}

	var events, sends, syncs int
	start := time.Now()
	for round := 0; round < *rounds; round++ {
		switch rng.Intn(4) {
		case 0, 1:
			// Local progress.
			r := pop[rng.Intn(len(pop))]
			next, err := r.stamp.Event()
			if err != nil {
				log.Fatal().Err(err).Str("replica", r.name).Msg("event failed")
			}
			if ord, _ := next.Compare(r.stamp); ord != itc.Greater {
				log.Fatal().Str("replica", r.name).Stringer("order", ord).
					Msg("event did not advance the clock")
			}
			r.stamp = next
			events++
			log.Debug().Str("replica", r.name).Stringer("stamp", r.stamp).Msg("event")

		case 2:
			// One-way message through the wire format.
			src := pop[rng.Intn(len(pop))]
			dst := pop[rng.Intn(len(pop))]
			if src == dst {
				continue
			}
			next, msg, err := src.stamp.Send()
			if err != nil {
				log.Fatal().Err(err).Str("replica", src.name).Msg("send failed")
			}
			src.stamp = next
			wire, err := msg.MarshalBinary()
			if err != nil {
				log.Fatal().Err(err).Msg("marshal failed")
			}
			received, err := itc.ParseStamp(wire)
			if err != nil {
				log.Fatal().Err(err).Msg("parse failed")
			}
			merged, err := dst.stamp.Receive(received)
			if err != nil {
				log.Fatal().Err(err).Str("replica", dst.name).Msg("receive failed")
			}
			dst.stamp = merged
			sends++
			log.Debug().Str("from", src.name).Str("to", dst.name).
				Int("bytes", len(wire)).Msg("message")

		case 3:
			// Pairwise synchronisation.
			a := pop[rng.Intn(len(pop))]
			b := pop[rng.Intn(len(pop))]
			if a == b {
				continue
			}
			sa, sb, err := itc.Sync(a.stamp, b.stamp)
			if err != nil {
				log.Fatal().Err(err).Str("a", a.name).Str("b", b.name).Msg("sync failed")
			}
			a.stamp, b.stamp = sa, sb
			syncs++
			if !sa.Equal(sb) {
				log.Fatal().Str("a", a.name).Str("b", b.name).
					Msg("synced replicas disagree on history")
			}
			log.Debug().Str("a", a.name).Str("b", b.name).Msg("sync")
		}
	}
	elapsed := time.Since(start)

	// Collapse the population back into one stamp and verify that the
	// merged history dominates every replica.
	merged := pop[0].stamp
	for _, r := range pop[1:] {
		m, err := merged.Join(r.stamp)
		if err != nil {
			log.Fatal().Err(err).Str("replica", r.name).Msg("final join failed")
		}
		merged = m
	}
	for _, r := range pop {
		ord, err := merged.Compare(r.stamp)
		if err != nil {
			log.Fatal().Err(err).Msg("final compare failed")
		}
		if ord != itc.Greater && ord != itc.Equal {
			log.Fatal().Str("replica", r.name).Stringer("order", ord).
				Msg("merged history does not dominate replica")
		}
	}

	wire, err := merged.MarshalBinary()
	if err != nil {
		log.Fatal().Err(err).Msg("marshal of merged stamp failed")
	}

	log.Info().Int("events", events).Int("sends", sends).Int("syncs", syncs).
		Dur("elapsed", elapsed).Int("merged_bytes", len(wire)).
		Msg("simulation converged")
	fmt.Printf("merged stamp: %s\n", merged)
}
