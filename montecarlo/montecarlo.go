// Package montecarlo runs repeated ball-removal trials and reports how often
// each color is the last ball left in the bag.
package montecarlo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/domino14/spheres/bag"
	"github.com/domino14/spheres/stats"
)

/*
	How a trial works:

	fill a fresh bag
	draw two balls
	while two balls came out:
		- black-black: put both back
		- white-white: throw both away
		- black-white: put the white back
		draw again
	the single ball left is the outcome.

	Whites only ever leave the bag in pairs, so the parity of the white
	count never changes during a trial.
*/

var (
	ErrBadIterations = errors.New("iterations must be positive")
	ErrNegativeCount = errors.New("ball counts must not be negative")
	ErrNoBalls       = errors.New("bag must start with at least one ball")
	ErrNoOutcome     = errors.New("an even number of white balls and no black balls always empties the bag")
	ErrRoundLimit    = errors.New("trial exceeded the round limit")
	ErrBagExhausted  = errors.New("bag emptied before one ball was left")
)

const DefaultMaxRounds = 1_000_000

// Simulation runs a fixed number of independent trials.
type Simulation struct {
	iterations int
	nBlack     int
	nWhite     int
	maxRounds  int

	randSource *rand.Rand

	results    []bag.Ball
	exhausted  int
	roundStats stats.Statistic
}

// NewSimulation validates the configuration and returns a simulation that
// draws from randSource.
func NewSimulation(iterations, nBlack, nWhite int, randSource *rand.Rand) (*Simulation, error) {
	switch {
	case iterations < 1:
		return nil, fmt.Errorf("%w: got %d", ErrBadIterations, iterations)
	case nBlack < 0 || nWhite < 0:
		return nil, fmt.Errorf("%w: black=%d white=%d", ErrNegativeCount, nBlack, nWhite)
	case nBlack+nWhite == 0:
		return nil, ErrNoBalls
	case nBlack == 0 && nWhite%2 == 0:
		return nil, fmt.Errorf("%w: white=%d", ErrNoOutcome, nWhite)
	}
	if randSource == nil {
		return nil, errors.New("a rand source is required")
	}
	return &Simulation{
		iterations: iterations,
		nBlack:     nBlack,
		nWhite:     nWhite,
		maxRounds:  DefaultMaxRounds,
		randSource: randSource,
	}, nil
}

// SetMaxRounds caps the number of draws in a single trial.
func (s *Simulation) SetMaxRounds(n int) {
	s.maxRounds = max(1, n)
}

func (s *Simulation) Iterations() int {
	return s.iterations
}

// Results returns the outcome of every trial that ended with one ball left,
// in the order the trials ran.
func (s *Simulation) Results() []bag.Ball {
	return s.results
}

// Exhausted returns the number of trials that emptied the bag.
func (s *Simulation) Exhausted() int {
	return s.exhausted
}

// RoundStats returns statistics on the number of draws per trial.
func (s *Simulation) RoundStats() stats.Statistic {
	return s.roundStats
}

// Run runs all the trials. It is a blocking function.
func (s *Simulation) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	s.results = make([]bag.Ball, 0, s.iterations)
	s.exhausted = 0
	s.roundStats = stats.Statistic{}

	logger.Debug().Int("iterations", s.iterations).Int("black", s.nBlack).
		Int("white", s.nWhite).Msg("sim-starting")
	tstart := time.Now()

	for i := 0; i < s.iterations; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		outcome, rounds, err := s.playTrial()
		s.roundStats.Push(float64(rounds))
		switch {
		case errors.Is(err, ErrBagExhausted):
			s.exhausted++
		case err != nil:
			return fmt.Errorf("trial %d: %w", i, err)
		default:
			s.results = append(s.results, outcome)
		}
	}

	logger.Info().Dur("elapsed", time.Since(tstart)).Int("iterations", s.iterations).Msg("sim-ended")
	s.logSummary(logger)
	return nil
}

// playTrial plays a single trial on a fresh bag and returns the outcome and
// the number of draws it took.
func (s *Simulation) playTrial() (bag.Ball, int, error) {
	b := bag.NewBag(s.nBlack, s.nWhite, s.randSource)

	for rounds := 0; rounds < s.maxRounds; rounds++ {
		if b.Size() == 0 {
			return 0, rounds, ErrBagExhausted
		}
		if b.Count(bag.White) == 0 {
			// Only blacks left; black-black pairs go straight back in, so
			// this bag can never change color.
			return bag.Black, rounds, nil
		}
		sample, err := b.Draw()
		if err != nil {
			return 0, rounds, err
		}
		if len(sample) == 1 {
			return sample[0], rounds + 1, nil
		}
		if err := Reduce(b, sample); err != nil {
			return 0, rounds, err
		}
	}
	return 0, s.maxRounds, fmt.Errorf("%w (%d)", ErrRoundLimit, s.maxRounds)
}

// Tally counts the trial outcomes by color.
func (s *Simulation) Tally() map[bag.Ball]int {
	return lo.CountValues(s.results)
}

func (s *Simulation) percent(count int) float64 {
	return 100.0 * float64(count) / float64(s.iterations)
}

// Report writes one line per color, such as "BLACK: 73.40% [734/1000]".
// Trials that emptied the bag are reported on an extra EMPTY line, only
// if there were any.
func (s *Simulation) Report(w io.Writer) error {
	tally := s.Tally()
	for _, c := range bag.Colors {
		if _, err := fmt.Fprintf(w, "%s: %.2f%% [%d/%d]\n", c, s.percent(tally[c]), tally[c], s.iterations); err != nil {
			return err
		}
	}
	if s.exhausted > 0 {
		if _, err := fmt.Fprintf(w, "EMPTY: %.2f%% [%d/%d]\n", s.percent(s.exhausted), s.exhausted, s.iterations); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulation) logSummary(logger *zerolog.Logger) {
	if logger.GetLevel() > zerolog.DebugLevel {
		return
	}
	for _, c := range bag.Colors {
		st := &stats.Statistic{}
		for _, r := range s.results {
			st.PushBool(r == c)
		}
		for i := 0; i < s.exhausted; i++ {
			st.PushBool(false)
		}
		logger.Debug().Str("color", c.String()).
			Float64("pct", 100.0*st.Mean()).
			Float64("ci99", 100.0*st.HalfWidth(stats.Z99)).
			Msg("outcome")
	}
	logger.Debug().Float64("mean", s.roundStats.Mean()).
		Float64("stdev", s.roundStats.Stdev()).
		Int("exhausted", s.exhausted).
		Msg("draws-per-trial")
}
