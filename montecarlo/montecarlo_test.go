package montecarlo

import (
	"bytes"
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/spheres/bag"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

func runSim(t *testing.T, iterations, nBlack, nWhite int, seed uint64) *Simulation {
	t.Helper()
	is := is.NewRelaxed(t)
	sim, err := NewSimulation(iterations, nBlack, nWhite, seeded(seed))
	is.NoErr(err)
	is.NoErr(sim.Run(context.Background()))
	return sim
}

func TestNewSimulationValidation(t *testing.T) {
	is := is.New(t)
	type tc struct {
		iterations, black, white int
		err                      error
	}
	cases := []tc{
		{0, 25, 25, ErrBadIterations},
		{-5, 25, 25, ErrBadIterations},
		{10, -1, 3, ErrNegativeCount},
		{10, 3, -1, ErrNegativeCount},
		{10, 0, 0, ErrNoBalls},
		{10, 0, 2, ErrNoOutcome},
		{10, 0, 24, ErrNoOutcome},
		{10, 0, 1, nil},
		{10, 1, 0, nil},
		{10, 1, 2, nil},
	}
	for _, c := range cases {
		_, err := NewSimulation(c.iterations, c.black, c.white, seeded(1))
		if c.err == nil {
			is.NoErr(err)
		} else {
			is.True(errors.Is(err, c.err))
		}
	}
	_, err := NewSimulation(10, 1, 1, nil)
	is.True(err != nil)
}

func TestEveryTrialTerminates(t *testing.T) {
	is := is.New(t)
	for b := 0; b <= 7; b++ {
		for w := 0; w <= 7; w++ {
			sim, err := NewSimulation(50, b, w, seeded(uint64(b*10+w)))
			if err != nil {
				// only all-white bags with an even count, or no balls at all
				is.Equal(b, 0)
				is.Equal(w%2, 0)
				continue
			}
			is.NoErr(sim.Run(context.Background()))
			for _, r := range sim.Results() {
				is.True(r == bag.Black || r == bag.White)
			}
			tally := sim.Tally()
			is.Equal(tally[bag.Black]+tally[bag.White]+sim.Exhausted(), 50)
		}
	}
}

func TestOnlyBlack(t *testing.T) {
	is := is.New(t)
	for _, b := range []int{1, 2, 5, 25} {
		sim := runSim(t, 100, b, 0, 7)
		is.Equal(sim.Tally()[bag.Black], 100)
		is.Equal(sim.Exhausted(), 0)
	}
}

func TestOnlyWhiteOdd(t *testing.T) {
	is := is.New(t)
	for _, w := range []int{1, 3, 25} {
		sim := runSim(t, 100, 0, w, 7)
		is.Equal(sim.Tally()[bag.White], 100)
	}
}

func TestOddWhitesAlwaysLeaveWhite(t *testing.T) {
	is := is.New(t)
	// The number of whites only ever drops by two, so an odd count can
	// never reach zero.
	sim := runSim(t, 1000, 25, 25, 0x7AFEBABEF00DBADA)
	tally := sim.Tally()
	is.Equal(tally[bag.White], 1000)
	is.Equal(tally[bag.Black], 0)
	is.Equal(len(sim.Results()), sim.Iterations())
}

func TestEvenWhitesNeverLeaveWhite(t *testing.T) {
	is := is.New(t)
	sim := runSim(t, 500, 25, 24, 99)
	tally := sim.Tally()
	is.Equal(tally[bag.White], 0)
	is.Equal(tally[bag.Black]+sim.Exhausted(), 500)
}

func TestSmallBagProportions(t *testing.T) {
	is := is.New(t)
	// From {B, W, W}: a white-white draw (1 in 3) leaves the black; a mixed
	// draw leaves two whites, which are then thrown away.
	const iters = 3000
	sim := runSim(t, iters, 1, 2, 12345)
	black := float64(sim.Tally()[bag.Black]) / iters
	is.True(black > 0.28 && black < 0.39)
	is.Equal(sim.Tally()[bag.Black]+sim.Exhausted(), iters)
}

func TestSameSeedSameResults(t *testing.T) {
	is := is.New(t)
	a := runSim(t, 200, 1, 2, 42)
	b := runSim(t, 200, 1, 2, 42)
	is.Equal(a.Results(), b.Results())
	is.Equal(a.Exhausted(), b.Exhausted())
}

func TestReport(t *testing.T) {
	is := is.New(t)
	sim := runSim(t, 1000, 25, 25, 3)
	var buf bytes.Buffer
	is.NoErr(sim.Report(&buf))
	is.Equal(buf.String(), "BLACK: 0.00% [0/1000]\nWHITE: 100.00% [1000/1000]\n")
}

func TestReportWithExhaustedTrials(t *testing.T) {
	is := is.New(t)
	sim := runSim(t, 400, 1, 2, 5)
	var buf bytes.Buffer
	is.NoErr(sim.Report(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	is.Equal(len(lines), 3)
	is.True(strings.HasPrefix(lines[0], "BLACK: "))
	is.Equal(lines[1], "WHITE: 0.00% [0/400]")
	is.True(strings.HasPrefix(lines[2], "EMPTY: "))
	is.True(strings.HasSuffix(lines[2], "/400]"))
}

func TestRoundLimit(t *testing.T) {
	is := is.New(t)
	sim, err := NewSimulation(10, 25, 25, seeded(1))
	is.NoErr(err)
	sim.SetMaxRounds(1)
	err = sim.Run(context.Background())
	is.True(errors.Is(err, ErrRoundLimit))
}

func TestRunCanceled(t *testing.T) {
	is := is.New(t)
	sim, err := NewSimulation(10, 25, 25, seeded(1))
	is.NoErr(err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = sim.Run(ctx)
	is.True(errors.Is(err, context.Canceled))
}

func TestRoundStats(t *testing.T) {
	is := is.New(t)
	// A single white ball is always drawn on the first round.
	sim := runSim(t, 20, 0, 1, 1)
	rs := sim.RoundStats()
	is.Equal(rs.Iterations(), 20)
	is.Equal(rs.Mean(), 1.0)

	// With two blacks, the bag is settled before anything is drawn.
	sim = runSim(t, 20, 2, 0, 1)
	rs = sim.RoundStats()
	is.Equal(rs.Mean(), 0.0)
}

func TestDebugSummaryLogged(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	ctx := logger.WithContext(context.Background())

	sim, err := NewSimulation(100, 3, 3, seeded(8))
	is.NoErr(err)
	is.NoErr(sim.Run(ctx))
	out := buf.String()
	is.True(strings.Contains(out, `"message":"sim-ended"`))
	is.True(strings.Contains(out, `"color":"BLACK"`))
	is.True(strings.Contains(out, `"message":"draws-per-trial"`))
}
