package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/spheres/config"
	"github.com/domino14/spheres/montecarlo"
)

func newLogger(debug bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	return zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
}

// newSimulation builds a simulation from the config. A zero seed means a
// random one.
func newSimulation(cfg *config.Config) (*montecarlo.Simulation, uint64, error) {
	seed := cfg.GetUint64(config.ConfigSeed)
	if seed == 0 {
		seed = frand.Uint64n(1<<63) + 1
	}
	sim, err := montecarlo.NewSimulation(
		cfg.GetInt(config.ConfigIterations),
		cfg.GetInt(config.ConfigBlack),
		cfg.GetInt(config.ConfigWhite),
		rand.New(rand.NewPCG(seed, 0)))
	if err != nil {
		return nil, seed, err
	}
	sim.SetMaxRounds(cfg.GetInt(config.ConfigMaxRounds))
	return sim, seed, nil
}

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := newLogger(cfg.GetBool(config.ConfigDebug))
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	log.Debug().Interface("config", cfg.SanitizedSettings()).Msg("loaded config")

	sim, seed, err := newSimulation(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("bad configuration")
	}
	log.Debug().Uint64("seed", seed).Msg("seeded")

	ctx := logger.WithContext(context.Background())
	if err := sim.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("simulation failed")
	}
	if err := sim.Report(os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("could not write results")
	}
}
