package config

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigIterations = "iterations"
	ConfigBlack      = "black"
	ConfigWhite      = "white"
	ConfigSeed       = "seed"
	ConfigMaxRounds  = "max-rounds"
	ConfigDebug      = "debug"
)

const (
	DefaultIterations = 1000
	DefaultBlack      = 25
	DefaultWhite      = 25
	DefaultMaxRounds  = 1_000_000
)

// Config wraps a viper instance. Settings come only from defaults and
// command-line flags.
type Config struct {
	*viper.Viper
}

func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigIterations, DefaultIterations)
	c.SetDefault(ConfigBlack, DefaultBlack)
	c.SetDefault(ConfigWhite, DefaultWhite)
	c.SetDefault(ConfigSeed, uint64(0))
	c.SetDefault(ConfigMaxRounds, DefaultMaxRounds)
	c.SetDefault(ConfigDebug, false)
}

// Load parses the command-line arguments into the config.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	c.setDefaults()

	fs := pflag.NewFlagSet("spheres", pflag.ContinueOnError)
	fs.Int(ConfigIterations, DefaultIterations, "number of trials to run")
	fs.Int(ConfigBlack, DefaultBlack, "black balls in the bag at the start of each trial")
	fs.Int(ConfigWhite, DefaultWhite, "white balls in the bag at the start of each trial")
	fs.Uint64(ConfigSeed, 0, "random seed; 0 picks one at random")
	fs.Int(ConfigMaxRounds, DefaultMaxRounds, "maximum draws allowed in a single trial")
	fs.Bool(ConfigDebug, false, "debug logging on")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return c.BindPFlags(fs)
}

// SanitizedSettings returns all settings, for logging.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
