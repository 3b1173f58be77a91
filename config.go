package cbmark

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/graemedouglas/cbmark/internal/clock"
)

// Clock is the timing facility a Timer reads. See the aliased types for the
// reading formats.
type Clock = clock.Source

// Timespec, Timeval and Usage are the readings returned by a Clock.
type (
	Timespec = clock.Timespec
	Timeval  = clock.Timeval
	Usage    = clock.Usage
)

// Config holds the configuration for a Timer.
type Config struct {
	policy Policy
	clock  Clock
	out    io.Writer
	logger zerolog.Logger
}

// Option is a functional option for configuring a Timer.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() *Config {
	return &Config{
		policy: MaxOrderOfMagnitude,
		clock:  clock.Default(),
		out:    os.Stdout,
		logger: zerolog.Nop(),
	}
}

// WithPolicy sets the aggregation policy used by Resolution.
// Default is MaxOrderOfMagnitude.
func WithPolicy(p Policy) Option {
	return func(c *Config) {
		c.policy = p
	}
}

// WithClock replaces the platform clock.
func WithClock(src Clock) Option {
	return func(c *Config) {
		c.clock = src
	}
}

// WithOutput sets the sink Print writes to. Default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(c *Config) {
		c.out = w
	}
}

// WithLogger sets the logger for diagnostics. Default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) {
		c.logger = l
	}
}
