package bench

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config describes one benchmark run. The struct tags are read by envconfig,
// so every field can be set from a FLATBENCH_* environment variable.
type Config struct {
	Size       int      `envconfig:"SIZE" default:"10000"`
	Ops        int      `envconfig:"OPS" default:"100000"`
	Seed       uint64   `envconfig:"SEED" default:"1"`
	Workers    int      `envconfig:"WORKERS" default:"4"`
	Containers []string `envconfig:"CONTAINERS" default:"flat,frozen,tree"`
	Format     Format   `envconfig:"FORMAT" default:"text"`
	LogLevel   string   `envconfig:"LOG_LEVEL" default:"info"`
	LogJSON    bool     `envconfig:"LOG_JSON" default:"false"`
	LogOutput  string   `envconfig:"LOG_OUTPUT" default:"stderr"`
	NoBanner   bool     `envconfig:"NO_BANNER" default:"false"`
	Quiet      bool     `envconfig:"QUIET" default:"false"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Size:       10_000,
		Ops:        100_000,
		Seed:       1,
		Workers:    4,
		Containers: []string{ContainerFlat, ContainerFrozen, ContainerTree},
		Format:     FormatText,
		LogLevel:   "info",
		LogOutput:  "stderr",
	}
}

// Normalize rewrites container and format names into their canonical
// lowercase form, dropping duplicate containers. It fails on names that are
// not known at all.
func (c *Config) Normalize() error {
	containers, err := ParseContainers(strings.Join(c.Containers, ","))
	if err != nil {
		return err
	}

	format, err := ParseFormat(string(c.Format))
	if err != nil {
		return err
	}

	c.Containers = containers
	c.Format = format

	return nil
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var errs []error

	if c.Size <= 0 {
		errs = append(errs, fmt.Errorf("%w: size must be positive, got %d", ErrInvalidConfig, c.Size))
	}

	if c.Ops <= 0 {
		errs = append(errs, fmt.Errorf("%w: ops must be positive, got %d", ErrInvalidConfig, c.Ops))
	}

	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers))
	}

	if len(c.Containers) == 0 {
		errs = append(errs, fmt.Errorf("%w: no containers selected", ErrInvalidConfig))
	}

	for _, name := range c.Containers {
		if _, ok := builders[name]; !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownContainer, name))
		}
	}

	if _, err := ParseFormat(string(c.Format)); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
