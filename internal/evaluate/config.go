package evaluate

import (
	"github.com/Priyanshi1908/openQA.ai/internal/apperr"
)

type Schedule string

const (
	// Sequential evaluates one pair fully before starting the next.
	Sequential Schedule = "sequential"
	// Parallel evaluates up to Workers pairs at once and releases rows in pair order.
	Parallel Schedule = "parallel"
)

const DefaultWorkers = 4

type Config struct {
	Schedule Schedule
	Workers  int
}

func DefaultConfig() Config {
	return Config{
		Schedule: Sequential,
		Workers:  DefaultWorkers,
	}
}

func (c Config) Validate() error {
	switch c.Schedule {
	case Sequential:
		return nil
	case Parallel:
		if c.Workers <= 0 {
			return apperr.NewConfigf("parallel schedule needs a positive worker count, got %d", c.Workers)
		}
		return nil
	default:
		return apperr.NewConfigf("unknown schedule %q", c.Schedule)
	}
}
