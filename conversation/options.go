package conversation

import "log/slog"

// DefaultMaxRounds bounds the number of requests a single Run makes.
const DefaultMaxRounds = 10

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// MaxRounds sets how many requests one Run may send to the model. Values below 1
// are ignored.
func MaxRounds(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxRounds = n
		}
	}
}

// Parallelism sets how many tool calls of one round may execute at the same time.
// The default of 1 runs them one after the other. Outputs are appended in call
// order either way.
func Parallelism(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.parallelism = n
		}
	}
}

// Logger sets the logger, slog.Default() is used otherwise.
func Logger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}
