// File: dispatcher/config.go
// Author: momentics <momentics@gmail.com>
//
// Immutable-at-construction dispatcher configuration, validated once in New.

package dispatcher

import "time"

// Config holds parameters that shape a Dispatcher for its entire lifetime.
// Poll timeout and max reads per worker may still be hot-reloaded afterwards
// through Control().SetTuning; Config only supplies their initial values.
type Config struct {
	WorkerCount       int           // number of worker goroutines, >= 1
	PollTimeout       time.Duration // bounds a single multiplexed wait
	MaxReadsPerWorker int           // read-burst cap per Readable task, >= 1
}

// DefaultConfig returns sane defaults for typical embedders.
func DefaultConfig() Config {
	return Config{
		WorkerCount:       4,
		PollTimeout:       50 * time.Millisecond,
		MaxReadsPerWorker: 16,
	}
}

func (c Config) validate() error {
	if c.WorkerCount < 1 {
		return &ConfigurationError{Reason: "worker_count must be >= 1"}
	}
	if c.PollTimeout <= 0 {
		return &ConfigurationError{Reason: "poll_timeout must be > 0"}
	}
	if c.MaxReadsPerWorker < 1 {
		return &ConfigurationError{Reason: "max_reads_per_worker must be >= 1"}
	}
	return nil
}
