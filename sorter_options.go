package splitsort

import (
	"runtime"

	"github.com/sirupsen/logrus"
)

const (
	// defaultGrowthFactor oversizes each arena relative to the expected
	// partition population so a mildly skewed partition fits in one region.
	defaultGrowthFactor = 1.25

	// defaultPartitions bounds the partition count when the caller does not
	// choose one. Far more partitions than threads keeps lock contention
	// rare during the insert phase.
	defaultPartitions = 64

	// defaultSamplesPerPartition sets the sample budget per partition when
	// the caller does not choose one.
	defaultSamplesPerPartition = 16
)

// Option configures a Sorter.
type Option func(*config)

type config struct {
	threads     int
	samples     int
	partitions  int
	arenaPrefix string
	factor      float64
	logger      logrus.FieldLogger
}

func defaultConfig() *config {
	return &config{
		threads: runtime.NumCPU(),
		factor:  defaultGrowthFactor,
		logger:  logrus.StandardLogger(),
	}
}

// WithThreads sets the worker count for every parallel phase.
// Defaults to the hardware concurrency.
func WithThreads(n int) Option {
	return func(c *config) {
		c.threads = n
	}
}

// WithSamples sets how many records the systematic sampler takes.
// Must be at least the partition count and at most the record count.
func WithSamples(n int) Option {
	return func(c *config) {
		c.samples = n
	}
}

// WithPartitions sets the number of key-range buckets.
func WithPartitions(n int) Option {
	return func(c *config) {
		c.partitions = n
	}
}

// WithArenaPrefix sets the path prefix for per-partition arena files.
// Arena i of partition p is created at <prefix>_<p>_<i>. Defaults to the
// input path with a ".pool" suffix.
func WithArenaPrefix(prefix string) Option {
	return func(c *config) {
		c.arenaPrefix = prefix
	}
}

// WithGrowthFactor sets the arena oversizing factor: each arena holds
// ceil(expectedPartitionRecords * factor) node slots. Must be >= 1.0.
func WithGrowthFactor(f float64) Option {
	return func(c *config) {
		c.factor = f
	}
}

// WithLogger sets the logger used for phase progress and warnings.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) {
		c.logger = l
	}
}
