package indexer

import (
	"os"
	"runtime"

	"github.com/cockroachdb/errors"
	"gopkg.in/inconshreveable/log15.v2"
	"gopkg.in/yaml.v3"
)

// Config holds index parameters.
type Config struct {
	PreferredWeight float64 `yaml:"preferred_weight"` // weight of the preferred point in the cut reference, default 2
	DeclinedWeight  float64 `yaml:"declined_weight"`  // weight of the declined point in the cut reference, default 3
	ClusterFloor    float64 `yaml:"cluster_floor"`    // KNC drops nodes lighter than ClusterFloor*m, default 0.5
	MaxIterations   int     `yaml:"max_iterations"`   // Converge comparison budget, default 64
	MaxRedraws      int     `yaml:"max_redraws"`      // RandomPair redraws before giving up, default 32
	Eagerness       int     `yaml:"eagerness"`        // split core depth, default 4
	Frequency       int     `yaml:"frequency"`        // split basket depth interval, default 2
	SplitRounds     int     `yaml:"split_rounds"`     // 2-means rounds per Build split, default 8
	SearchWorkers   int     `yaml:"search_workers"`   // KNNBatch workers, default NumCPU
	PersistPath     string  `yaml:"persist_path"`     // non-empty and file exists: Open loads it (mmap, read-only points)

	Logger  log15.Logger `yaml:"-"` // discards by default
	Metrics *Metrics     `yaml:"-"` // nil disables metrics
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		PreferredWeight: 2,
		DeclinedWeight:  3,
		ClusterFloor:    0.5,
		MaxIterations:   64,
		MaxRedraws:      32,
		Eagerness:       4,
		Frequency:       2,
		SplitRounds:     8,
		SearchWorkers:   runtime.NumCPU(),
		Logger:          discardLogger(),
	}
}

// OrDefault returns DefaultConfig if c is nil, otherwise normalizes c.
func (c *Config) OrDefault() *Config {
	if c == nil {
		return DefaultConfig()
	}
	if c.PreferredWeight <= 0 {
		c.PreferredWeight = 2
	}
	if c.DeclinedWeight <= 0 {
		c.DeclinedWeight = 3
	}
	if c.ClusterFloor <= 0 || c.ClusterFloor > 1 {
		c.ClusterFloor = 0.5
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = 64
	}
	if c.MaxRedraws <= 0 {
		c.MaxRedraws = 32
	}
	if c.Eagerness <= 0 {
		c.Eagerness = 4
	}
	if c.Frequency <= 0 {
		c.Frequency = 2
	}
	if c.SplitRounds <= 0 {
		c.SplitRounds = 8
	}
	if c.SearchWorkers <= 0 {
		c.SearchWorkers = runtime.NumCPU()
	}
	if c.Logger == nil {
		c.Logger = discardLogger()
	}
	return c
}

// ParseConfig decodes a YAML document over DefaultConfig.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	return cfg.OrDefault(), nil
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	return ParseConfig(data)
}

func discardLogger() log15.Logger {
	l := log15.New()
	l.SetHandler(log15.DiscardHandler())
	return l
}
