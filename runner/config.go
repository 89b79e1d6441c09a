package runner

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/atn34/simfuzz/simulator"
	"github.com/atn34/simfuzz/workload"
)

// Config shapes a sweep. LoadConfig starts from DefaultConfig, so fields a
// YAML file leaves out keep their default values.
type Config struct {
	// "in-order" or "random-order".
	Strategy string `yaml:"strategy"`

	StartSeed int64 `yaml:"start_seed"`
	// Number of seeds to sweep; 0 loops forever.
	MaxSeeds int64 `yaml:"max_seeds"`

	Elements            int32   `yaml:"elements"`
	Clients             int     `yaml:"clients"`
	MeanIntervalSeconds float64 `yaml:"mean_interval_seconds"`
	CheckOneIn          int32   `yaml:"check_one_in"`
	StopAfterSeconds    float64 `yaml:"stop_after_seconds"`

	// Wall-clock seconds between progress reports and metric flushes;
	// 0 disables progress reporting.
	ReportIntervalSeconds int `yaml:"report_interval_seconds"`

	// When set, each seed runs under a recording oracle and the replay
	// bytes of a crashing run are written here before the abort.
	ArtifactDir string `yaml:"artifact_dir"`
}

// DefaultConfig is the demonstration sweep: random order over the standard
// workload, forever.
func DefaultConfig() Config {
	return Config{
		Strategy:              "random-order",
		Elements:              1000,
		Clients:               5,
		MeanIntervalSeconds:   1,
		CheckOneIn:            100,
		StopAfterSeconds:      100,
		ReportIntervalSeconds: 10,
	}
}

// LoadConfig reads a YAML file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("runner: parse %v: %w", path, err)
	}
	return cfg, nil
}

// SchedulingStrategy resolves the strategy name.
func (c Config) SchedulingStrategy() (simulator.SchedulingStrategy, error) {
	switch c.Strategy {
	case "in-order":
		return simulator.InOrder, nil
	case "random-order", "":
		return simulator.RandomOrder, nil
	}
	return 0, fmt.Errorf("runner: unknown strategy %q", c.Strategy)
}

// Workload extracts the per-simulation parameters.
func (c Config) Workload() workload.Config {
	return workload.Config{
		Elements:         c.Elements,
		Clients:          c.Clients,
		MeanInterval:     c.MeanIntervalSeconds,
		CheckOneIn:       c.CheckOneIn,
		StopAfterSeconds: c.StopAfterSeconds,
	}
}
