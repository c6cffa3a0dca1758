package appconf

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of the API server.
type Config struct {
	Port      int
	Env       Environment
	ApiKeys   []string
	RateLimit int // requests per second per API key
}

// FileConfig is the optional YAML configuration file. Zero values mean "not set".
type FileConfig struct {
	Server  ServerConfig  `yaml:"server"`
	GTFS    GTFSConfig    `yaml:"gtfs"`
	Planner PlannerConfig `yaml:"planner"`
}

type ServerConfig struct {
	Port      int      `yaml:"port" validate:"gte=0,lte=65535"`
	Env       string   `yaml:"env" validate:"omitempty,oneof=development test production"`
	ApiKeys   []string `yaml:"apiKeys" validate:"dive,required"`
	RateLimit int      `yaml:"rateLimit" validate:"gte=0"`
}

type GTFSConfig struct {
	StaticURL      string        `yaml:"staticURL"`
	DataPath       string        `yaml:"dataPath"`
	ReloadInterval time.Duration `yaml:"reloadInterval" validate:"gte=0"`
}

type PlannerConfig struct {
	CandidateCount int           `yaml:"candidateCount" validate:"gte=0,lte=100"`
	Workers        int           `yaml:"workers" validate:"gte=0"`
	CacheSize      int           `yaml:"cacheSize" validate:"gte=0"`
	CacheTTL       time.Duration `yaml:"cacheTTL" validate:"gte=0"`
}

// LoadFile reads and validates a YAML configuration file.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}
