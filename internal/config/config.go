// Package config provides configuration structures and loading logic for TraceLens.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root configuration for both TraceLens binaries.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Collector     CollectorConfig     `mapstructure:"collector"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Baseline      BaselineConfig      `mapstructure:"baseline"`
}

// ServerConfig holds the query server's HTTP listen settings.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// CollectorConfig holds the OTLP gRPC collector's listen settings.
type CollectorConfig struct {
	ListenAddress string `mapstructure:"listen_address"`
}

// ElasticsearchConfig holds span store connection settings.
type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
}

// CacheConfig sizes the in-process trace span cache.
type CacheConfig struct {
	NumCounters int64 `mapstructure:"num_counters"`
	MaxCost     int64 `mapstructure:"max_cost"`
	BufferItems int64 `mapstructure:"buffer_items"`
}

// BaselineConfig tunes the online latency baseline fed by timeline analyses.
type BaselineConfig struct {
	SensitivitySigma float64 `mapstructure:"sensitivity_sigma"`
}

func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads configuration from an optional YAML file and TRACELENS_*
// environment variables, falling back to defaults for anything unset.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("TRACELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8081)
	v.SetDefault("collector.listen_address", ":4317")
	v.SetDefault("elasticsearch.addresses", []string{"http://localhost:9200"})
	v.SetDefault("cache.num_counters", (1<<20)*10)
	v.SetDefault("cache.max_cost", 1<<20)
	v.SetDefault("cache.buffer_items", 64)
	v.SetDefault("baseline.sensitivity_sigma", 3.0)
}
