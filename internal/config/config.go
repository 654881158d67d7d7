// Package config handles gosurf configuration loading and management.
package config

import (
	"fmt"
	"time"

	"go.uber.org/zap/zapcore"
)

// Config holds all gosurf settings.
type Config struct {
	Logging     LoggingConfig     `yaml:"logging"`
	Query       QueryConfig       `yaml:"query"`
	Watch       WatchConfig       `yaml:"watch"`
	Deformation DeformationConfig `yaml:"deformation"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// QueryConfig holds closest point query settings.
type QueryConfig struct {
	UseIndex         bool `yaml:"use_index"`
	RTreeMinChildren int  `yaml:"rtree_min_children"`
	RTreeMaxChildren int  `yaml:"rtree_max_children"`
}

// WatchConfig holds file watching settings.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// DeformationConfig holds deformation report settings.
type DeformationConfig struct {
	Top int `yaml:"top"` // most displaced vertices to list
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Query: QueryConfig{
			UseIndex:         true,
			RTreeMinChildren: 2,
			RTreeMaxChildren: 8,
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
		Deformation: DeformationConfig{
			Top: 10,
		},
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.Query.RTreeMinChildren < 1 {
		return fmt.Errorf("query.rtree_min_children must be positive, got %d", c.Query.RTreeMinChildren)
	}
	if c.Query.RTreeMinChildren > c.Query.RTreeMaxChildren/2 {
		return fmt.Errorf("query.rtree_min_children %d must be at most half of query.rtree_max_children %d",
			c.Query.RTreeMinChildren, c.Query.RTreeMaxChildren)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %v", c.Watch.Debounce)
	}
	if c.Deformation.Top < 0 {
		return fmt.Errorf("deformation.top must not be negative, got %d", c.Deformation.Top)
	}
	return nil
}
