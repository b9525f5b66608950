package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server        ServerConfig       `yaml:"server"`
	Backend       BackendConfig      `yaml:"backend"`
	Notifications NotificationConfig `yaml:"notifications"`
	LogBufferSize int                `yaml:"log_buffer_size"`

	// ConfigPath is the path to the config file (not serialized)
	ConfigPath string `yaml:"-"`
}

// ServerConfig represents the local UI server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// BackendConfig represents the print backend connection configuration
type BackendConfig struct {
	Endpoint string `yaml:"endpoint"`

	// Poll cadence. JobsTimeout bounds a single jobs poll and must not
	// exceed JobsInterval, or in-flight polls could pile up.
	StatusInterval time.Duration `yaml:"status_interval"`
	JobsInterval   time.Duration `yaml:"jobs_interval"`
	JobsTimeout    time.Duration `yaml:"jobs_timeout"`

	// RequestTimeout applies to all other backend calls.
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// NotificationConfig controls the notification queue
type NotificationConfig struct {
	VisibleFor time.Duration `yaml:"visible_for"`
	ExitDelay  time.Duration `yaml:"exit_delay"`

	// MaxVisible bounds the visible queue. Zero means unbounded, which
	// matches the historical behavior; set a positive value to drop the
	// oldest entry when the queue is full.
	MaxVisible int `yaml:"max_visible"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8090,
			Host: "127.0.0.1",
		},
		Backend: BackendConfig{
			Endpoint:       "http://localhost:5000/api",
			StatusInterval: 10 * time.Second,
			JobsInterval:   5 * time.Second,
			JobsTimeout:    5 * time.Second,
			RequestTimeout: 15 * time.Second,
		},
		Notifications: NotificationConfig{
			VisibleFor: 3 * time.Second,
			ExitDelay:  300 * time.Millisecond,
			MaxVisible: 0,
		},
		LogBufferSize: 500,
	}
}

// Load loads configuration from the config file
func Load() (*Config, error) {
	// Try to find config file in common locations
	configPaths := []string{
		"config.yaml",
		"configs/config.yaml",
		"/etc/printclient/config.yaml",
	}

	var data []byte
	var err error
	var loadedPath string

	for _, path := range configPaths {
		data, err = os.ReadFile(path)
		if err == nil {
			loadedPath = path
			break
		}
	}

	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.ConfigPath = loadedPath
	return cfg, cfg.Validate()
}

// Validate checks cross-field constraints
func (c *Config) Validate() error {
	if c.Backend.Endpoint == "" {
		return fmt.Errorf("backend endpoint must be set")
	}
	if c.Backend.JobsTimeout > c.Backend.JobsInterval {
		return fmt.Errorf("jobs_timeout (%v) must not exceed jobs_interval (%v)",
			c.Backend.JobsTimeout, c.Backend.JobsInterval)
	}
	if c.Notifications.MaxVisible < 0 {
		return fmt.Errorf("max_visible must not be negative")
	}
	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
