// Package config loads the server configuration from a YAML file.
//
// Every field has a default; a missing file or an empty document yields a
// fully usable configuration. Example:
//
//	server:
//	  host: 127.0.0.1
//	  port: 8081
//	data:
//	  path: ./ledger
//	  main_file: main.bean
//	  watch_enable: true
//	display:
//	  default_time_range: month
//	  records_per_page: 50
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	Server  Server  `yaml:"server"`
	Data    Data    `yaml:"data"`
	Display Display `yaml:"display"`
}

// Server configures the HTTP listener.
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Data locates the ledger tree and controls live reloading.
type Data struct {
	Path        string `yaml:"path"`
	MainFile    string `yaml:"main_file"`
	WatchEnable bool   `yaml:"watch_enable"`
}

// Display holds presentation defaults for the query surface.
type Display struct {
	DefaultTimeRange string `yaml:"default_time_range"`
	RecordsPerPage   int    `yaml:"records_per_page"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: Server{
			Host: "0.0.0.0",
			Port: 8081,
		},
		Data: Data{
			Path:        ".",
			MainFile:    "main.bean",
			WatchEnable: true,
		},
		Display: Display{
			DefaultTimeRange: "month",
			RecordsPerPage:   50,
		},
	}
}

// Load reads a YAML configuration file over the defaults. Fields the file
// omits keep their default values. A missing file is not an error; a file
// that exists but fails to parse is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if cfg.Display.RecordsPerPage <= 0 {
		cfg.Display.RecordsPerPage = Default().Display.RecordsPerPage
	}

	return cfg, nil
}

// MainFilePath joins the data directory and the entry file name.
func (c *Config) MainFilePath() string {
	return filepath.Join(c.Data.Path, c.Data.MainFile)
}

// Addr renders the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
