// Package config loads the optional .ampyctl YAML file and applies
// AMPYCTL_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up from the working directory upward.
const FileName = ".ampyctl"

// Defaults.
const (
	DefaultExecutable  = "ampy"
	DefaultPort        = 1
	DefaultHistorySize = 16
)

// Environment variables that override the file.
const (
	EnvPort       = "AMPYCTL_PORT"
	EnvExecutable = "AMPYCTL_EXECUTABLE"
)

// Config holds the parsed .ampyctl configuration.
// All fields are optional; zero values represent defaults.
type Config struct {
	Version        int    `yaml:"version"`
	RawPort        *int   `yaml:"port"`         // serial port number, COM<port>
	RawExecutable  string `yaml:"executable"`   // ampy binary name or path
	MaxOutput      int    `yaml:"max_output"`   // per-stream capture cap in bytes; 0 = unlimited
	RawHistorySize int    `yaml:"history_size"` // captured runs kept in memory
	Dir            string `yaml:"dir"`          // working directory for ampy; relative to the config file
	HistoryDir     string `yaml:"history_dir"`  // where captured runs are written; empty = temp dir
}

// Port returns the configured port or the default.
func (c *Config) Port() int {
	if c.RawPort != nil {
		return *c.RawPort
	}
	return DefaultPort
}

// Executable returns the configured ampy binary or the default.
func (c *Config) Executable() string {
	if c.RawExecutable != "" {
		return c.RawExecutable
	}
	return DefaultExecutable
}

// HistorySize returns the configured in-memory history capacity or the default.
func (c *Config) HistorySize() int {
	if c.RawHistorySize > 0 {
		return c.RawHistorySize
	}
	return DefaultHistorySize
}

// LoadResult holds the parsed config and where it came from.
type LoadResult struct {
	Config *Config
	Path   string // config file path; empty when none was found
}

// Load reads the nearest .ampyctl file found by walking upward from dir.
// If none exists, a default Config is returned. Environment overrides are
// applied afterwards; see ApplyEnv.
func Load(dir string) (*LoadResult, error) {
	path, err := findConfig(dir)
	if err != nil {
		return &LoadResult{Config: &Config{}}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", FileName, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	base := filepath.Dir(path)
	if cfg.Dir != "" && !filepath.IsAbs(cfg.Dir) {
		cfg.Dir = filepath.Join(base, cfg.Dir)
	}
	if cfg.HistoryDir != "" && !filepath.IsAbs(cfg.HistoryDir) {
		cfg.HistoryDir = filepath.Join(base, cfg.HistoryDir)
	}
	return &LoadResult{Config: cfg, Path: path}, nil
}

// LoadEnv reads KEY=value pairs from a dotenv file into the process
// environment without overwriting variables that are already set.
// A missing file is not an error.
func LoadEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ApplyEnv overrides fields from AMPYCTL_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %s=%q: %w", EnvPort, v, err)
		}
		c.RawPort = &port
	}
	if v := os.Getenv(EnvExecutable); v != "" {
		c.RawExecutable = v
	}
	return nil
}

// findConfig walks upward from dir looking for FileName.
func findConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		path := filepath.Join(dir, FileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%s not found", FileName)
		}
		dir = parent
	}
}
