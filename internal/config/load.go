package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads, parses, normalizes, and validates a config file. Relative
// questions and archive paths are resolved against the file's directory.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, err
	}
	ResolvePaths(&cfg, filepath.Dir(path))
	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes a single YAML document and applies defaults.
func Parse(data []byte) (Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("parse config: empty document")
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	var extra any
	if err := decoder.Decode(&extra); err != io.EOF {
		if err == nil {
			return Config{}, fmt.Errorf("parse config: multiple documents are not supported")
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	Normalize(&cfg)
	return cfg, nil
}

// ResolvePaths makes relative file references absolute against baseDir.
func ResolvePaths(cfg *Config, baseDir string) {
	cfg.Questions = resolvePath(baseDir, cfg.Questions)
	cfg.Archive.Path = resolvePath(baseDir, cfg.Archive.Path)
}

func resolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}
