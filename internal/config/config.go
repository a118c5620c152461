// Package config holds process-external configuration: the OCR
// provider credentials and conversion defaults. Configuration is read
// at startup and written back on change through a Provider, never
// through global state.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/halvar/go-ocrbundle/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
)

// Config holds persisted settings.
type Config struct {
	APIKey   string `yaml:"apiKey"`   // OCR provider credential
	BaseURL  string `yaml:"baseURL"`  // provider endpoint override (empty = default)
	Language string `yaml:"language"` // EPUB dc:language (empty = "en")
	Creator  string `yaml:"creator"`  // EPUB dc:creator
}

// Provider abstracts configuration storage so the pipeline never reads
// global state directly.
type Provider interface {
	Load() (Config, error)
	Save(Config) error
}

// FileProvider stores configuration as a YAML file.
type FileProvider struct {
	path string
}

// NewFileProvider creates a provider backed by the given path. An empty
// path resolves to the default location under the user config dir.
func NewFileProvider(path string) (*FileProvider, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolving config dir: %w", err)
		}
		path = filepath.Join(dir, "ocrbundle", "config.yaml")
	}
	return &FileProvider{path: path}, nil
}

// Path returns the backing file path.
func (p *FileProvider) Path() string {
	return p.path
}

// Load reads the config file. A missing file yields ErrConfigNotFound;
// callers treat that as an empty config, not a failure.
func (p *FileProvider) Load() (Config, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, p.path)
		}
		return Config{}, fmt.Errorf("reading config %s: %w", p.path, err)
	}

	var cfg Config
	if err := yamlutil.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return cfg, nil
}

// Save writes the config file, creating parent directories as needed.
// The file is written 0600 since it carries a credential.
func (p *FileProvider) Save(cfg Config) error {
	data, err := yamlutil.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", p.path, err)
	}
	return nil
}

// Compile-time interface check.
var _ Provider = (*FileProvider)(nil)
