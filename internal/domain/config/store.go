package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/plm/internal/ports"
)

// Format is a config file encoding.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf picks the encoding from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", NewUserError(ErrCodeUnsupportedFormat, "unsupported config file extension").
			WithContext(path).
			WithSuggestion("use a .yaml, .yml or .toml file")
	}
}

// Store reads and writes the config file through the filesystem port.
type Store struct {
	fs ports.FileSystem
}

// NewStore creates a Store.
func NewStore(fs ports.FileSystem) *Store {
	return &Store{fs: fs}
}

// Load reads path. A missing file yields Default.
func (s *Store) Load(path string) (*Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if !s.fs.Exists(path) {
		return Default(), nil
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, NewUserError(ErrCodeConfigParse, "failed to read config").WithContext(path).WithUnderlying(err)
	}

	cfg := &Config{}
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, cfg)
	case FormatTOML:
		err = toml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, NewUserError(ErrCodeConfigParse, "failed to parse config").
			WithContext(path).
			WithUnderlying(err).
			WithSuggestion(fmt.Sprintf("check the %s syntax", format))
	}

	if cfg.Targets == nil {
		cfg.Targets = append([]string(nil), DefaultTargets...)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path atomically: the content goes to a temporary
// sibling that is then renamed over path.
func (s *Store) Save(path string, cfg *Config) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	cfg.normalize()

	var data []byte
	switch format {
	case FormatYAML:
		data, err = yaml.Marshal(cfg)
	case FormatTOML:
		data, err = toml.Marshal(cfg)
	}
	if err != nil {
		return NewUserError(ErrCodeConfigWrite, "failed to encode config").WithUnderlying(err)
	}

	dir := filepath.Dir(path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return NewUserError(ErrCodeConfigWrite, "failed to create config directory").WithContext(dir).WithUnderlying(err)
	}
	tmp := filepath.Join(dir, "."+filepath.Base(path)+".tmp-"+uuid.NewString())
	if err := s.fs.WriteFile(tmp, data, 0o644); err != nil {
		return NewUserError(ErrCodeConfigWrite, "failed to write config").WithContext(path).WithUnderlying(err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return NewUserError(ErrCodeConfigWrite, "failed to replace config").WithContext(path).WithUnderlying(err)
	}
	return nil
}
