// Package config loads and validates the searchkit YAML configuration:
// named index definitions with field schemas, delivery settings, content
// paths and logging.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pagecms/searchkit/internal/search"
)

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = "searchkit.yaml"

// Config is the complete searchkit configuration.
type Config struct {
	Version  int            `yaml:"version"`
	Indexes  []IndexConfig  `yaml:"indexes"`
	Delivery DeliveryConfig `yaml:"delivery"`
	Content  ContentConfig  `yaml:"content"`
	Logging  LoggingConfig  `yaml:"logging"`
	Watch    WatchConfig    `yaml:"watch"`
}

// IndexConfig defines one named index and its field schema.
type IndexConfig struct {
	Name   string        `yaml:"name"`
	Path   string        `yaml:"path,omitempty"`
	Fields []FieldConfig `yaml:"fields"`
}

// FieldConfig declares a field name and type. Valid types: string, text,
// string_sortable, number, date.
type FieldConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// DeliveryConfig holds delivery-query settings.
type DeliveryConfig struct {
	// MemberAuthEnabled gates access-restricted content by member identity.
	MemberAuthEnabled bool `yaml:"member_auth_enabled"`
}

// ContentConfig locates the content documents the CLI indexes.
type ContentConfig struct {
	Dir string `yaml:"dir"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// WatchConfig configures the content watcher.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

// Default returns the configuration used when no file is present: a single
// "content" index with a free-text body field.
func Default() *Config {
	return &Config{
		Version: 1,
		Indexes: []IndexConfig{
			{
				Name: "content",
				Fields: []FieldConfig{
					{Name: "title", Type: "text"},
					{Name: "body", Type: "text"},
				},
			},
		},
		Content: ContentConfig{Dir: "content"},
		Logging: LoggingConfig{Level: "info"},
		Watch:   WatchConfig{Debounce: "500ms"},
	}
}

// Load reads configuration from path, falling back to defaults when the
// file does not exist.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultFileName
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks index names, field types and durations.
func (c *Config) Validate() error {
	if len(c.Indexes) == 0 {
		return fmt.Errorf("at least one index must be defined")
	}

	seen := make(map[string]bool, len(c.Indexes))
	for _, idx := range c.Indexes {
		if idx.Name == "" {
			return fmt.Errorf("index with empty name")
		}
		if seen[idx.Name] {
			return fmt.Errorf("duplicate index name %q", idx.Name)
		}
		seen[idx.Name] = true

		for _, field := range idx.Fields {
			if field.Name == "" {
				return fmt.Errorf("index %q: field with empty name", idx.Name)
			}
			if _, ok := search.ParseFieldType(field.Type); !ok {
				return fmt.Errorf("index %q: field %q has unknown type %q", idx.Name, field.Name, field.Type)
			}
		}
	}

	if c.Watch.Debounce != "" {
		if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
			return fmt.Errorf("watch.debounce: %w", err)
		}
	}
	return nil
}

// Schema builds the search schema declared for the named index.
func (c *Config) Schema(indexName string) (search.Schema, bool) {
	for _, idx := range c.Indexes {
		if idx.Name != indexName {
			continue
		}
		fields := make([]search.Field, 0, len(idx.Fields))
		for _, f := range idx.Fields {
			fieldType, _ := search.ParseFieldType(f.Type)
			fields = append(fields, search.Field{Name: f.Name, Type: fieldType})
		}
		return search.NewSchema(fields...), true
	}
	return search.Schema{}, false
}

// DebounceWindow returns the parsed watch debounce duration.
func (c *Config) DebounceWindow() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d <= 0 {
		return 500 * time.Millisecond
	}
	return d
}
