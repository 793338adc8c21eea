package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath = "REPOSTORE_CONFIG"
	EnvAPIBase    = "REPOSTORE_API_BASE"

	schemaURL = "config.schema.json"
)

//go:embed schema/config.schema.json
var schemaJSON []byte

// Config is the optional repostore configuration file.
type Config struct {
	APIBase     string            `yaml:"apiBase"`
	DeviceABIs  []string          `yaml:"deviceAbis"`
	DestDir     string            `yaml:"destDir"`
	LogLevel    string            `yaml:"logLevel"`
	MinisignKey string            `yaml:"minisignKey"`
	Installed   map[string]string `yaml:"installed"`
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("parse embedded config schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add config schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile config schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// PathFromEnv returns the config path named by REPOSTORE_CONFIG, if any.
func PathFromEnv() string {
	return strings.TrimSpace(os.Getenv(EnvConfigPath))
}

// Load reads, validates and decodes the YAML file at path. An empty path
// yields an empty Config.
func Load(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}
	// #nosec G304 -- path user supplied config
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse validates and decodes YAML config data.
func Parse(data []byte) (*Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return &Config{}, nil
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := Validate(raw); err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks a decoded YAML document against the embedded schema.
func Validate(doc any) error {
	sch, err := compiledSchema()
	if err != nil {
		return err
	}
	// Round-trip through JSON so YAML scalars take JSON types.
	encoded, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// InstalledVersion returns the configured installed version of repo.
func (c *Config) InstalledVersion(repo string) string {
	for k, v := range c.Installed {
		if strings.EqualFold(k, repo) {
			return v
		}
	}
	return ""
}

// ResolveAPIBase applies flag > environment > config precedence.
func (c *Config) ResolveAPIBase(flagValue string) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIBase)); v != "" {
		return v
	}
	return c.APIBase
}

// FirstNonEmpty returns the first argument that is not blank.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
