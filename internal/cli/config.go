package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when no
// --config flag is given.
const DefaultConfigFile = ".itf.yaml"

// Config holds workspace defaults for the CLI. All fields are optional;
// flags override them.
type Config struct {
	// Database is the default path of the trace archive.
	Database string `yaml:"database"`

	// Format is the default output format (json|text).
	Format string `yaml:"format"`
}

// LoadConfig reads a YAML config file. A missing default file yields a
// zero Config; a missing explicitly named file is an error.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
