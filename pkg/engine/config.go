package engine

import (
	"fmt"
	"io"

	"github.com/seekerror/stdlib/pkg/lang"
	"gopkg.in/yaml.v3"
)

// Config is the optional YAML file an operator can point `-config` at to pin
// engine defaults without a long flag line. Flags always override a set
// config field (§6's CLI surface is the ultimate authority).
type Config struct {
	Depth   lang.Optional[int] `yaml:"depth"`
	Workers lang.Optional[int] `yaml:"workers"`
}

// LoadConfig decodes a YAML config file.
func LoadConfig(r io.Reader) (Config, error) {
	var c Config
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

// Resolve layers c over defaults, returning the Options to construct the
// Engine with. Fields absent from c keep the default.
func (c Config) Resolve(defaults Options) Options {
	out := defaults
	if v, ok := c.Depth.V(); ok {
		out.Depth = v
	}
	if v, ok := c.Workers.V(); ok {
		out.Workers = v
	}
	return out
}
