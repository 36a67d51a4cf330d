/*
config.go - Data-driven roster configuration

PURPOSE:
  The canonical name list and the alias table are deployment data, not
  logic: which names belong on the roster and which alternate spellings
  map to them varies per site. Both load from a YAML file so they can be
  extended without code changes.

FILE FORMAT:
  canonical:
    - Asha
    - Balan
  aliases:
    "Asha K": Asha
    "balan": Balan

SEMANTICS:
  - Normalize maps a stored name through the alias table before any
    comparison. Unknown names pass through unchanged.
  - An empty canonical list disables the allow-list entirely:
    reconciliation then only removes duplicates and creates nothing.
*/
package roster

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the injectable reconciliation configuration.
type Config struct {
	// Canonical is the allow-list of roster names. Employees whose
	// normalized name is not listed are removed on sync.
	Canonical []string `yaml:"canonical"`

	// Aliases maps recognized alternate spellings to canonical names.
	Aliases map[string]string `yaml:"aliases"`
}

// LoadConfig reads a YAML roster configuration from path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read roster config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse roster config: %w", err)
	}
	return cfg, nil
}

// Normalize maps an alternate spelling to its canonical name.
func (c Config) Normalize(name string) string {
	if canonical, ok := c.Aliases[name]; ok {
		return canonical
	}
	return name
}

// Allowed reports whether a normalized name is on the canonical list.
// With no canonical list configured, every name is allowed.
func (c Config) Allowed(name string) bool {
	if len(c.Canonical) == 0 {
		return true
	}
	for _, n := range c.Canonical {
		if n == name {
			return true
		}
	}
	return false
}
