// Package sources loads the externally supplied repository source list.
package sources

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// Load reads the source list from a YAML file. Two layouts are accepted:
// a bare sequence of URL strings, or a mapping with a "sources" sequence.
// Blank entries are dropped; order is preserved.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source list: %w", err)
	}
	return Parse(data)
}

// Parse decodes source list bytes.
func Parse(data []byte) ([]string, error) {
	var bare []string
	if err := yaml.Unmarshal(data, &bare); err == nil {
		return clean(bare), nil
	}

	var wrapped struct {
		Sources []string `yaml:"sources"`
	}
	if err := yaml.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("parse source list: %w", err)
	}
	return clean(wrapped.Sources), nil
}

func clean(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
