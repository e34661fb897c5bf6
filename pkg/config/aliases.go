package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// canonical keys a header alias may point at
var aliasTargets = map[string]bool{
	"symbol":    true,
	"tradeDate": true,
	"type":      true,
	"price":     true,
	"volume":    true,
	"feeRate":   true,
	"taxRate":   true,
	"fee":       true,
	"tax":       true,
}

// HeaderAliases is the on-disk list of extra broker header spellings
type HeaderAliases struct {
	Aliases map[string]string `yaml:"aliases"`
}

// LoadHeaderAliases loads extra header aliases from a YAML file of the form
//
//	aliases:
//	  "Ngày khớp": tradeDate
//	  "Ticker": symbol
func LoadHeaderAliases(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read header aliases file: %w", err)
	}

	var cfg HeaderAliases
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse header aliases: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg.Aliases, nil
}

// Validate ensures every alias points at a known canonical key
func (h *HeaderAliases) Validate() error {
	for header, key := range h.Aliases {
		if header == "" {
			return fmt.Errorf("header alias must not be empty")
		}
		if !aliasTargets[key] {
			return fmt.Errorf("unknown canonical key %q for header %q", key, header)
		}
	}
	return nil
}
