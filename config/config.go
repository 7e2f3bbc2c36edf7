// Copyright (C) 2024 The chunkcache Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package config loads the default per-variable chunk cache policy from a
// YAML document, so a deployment can set cache sizing once instead of at
// every call site that opens a variable.
package config

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/nczarr/chunkcache/chunkcache"
)

// Cache holds the user-facing cache knobs described in the spec's
// configuration-knobs table: a byte budget, an advisory entry count, and
// the reserved preemption parameter.
type Cache struct {
	// ByteBudgetBytes is the cache byte budget; it is the sole input to
	// maxentries.
	ByteBudgetBytes uint64 `json:"byteBudget"`
	// EntryCount is advisory; see chunkcache.Variable.EntryCount.
	EntryCount uint64 `json:"entryCount,omitempty"`
	// Preemption must be in [0, 1].
	Preemption float32 `json:"preemption,omitempty"`
	// DimensionSeparator is "." or "/".
	DimensionSeparator string `json:"dimensionSeparator,omitempty"`
}

// Config is the top-level document: a default cache policy, plus
// per-variable-path overrides.
type Config struct {
	Default   Cache            `json:"default"`
	Variables map[string]Cache `json:"variables,omitempty"`
}

// Load parses a YAML configuration document from path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return Parse(raw)
}

// Parse parses a YAML configuration document from raw bytes.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config.Parse: %w", err)
	}
	if cfg.Default.DimensionSeparator == "" {
		cfg.Default.DimensionSeparator = "."
	}
	if err := cfg.Default.validate(); err != nil {
		return nil, fmt.Errorf("config.Parse: default: %w", err)
	}
	for path, c := range cfg.Variables {
		if c.DimensionSeparator == "" {
			c.DimensionSeparator = cfg.Default.DimensionSeparator
			cfg.Variables[path] = c
		}
		if err := c.validate(); err != nil {
			return nil, fmt.Errorf("config.Parse: variable %q: %w", path, err)
		}
	}
	return &cfg, nil
}

func (c Cache) validate() error {
	if c.Preemption < 0 || c.Preemption > 1 {
		return fmt.Errorf("preemption %v out of [0,1]: %w", c.Preemption, chunkcache.ErrInvalidArgument)
	}
	if c.DimensionSeparator != "." && c.DimensionSeparator != "/" {
		return fmt.Errorf("dimension separator %q: %w", c.DimensionSeparator, chunkcache.ErrInvalidArgument)
	}
	return nil
}

// Separator returns the configured dimension separator as a byte.
func (c Cache) Separator() byte { return c.DimensionSeparator[0] }

// For returns the effective cache policy for the variable at path,
// falling back to the document's default when no override is present.
func (cfg *Config) For(path string) Cache {
	if c, ok := cfg.Variables[path]; ok {
		return c
	}
	return cfg.Default
}

// Apply copies the policy's knobs onto variable, leaving Path, Rank,
// ReadOnly, and Fill untouched.
func (c Cache) Apply(variable *chunkcache.Variable) {
	variable.ByteBudget = c.ByteBudgetBytes
	variable.EntryCount = c.EntryCount
	variable.Preemption = c.Preemption
}
