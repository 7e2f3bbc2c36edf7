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

package config

import (
	"errors"
	"testing"

	"github.com/nczarr/chunkcache/chunkcache"
)

const doc = `
default:
  byteBudget: 16777216
  preemption: 0.25
variables:
  /data/temperature:
    byteBudget: 4194304
    dimensionSeparator: "/"
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Default.ByteBudgetBytes != 16777216 {
		t.Fatalf("default byte budget = %d", cfg.Default.ByteBudgetBytes)
	}
	if cfg.Default.Separator() != '.' {
		t.Fatalf("default separator = %q, want '.'", cfg.Default.Separator())
	}

	temp := cfg.For("/data/temperature")
	if temp.ByteBudgetBytes != 4194304 {
		t.Fatalf("override byte budget = %d", temp.ByteBudgetBytes)
	}
	if temp.Separator() != '/' {
		t.Fatalf("override separator = %q, want '/'", temp.Separator())
	}

	other := cfg.For("/data/unspecified")
	if other != cfg.Default {
		t.Fatalf("expected fallback to default for unspecified variable")
	}
}

func TestParseRejectsBadPreemption(t *testing.T) {
	_, err := Parse([]byte("default:\n  byteBudget: 100\n  preemption: 2\n"))
	if !errors.Is(err, chunkcache.ErrInvalidArgument) {
		t.Fatalf("got %v", err)
	}
}

func TestApply(t *testing.T) {
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	v := &chunkcache.Variable{Path: "/data/temperature", Rank: 2}
	cfg.For(v.Path).Apply(v)
	if v.ByteBudget != 4194304 {
		t.Fatalf("Apply did not set ByteBudget, got %d", v.ByteBudget)
	}
	if v.Preemption != 0 {
		t.Fatalf("Apply should use the override's own preemption (0, unset), got %v", v.Preemption)
	}
}
