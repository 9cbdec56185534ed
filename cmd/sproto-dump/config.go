// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/pk910/go-sproto/schema"
)

type dumpConfig struct {
	SchemaPath string
	TypeName   string
	Hex        bool
	MaxDepth   int
	Verbose    bool
}

type fileConfig struct {
	Schema   string `toml:"schema"`
	Type     string `toml:"type"`
	Hex      bool   `toml:"hex"`
	MaxDepth int    `toml:"max_depth"`
	Verbose  bool   `toml:"verbose"`
}

func defaultConfig() dumpConfig {
	return dumpConfig{
		MaxDepth: schema.DefaultMaxDepth,
	}
}

func loadConfig(path string, cfg dumpConfig) (dumpConfig, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return dumpConfig{}, fmt.Errorf("load dump config: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return dumpConfig{}, fmt.Errorf("unknown config keys: %v", undecoded)
	}

	if meta.IsDefined("schema") {
		cfg.SchemaPath = strings.TrimSpace(raw.Schema)
	}

	if meta.IsDefined("type") {
		cfg.TypeName = strings.TrimSpace(raw.Type)
	}

	if meta.IsDefined("hex") {
		cfg.Hex = raw.Hex
	}

	if meta.IsDefined("max_depth") {
		if raw.MaxDepth < 0 {
			return dumpConfig{}, fmt.Errorf("max_depth must not be negative")
		}
		cfg.MaxDepth = raw.MaxDepth
	}

	if meta.IsDefined("verbose") {
		cfg.Verbose = raw.Verbose
	}

	return cfg, nil
}

func (c dumpConfig) validate() error {
	if c.SchemaPath == "" {
		return fmt.Errorf("schema path is required (-schema)")
	}
	if c.TypeName == "" {
		return fmt.Errorf("message type is required (-type)")
	}
	return nil
}
