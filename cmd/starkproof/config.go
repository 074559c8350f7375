// Copyright 2024 The starkproof authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// config is the file-level configuration; flags override whatever it sets.
// Once loadConfig returns, the values are never mutated.
type config struct {
	Hash         string   `toml:"hash"`
	Gateways     []string `toml:"gateways"`
	L1RPC        string   `toml:"l1_rpc"`
	CoreContract string   `toml:"core_contract"`
}

func defaultConfig() config {
	return config{Hash: "pedersen"}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}
