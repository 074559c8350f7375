// Copyright 2024 The starkproof authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package stateproof

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/starkproof/starkproof/hash"
	"github.com/starkproof/starkproof/logger"
)

// Option alters the behavior of a Verifier. See the functions returning
// instances of this type for implemented options.
type Option func(*Config) error

// Config is the verifier configuration with the options applied. It is built
// once by New and never mutated afterwards.
type Config struct {
	Hash   hash.Hasher
	Logger zerolog.Logger
}

// NewConfig returns a default Config with opts applied: Pedersen hashing and
// the module's root logger.
func NewConfig(opts ...Option) (Config, error) {
	h, err := hash.PEDERSEN.New()
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	cfg := Config{
		Hash:   h,
		Logger: logger.Logger(),
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// WithHasher makes the verifier commit with h instead of Pedersen.
func WithHasher(h hash.Hasher) Option {
	return func(cfg *Config) error {
		if h == nil {
			return fmt.Errorf("%w: nil hasher", ErrConfiguration)
		}
		cfg.Hash = h
		return nil
	}
}

// WithHashID makes the verifier commit with the built-in hash function id.
func WithHashID(id hash.ID) Option {
	return func(cfg *Config) error {
		h, err := id.New()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		cfg.Hash = h
		return nil
	}
}

// WithLogger overrides the verifier's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(cfg *Config) error {
		cfg.Logger = l
		return nil
	}
}
