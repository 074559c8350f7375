// Copyright 2024 The starkproof authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package starkproof verifies Starknet-style storage proofs: given a state
// root anchored on an independent host chain, it proves that one storage
// slot of one contract holds one exact value, trusting nothing about the
// proof bytes themselves.
//
// The verification core lives in the trie and stateproof packages; anchor,
// gateway, resolver and encoding wrap it with the plumbing a real deployment
// needs.
package starkproof

import (
	"github.com/blang/semver/v4"

	"github.com/starkproof/starkproof/hash"
)

var Version = semver.MustParse("0.1.0")

// Hashes returns the commitment hash functions supported by starkproof
func Hashes() []hash.ID {
	return hash.Implemented()
}
