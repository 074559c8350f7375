// Copyright 2024 The starkproof authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package trie implements verification of membership proofs for the
// path-compressed binary tries that commit Starknet-style state.
//
// A proof is an ordered run of nodes from the root down to a leaf. Binary
// nodes branch on a single bit of the 251-bit key; edge nodes collapse a run
// of key bits into one hop. VerifyProof replays that walk against a target
// key, recomputing every node's commitment along the way: nothing inside the
// proof is trusted until it has been re-derived from its children and matched
// against its parent's expectation.
//
// The package also ships a small in-memory Trie that builds the same
// commitments from scratch and generates proofs against them. The verifier
// never needs it; it exists for tests, tooling and fixtures.
package trie
