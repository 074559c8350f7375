// Copyright 2024 The starkproof authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package stateproof verifies that a single storage value of a remote
// contract is committed under a state root anchored on an independent host
// chain.
//
// A composite proof carries two trie proofs: one through the contract's own
// storage trie down to the queried slot, and one through the global contract
// trie down to the contract's state-commitment leaf. The verifier replays
// both, then binds them together by recomputing the state commitment from
// the contract data and requiring it to equal the leaf the global trie
// commits to. One externally observed (root, block number) pair thereby pins
// one storage value inside the whole remote state tree, assuming only
// collision resistance of the hash and honesty of the anchor source.
//
// Verification is pure and synchronous: all I/O (anchor reads, proof
// fetching) happens before the call, and a Verifier is safe for unlimited
// concurrent use.
package stateproof

import (
	"context"
	"errors"
	"fmt"

	"github.com/starkproof/starkproof/felt"
	"github.com/starkproof/starkproof/hash"
	"github.com/starkproof/starkproof/trie"
)

var (
	// ErrConfiguration marks a verifier wired with a missing or broken
	// dependency. It never indicates anything about a proof.
	ErrConfiguration = errors.New("stateproof: invalid configuration")

	// ErrStaleRoot marks a proof whose block number does not match the
	// anchor's, or an anchor reporting a non-positive block number.
	ErrStaleRoot = errors.New("stateproof: stale or invalid anchor root")

	// ErrRootMismatch marks two individually valid trie proofs whose leaf
	// commitments disagree: the storage root the proof argues from is not
	// the one the anchored global root commits to.
	ErrRootMismatch = errors.New("stateproof: storage root not bound to anchor root")
)

// ContractData is the remote contract's record as the global trie commits to
// it, plus the storage slot being queried.
type ContractData struct {
	ClassHash   felt.Element
	StorageRoot felt.Element
	Address     felt.Element
	StorageKey  felt.Element
	Nonce       felt.Element
	HashVersion felt.Element
}

// CompositeProof is everything a caller must supply to have one storage
// value verified: the snapshot it claims to prove against, the contract
// record, and the two root-to-leaf trie proofs.
type CompositeProof struct {
	BlockNumber   int64
	Contract      ContractData
	ContractProof []trie.Node
	StorageProof  []trie.Node
}

// AnchorSource reports the remote chain's state root and block number as
// attested on the host chain. Read-only and externally trusted; real
// implementations do I/O, hence the contexts.
type AnchorSource interface {
	CurrentRoot(ctx context.Context) (felt.Element, error)
	CurrentBlockNumber(ctx context.Context) (int64, error)
}

// StateCommitment computes the canonical leaf value the global trie stores
// for a contract: h(h(h(classHash, storageRoot), nonce), version).
func StateCommitment(h hash.Hasher, classHash, storageRoot, nonce, version *felt.Element) (felt.Element, error) {
	c, err := h.Hash(classHash, storageRoot)
	if err != nil {
		return felt.Element{}, err
	}
	c, err = h.Hash(&c, nonce)
	if err != nil {
		return felt.Element{}, err
	}
	return h.Hash(&c, version)
}

// configHasher tags provider failures as configuration errors so a broken
// hasher never masquerades as a bad proof.
type configHasher struct {
	h hash.Hasher
}

func (c configHasher) Hash(a, b *felt.Element) (felt.Element, error) {
	out, err := c.h.Hash(a, b)
	if err != nil {
		return felt.Element{}, fmt.Errorf("%w: hash provider: %v", ErrConfiguration, err)
	}
	return out, nil
}

// Verifier checks composite proofs against an anchor source. Its
// configuration is immutable after New; a Verifier may be shared freely
// across goroutines.
type Verifier struct {
	anchor AnchorSource
	cfg    Config
}

// New returns a Verifier reading anchor values from anchor. Without options
// it hashes with Pedersen and logs nothing above debug level.
func New(anchor AnchorSource, opts ...Option) (*Verifier, error) {
	if anchor == nil {
		return nil, fmt.Errorf("%w: nil anchor source", ErrConfiguration)
	}
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Verifier{anchor: anchor, cfg: cfg}, nil
}

// VerifiedValue reads the current anchor values and verifies proof against
// them, returning the proven storage value. Every failure is immediate and
// non-retryable for this proof object; a fresher proof is a new call.
func (v *Verifier) VerifiedValue(ctx context.Context, proof *CompositeProof) (felt.Element, error) {
	root, err := v.anchor.CurrentRoot(ctx)
	if err != nil {
		return felt.Element{}, fmt.Errorf("reading anchor root: %w", err)
	}
	block, err := v.anchor.CurrentBlockNumber(ctx)
	if err != nil {
		return felt.Element{}, fmt.Errorf("reading anchor block number: %w", err)
	}
	return v.VerifyAgainstRoot(proof, root, block)
}

// VerifyAgainstRoot verifies proof against caller-supplied anchor values.
// This is the pure core; VerifiedValue is a convenience that reads the
// anchor first.
func (v *Verifier) VerifyAgainstRoot(proof *CompositeProof, anchorRoot felt.Element, anchorBlock int64) (felt.Element, error) {
	if v.cfg.Hash == nil {
		return felt.Element{}, fmt.Errorf("%w: nil hasher", ErrConfiguration)
	}
	if proof == nil || len(proof.ContractProof) == 0 || len(proof.StorageProof) == 0 {
		return felt.Element{}, fmt.Errorf("%w: missing proof tier", trie.ErrMalformedProof)
	}
	if anchorBlock <= 0 || proof.BlockNumber != anchorBlock {
		return felt.Element{}, fmt.Errorf("%w: proof is for block %d, anchor attests block %d",
			ErrStaleRoot, proof.BlockNumber, anchorBlock)
	}

	log := v.cfg.Logger.With().
		Int64("block", anchorBlock).
		Str("contract", felt.Hex(&proof.Contract.Address)).
		Str("key", felt.Hex(&proof.Contract.StorageKey)).
		Logger()
	log.Debug().Msg("verifying composite proof")

	h := configHasher{h: v.cfg.Hash}
	c := &proof.Contract
	leaf, err := StateCommitment(h, &c.ClassHash, &c.StorageRoot, &c.Nonce, &c.HashVersion)
	if err != nil {
		return felt.Element{}, err
	}
	if leaf.IsZero() {
		return felt.Element{}, fmt.Errorf("%w: zero state commitment", trie.ErrMalformedProof)
	}

	value, err := trie.VerifyProof(&c.StorageRoot, &c.StorageKey, proof.StorageProof, h)
	if err != nil {
		return felt.Element{}, fmt.Errorf("storage tier: %w", err)
	}

	committedLeaf, err := trie.VerifyProof(&anchorRoot, &c.Address, proof.ContractProof, h)
	if err != nil {
		return felt.Element{}, fmt.Errorf("contract tier: %w", err)
	}

	if !leaf.Equal(&committedLeaf) {
		return felt.Element{}, fmt.Errorf("%w: state commitment %s, anchored trie commits %s",
			ErrRootMismatch, felt.Hex(&leaf), felt.Hex(&committedLeaf))
	}

	log.Debug().Str("value", felt.Hex(&value)).Msg("proof verified")
	return value, nil
}
