// Copyright 2024 The starkproof authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package resolver maps named contract storage variables to trie keys and
// drives the two-phase lookup: phase one emits a gateway.Request describing
// the proof to fetch, phase two takes the fetched bytes back, decodes them
// and runs a standard verification.
package resolver

import (
	"context"
	"fmt"
	"math/big"

	"golang.org/x/crypto/sha3"

	"github.com/starkproof/starkproof/encoding"
	"github.com/starkproof/starkproof/felt"
	"github.com/starkproof/starkproof/gateway"
	"github.com/starkproof/starkproof/hash"
	"github.com/starkproof/starkproof/stateproof"
)

// addrBound caps storage addresses at 2^251 - 256, leaving room for the
// offsets of multi-cell variables.
var addrBound = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 251), big.NewInt(256))

// snKeccak is the 250-bit truncated keccak-256 used to name storage
// variables.
func snKeccak(data []byte) *big.Int {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	v := new(big.Int).SetBytes(h.Sum(nil))
	mask := new(big.Int).Lsh(big.NewInt(1), 250)
	mask.Sub(mask, big.NewInt(1))
	return v.And(v, mask)
}

// StorageVarAddress derives the storage trie key of variable name, Pedersen
// chained with the mapping keys and reduced into the address space. The
// derivation is protocol-fixed to Pedersen regardless of which hasher the
// verifier commits with.
func StorageVarAddress(name string, keys ...*felt.Element) (felt.Element, error) {
	pedersen, err := hash.PEDERSEN.New()
	if err != nil {
		return felt.Element{}, err
	}

	addr, err := felt.FromBig(snKeccak([]byte(name)))
	if err != nil {
		return felt.Element{}, err
	}
	for _, k := range keys {
		if addr, err = pedersen.Hash(&addr, k); err != nil {
			return felt.Element{}, err
		}
	}

	reduced := felt.BigInt(&addr)
	reduced.Mod(reduced, addrBound)
	return felt.FromBig(reduced)
}

// Resolver answers "what is the value of storage variable X of contract C"
// against an anchored snapshot, with the proof bytes fetched externally
// between the two phases.
type Resolver struct {
	contract felt.Element
	gateways []string
	anchor   stateproof.AnchorSource
	verifier *stateproof.Verifier
}

// New returns a resolver for the contract at address, fetching proofs from
// gateways and verifying them against anchor. opts configure the underlying
// verifier.
func New(anchor stateproof.AnchorSource, address felt.Element, gateways []string, opts ...stateproof.Option) (*Resolver, error) {
	verifier, err := stateproof.New(anchor, opts...)
	if err != nil {
		return nil, err
	}
	return &Resolver{
		contract: address,
		gateways: gateways,
		anchor:   anchor,
		verifier: verifier,
	}, nil
}

// Lookup is phase one: it derives the storage key for variable and returns
// the request descriptor to fetch its proof with. The request pins the
// anchor's current block number so the eventually fetched proof must argue
// about this exact snapshot.
func (r *Resolver) Lookup(ctx context.Context, variable string, keys ...*felt.Element) (*gateway.Request, error) {
	storageKey, err := StorageVarAddress(variable, keys...)
	if err != nil {
		return nil, fmt.Errorf("resolver: deriving address of %q: %w", variable, err)
	}
	block, err := r.anchor.CurrentBlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolver: reading anchor block number: %w", err)
	}
	return &gateway.Request{
		URLs:        r.gateways,
		Contract:    r.contract,
		StorageKey:  storageKey,
		BlockNumber: block,
		Context:     []byte(variable),
	}, nil
}

// ResolveWithProof is phase two: it decodes the externally fetched response,
// checks it answers the original request, and verifies it. On success the
// returned element is the proven value of the variable Lookup asked about.
func (r *Resolver) ResolveWithProof(ctx context.Context, req *gateway.Request, response []byte) (felt.Element, error) {
	proof, err := encoding.DecodeProof(response)
	if err != nil {
		return felt.Element{}, err
	}

	if !proof.Contract.Address.Equal(&req.Contract) {
		return felt.Element{}, fmt.Errorf("resolver: proof is for contract %s, request asked about %s",
			felt.Hex(&proof.Contract.Address), felt.Hex(&req.Contract))
	}
	if !proof.Contract.StorageKey.Equal(&req.StorageKey) {
		return felt.Element{}, fmt.Errorf("resolver: proof is for storage key %s, request asked about %s",
			felt.Hex(&proof.Contract.StorageKey), felt.Hex(&req.StorageKey))
	}
	if proof.BlockNumber != req.BlockNumber {
		return felt.Element{}, fmt.Errorf("resolver: proof is for block %d, request pinned block %d",
			proof.BlockNumber, req.BlockNumber)
	}

	return r.verifier.VerifiedValue(ctx, proof)
}
