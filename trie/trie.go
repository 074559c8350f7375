// Copyright 2024 The starkproof authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package trie

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/starkproof/starkproof/felt"
	"github.com/starkproof/starkproof/hash"
)

// ErrKeyNotSet is returned by Prove for a key the trie holds no value for.
var ErrKeyNotSet = errors.New("trie: key not set")

// Trie is an in-memory path-compressed binary trie over 251-bit keys,
// committing with the same node scheme VerifyProof checks: binary nodes for
// single-bit branches, edge nodes for compressed runs, h(child,path)+length
// and h(left,right) commitments.
//
// It exists so tests, tooling and fixtures can build honest roots and proofs
// from scratch; verification never depends on it. Commitments are recomputed
// from the leaf set on every Root and Prove call, which is fine at fixture
// scale. Not safe for concurrent writes.
type Trie struct {
	h      hash.Hasher
	leaves map[[felt.Bytes]byte]entry
}

type entry struct {
	key   *big.Int
	value felt.Element
}

// New returns an empty trie committing with h.
func New(h hash.Hasher) *Trie {
	return &Trie{h: h, leaves: make(map[[felt.Bytes]byte]entry)}
}

// Update sets key to value; a zero value deletes the key. Keys must fit the
// 251-bit path space.
func (t *Trie) Update(key, value *felt.Element) error {
	k := felt.BigInt(key)
	if k.BitLen() > felt.Bits {
		return fmt.Errorf("trie: key %s outside the %d-bit path space", felt.Hex(key), felt.Bits)
	}
	kb := key.Bytes()
	if value.IsZero() {
		delete(t.leaves, kb)
		return nil
	}
	t.leaves[kb] = entry{key: k, value: *value}
	return nil
}

// Get returns the value stored at key, or zero if the key is not set.
func (t *Trie) Get(key *felt.Element) felt.Element {
	return t.leaves[key.Bytes()].value
}

// Root returns the trie's current commitment. The empty trie commits to
// zero.
func (t *Trie) Root() (felt.Element, error) {
	return t.commit(t.entries(), felt.Bits)
}

// Prove returns the root-to-leaf node sequence for key, suitable for
// VerifyProof against Root.
func (t *Trie) Prove(key *felt.Element) ([]Node, error) {
	k := felt.BigInt(key)
	if k.BitLen() > felt.Bits {
		return nil, fmt.Errorf("trie: key %s outside the %d-bit path space", felt.Hex(key), felt.Bits)
	}
	if _, ok := t.leaves[key.Bytes()]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotSet, felt.Hex(key))
	}
	return t.prove(t.entries(), felt.Bits, k, nil)
}

func (t *Trie) entries() []entry {
	es := make([]entry, 0, len(t.leaves))
	for _, e := range t.leaves {
		es = append(es, e)
	}
	return es
}

// commit computes the commitment of the subtree holding es, with height key
// bits left to consume. A single leaf is committed as one edge spanning all
// remaining bits; multiple leaves sharing a prefix get an edge for the shared
// run, then a binary branch at the first bit they differ on.
func (t *Trie) commit(es []entry, height int) (felt.Element, error) {
	switch {
	case len(es) == 0:
		return felt.Zero(), nil
	case height == 0:
		return es[0].value, nil
	case len(es) == 1:
		frag, err := felt.FromBig(extractBits(es[0].key, height-1, height))
		if err != nil {
			return felt.Element{}, err
		}
		return EdgeNode{Child: es[0].value, Path: frag, Length: uint8(height)}.Commitment(t.h)
	}

	if run := commonRun(es, height); run > 0 {
		child, err := t.commit(es, height-run)
		if err != nil {
			return felt.Element{}, err
		}
		frag, err := felt.FromBig(extractBits(es[0].key, height-1, run))
		if err != nil {
			return felt.Element{}, err
		}
		return EdgeNode{Child: child, Path: frag, Length: uint8(run)}.Commitment(t.h)
	}

	zeros, ones := split(es, height-1)
	left, err := t.commit(zeros, height-1)
	if err != nil {
		return felt.Element{}, err
	}
	right, err := t.commit(ones, height-1)
	if err != nil {
		return felt.Element{}, err
	}
	return BinaryNode{Left: left, Right: right}.Commitment(t.h)
}

// prove mirrors commit but records the node at each hop along key.
func (t *Trie) prove(es []entry, height int, key *big.Int, acc []Node) ([]Node, error) {
	if height == 0 {
		return acc, nil
	}
	if len(es) == 1 {
		frag, err := felt.FromBig(extractBits(key, height-1, height))
		if err != nil {
			return nil, err
		}
		return append(acc, EdgeNode{Child: es[0].value, Path: frag, Length: uint8(height)}), nil
	}

	if run := commonRun(es, height); run > 0 {
		child, err := t.commit(es, height-run)
		if err != nil {
			return nil, err
		}
		frag, err := felt.FromBig(extractBits(key, height-1, run))
		if err != nil {
			return nil, err
		}
		return t.prove(es, height-run, key, append(acc, EdgeNode{Child: child, Path: frag, Length: uint8(run)}))
	}

	zeros, ones := split(es, height-1)
	left, err := t.commit(zeros, height-1)
	if err != nil {
		return nil, err
	}
	right, err := t.commit(ones, height-1)
	if err != nil {
		return nil, err
	}
	acc = append(acc, BinaryNode{Left: left, Right: right})
	if key.Bit(height-1) == 1 {
		return t.prove(ones, height-1, key, acc)
	}
	return t.prove(zeros, height-1, key, acc)
}

// commonRun returns how many bits, starting at position height-1, all keys
// in es share. es has at least two entries.
func commonRun(es []entry, height int) int {
	run := 0
	for bit := height - 1; bit >= 0; bit-- {
		b := es[0].key.Bit(bit)
		for _, e := range es[1:] {
			if e.key.Bit(bit) != b {
				return run
			}
		}
		run++
	}
	return run
}

// split partitions es on the key bit at position bit.
func split(es []entry, bit int) (zeros, ones []entry) {
	for _, e := range es {
		if e.key.Bit(bit) == 1 {
			ones = append(ones, e)
		} else {
			zeros = append(zeros, e)
		}
	}
	return zeros, ones
}
