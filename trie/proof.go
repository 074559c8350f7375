// Copyright 2024 The starkproof authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package trie

import (
	"errors"
	"fmt"

	"github.com/starkproof/starkproof/felt"
	"github.com/starkproof/starkproof/hash"
)

var (
	// ErrMalformedProof marks a proof that is structurally broken before
	// any cryptography runs: empty, carrying an out-of-range edge length,
	// or holding nodes past the point where the key was fully consumed.
	ErrMalformedProof = errors.New("trie: malformed proof")

	// ErrHashMismatch marks a node whose recomputed commitment disagrees
	// with the hash its parent committed to.
	ErrHashMismatch = errors.New("trie: node hash mismatch")

	// ErrPathMismatch marks an edge node whose stored path fragment
	// disagrees with the target key.
	ErrPathMismatch = errors.New("trie: edge path mismatch")

	// ErrIncompleteProof marks a walk that did not consume exactly all
	// 251 key bits.
	ErrIncompleteProof = errors.New("trie: incomplete proof")
)

// VerifyProof replays proof from root down to a leaf along key, recomputing
// every node's commitment, and returns the leaf value it arrives at.
//
// The walk keeps a cursor (the commitment the next node must hash to,
// starting at root) and a bit budget of 251 key bits. A binary node consumes
// the current key bit and moves the cursor to the matching child; an edge
// node consumes Length bits after checking its stored fragment against the
// key. The walk succeeds only if the budget lands on exactly zero with no
// proof nodes left over.
//
// Every failure is one of the sentinel errors above, wrapped with the index
// of the offending hop. An error returned by h itself is propagated verbatim:
// it means the hasher is broken, not that the proof is bad.
func VerifyProof(root, key *felt.Element, proof []Node, h hash.Hasher) (felt.Element, error) {
	if h == nil {
		return felt.Element{}, errors.New("trie: nil hasher")
	}
	if len(proof) == 0 {
		return felt.Element{}, fmt.Errorf("%w: empty node sequence", ErrMalformedProof)
	}

	path := felt.BigInt(key)
	cursor := *root
	bitIndex := felt.Bits - 1

	for i, node := range proof {
		if bitIndex < 0 {
			return felt.Element{}, fmt.Errorf("%w: %d unread node(s) after the key was consumed", ErrMalformedProof, len(proof)-i)
		}
		if node == nil {
			return felt.Element{}, fmt.Errorf("%w: nil node %d", ErrMalformedProof, i)
		}

		c, err := node.Commitment(h)
		if err != nil {
			return felt.Element{}, fmt.Errorf("node %d: %w", i, err)
		}
		if !c.Equal(&cursor) {
			return felt.Element{}, fmt.Errorf("%w: node %d commits to %s, parent expects %s",
				ErrHashMismatch, i, felt.Hex(&c), felt.Hex(&cursor))
		}

		switch n := node.(type) {
		case BinaryNode:
			if path.Bit(bitIndex) == 1 {
				cursor = n.Right
			} else {
				cursor = n.Left
			}
			bitIndex--
		case EdgeNode:
			length := int(n.Length)
			if length > bitIndex+1 {
				return felt.Element{}, fmt.Errorf("%w: node %d consumes %d bits but only %d remain",
					ErrIncompleteProof, i, length, bitIndex+1)
			}
			if !bitsEqual(path, felt.BigInt(&n.Path), bitIndex, length) {
				return felt.Element{}, fmt.Errorf("%w: node %d fragment %s diverges from key at bit %d",
					ErrPathMismatch, i, felt.Hex(&n.Path), bitIndex)
			}
			cursor = n.Child
			bitIndex -= length
		}
	}

	if bitIndex >= 0 {
		return felt.Element{}, fmt.Errorf("%w: proof ends with %d key bit(s) unconsumed", ErrIncompleteProof, bitIndex+1)
	}
	return cursor, nil
}
