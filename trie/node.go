// Copyright 2024 The starkproof authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package trie

import (
	"fmt"

	"github.com/starkproof/starkproof/felt"
	"github.com/starkproof/starkproof/hash"
)

// Node is one hop of a membership proof. Exactly two variants exist,
// BinaryNode and EdgeNode; the interface is sealed so no third shape can
// reach the verifier.
type Node interface {
	// Commitment recomputes the node's canonical commitment hash. A node
	// whose recomputed commitment disagrees with its parent's expectation
	// is rejected, never silently accepted.
	Commitment(h hash.Hasher) (felt.Element, error)

	isProofNode()
}

// BinaryNode is a single-bit branch: the traversed key bit selects Right
// when 1, Left when 0. Its commitment is h(left, right).
type BinaryNode struct {
	Left  felt.Element
	Right felt.Element
}

func (n BinaryNode) Commitment(h hash.Hasher) (felt.Element, error) {
	return h.Hash(&n.Left, &n.Right)
}

func (BinaryNode) isProofNode() {}

// EdgeNode collapses a run of Length key bits into one hop. Path carries the
// run in its low Length bits; Child is the commitment of the subtree below.
// Its commitment is h(child, path) + length mod p.
type EdgeNode struct {
	Child  felt.Element
	Path   felt.Element
	Length uint8
}

func (n EdgeNode) Commitment(h hash.Hasher) (felt.Element, error) {
	if n.Length == 0 || n.Length > felt.Bits {
		return felt.Element{}, fmt.Errorf("%w: edge length %d outside [1,%d]", ErrMalformedProof, n.Length, felt.Bits)
	}
	c, err := h.Hash(&n.Child, &n.Path)
	if err != nil {
		return felt.Element{}, err
	}
	l := felt.New(uint64(n.Length))
	c.Add(&c, &l)
	return c, nil
}

func (EdgeNode) isProofNode() {}
