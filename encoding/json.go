// Copyright 2024 The starkproof authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package encoding decodes composite proofs from their wire forms.
//
// The JSON shape mirrors what Starknet full nodes return for storage-proof
// queries: field elements as 0x-prefixed hex strings, proof nodes as objects
// with an explicit "binary" or "edge" discriminant. Decoding enforces the
// structural invariants the verifier relies on — every element inside the
// field, exactly one node variant populated, edge lengths in [1,251] — so a
// decoded proof is structurally sound before any cryptography runs.
//
// The package also offers a CBOR envelope for caching fetched proofs on
// disk; it records the hash function the proof was built for and refuses to
// decode under a different one.
package encoding

import (
	"encoding/json"
	"fmt"

	"github.com/starkproof/starkproof/felt"
	"github.com/starkproof/starkproof/stateproof"
	"github.com/starkproof/starkproof/trie"
)

type compositeWire struct {
	BlockNumber   int64        `json:"block_number" cbor:"1,keyasint"`
	Contract      contractWire `json:"contract_data" cbor:"2,keyasint"`
	ContractProof []nodeWire   `json:"contract_proof" cbor:"3,keyasint"`
	StorageProof  []nodeWire   `json:"storage_proof" cbor:"4,keyasint"`
}

type contractWire struct {
	ClassHash   string `json:"class_hash" cbor:"1,keyasint"`
	StorageRoot string `json:"storage_root" cbor:"2,keyasint"`
	Address     string `json:"address" cbor:"3,keyasint"`
	StorageKey  string `json:"storage_key" cbor:"4,keyasint"`
	Nonce       string `json:"nonce" cbor:"5,keyasint"`
	HashVersion string `json:"contract_state_hash_version" cbor:"6,keyasint"`
}

// nodeWire is the tagged-union wire form of a proof node: exactly one of
// Binary and Edge must be present.
type nodeWire struct {
	Binary *binaryWire `json:"binary,omitempty" cbor:"1,keyasint,omitempty"`
	Edge   *edgeWire   `json:"edge,omitempty" cbor:"2,keyasint,omitempty"`
}

type binaryWire struct {
	Left  string `json:"left" cbor:"1,keyasint"`
	Right string `json:"right" cbor:"2,keyasint"`
}

type edgeWire struct {
	Child string   `json:"child" cbor:"1,keyasint"`
	Path  pathWire `json:"path" cbor:"2,keyasint"`
}

type pathWire struct {
	Value string `json:"value" cbor:"1,keyasint"`
	Len   uint16 `json:"len" cbor:"2,keyasint"`
}

// DecodeProof parses a JSON composite proof.
func DecodeProof(data []byte) (*stateproof.CompositeProof, error) {
	var wire compositeWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("encoding: %w", err)
	}
	return fromWire(&wire)
}

// EncodeProof renders a composite proof in the JSON wire form DecodeProof
// accepts.
func EncodeProof(p *stateproof.CompositeProof) ([]byte, error) {
	return json.Marshal(toWire(p))
}

// DecodeNodes parses a bare proof-node sequence.
func DecodeNodes(data []byte) ([]trie.Node, error) {
	var wire []nodeWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("encoding: %w", err)
	}
	return nodesFromWire(wire)
}

// EncodeNodes renders a bare proof-node sequence as JSON.
func EncodeNodes(nodes []trie.Node) ([]byte, error) {
	return json.Marshal(nodesToWire(nodes))
}

func fromWire(wire *compositeWire) (*stateproof.CompositeProof, error) {
	out := &stateproof.CompositeProof{BlockNumber: wire.BlockNumber}

	var err error
	fields := []struct {
		name string
		raw  string
		dst  *felt.Element
	}{
		{"class_hash", wire.Contract.ClassHash, &out.Contract.ClassHash},
		{"storage_root", wire.Contract.StorageRoot, &out.Contract.StorageRoot},
		{"address", wire.Contract.Address, &out.Contract.Address},
		{"storage_key", wire.Contract.StorageKey, &out.Contract.StorageKey},
		{"nonce", wire.Contract.Nonce, &out.Contract.Nonce},
		{"contract_state_hash_version", wire.Contract.HashVersion, &out.Contract.HashVersion},
	}
	for _, f := range fields {
		if *f.dst, err = felt.FromString(f.raw); err != nil {
			return nil, fmt.Errorf("encoding: contract_data.%s: %w", f.name, err)
		}
	}

	if out.ContractProof, err = nodesFromWire(wire.ContractProof); err != nil {
		return nil, fmt.Errorf("encoding: contract_proof: %w", err)
	}
	if out.StorageProof, err = nodesFromWire(wire.StorageProof); err != nil {
		return nil, fmt.Errorf("encoding: storage_proof: %w", err)
	}
	return out, nil
}

func nodesFromWire(wire []nodeWire) ([]trie.Node, error) {
	nodes := make([]trie.Node, 0, len(wire))
	for i, w := range wire {
		n, err := nodeFromWire(w)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func nodeFromWire(w nodeWire) (trie.Node, error) {
	switch {
	case w.Binary != nil && w.Edge != nil:
		return nil, fmt.Errorf("node carries both binary and edge variants")
	case w.Binary != nil:
		left, err := felt.FromString(w.Binary.Left)
		if err != nil {
			return nil, fmt.Errorf("binary.left: %w", err)
		}
		right, err := felt.FromString(w.Binary.Right)
		if err != nil {
			return nil, fmt.Errorf("binary.right: %w", err)
		}
		return trie.BinaryNode{Left: left, Right: right}, nil
	case w.Edge != nil:
		child, err := felt.FromString(w.Edge.Child)
		if err != nil {
			return nil, fmt.Errorf("edge.child: %w", err)
		}
		path, err := felt.FromString(w.Edge.Path.Value)
		if err != nil {
			return nil, fmt.Errorf("edge.path.value: %w", err)
		}
		if w.Edge.Path.Len == 0 || w.Edge.Path.Len > felt.Bits {
			return nil, fmt.Errorf("edge.path.len %d outside [1,%d]", w.Edge.Path.Len, felt.Bits)
		}
		return trie.EdgeNode{Child: child, Path: path, Length: uint8(w.Edge.Path.Len)}, nil
	default:
		return nil, fmt.Errorf("node carries neither binary nor edge variant")
	}
}

func toWire(p *stateproof.CompositeProof) *compositeWire {
	c := &p.Contract
	return &compositeWire{
		BlockNumber: p.BlockNumber,
		Contract: contractWire{
			ClassHash:   felt.Hex(&c.ClassHash),
			StorageRoot: felt.Hex(&c.StorageRoot),
			Address:     felt.Hex(&c.Address),
			StorageKey:  felt.Hex(&c.StorageKey),
			Nonce:       felt.Hex(&c.Nonce),
			HashVersion: felt.Hex(&c.HashVersion),
		},
		ContractProof: nodesToWire(p.ContractProof),
		StorageProof:  nodesToWire(p.StorageProof),
	}
}

func nodesToWire(nodes []trie.Node) []nodeWire {
	out := make([]nodeWire, 0, len(nodes))
	for _, node := range nodes {
		switch n := node.(type) {
		case trie.BinaryNode:
			out = append(out, nodeWire{Binary: &binaryWire{
				Left:  felt.Hex(&n.Left),
				Right: felt.Hex(&n.Right),
			}})
		case trie.EdgeNode:
			out = append(out, nodeWire{Edge: &edgeWire{
				Child: felt.Hex(&n.Child),
				Path:  pathWire{Value: felt.Hex(&n.Path), Len: uint16(n.Length)},
			}})
		}
	}
	return out
}
