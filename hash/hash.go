// Copyright 2024 The starkproof authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package hash provides the two-to-one field hash the commitment tries are
// built on.
//
// The verifier never commits to one algorithm: it works against the Hasher
// capability, and callers pick an implementation — one of the built-in IDs or
// their own. Everything else in this module treats the hasher as an opaque,
// read-only dependency.
package hash

import (
	"fmt"

	"github.com/starkproof/starkproof/felt"
)

// Hasher is the two-to-one compression function underlying every node
// commitment and state commitment. Implementations must be deterministic and
// collision-resistant; a returned error means the provider itself is broken
// or misconfigured, never that an input is "wrong".
type Hasher interface {
	Hash(a, b *felt.Element) (felt.Element, error)
}

// Func adapts a plain function to the Hasher interface.
type Func func(a, b *felt.Element) (felt.Element, error)

func (f Func) Hash(a, b *felt.Element) (felt.Element, error) { return f(a, b) }

// ID identifies one of the built-in hash functions.
type ID uint8

const (
	UNKNOWN ID = iota
	PEDERSEN
)

// Implemented returns the hash functions shipped with this module.
func Implemented() []ID {
	return []ID{PEDERSEN}
}

// String returns the lower-case name of the hash function.
func (id ID) String() string {
	switch id {
	case PEDERSEN:
		return "pedersen"
	default:
		return "unknown"
	}
}

// Parse returns the ID named by s, as printed by String.
func Parse(s string) (ID, error) {
	for _, id := range Implemented() {
		if id.String() == s {
			return id, nil
		}
	}
	return UNKNOWN, fmt.Errorf("hash: unknown hash function %q", s)
}

// New returns a fresh hasher for id.
func (id ID) New() (Hasher, error) {
	switch id {
	case PEDERSEN:
		return pedersen{}, nil
	default:
		return nil, fmt.Errorf("hash: no hasher registered for id %d", uint8(id))
	}
}

// MarshalText implements encoding.TextMarshaler so IDs render by name in
// configuration files and CBOR/JSON envelopes.
func (id ID) MarshalText() ([]byte, error) {
	if id == UNKNOWN {
		return nil, fmt.Errorf("hash: can't marshal unknown hash id")
	}
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = v
	return nil
}
