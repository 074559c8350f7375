// Copyright 2024 The starkproof authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package felt exposes elements of the 251-bit Stark prime field, the value
// domain of every hash, trie path and commitment in this module.
//
// Element aliases gnark-crypto's stark-curve base field element, so the full
// arithmetic API (Add, Mul, Equal, ...) is available directly. What this
// package adds are the boundary checks: parsing routines that reject anything
// outside the field instead of silently reducing it.
package felt

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
)

// Element is a value of the Stark prime field p = 2^251 + 17·2^192 + 1.
// The zero value is the field's zero.
type Element = fp.Element

const (
	// Bits is the width of the trie path space. Trie keys occupy bit
	// positions 0 through Bits-1; the modulus itself needs one more bit.
	Bits = 251

	// Bytes is the canonical big-endian serialized size of an element.
	Bytes = fp.Bytes
)

// ErrNotInField is returned when a parsed value is negative or not strictly
// less than the field modulus.
var ErrNotInField = errors.New("felt: value outside field")

var modulus = fp.Modulus()

// Modulus returns the field modulus p as a fresh big.Int.
func Modulus() *big.Int {
	return new(big.Int).Set(modulus)
}

// New returns v as a field element.
func New(v uint64) Element {
	return fp.NewElement(v)
}

// Zero returns the field's zero element.
func Zero() Element {
	return Element{}
}

// One returns the field's one element.
func One() Element {
	return fp.One()
}

// FromBig converts v to a field element. Unlike Element.SetBigInt it does not
// reduce modulo p: out-of-range values are rejected with ErrNotInField.
func FromBig(v *big.Int) (Element, error) {
	if v.Sign() < 0 || v.Cmp(modulus) >= 0 {
		return Element{}, fmt.Errorf("%w: %s", ErrNotInField, v.String())
	}
	var e Element
	e.SetBigInt(v)
	return e, nil
}

// FromString parses a decimal or 0x-prefixed hexadecimal number into a field
// element, rejecting values outside the field.
func FromString(s string) (Element, error) {
	var v big.Int
	if _, ok := v.SetString(s, 0); !ok {
		return Element{}, fmt.Errorf("felt: can't parse %q", s)
	}
	return FromBig(&v)
}

// MustFromString is FromString for static initialization and tests; it panics
// on invalid input.
func MustFromString(s string) Element {
	e, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return e
}

// FromBytes interprets b as a big-endian unsigned integer and converts it to a
// field element. At most Bytes bytes are accepted, and the value must be
// strictly less than the modulus.
func FromBytes(b []byte) (Element, error) {
	if len(b) > Bytes {
		return Element{}, fmt.Errorf("felt: too many bytes (%d > %d)", len(b), Bytes)
	}
	var v big.Int
	v.SetBytes(b)
	return FromBig(&v)
}

// BigInt returns e as a fresh big.Int in regular (non-Montgomery) form.
func BigInt(e *Element) *big.Int {
	return e.BigInt(new(big.Int))
}

// Hex returns the canonical 0x-prefixed, big-endian, minimal-length
// hexadecimal form of e. It is the representation used in logs and on the
// wire.
func Hex(e *Element) string {
	return "0x" + e.BigInt(new(big.Int)).Text(16)
}
