// Copyright 2024 The starkproof authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package trie

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starkproof/starkproof/felt"
	"github.com/starkproof/starkproof/hash"
)

func TestEmptyTrieRoot(t *testing.T) {
	tr := New(sumHash)
	root, err := tr.Root()
	require.NoError(t, err)
	assert.True(t, root.IsZero())
}

func TestSingleLeaf(t *testing.T) {
	for name, h := range hashers(t) {
		t.Run(name, func(t *testing.T) {
			tr := New(h)
			key := felt.MustFromString("0x123456789abcdef")
			value := felt.New(42)
			require.NoError(t, tr.Update(&key, &value))

			// a lone leaf commits as one edge spanning all 251 bits
			proof, err := tr.Prove(&key)
			require.NoError(t, err)
			require.Len(t, proof, 1)
			edge, ok := proof[0].(EdgeNode)
			require.True(t, ok)
			assert.Equal(t, uint8(felt.Bits), edge.Length)

			root, err := tr.Root()
			require.NoError(t, err)
			got, err := VerifyProof(&root, &key, proof, h)
			require.NoError(t, err)
			assert.True(t, value.Equal(&got))
		})
	}
}

func TestHonestProofsVerify(t *testing.T) {
	pedersen, err := hash.PEDERSEN.New()
	require.NoError(t, err)

	tr := New(pedersen)
	keys := []felt.Element{
		felt.New(0), // key zero is a valid path
		felt.New(1),
		felt.New(2),
		felt.MustFromString("0x7ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"),
		felt.MustFromString("0x4fad269cbf860980e38768fe9cb6b0b9ab03ee3fe84cfde2eccce597c874fd8"),
	}
	for i := range keys {
		v := felt.New(uint64(i + 1))
		require.NoError(t, tr.Update(&keys[i], &v))
	}

	root, err := tr.Root()
	require.NoError(t, err)

	for i := range keys {
		proof, err := tr.Prove(&keys[i])
		require.NoError(t, err)
		got, err := VerifyProof(&root, &keys[i], proof, pedersen)
		require.NoError(t, err)
		want := felt.New(uint64(i + 1))
		assert.True(t, want.Equal(&got), "key %s", felt.Hex(&keys[i]))
	}
}

func TestUpdateAndDelete(t *testing.T) {
	tr := New(sumHash)
	key := felt.New(5)
	other := felt.New(6)
	v1 := felt.New(10)
	v2 := felt.New(20)

	require.NoError(t, tr.Update(&key, &v1))
	require.NoError(t, tr.Update(&other, &v2))
	got := tr.Get(&key)
	assert.True(t, v1.Equal(&got))

	// overwrite
	require.NoError(t, tr.Update(&key, &v2))
	got = tr.Get(&key)
	assert.True(t, v2.Equal(&got))

	// zero value deletes
	zero := felt.Zero()
	require.NoError(t, tr.Update(&key, &zero))
	got = tr.Get(&key)
	assert.True(t, got.IsZero())
	_, err := tr.Prove(&key)
	assert.ErrorIs(t, err, ErrKeyNotSet)

	// root collapses back to the single remaining leaf's commitment
	root, err := tr.Root()
	require.NoError(t, err)
	single := New(sumHash)
	require.NoError(t, single.Update(&other, &v2))
	want, err := single.Root()
	require.NoError(t, err)
	assert.True(t, want.Equal(&root))
}

func TestKeyOutsidePathSpace(t *testing.T) {
	// 2^251 is a valid field element but needs one bit more than trie keys
	// may use
	outside := felt.MustFromString("0x800000000000000000000000000000000000000000000000000000000000000")

	tr := New(sumHash)
	v := felt.New(1)
	err := tr.Update(&outside, &v)
	assert.Error(t, err)
	_, err = tr.Prove(&outside)
	assert.Error(t, err)
}

// Any honestly built trie yields proofs that verify to the stored value and
// consume exactly the whole key.
func TestRandomTriesRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)
	properties.Property("prove/verify round trip", prop.ForAll(
		func(seeds []uint64) bool {
			tr := New(sumHash)
			keys := make([]felt.Element, 0, len(seeds))
			for _, s := range seeds {
				// spread keys across the whole path space
				k := felt.New(s)
				sq := felt.New(s)
				k.Mul(&k, &sq)
				v := felt.New(s | 1)
				if err := tr.Update(&k, &v); err != nil {
					return false
				}
				keys = append(keys, k)
			}
			root, err := tr.Root()
			if err != nil {
				return false
			}
			for _, k := range keys {
				proof, err := tr.Prove(&k)
				if err != nil {
					return false
				}
				got, err := VerifyProof(&root, &k, proof, sumHash)
				if err != nil {
					return false
				}
				want := tr.Get(&k)
				if !want.Equal(&got) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(12, gen.UInt64Range(1, 1<<62)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
