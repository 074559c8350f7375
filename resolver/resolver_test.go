// Copyright 2024 The starkproof authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starkproof/starkproof/anchor"
	"github.com/starkproof/starkproof/encoding"
	"github.com/starkproof/starkproof/felt"
	"github.com/starkproof/starkproof/hash"
	"github.com/starkproof/starkproof/stateproof"
	"github.com/starkproof/starkproof/trie"
)

func TestStorageVarAddress(t *testing.T) {
	// sn_keccak("ERC20_name"), the canonical worked example
	got, err := StorageVarAddress("ERC20_name")
	require.NoError(t, err)
	want := felt.MustFromString("0x0341c1bdfd89f69748aa00b5742b03adbffd79b8e80cab5c50d91cd8c2a79be1")
	assert.True(t, want.Equal(&got), "got %s", felt.Hex(&got))

	// mapping keys chain through Pedersen: h(sn_keccak(name), key)
	key := felt.New(42)
	withKey, err := StorageVarAddress("ERC20_name", &key)
	require.NoError(t, err)
	pedersen, err := hash.PEDERSEN.New()
	require.NoError(t, err)
	expected, err := pedersen.Hash(&want, &key)
	require.NoError(t, err)
	assert.True(t, expected.Equal(&withKey))
}

// buildFixture assembles an honest two-tier proof for one storage variable
// of one contract, returning the resolver wiring and the expected value.
func buildFixture(t *testing.T, variable string) (*Resolver, *stateproof.CompositeProof, felt.Element, felt.Element) {
	t.Helper()
	pedersen, err := hash.PEDERSEN.New()
	require.NoError(t, err)

	address := felt.MustFromString("0x049d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7")
	storageKey, err := StorageVarAddress(variable)
	require.NoError(t, err)
	value := felt.New(123456789)

	storage := trie.New(pedersen)
	require.NoError(t, storage.Update(&storageKey, &value))
	storageRoot, err := storage.Root()
	require.NoError(t, err)

	contract := stateproof.ContractData{
		ClassHash:   felt.New(0xc1a55),
		StorageRoot: storageRoot,
		Address:     address,
		StorageKey:  storageKey,
		Nonce:       felt.New(1),
		HashVersion: felt.Zero(),
	}
	leaf, err := stateproof.StateCommitment(pedersen, &contract.ClassHash, &contract.StorageRoot, &contract.Nonce, &contract.HashVersion)
	require.NoError(t, err)

	global := trie.New(pedersen)
	require.NoError(t, global.Update(&address, &leaf))
	globalRoot, err := global.Root()
	require.NoError(t, err)

	storageProof, err := storage.Prove(&storageKey)
	require.NoError(t, err)
	contractProof, err := global.Prove(&address)
	require.NoError(t, err)

	proof := &stateproof.CompositeProof{
		BlockNumber:   42,
		Contract:      contract,
		ContractProof: contractProof,
		StorageProof:  storageProof,
	}

	src := anchor.Static{Root: globalRoot, BlockNumber: 42}
	r, err := New(src, address, []string{"http://gateway.invalid"})
	require.NoError(t, err)

	return r, proof, value, address
}

func TestTwoPhaseResolve(t *testing.T) {
	r, proof, value, address := buildFixture(t, "balance")
	ctx := context.Background()

	req, err := r.Lookup(ctx, "balance")
	require.NoError(t, err)
	assert.True(t, req.Contract.Equal(&address))
	assert.Equal(t, int64(42), req.BlockNumber)
	assert.Equal(t, []byte("balance"), req.Context)

	// "externally fetched" response bytes
	response, err := encoding.EncodeProof(proof)
	require.NoError(t, err)

	got, err := r.ResolveWithProof(ctx, req, response)
	require.NoError(t, err)
	assert.True(t, value.Equal(&got))
}

func TestResolveRejectsWrongAnswer(t *testing.T) {
	r, proof, _, _ := buildFixture(t, "balance")
	ctx := context.Background()

	req, err := r.Lookup(ctx, "balance")
	require.NoError(t, err)

	// response proves a different storage key than the request asked about
	other := *proof
	otherKey, err := StorageVarAddress("allowance")
	require.NoError(t, err)
	other.Contract.StorageKey = otherKey
	response, err := encoding.EncodeProof(&other)
	require.NoError(t, err)
	_, err = r.ResolveWithProof(ctx, req, response)
	assert.Error(t, err)

	// response pinned to a different block
	other = *proof
	other.BlockNumber = 43
	response, err = encoding.EncodeProof(&other)
	require.NoError(t, err)
	_, err = r.ResolveWithProof(ctx, req, response)
	assert.Error(t, err)

	// garbage bytes never reach the verifier
	_, err = r.ResolveWithProof(ctx, req, []byte("not json"))
	assert.Error(t, err)
}
