// Copyright 2024 The starkproof authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starkproof/starkproof/encoding"
	"github.com/starkproof/starkproof/felt"
	"github.com/starkproof/starkproof/hash"
	"github.com/starkproof/starkproof/stateproof"
	"github.com/starkproof/starkproof/trie"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVerifyCommand(t *testing.T) {
	pedersen, err := hash.PEDERSEN.New()
	require.NoError(t, err)

	// honest fixture: one contract, one storage slot
	address := felt.New(0xadd)
	storageKey := felt.New(0x5107)
	value := felt.New(0xfee1600d)

	storage := trie.New(pedersen)
	require.NoError(t, storage.Update(&storageKey, &value))
	storageRoot, err := storage.Root()
	require.NoError(t, err)

	contract := stateproof.ContractData{
		ClassHash:   felt.New(0xc1a55),
		StorageRoot: storageRoot,
		Address:     address,
		StorageKey:  storageKey,
		Nonce:       felt.New(7),
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
		BlockNumber:   9,
		Contract:      contract,
		ContractProof: contractProof,
		StorageProof:  storageProof,
	}
	data, err := encoding.EncodeProof(proof)
	require.NoError(t, err)

	proofPath := filepath.Join(t.TempDir(), "proof.json")
	require.NoError(t, os.WriteFile(proofPath, data, 0o600))

	out, err := runCLI(t, "verify", "--proof", proofPath, "--root", felt.Hex(&globalRoot), "--block", "9")
	require.NoError(t, err)
	assert.Equal(t, felt.Hex(&value), strings.TrimSpace(out))

	// wrong block: freshness binding must refuse
	_, err = runCLI(t, "verify", "--proof", proofPath, "--root", felt.Hex(&globalRoot), "--block", "10")
	assert.ErrorIs(t, err, stateproof.ErrStaleRoot)
}

func TestProveCommand(t *testing.T) {
	dir := t.TempDir()
	state := map[string]string{
		"0x1":    "0x111",
		"0x2":    "0x222",
		"0xbeef": "0x333",
	}
	raw, err := json.Marshal(state)
	require.NoError(t, err)
	statePath := filepath.Join(dir, "state.json")
	require.NoError(t, os.WriteFile(statePath, raw, 0o600))

	out, err := runCLI(t, "prove", "--state", statePath, "--key", "0xbeef")
	require.NoError(t, err)

	var rendered struct {
		Root  string          `json:"root"`
		Proof json.RawMessage `json:"proof"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rendered))

	root := felt.MustFromString(rendered.Root)
	key := felt.MustFromString("0xbeef")
	nodes, err := encoding.DecodeNodes(rendered.Proof)
	require.NoError(t, err)

	pedersen, err := hash.PEDERSEN.New()
	require.NoError(t, err)
	got, err := trie.VerifyProof(&root, &key, nodes, pedersen)
	require.NoError(t, err)
	want := felt.MustFromString("0x333")
	assert.True(t, want.Equal(&got))
}

func TestStateCommitmentCommand(t *testing.T) {
	out, err := runCLI(t, "state-commitment", "--class-hash", "0x1", "--storage-root", "0x2", "--nonce", "0x3")
	require.NoError(t, err)

	pedersen, err := hash.PEDERSEN.New()
	require.NoError(t, err)
	a := felt.New(1)
	b := felt.New(2)
	c := felt.New(3)
	d := felt.Zero()
	want, err := stateproof.StateCommitment(pedersen, &a, &b, &c, &d)
	require.NoError(t, err)
	assert.Equal(t, felt.Hex(&want), strings.TrimSpace(out))
}
