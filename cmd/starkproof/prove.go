// Copyright 2024 The starkproof authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/starkproof/starkproof/encoding"
	"github.com/starkproof/starkproof/felt"
	"github.com/starkproof/starkproof/hash"
	"github.com/starkproof/starkproof/trie"
)

var proveCmd = &cobra.Command{
	Use:   "prove --state state.json --key 0x...",
	Short: "build a reference trie from a key/value file and emit a membership proof",
	Long: `prove loads a JSON object of hex key/value pairs, builds the commitment trie
and prints the trie root together with the root-to-leaf proof for --key.
It exists for making test fixtures, not for production proving.`,
	RunE: cmdProve,
}

var (
	fStatePath string
	fKey       string
	fProveHash string
)

func init() {
	rootCmd.AddCommand(proveCmd)
	proveCmd.Flags().StringVar(&fStatePath, "state", "", "JSON file of hex key/value pairs")
	proveCmd.Flags().StringVar(&fKey, "key", "", "trie key to prove (hex)")
	proveCmd.Flags().StringVar(&fProveHash, "hash", "pedersen", "commitment hash function")
	_ = proveCmd.MarkFlagRequired("state")
	_ = proveCmd.MarkFlagRequired("key")
}

func cmdProve(cmd *cobra.Command, args []string) error {
	hashID, err := hash.Parse(fProveHash)
	if err != nil {
		return err
	}
	hasher, err := hashID.New()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(fStatePath)
	if err != nil {
		return err
	}
	var state map[string]string
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("parsing %s: %w", fStatePath, err)
	}

	tr := trie.New(hasher)
	for k, v := range state {
		key, err := felt.FromString(k)
		if err != nil {
			return fmt.Errorf("state key %q: %w", k, err)
		}
		value, err := felt.FromString(v)
		if err != nil {
			return fmt.Errorf("state value %q: %w", v, err)
		}
		if err := tr.Update(&key, &value); err != nil {
			return err
		}
	}

	key, err := felt.FromString(fKey)
	if err != nil {
		return fmt.Errorf("--key: %w", err)
	}
	root, err := tr.Root()
	if err != nil {
		return err
	}
	proof, err := tr.Prove(&key)
	if err != nil {
		return err
	}
	nodes, err := encoding.EncodeNodes(proof)
	if err != nil {
		return err
	}

	out := struct {
		Root  string          `json:"root"`
		Proof json.RawMessage `json:"proof"`
	}{Root: felt.Hex(&root), Proof: nodes}
	rendered, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(rendered))
	return nil
}
