// Copyright 2024 The starkproof authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/starkproof/starkproof/felt"
	"github.com/starkproof/starkproof/hash"
	"github.com/starkproof/starkproof/stateproof"
)

var commitmentCmd = &cobra.Command{
	Use:   "state-commitment",
	Short: "compute the state-commitment leaf for a contract record",
	RunE:  cmdStateCommitment,
}

var (
	fClassHash   string
	fStorageRoot string
	fNonce       string
	fHashVersion string
	fCommitHash  string
)

func init() {
	rootCmd.AddCommand(commitmentCmd)
	commitmentCmd.Flags().StringVar(&fClassHash, "class-hash", "", "contract class hash (hex)")
	commitmentCmd.Flags().StringVar(&fStorageRoot, "storage-root", "", "contract storage root (hex)")
	commitmentCmd.Flags().StringVar(&fNonce, "nonce", "0x0", "contract nonce")
	commitmentCmd.Flags().StringVar(&fHashVersion, "hash-version", "0x0", "contract state hash version")
	commitmentCmd.Flags().StringVar(&fCommitHash, "hash", "pedersen", "commitment hash function")
	_ = commitmentCmd.MarkFlagRequired("class-hash")
	_ = commitmentCmd.MarkFlagRequired("storage-root")
}

func cmdStateCommitment(cmd *cobra.Command, args []string) error {
	hashID, err := hash.Parse(fCommitHash)
	if err != nil {
		return err
	}
	hasher, err := hashID.New()
	if err != nil {
		return err
	}

	parse := func(flag, s string) (felt.Element, error) {
		e, err := felt.FromString(s)
		if err != nil {
			return felt.Element{}, fmt.Errorf("--%s: %w", flag, err)
		}
		return e, nil
	}
	classHash, err := parse("class-hash", fClassHash)
	if err != nil {
		return err
	}
	storageRoot, err := parse("storage-root", fStorageRoot)
	if err != nil {
		return err
	}
	nonce, err := parse("nonce", fNonce)
	if err != nil {
		return err
	}
	version, err := parse("hash-version", fHashVersion)
	if err != nil {
		return err
	}

	leaf, err := stateproof.StateCommitment(hasher, &classHash, &storageRoot, &nonce, &version)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), felt.Hex(&leaf))
	return nil
}
