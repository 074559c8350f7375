// Copyright 2024 The starkproof authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/starkproof/starkproof/anchor"
	"github.com/starkproof/starkproof/encoding"
	"github.com/starkproof/starkproof/felt"
	"github.com/starkproof/starkproof/hash"
	"github.com/starkproof/starkproof/stateproof"
)

var verifyCmd = &cobra.Command{
	Use:   "verify --proof proof.json",
	Short: "verify a composite storage proof and print the proven value",
	RunE:  cmdVerify,
}

var (
	fProofPath    string
	fRoot         string
	fBlock        int64
	fL1RPC        string
	fCoreContract string
	fHash         string
)

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVar(&fProofPath, "proof", "", "proof file, JSON or .cbor")
	verifyCmd.Flags().StringVar(&fRoot, "root", "", "anchored state root (hex), bypasses the L1 read")
	verifyCmd.Flags().Int64Var(&fBlock, "block", 0, "anchored block number, used with --root")
	verifyCmd.Flags().StringVar(&fL1RPC, "l1-rpc", "", "Ethereum JSON-RPC endpoint to read the anchor from")
	verifyCmd.Flags().StringVar(&fCoreContract, "core-contract", "", "core contract address on the host chain")
	verifyCmd.Flags().StringVar(&fHash, "hash", "", "commitment hash function (default pedersen)")
	_ = verifyCmd.MarkFlagRequired("proof")
}

func cmdVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(fConfigPath)
	if err != nil {
		return err
	}
	if fL1RPC != "" {
		cfg.L1RPC = fL1RPC
	}
	if fCoreContract != "" {
		cfg.CoreContract = fCoreContract
	}
	if fHash != "" {
		cfg.Hash = fHash
	}

	hashID, err := hash.Parse(cfg.Hash)
	if err != nil {
		return err
	}

	proof, err := readProofFile(fProofPath, hashID)
	if err != nil {
		return err
	}

	src, err := anchorSource(cmd, cfg)
	if err != nil {
		return err
	}

	verifier, err := stateproof.New(src, stateproof.WithHashID(hashID))
	if err != nil {
		return err
	}

	value, err := verifier.VerifiedValue(cmd.Context(), proof)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), felt.Hex(&value))
	return nil
}

func readProofFile(path string, hashID hash.ID) (*stateproof.CompositeProof, error) {
	if strings.EqualFold(filepath.Ext(path), ".cbor") {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return encoding.ReadProof(f, hashID)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return encoding.DecodeProof(data)
}

func anchorSource(cmd *cobra.Command, cfg config) (stateproof.AnchorSource, error) {
	if fRoot != "" {
		root, err := felt.FromString(fRoot)
		if err != nil {
			return nil, fmt.Errorf("--root: %w", err)
		}
		return anchor.Static{Root: root, BlockNumber: fBlock}, nil
	}
	if cfg.L1RPC == "" || cfg.CoreContract == "" {
		return nil, errors.New("either --root/--block or an L1 endpoint (--l1-rpc and --core-contract) is required")
	}
	if !common.IsHexAddress(cfg.CoreContract) {
		return nil, fmt.Errorf("core contract %q is not a hex address", cfg.CoreContract)
	}
	return anchor.DialL1Source(cmd.Context(), cfg.L1RPC, common.HexToAddress(cfg.CoreContract))
}
