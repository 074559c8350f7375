// Copyright 2024 The starkproof authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// starkproof is a CLI around the storage-proof verifier: it verifies fetched
// proofs against an anchored root, builds proofs from reference state files,
// and computes contract state commitments.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/starkproof/starkproof"
	"github.com/starkproof/starkproof/debug"
)

var rootCmd = &cobra.Command{
	Use:     "starkproof",
	Short:   "verify storage proofs against an anchored state root",
	Version: starkproof.Version.String(),
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print the starkproof version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), starkproof.Version.String())
	},
}

var fConfigPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&fConfigPath, "config", "", "TOML configuration file")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if debug.Debug {
			fmt.Fprint(os.Stderr, debug.Stack())
		}
		os.Exit(1)
	}
}
