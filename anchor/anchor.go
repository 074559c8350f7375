// Copyright 2024 The starkproof authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package anchor supplies the externally attested (state root, block number)
// pair the verifier checks composite proofs against.
//
// Static wraps values the caller already holds; L1Source reads them live
// from the rollup's core contract on an Ethereum host chain. Either way the
// verifier core only ever sees plain values: all I/O happens here, before
// verification.
package anchor

import (
	"context"

	"github.com/starkproof/starkproof/felt"
)

// Static is an anchor with fixed values: recorded snapshots, CLI flags,
// tests.
type Static struct {
	Root        felt.Element
	BlockNumber int64
}

func (s Static) CurrentRoot(context.Context) (felt.Element, error) {
	return s.Root, nil
}

func (s Static) CurrentBlockNumber(context.Context) (int64, error) {
	return s.BlockNumber, nil
}
