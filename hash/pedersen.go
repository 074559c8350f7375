// Copyright 2024 The starkproof authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package hash

import (
	pedersenhash "github.com/consensys/gnark-crypto/ecc/stark-curve/pedersen-hash"

	"github.com/starkproof/starkproof/felt"
)

// pedersen is the StarkWare Pedersen two-to-one hash over the stark curve,
// the hash the contract and storage tries commit with.
type pedersen struct{}

func (pedersen) Hash(a, b *felt.Element) (felt.Element, error) {
	return pedersenhash.Pedersen(a, b), nil
}
