// Copyright 2024 The starkproof authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package encoding

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/starkproof/starkproof/hash"
	"github.com/starkproof/starkproof/stateproof"
)

var errInvalidHash = errors.New("encoding: proof was serialized for another hash function")

// WriteProof serializes proof as CBOR, encoding the hash function it was
// built for in the first bytes.
func WriteProof(w io.Writer, proof *stateproof.CompositeProof, hashID hash.ID) error {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return err
	}
	encoder := em.NewEncoder(w)

	if err := encoder.Encode(hashID); err != nil {
		return err
	}
	return encoder.Encode(toWire(proof))
}

// ReadProof deserializes a CBOR proof written by WriteProof, refusing one
// recorded for a hash function other than expected. The decoded proof goes
// through the same structural validation as the JSON path.
func ReadProof(r io.Reader, expected hash.ID) (*stateproof.CompositeProof, error) {
	decoder := cbor.NewDecoder(r)

	var id hash.ID
	if err := decoder.Decode(&id); err != nil {
		return nil, fmt.Errorf("encoding: reading hash id: %w", err)
	}
	if id != expected {
		return nil, fmt.Errorf("%w: got %s, want %s", errInvalidHash, id, expected)
	}

	var wire compositeWire
	if err := decoder.Decode(&wire); err != nil {
		return nil, fmt.Errorf("encoding: %w", err)
	}
	return fromWire(&wire)
}
