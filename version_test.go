// Copyright 2024 The starkproof authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package starkproof

import (
	"testing"

	"github.com/blang/semver/v4"
	"github.com/stretchr/testify/assert"

	"github.com/starkproof/starkproof/hash"
)

func TestVersionIsSet(t *testing.T) {
	assert.False(t, Version.EQ(semver.Version{}), "module version must be set")
}

func TestHashesListsPedersen(t *testing.T) {
	assert.Contains(t, Hashes(), hash.PEDERSEN)
}
