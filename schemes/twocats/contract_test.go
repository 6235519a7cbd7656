// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package twocats

import (
	"testing"

	"github.com/luxfi/phs/contract"
	"github.com/luxfi/phs/phstest"
	"github.com/stretchr/testify/require"
)

func baseParams() contract.Params {
	return contract.Params{
		Password: []byte("pwd"),
		Salt:     []byte("salt"),
		TCost:    1,
		MCost:    4,
		OutLen:   32,
	}
}

func TestReverseBitsIsAnInvolution(t *testing.T) {
	for _, width := range []int{4, 5, 8} {
		for v := uint(0); v < uint(1<<width); v++ {
			require.Equal(t, v, reverseBits(reverseBits(v, width), width))
		}
	}
}

func TestDeterminism(t *testing.T) {
	phstest.Determinism(t, Scheme, baseParams())
}

func TestLengthCorrectness(t *testing.T) {
	phstest.LengthCorrectness(t, Scheme, baseParams())
}

func TestSaltSensitivity(t *testing.T) {
	phstest.SaltSensitivity(t, Scheme, baseParams())
}

func TestDistinctAcrossPasswords(t *testing.T) {
	phstest.DistinctAcrossPasswords(t, Scheme, baseParams())
}
