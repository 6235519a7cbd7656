// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package makwa

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
		TCost:    4,
		MCost:    0,
		OutLen:   32,
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

func TestModulusTierSelection(t *testing.T) {
	for tier := uint32(0); tier <= Bounds.MaxMCost; tier++ {
		p := baseParams()
		p.MCost = tier
		out, err := Scheme.Derive(p)
		require.NoError(t, err)
		require.Len(t, out, 32)
	}
}

func TestInvalidMemoryCostTier(t *testing.T) {
	p := baseParams()
	p.MCost = Bounds.MaxMCost + 1
	_, err := Scheme.Decode(p)
	require.Error(t, err)
}
