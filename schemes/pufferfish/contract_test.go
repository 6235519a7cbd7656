// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pufferfish

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

func TestMinMemoryCostEnforced(t *testing.T) {
	p := baseParams()
	p.MCost = Bounds.MinMCost - 1
	_, err := Scheme.Decode(p)
	require.Error(t, err)
}
