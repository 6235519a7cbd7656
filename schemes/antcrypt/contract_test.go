// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package antcrypt

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
		MCost:    0,
		OutLen:   32,
	}
}

func TestCascadeAddEqualsXor(t *testing.T) {
	// AntCrypt sets PHS_F_ADD == PHS_F_XOR; this test pins that literal
	// coincidence so a future refactor can't silently "fix" it by
	// deduplicating the two cascade slots.
	require.Equal(t, applyCascadeFn(PHSFAdd, 7, 3, 0), applyCascadeFn(PHSFXor, 7, 3, 0))
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

func TestTrailingNUL(t *testing.T) {
	phstest.TrailingNUL(t, Scheme, baseParams())
}

func TestInvalidMemoryCost(t *testing.T) {
	p := baseParams()
	p.MCost = Bounds.MaxMCost + 1
	_, err := Scheme.Decode(p)
	require.Error(t, err)
}
