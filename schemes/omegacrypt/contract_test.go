// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package omegacrypt

import (
	"testing"

	"github.com/luxfi/phs/contract"
	"github.com/luxfi/phs/phstest"
)

func baseParams() contract.Params {
	return contract.Params{
		Password: []byte("pwd"),
		Salt:     []byte("salt"),
		TCost:    1,
		MCost:    2,
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

func TestZeroInputHandling(t *testing.T) {
	phstest.ZeroInputHandling(t, Scheme, baseParams())
}
