// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package phstest implements the testable properties every
// password-hashing scheme must satisfy as reusable checks any
// scheme's _test.go can call against its own contract.Scheme, rather
// than re-deriving the same Determinism / SaltSensitivity /
// LengthCorrectness checks in every package.
package phstest

import (
	"bytes"
	"testing"

	"github.com/luxfi/phs/contract"
	"github.com/stretchr/testify/require"
)

// Determinism checks that two calls with identical (password, salt,
// t_cost, m_cost) produce byte-identical output.
func Determinism(t *testing.T, s contract.Scheme, p contract.Params) {
	t.Helper()
	out1, err1 := s.Derive(p)
	require.NoError(t, err1)
	out2, err2 := s.Derive(p)
	require.NoError(t, err2)
	require.True(t, bytes.Equal(out1, out2), "determinism: two identical calls diverged")
}

// LengthCorrectness checks that exactly outlen bytes are written.
func LengthCorrectness(t *testing.T, s contract.Scheme, p contract.Params) {
	t.Helper()
	out, err := s.Derive(p)
	require.NoError(t, err)
	require.Len(t, out, int(p.OutLen))
}

// SaltSensitivity checks that flipping one salt bit changes the
// output.
func SaltSensitivity(t *testing.T, s contract.Scheme, p contract.Params) {
	t.Helper()
	out1, err := s.Derive(p)
	require.NoError(t, err)

	p2 := p
	p2.Salt = append([]byte{}, p.Salt...)
	if len(p2.Salt) == 0 {
		p2.Salt = []byte{0x01}
	} else {
		p2.Salt[0] ^= 0x01
	}
	out2, err := s.Derive(p2)
	require.NoError(t, err)

	require.False(t, bytes.Equal(out1, out2), "salt sensitivity: flipping one salt bit produced identical output")
}

// DistinctAcrossPasswords runs N single-byte passwords (default 16,
// overridable via n) through s and checks the outputs are pairwise
// distinct.
func DistinctAcrossPasswords(t *testing.T, s contract.Scheme, base contract.Params, n ...int) {
	t.Helper()
	count := 16
	if len(n) > 0 {
		count = n[0]
	}
	seen := make(map[string]bool, count)
	for i := 0; i < count; i++ {
		p := base
		p.Password = []byte{byte(i)}
		out, err := s.Derive(p)
		require.NoError(t, err)
		key := string(out)
		require.False(t, seen[key], "password %d collided with a previous output", i)
		seen[key] = true
	}
}

// TrailingNUL checks that PHS(password || "\x00", ...) differs from
// PHS(password, ...) — the encoder must not strip trailing NULs.
func TrailingNUL(t *testing.T, s contract.Scheme, p contract.Params) {
	t.Helper()
	out1, err := s.Derive(p)
	require.NoError(t, err)

	p2 := p
	p2.Password = append(append([]byte{}, p.Password...), 0x00)
	out2, err := s.Derive(p2)
	require.NoError(t, err)

	require.False(t, bytes.Equal(out1, out2), "trailing NUL must change output")
}

// ZeroInputHandling checks that an empty password still succeeds and
// yields a nonzero output.
func ZeroInputHandling(t *testing.T, s contract.Scheme, p contract.Params) {
	t.Helper()
	p2 := p
	p2.Password = nil
	out, err := s.Derive(p2)
	require.NoError(t, err)
	require.NotZero(t, countNonZero(out))
}

func countNonZero(b []byte) int {
	n := 0
	for _, v := range b {
		if v != 0 {
			n++
		}
	}
	return n
}
