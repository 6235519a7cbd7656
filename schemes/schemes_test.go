// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package schemes

import (
	"testing"

	"github.com/luxfi/phs/contract"
	"github.com/luxfi/phs/registry"
	"github.com/stretchr/testify/require"
)

func TestAllElevenSchemesRegistered(t *testing.T) {
	want := []string{
		"antcrypt", "battcrypt", "earworm", "lyra2", "makwa",
		"omegacrypt", "parallel", "polypasshash", "pufferfish",
		"twocats", "yescrypt",
	}
	got := registry.IDs()
	require.ElementsMatch(t, want, got)
}

func TestEveryRegisteredSchemeDerivesOutput(t *testing.T) {
	for _, id := range registry.IDs() {
		id := id
		t.Run(id, func(t *testing.T) {
			s, ok := registry.Scheme(id)
			require.True(t, ok)
			b := s.Bounds()
			p := contract.Params{
				Password: []byte("pwd"),
				Salt:     []byte("salt"),
				TCost:    b.MinTCost,
				MCost:    b.MinMCost,
				OutLen:   32,
			}
			if p.OutLen > b.MaxOutLen {
				p.OutLen = b.MaxOutLen
			}
			out, err := s.Derive(p)
			require.NoError(t, err)
			require.Len(t, out, int(p.OutLen))
		})
	}
}

func TestLookupOfUnknownIDFails(t *testing.T) {
	_, ok := registry.Scheme("does-not-exist")
	require.False(t, ok)
}
