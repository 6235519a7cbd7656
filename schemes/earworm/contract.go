// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package earworm implements the EARWORM memory-hard scheme: a
// family-A kernel whose Seed Derivation uses the "prefixed salt" PRF
// shape (block_i = PRF(BE32(i) || prefixed_salt ||
// password)), and whose Setup schedule prefetches the next chunk's
// index from the same PRF output stream rather than a pure counter
// formula. The Output Extractor absorbs arena||password into
// KangarooTwelve (circl/xof/k12) and squeezes outlen bytes from it in
// one read, with no counter prefix, instead of rehashing with a fixed-size
// digest, since EARWORM's output is naturally of variable length.
package earworm

import (
	"encoding/binary"

	"github.com/cloudflare/circl/xof/k12"

	internalarena "github.com/luxfi/phs/arena"
	"github.com/luxfi/phs/contract"
	"github.com/luxfi/phs/kernel"
	"github.com/luxfi/phs/seed"
	"github.com/luxfi/phs/wipe"
)

const SchemeID = "earworm"
const blockWidth = 32

var Bounds = contract.BoundTable{
	MinTCost:  1,
	MaxTCost:  1 << 16,
	MinMCost:  0,
	MaxMCost:  14,
	MaxOutLen: 1024, // EARWORM's XOF extractor supports long output
}

type scheme struct{}

var Scheme contract.Scheme = scheme{}

func (scheme) ID() string                 { return SchemeID }
func (scheme) Bounds() contract.BoundTable { return Bounds }

func (scheme) Decode(p contract.Params) (contract.Derived, error) {
	if err := Bounds.Validate(p); err != nil {
		return contract.Derived{}, err
	}
	n := (1 << (p.MCost + 8)) / blockWidth
	if n < 4 {
		n = 4
	}
	return contract.Derived{
		N:           n,
		W:           blockWidth,
		RoundsTime:  int(p.TCost),
		RoundsInner: 1,
		Lanes:       1,
		Parallelism: 1,
		SeedLen:     32,
	}, nil
}

func (s scheme) Derive(p contract.Params) ([]byte, error) {
	d, err := s.Decode(p)
	if err != nil {
		return nil, err
	}

	prefixedSalt := append([]byte{0x45, 0x57, 0x52, 0x4d}, p.Salt...) // "EWRM" domain prefix

	// Precompute a PRF chunk stream: chunk[i] = PRF(BE32(i)||prefixed_salt||password).
	// deterministic_past for row r prefetches the index encoded in
	// chunk[r]'s own output, rather than a closed-form counter formula.
	chunks := make([][]byte, d.N)
	for i := 0; i < d.N; i++ {
		c, err := seed.PrefixedCounterPRF(p.Password, prefixedSalt, uint32(i), blockWidth)
		if err != nil {
			return nil, contract.ErrPrimitiveFailed
		}
		chunks[i] = c
	}
	defer func() {
		for _, c := range chunks {
			wipe.Bytes(c)
		}
	}()

	a, err := internalarena.New(d.N, d.W)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	state := kernel.State{binary.LittleEndian.Uint64(chunks[0][0:8])}

	f := func(s kernel.State, src1, src2 []byte) []byte {
		out := make([]byte, len(src1))
		for i := range out {
			var b2 byte
			if i < len(src2) {
				b2 = src2[i]
			}
			out[i] = src1[i] ^ b2
		}
		// EARWORM's own schedule re-derives its running index from the
		// just-computed scratchpad (arena_index = to_index(scratchpad,
		// ...)) after every step; fold the new block into state the
		// same way so pseudorandom_from_state evolves every round.
		if len(out) >= 8 {
			s[0] ^= binary.LittleEndian.Uint64(out[0:8])
		}
		return out
	}
	past := func(s kernel.State, row int) int {
		// Prefetched index: the chunk's own PRF output names the past
		// block it reads from, bounded below row.
		if row == 0 {
			return 0
		}
		prefetched := int(binary.LittleEndian.Uint32(chunks[row][8:12])) % row
		return prefetched
	}
	kernel.Setup(a, state, chunks[0], chunks[1], f, past, nil)

	rnd := func(s kernel.State, row int) int {
		return int(s[0]) % d.N
	}
	kernel.Wander(a, state, f, rnd, d.RoundsTime, nil)

	arenaBytes := make([]byte, 0, d.N*d.W)
	for i := 0; i < d.N; i++ {
		arenaBytes = append(arenaBytes, a.Block(internalarena.Index(i))...)
	}

	x := k12.NewDraft10([]byte("earworm-output"))
	x.Write(arenaBytes)
	x.Write(p.Password)
	out := make([]byte, p.OutLen)
	if _, err := x.Read(out); err != nil {
		return nil, contract.ErrPrimitiveFailed
	}
	return out, nil
}

// PHS is the legacy-ABI-compatible entry point.
func PHS(out, password, salt []byte, tCost, mCost uint32) error {
	p := contract.Params{Password: password, Salt: salt, TCost: tCost, MCost: mCost, OutLen: uint32(len(out))}
	res, err := Scheme.Derive(p)
	if err != nil {
		return err
	}
	copy(out, res)
	return nil
}
