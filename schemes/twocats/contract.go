// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package twocats implements the TwoCats memory-hard scheme: a
// family-A kernel whose Wandering phase walks the arena under a
// Catena-style bit-reversal schedule within a sliding power-of-two
// window, whose round function is AES (crypto/aes) run once per block,
// and whose state-fold step does a carry-propagating 128-bit add over
// two arena words using github.com/holiman/uint256, rather than a
// plain XOR.
package twocats

import (
	"crypto/aes"
	"encoding/binary"
	"math/bits"

	"github.com/holiman/uint256"

	internalarena "github.com/luxfi/phs/arena"
	"github.com/luxfi/phs/contract"
	"github.com/luxfi/phs/kernel"
	"github.com/luxfi/phs/seed"
	"github.com/luxfi/phs/wipe"
)

const SchemeID = "twocats"
const blockWidth = 16 // one AES block

var Bounds = contract.BoundTable{
	MinTCost:  1,
	MaxTCost:  1 << 16,
	MinMCost:  4,
	MaxMCost:  26,
	MaxOutLen: 64,
}

type scheme struct{}

var Scheme contract.Scheme = scheme{}

func (scheme) ID() string                 { return SchemeID }
func (scheme) Bounds() contract.BoundTable { return Bounds }

func (scheme) Decode(p contract.Params) (contract.Derived, error) {
	if err := Bounds.Validate(p); err != nil {
		return contract.Derived{}, err
	}
	n := 1 << p.MCost
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

	seedMaterial := seed.DoubleHash(p.Password, p.Salt)
	defer wipe.Bytes(seedMaterial)

	block, err := aes.NewCipher(seedMaterial[:32])
	if err != nil {
		return nil, contract.ErrPrimitiveFailed
	}

	a, err := internalarena.New(d.N, d.W)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	state := kernel.State{binary.LittleEndian.Uint64(seedMaterial[0:8])}
	bitWidth := bits.Len(uint(d.N - 1))

	f := func(st kernel.State, src1, src2 []byte) []byte {
		return aesFold(block, src1, src2)
	}
	past := func(st kernel.State, row int) int {
		if row == 0 {
			return 0
		}
		r := reverseBits(uint(row), bitWidth) % uint(row)
		return int(r)
	}
	kernel.Setup(a, state, seedMaterial[0:16], seedMaterial[16:32], f, past, nil)

	// Sliding power-of-two window: Wandering only looks back at most
	// windowSize rows. windowSize starts at 4 and doubles after every
	// row it picks for, until it reaches N, so the window spans the
	// whole arena after the first log2(N/4) rows of the first pass.
	windowSize := 4
	rnd := func(st kernel.State, row int) int {
		lo := row - windowSize
		var idx int
		if lo < 0 {
			// Early rows: the window is clipped to [0, row), a span
			// that isn't generally a power of two, so fall back to
			// modulo.
			lo = 0
			span := row - lo
			if span <= 0 {
				return 0
			}
			idx = lo + int(reverseBits(uint(row), bitWidth))%span
		} else {
			// windowSize only ever doubles from 4, so it stays a
			// power of two here and the span mask below is exact.
			mask := internalarena.MaskOf(windowSize)
			idx = lo + int(mask.Uint64()&uint64(reverseBits(uint(row), bitWidth)))
		}
		if windowSize < d.N {
			windowSize *= 2
		}
		return idx
	}
	kernel.Wander(a, state, f, rnd, d.RoundsTime, nil)

	acc := uint256.NewInt(0)
	modulus := new(uint256.Int).Not(uint256.NewInt(0))
	for i := 0; i < d.N; i++ {
		lanes := a.Word64(internalarena.Index(i))
		word := new(uint256.Int).SetUint64(lanes[0])
		if len(lanes) > 1 {
			word = word.Or(word, new(uint256.Int).Lsh(uint256.NewInt(lanes[1]), 64))
		}
		acc = new(uint256.Int).AddMod(acc, word, modulus)
	}
	accBytes := acc.Bytes32()

	h, err := aes.NewCipher(seedMaterial[:32])
	if err != nil {
		return nil, contract.ErrPrimitiveFailed
	}
	out := make([]byte, p.OutLen)
	stream := make([]byte, aes.BlockSize)
	counter := accBytes[:aes.BlockSize]
	for off := 0; off < len(out); off += aes.BlockSize {
		h.Encrypt(stream, counter)
		n := copy(out[off:], stream)
		for i := 0; i < n; i++ {
			counter[i%aes.BlockSize] ^= stream[i]
		}
	}
	return out, nil
}

// aesFold is TwoCats' round function: src1 XOR src2 encrypted once
// under AES, then carry-propagate-added (mod 2^128, via uint256) back
// onto the AES output, so the state-fold step is not a plain XOR.
func aesFold(block interface{ Encrypt(dst, src []byte) }, src1, src2 []byte) []byte {
	mixed := make([]byte, blockWidth)
	for i := 0; i < blockWidth; i++ {
		var b2 byte
		if i < len(src2) {
			b2 = src2[i]
		}
		mixed[i] = src1[i] ^ b2
	}
	enc := make([]byte, blockWidth)
	block.Encrypt(enc, mixed)

	a := new(uint256.Int).SetBytes(enc)
	b := new(uint256.Int).SetBytes(mixed)
	sum := new(uint256.Int).Add(a, b)
	sumBytes := sum.Bytes32()
	return sumBytes[16:32]
}

func reverseBits(v uint, width int) uint {
	var r uint
	for i := 0; i < width; i++ {
		r <<= 1
		r |= v & 1
		v >>= 1
	}
	return r
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
