// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pufferfish implements the Pufferfish memory-hard scheme: a
// family-B kernel built on golang.org/x/crypto/blowfish, but one whose
// schedule is re-keyed in a bcrypt-style repeated-expansion loop seeded
// from SHA-512 (crypto/sha512) rather than the single NewSaltedCipher
// call battcrypt uses — standing in for Pufferfish's password-derived
// S-box generation, which the stdlib blowfish implementation does not
// expose directly. The round function encrypts each 8-byte sub-block
// directly (no CBC chaining), giving Pufferfish a distinct texture
// from battcrypt's CBC-mix round function even though both lean on the
// same cipher.
package pufferfish

import (
	"crypto/cipher"
	"crypto/sha512"
	"encoding/binary"

	"golang.org/x/crypto/blowfish"

	internalarena "github.com/luxfi/phs/arena"
	"github.com/luxfi/phs/contract"
	"github.com/luxfi/phs/kernel"
	"github.com/luxfi/phs/wipe"
)

const SchemeID = "pufferfish"
const blockWidth = 256

var Bounds = contract.BoundTable{
	MinTCost:  1,
	MaxTCost:  1 << 16,
	MinMCost:  4,
	MaxMCost:  20,
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
	n := 1 << (p.MCost - 3)
	if n < 2 {
		n = 2
	}
	return contract.Derived{
		N:           n,
		W:           blockWidth,
		RoundsTime:  int(p.TCost),
		RoundsInner: 1,
		Lanes:       1,
		Parallelism: 1,
		SeedLen:     64,
	}, nil
}

func (s scheme) Derive(p contract.Params) ([]byte, error) {
	d, err := s.Decode(p)
	if err != nil {
		return nil, err
	}

	seedMaterial := sha512.Sum512(append(append([]byte{}, p.Password...), p.Salt...))
	defer wipe.Bytes(seedMaterial[:])

	block, err := dynamicSBoxSchedule(seedMaterial[:], p.Salt, 4)
	if err != nil {
		return nil, contract.ErrPrimitiveFailed
	}

	a, err := internalarena.New(d.N, d.W)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	state := kernel.State{binary.LittleEndian.Uint64(seedMaterial[0:8])}

	f := func(st kernel.State, src1, src2 []byte) []byte {
		out := ecbMix(block, src1, src2)
		// Fold the new block back into state so
		// pseudorandom_from_state evolves every Wandering round
		// instead of reading a fixed seed word.
		st[0] ^= binary.LittleEndian.Uint64(out[0:8])
		return out
	}
	// deterministic_past: a pure formula over row alone (predecessor
	// xor 1) — never password state.
	past := func(st kernel.State, row int) int {
		return predecessorXorOne(row)
	}
	kernel.Setup(a, state, seedMaterial[0:32], seedMaterial[32:64], f, past, nil)

	rnd := func(st kernel.State, row int) int {
		return int(st[0]) % d.N
	}
	kernel.Wander(a, state, f, rnd, d.RoundsTime, nil)

	final := make([]byte, 0, d.N*d.W)
	for i := 0; i < d.N; i++ {
		final = append(final, a.Block(internalarena.Index(i))...)
	}

	extracted := ecbMix(block, final, seedMaterial[:])
	out := make([]byte, p.OutLen)
	for copied := 0; copied < len(out); {
		copied += copy(out[copied:], extracted)
	}
	return out, nil
}

// dynamicSBoxSchedule re-keys a Blowfish cipher rounds times under the
// same salt, each time replacing the key's first 8 bytes with the
// previous round's encryption of them — a bcrypt-style stretch standing
// in for Pufferfish's password-derived S-box generation.
func dynamicSBoxSchedule(key, salt []byte, rounds int) (cipher.Block, error) {
	k := make([]byte, 32)
	copy(k, key[:32])
	s := make([]byte, 16)
	copy(s, salt)
	var block cipher.Block
	for i := 0; i < rounds; i++ {
		b, err := blowfish.NewSaltedCipher(k, s)
		if err != nil {
			return nil, err
		}
		block = b
		next := make([]byte, 8)
		block.Encrypt(next, k[:8])
		copy(k, append(next, k[8:]...))
	}
	return block, nil
}

func ecbMix(block cipher.Block, src1, src2 []byte) []byte {
	out := make([]byte, len(src1))
	for off := 0; off+blowfish.BlockSize <= len(src1); off += blowfish.BlockSize {
		chunk := make([]byte, blowfish.BlockSize)
		for i := 0; i < blowfish.BlockSize; i++ {
			var b2 byte
			if off+i < len(src2) {
				b2 = src2[off+i]
			}
			chunk[i] = src1[off+i] ^ b2
		}
		block.Encrypt(out[off:off+blowfish.BlockSize], chunk)
	}
	return out
}

// predecessorXorOne computes (row - 1) xor 1, decrementing until the
// result is a valid reference strictly below row. Password-independent,
// matching battcrypt's Setup schedule shape.
func predecessorXorOne(row int) int {
	if row == 0 {
		return 0
	}
	v := (row - 1) ^ 1
	for v >= row {
		v--
	}
	if v < 0 {
		v = 0
	}
	return v
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
