// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package omegacrypt implements the OmegaCrypt memory-hard scheme: a
// family-B kernel whose round function XORs each arena block against
// a fresh ChaCha20 keystream block (golang.org/x/crypto/chacha20)
// rather than invoking a block cipher in CBC mode, giving a
// stream-cipher texture distinct from battcrypt's Blowfish-CBC
// approach while still satisfying the same two-source block-update
// contract.
package omegacrypt

import (
	"encoding/binary"

	"golang.org/x/crypto/chacha20"

	internalarena "github.com/luxfi/phs/arena"
	"github.com/luxfi/phs/contract"
	"github.com/luxfi/phs/kernel"
	"github.com/luxfi/phs/seed"
	"github.com/luxfi/phs/wipe"
)

const SchemeID = "omegacrypt"
const blockWidth = 64

var Bounds = contract.BoundTable{
	MinTCost:  1,
	MaxTCost:  1 << 18,
	MinMCost:  0,
	MaxMCost:  20,
	MaxOutLen: 128,
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

	key := make([]byte, chacha20.KeySize)
	copy(key, seedMaterial[:32])
	nonce := make([]byte, chacha20.NonceSize)
	copy(nonce, seedMaterial[32:44])

	a, err := internalarena.New(d.N, d.W)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	state := kernel.State{binary.LittleEndian.Uint64(seedMaterial[0:8])}
	counter := uint32(0)

	f := func(st kernel.State, src1, src2 []byte) []byte {
		out := make([]byte, blockWidth)
		mixed := make([]byte, blockWidth)
		for i := 0; i < blockWidth; i++ {
			var b2 byte
			if i < len(src2) {
				b2 = src2[i]
			}
			mixed[i] = src1[i] ^ b2
		}
		c, err := chacha20.NewUnauthenticatedCipher(key, nonce)
		if err != nil {
			panic(err) // key/nonce are fixed-size internal constants
		}
		c.SetCounter(counter)
		counter++
		c.XORKeyStream(out, mixed)
		// Fold the freshly encrypted block back into state so
		// Wandering's pseudorandom_from_state evolves every round
		// instead of reading a fixed seed word.
		st[0] ^= binary.LittleEndian.Uint64(out[0:8])
		return out
	}
	// deterministic_past: a pure formula over row alone — never
	// password state — matching
	// battcrypt's predecessorXorOne shape.
	past := func(st kernel.State, row int) int {
		return predecessorXorOne(row)
	}
	kernel.Setup(a, state, seedMaterial[0:32], seedMaterial[0:32], f, past, nil)

	rnd := func(st kernel.State, row int) int {
		return int(st[0]) % d.N
	}
	kernel.Wander(a, state, f, rnd, d.RoundsTime, nil)

	final := make([]byte, 0, d.N*d.W)
	for i := 0; i < d.N; i++ {
		final = append(final, a.Block(internalarena.Index(i))...)
	}

	c, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		return nil, contract.ErrPrimitiveFailed
	}
	c.SetCounter(counter)
	extracted := make([]byte, len(final))
	c.XORKeyStream(extracted, final)

	out := make([]byte, p.OutLen)
	copy(out, extracted)
	return out, nil
}

// predecessorXorOne computes (row - 1) xor 1, decrementing until the
// result is a valid reference strictly below row. Password-independent:
// a function of row alone, the way every resistant-slice schedule in
// this module's Setup phase must be.
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
