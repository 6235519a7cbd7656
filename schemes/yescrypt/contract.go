// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package yescrypt implements the yescrypt memory-hard scheme: a
// family-A kernel whose round function emits each new arena block as a
// Salsa20 keystream block (golang.org/x/crypto/salsa20/salsa) keyed and
// nonced from its two source blocks, run through a
// scrypt-style ROMix pass — Setup fills the arena sequentially with no
// lookback, and Wandering reads a pseudorandom past block determined
// by the running state back into the stream — rather than a fixed
// counter or bit-reversal schedule.
package yescrypt

import (
	"encoding/binary"

	"golang.org/x/crypto/salsa20/salsa"

	internalarena "github.com/luxfi/phs/arena"
	"github.com/luxfi/phs/contract"
	"github.com/luxfi/phs/kernel"
	"github.com/luxfi/phs/seed"
	"github.com/luxfi/phs/wipe"
)

const SchemeID = "yescrypt"
const blockWidth = 64

var Bounds = contract.BoundTable{
	MinTCost:  1,
	MaxTCost:  1 << 16,
	MinMCost:  4,
	MaxMCost:  24,
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

	var key [32]byte
	copy(key[:], seedMaterial[:32])

	a, err := internalarena.New(d.N, d.W)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	state := kernel.State{binary.LittleEndian.Uint64(seedMaterial[0:8])}

	f := func(st kernel.State, src1, src2 []byte) []byte {
		out := salsaMix(&key, src1, src2)
		// ROMix's X = H(X ^ V[j]) keeps the running scalar fresh every
		// round; fold the new block back into state the same way so
		// Wandering's pseudorandom_from_state isn't reading a constant.
		st[0] ^= binary.LittleEndian.Uint64(out[0:8])
		return out
	}
	// ROMix-style Setup: fill the arena sequentially with no lookback,
	// each block derived purely from its predecessor.
	seqPast := func(st kernel.State, row int) int {
		if row == 0 {
			return 0
		}
		return row - 1
	}
	kernel.Setup(a, state, seedMaterial[0:32], seedMaterial[0:32], f, seqPast, nil)

	// ROMix-style Wandering: read a pseudorandom past block determined
	// by the current state and Salsa-mix it back into the stream.
	rnd := func(st kernel.State, row int) int {
		return int(st[0]) % d.N
	}
	kernel.Wander(a, state, f, rnd, d.RoundsTime, nil)

	final := make([]byte, 0, d.N*d.W)
	for i := 0; i < d.N; i++ {
		final = append(final, a.Block(internalarena.Index(i))...)
	}

	out := make([]byte, 0, p.OutLen)
	counter := uint64(0)
	for len(out) < int(p.OutLen) {
		nonce := nonceFrom(counter, final)
		chunk := make([]byte, blockWidth)
		salsa.XORKeyStream(chunk, make([]byte, blockWidth), &nonce, &key)
		out = append(out, chunk...)
		counter++
	}
	return out[:p.OutLen], nil
}

// salsaMix is yescrypt's round function: the first 16 bytes of the two
// source blocks are XORed together and run through HSalsa20 to derive a
// round key, the last 16 bytes of src1 become the nonce, and the output
// is the resulting Salsa20 keystream block, folding the arena's running
// contents into the cipher's key and nonce rather than rehashing them.
func salsaMix(key *[32]byte, src1, src2 []byte) []byte {
	var hsalsaOut [32]byte
	var hsalsaIn [16]byte
	for i := 0; i < 16; i++ {
		var a, b byte
		if i < len(src1) {
			a = src1[i]
		}
		if i < len(src2) {
			b = src2[i]
		}
		hsalsaIn[i] = a ^ b
	}
	salsa.HSalsa20(&hsalsaOut, &hsalsaIn, key, &sigma)

	var nonce [16]byte
	for i := 0; i < 16 && i < len(src1); i++ {
		nonce[i] = src1[len(src1)-16+i%16]
	}

	out := make([]byte, blockWidth)
	var roundKey [32]byte
	copy(roundKey[:], hsalsaOut[:])
	salsa.XORKeyStream(out, make([]byte, blockWidth), &nonce, &roundKey)
	return out
}

func nonceFrom(counter uint64, data []byte) [16]byte {
	var nonce [16]byte
	binary.LittleEndian.PutUint64(nonce[:8], counter)
	for i := 0; i < 8 && i < len(data); i++ {
		nonce[8+i] = data[i]
	}
	return nonce
}

var sigma = [16]byte{'e', 'x', 'p', 'a', 'n', 'd', ' ', '3', '2', '-', 'b', 'y', 't', 'e', ' ', 'k'}

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
