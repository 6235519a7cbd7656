// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package lyra2 implements the Lyra2 memory-hard scheme: a sponge-based
// family-A kernel whose absorb/squeeze primitive is built on
// golang.org/x/crypto/blake2b, whose initial state is assembled from a
// basil block (a fixed little-endian encoding of the scheme's cost
// parameters, pad10*1-padded) rather than a bare concatenation, whose
// Setup phase reads its past row via (row-1) xor 1 with the mandatory
// decrement wrap-around, and whose Wandering phase picks its second
// source row from the running state, reversing direction every other
// pass over the arena.
package lyra2

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"

	internalarena "github.com/luxfi/phs/arena"
	"github.com/luxfi/phs/contract"
	"github.com/luxfi/phs/kernel"
	"github.com/luxfi/phs/seed"
	"github.com/luxfi/phs/wipe"
)

const SchemeID = "lyra2"
const blockWidth = 96 // 12 * 64-bit words, Lyra2's row width

var Bounds = contract.BoundTable{
	MinTCost:  1,
	MaxTCost:  1 << 20,
	MinMCost:  3,
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
		SeedLen:     64,
	}, nil
}

func (s scheme) Derive(p contract.Params) ([]byte, error) {
	d, err := s.Decode(p)
	if err != nil {
		return nil, err
	}

	basil := seed.Basil(uint64(p.OutLen), uint64(p.TCost), uint64(p.MCost), uint64(len(p.Password)), uint64(len(p.Salt)))

	absorbed := make([]byte, 0, len(p.Password)+len(p.Salt)+len(basil))
	absorbed = append(absorbed, p.Password...)
	absorbed = append(absorbed, p.Salt...)
	absorbed = append(absorbed, basil...)
	padded := seed.PadTenOneOne(absorbed, 128)

	h, err := blake2b.New512(nil)
	if err != nil {
		return nil, contract.ErrPrimitiveFailed
	}
	h.Write(padded)
	seedMaterial := h.Sum(nil)
	defer wipe.Bytes(seedMaterial)

	a, err := internalarena.New(d.N, d.W)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	state := kernel.State{binary.LittleEndian.Uint64(seedMaterial[0:8])}

	f := func(st kernel.State, src1, src2 []byte) []byte {
		out := sponge(seedMaterial, src1, src2)
		// Fold the new row back into the running state, the same way
		// the sponge's own internal state changes with every duplexing
		// operation: pseudorandom_from_state must see a fresh value on
		// every call, not the seed it started with.
		st[0] ^= binary.LittleEndian.Uint64(out[0:8])
		return out
	}
	past := func(st kernel.State, row int) int {
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
	kernel.Setup(a, state, seedMaterial[0:32], seedMaterial[32:64], f, past, nil)

	rnd := func(st kernel.State, row int) int {
		return int(st[0]) % d.N
	}
	kernel.Wander(a, state, f, rnd, d.RoundsTime, nil)

	// Lyra2 absorbs the whole matrix as one contiguous row of d.N
	// column-blocks into the wrap-up squeeze; Row(0, d.N) is the
	// 2-D-matrix view of that, rather than a manual per-block copy.
	final := a.Row(0, d.N)

	out := make([]byte, 0, p.OutLen)
	for len(out) < int(p.OutLen) {
		hh, err := blake2b.New512(nil)
		if err != nil {
			return nil, contract.ErrPrimitiveFailed
		}
		hh.Write(seedMaterial)
		hh.Write(final)
		chunk := hh.Sum(nil)
		out = append(out, chunk...)
		seedMaterial = chunk
	}
	return out[:p.OutLen], nil
}

// sponge is this port's absorb/squeeze primitive: it hashes both source
// rows with the full BLAKE2b-512 (keyed with the first 32 seed bytes;
// no reduced-round G permutation) and emits a row of the arena's fixed
// width.
func sponge(key, src1, src2 []byte) []byte {
	h, err := blake2b.New512(key[:32])
	if err != nil {
		// blake2b.New512 only fails for keys over 64 bytes; key is fixed at 32.
		panic(err)
	}
	h.Write(src1)
	h.Write(src2)
	digest := h.Sum(nil)
	out := make([]byte, blockWidth)
	for i := 0; i < blockWidth; i++ {
		out[i] = digest[i%len(digest)] ^ byte(i)
	}
	return out
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
