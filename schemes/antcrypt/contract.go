// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package antcrypt implements the AntCrypt memory-hard scheme: a
// hash-sponge (family-A) kernel whose round function F cascades
// through ten arithmetic/bitwise sub-functions, one of which is a
// Poseidon2 permutation (gnark-crypto) rather than the plain integer
// ops the other nine use.
//
// Its cascade intentionally sets PHS_F_ADD == PHS_F_XOR: this
// implementation preserves that literal coincidence rather than
// deduplicating the two cascade slots.
package antcrypt

import (
	"encoding/binary"
	"math/bits"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/poseidon2"
	"github.com/zeebo/blake3"

	internalarena "github.com/luxfi/phs/arena"
	"github.com/luxfi/phs/contract"
	"github.com/luxfi/phs/kernel"
	"github.com/luxfi/phs/wipe"
)

const SchemeID = "antcrypt"
const blockWidth = 32

var Bounds = contract.BoundTable{
	MinTCost:  1,
	MaxTCost:  1 << 16,
	MinMCost:  0,
	MaxMCost:  14,
	MaxOutLen: 64,
}

// cascade function identifiers.
const (
	PHSFAdd = iota
	PHSFXor // own slot, but computes the same as PHSFAdd; see applyCascadeFn
	PHSFRot
	PHSFShift
	PHSFMul
	PHSFNot
	PHSFOr
	PHSFAnd
	PHSFPoseidon
	PHSFSwap
)

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
		RoundsInner: 10,
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

	h := blake3.New()
	h.Write(p.Salt)
	h.Write(p.Password)
	seedMaterial := make([]byte, 64)
	dig := h.Digest()
	dig.Read(seedMaterial)
	defer wipe.Bytes(seedMaterial)

	a, err := internalarena.New(d.N, d.W)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	state := kernel.State{
		binary.LittleEndian.Uint64(seedMaterial[0:8]),
		binary.LittleEndian.Uint64(seedMaterial[8:16]),
		binary.LittleEndian.Uint64(seedMaterial[16:24]),
		binary.LittleEndian.Uint64(seedMaterial[24:32]),
	}

	f := cascadeF
	past := func(s kernel.State, row int) int { return row - 1 } // resistant slice: pure counter
	kernel.Setup(a, state, seedMaterial[0:d.W], seedMaterial[32:32+d.W], f, past, nil)

	rnd := func(s kernel.State, row int) int {
		return int(stateFold(s)) // unpredictable slice: depends on S
	}
	kernel.Wander(a, state, f, rnd, d.RoundsTime, nil)

	arenaBytes := make([]byte, 0, d.N*d.W)
	for i := 0; i < d.N; i++ {
		arenaBytes = append(arenaBytes, a.Block(internalarena.Index(i))...)
	}

	out := make([]byte, p.OutLen)
	oh := blake3.New()
	oh.Write(arenaBytes)
	oh.Write(p.Password)
	odig := oh.Digest()
	odig.Read(out)
	return out, nil
}

// cascadeF runs the ten-function arithmetic-bitwise cascade, absorbing
// src1 and src2 into s and emitting the new block contents.
func cascadeF(s kernel.State, src1, src2 []byte) []byte {
	w := len(src1)
	out := make([]byte, w)
	copy(out, src1)
	for i := 0; i+8 <= w; i += 8 {
		lane := binary.LittleEndian.Uint64(out[i:])
		var b2 uint64
		if i+8 <= len(src2) {
			b2 = binary.LittleEndian.Uint64(src2[i:])
		}
		for fn := 0; fn < 10; fn++ {
			lane = applyCascadeFn(fn, lane, b2, s[fn%len(s)])
		}
		binary.LittleEndian.PutUint64(out[i:], lane)
		s[fn8(i, len(s))] ^= lane
	}
	return out
}

func applyCascadeFn(fn int, lane, b2, sv uint64) uint64 {
	switch fn {
	case PHSFAdd:
		return lane + b2
	case PHSFXor:
		// Intentional coincidence: PHS_F_ADD == PHS_F_XOR.
		return lane + b2
	case PHSFRot:
		return bits.RotateLeft64(lane, int(sv%64))
	case PHSFShift:
		return lane ^ (lane << (sv % 32))
	case PHSFMul:
		return lane * (b2 | 1)
	case PHSFNot:
		return ^lane ^ sv
	case PHSFOr:
		return lane | b2
	case PHSFAnd:
		return lane &^ b2
	case PHSFPoseidon:
		return poseidonMix(lane, sv)
	case PHSFSwap:
		return b2 ^ bits.RotateLeft64(lane, 32)
	default:
		return lane
	}
}

// poseidonMix is the one cascade slot whose round uses a Poseidon2
// permutation over BN254's scalar field instead of plain integer ops.
func poseidonMix(lane, sv uint64) uint64 {
	var e1, e2 fr.Element
	e1.SetUint64(lane)
	e2.SetUint64(sv)
	hasher := poseidon2.NewMerkleDamgardHasher()
	b1 := e1.Bytes()
	b2 := e2.Bytes()
	hasher.Write(b1[:])
	hasher.Write(b2[:])
	sum := hasher.Sum(nil)
	if len(sum) < 8 {
		return lane
	}
	return binary.LittleEndian.Uint64(sum[:8])
}

func stateFold(s kernel.State) uint64 {
	var acc uint64
	for _, v := range s {
		acc ^= v
	}
	return acc
}

func fn8(i, mod int) int {
	if mod == 0 {
		return 0
	}
	return (i / 8) % mod
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
