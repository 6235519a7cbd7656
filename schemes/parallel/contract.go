// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package parallel implements the "Parallel" memory-hard scheme: a
// hash-sponge (family-A) kernel whose round function is a simple
// XOR-then-hash cascade, run across a fixed, compile-time-bounded
// number of lanes synchronized by a barrier-per-slice protocol. It is
// the scheme in this module that most directly exercises
// kernel.RunParallel.
package parallel

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/luxfi/phs/contract"
	"github.com/luxfi/phs/extract"
	"github.com/luxfi/phs/kernel"
	"github.com/luxfi/phs/seed"
	"github.com/luxfi/phs/wipe"

	internalarena "github.com/luxfi/phs/arena"
)

// SchemeID is the registry key for this candidate.
const SchemeID = "parallel"

// Family-A bound table: m_cost 0..14, outlen <= 64, block width W=32.
const blockWidth = 32

var Bounds = contract.BoundTable{
	MinTCost:  1,
	MaxTCost:  1 << 16,
	MinMCost:  0,
	MaxMCost:  14,
	MaxOutLen: 64,
}

// MaxLanes bounds the compile-time parallelism fan-out to a fixed
// number of threads (1..255).
const MaxLanes = 8

type scheme struct{}

// Scheme is the package singleton implementing contract.Scheme.
var Scheme contract.Scheme = scheme{}

func (scheme) ID() string               { return SchemeID }
func (scheme) Bounds() contract.BoundTable { return Bounds }

func (scheme) Decode(p contract.Params) (contract.Derived, error) {
	if err := Bounds.Validate(p); err != nil {
		return contract.Derived{}, err
	}
	n := (1 << (p.MCost + 8)) / blockWidth
	if n < 4 {
		n = 4
	}
	lanes := laneCountFor(n)
	return contract.Derived{
		N:           n,
		W:           blockWidth,
		RoundsTime:  int(p.TCost),
		RoundsInner: 1,
		Lanes:       lanes,
		Parallelism: lanes,
		SeedLen:     64,
	}, nil
}

func laneCountFor(n int) int {
	lanes := n / 64
	if lanes < 1 {
		lanes = 1
	}
	if lanes > MaxLanes {
		lanes = MaxLanes
	}
	return lanes
}

// Derive runs Seed -> Arena -> Mixing -> Extractor for Parallel.
func (s scheme) Derive(p contract.Params) ([]byte, error) {
	d, err := s.Decode(p)
	if err != nil {
		return nil, err
	}

	seedMaterial := seed.DoubleHash(p.Password, p.Salt)
	defer wipe.Bytes(seedMaterial)

	a, err := internalarena.New(d.N, d.W)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	state := kernel.State{leUint64(seedMaterial[0:8]), leUint64(seedMaterial[8:16])}

	f := func(s kernel.State, src1, src2 []byte) []byte {
		return xorThenHash(s, src1, src2, d.W)
	}
	past := func(s kernel.State, row int) int {
		// deterministic_past, password-independent: largest power of two <= row-1.
		return largestPow2LE(row - 1)
	}

	kernel.Setup(a, state, seedMaterial[0:d.W], seedMaterial[d.W:2*d.W], f, past, nil)

	shardSize := d.N / d.Parallelism
	if shardSize < 1 {
		shardSize = d.N
	}
	rnd := func(s kernel.State, row int) int {
		return int(xorFold(s) % uint64(d.N))
	}

	laneBounds := func(lane int) (int, int) {
		lo := lane * shardSize
		hi := lo + shardSize
		if lane == d.Parallelism-1 {
			hi = d.N
		}
		return lo, hi
	}
	laneOf := func(row int) int {
		l := row / shardSize
		if l >= d.Parallelism {
			l = d.Parallelism - 1
		}
		return l
	}

	// Each lane's shard is split into segsPerShard segments. RunParallel
	// barriers between slices, so a slice boundary is the only point at
	// which it's safe to read another lane's output: every segment with
	// index < the current one, in every lane, has already been written
	// and barriered; segments with index > the current one still hold
	// the untouched value from the previous round (or Setup). Only a
	// segment's own index, while it's being written, is unsafe to read
	// cross-lane.
	segsPerShard := 4
	if shardSize < segsPerShard {
		segsPerShard = shardSize
	}
	if segsPerShard < 1 {
		segsPerShard = 1
	}
	segBounds := func(lane, seg int) (int, int) {
		lo, hi := laneBounds(lane)
		segLen := (hi - lo) / segsPerShard
		if segLen < 1 {
			segLen = 1
		}
		segLo := lo + seg*segLen
		if segLo > hi {
			segLo = hi
		}
		segHi := segLo + segLen
		if seg == segsPerShard-1 || segHi > hi {
			segHi = hi
		}
		return segLo, segHi
	}
	segOf := func(row int) int {
		lane := laneOf(row)
		lo, hi := laneBounds(lane)
		segLen := (hi - lo) / segsPerShard
		if segLen < 1 {
			segLen = 1
		}
		seg := (row - lo) / segLen
		if seg >= segsPerShard {
			seg = segsPerShard - 1
		}
		return seg
	}
	// safeRead confines a candidate row to one the current (lane, seg)
	// is guaranteed to observe in a fully-written, barrier-stable
	// state: either a different segment index (already complete or not
	// yet started this round) or an earlier row in this same lane's
	// current, sequentially-processed segment.
	safeRead := func(candidate, row, lane, seg int) int {
		if segOf(candidate) != seg {
			return candidate
		}
		if laneOf(candidate) == lane && candidate < row {
			return candidate
		}
		laneLo, hi := laneBounds(lane)
		if sLo, _ := segBounds(lane, seg); sLo > laneLo {
			return sLo - 1
		}
		return hi - 1
	}

	laneStates := make([]kernel.State, d.Parallelism)
	for i := range laneStates {
		laneStates[i] = append(kernel.State{}, state...)
	}

	totalSlices := d.RoundsTime * segsPerShard
	kernel.RunParallel(d.Parallelism, totalSlices, func(lane, slice int) {
		seg := slice % segsPerShard
		if seg == 0 {
			copy(laneStates[lane], state)
		}
		ls := laneStates[lane]
		segLo, segHi := segBounds(lane, seg)
		for row := segLo; row < segHi; row++ {
			rawRowa := a.Reduce(uint64(rnd(ls, row)))
			rowa := safeRead(int(rawRowa), row, lane, seg)
			rawPrev := row - 1
			if rawPrev < 0 {
				rawPrev = d.N - 1
			}
			prev := safeRead(rawPrev, row, lane, seg)
			out := f(ls, a.Block(internalarena.Index(prev)), a.Block(internalarena.Index(rowa)))
			copy(a.Block(internalarena.Index(row)), out)
		}
	})

	arenaBytes := make([]byte, 0, d.N*d.W)
	for i := 0; i < d.N; i++ {
		arenaBytes = append(arenaBytes, a.Block(internalarena.Index(i))...)
	}

	h := func(data []byte) []byte {
		sum := sha256.Sum256(data)
		return sum[:]
	}
	if int(p.OutLen) <= sha256.Size {
		return extract.FullHashFits(h, arenaBytes, int(p.OutLen)), nil
	}
	return extract.CounterStream(h, arenaBytes, p.Password, int(p.OutLen)), nil
}

// xorThenHash is Parallel's round function F: XOR the two source
// blocks into the state, hash, and emit the first W bytes of the
// digest stream as the new block contents.
func xorThenHash(s kernel.State, a, b []byte, w int) []byte {
	mixed := make([]byte, w)
	for i := 0; i < w; i++ {
		var bv byte
		if i < len(b) {
			bv = b[i]
		}
		var av byte
		if i < len(a) {
			av = a[i]
		}
		mixed[i] = av ^ bv
	}
	for i, v := range s {
		binary.LittleEndian.PutUint64(mixed[(i*8)%w:], v^binary.LittleEndian.Uint64(mixed[(i*8)%w:]))
	}
	h := sha256.Sum256(mixed)
	out := make([]byte, w)
	for i := 0; i < w; i++ {
		out[i] = h[i%sha256.Size]
	}
	// fold the digest back into the caller's state so later blocks
	// observe this update (state is mutated in place).
	for i := range s {
		if i*8+8 <= len(h) {
			s[i] ^= binary.LittleEndian.Uint64(h[i*8 : i*8+8])
		}
	}
	return out
}

func xorFold(s kernel.State) uint64 {
	var acc uint64
	for _, v := range s {
		acc ^= v
	}
	return acc
}

func largestPow2LE(n int) int {
	if n < 1 {
		return 0
	}
	p := 1
	for p*2 <= n {
		p *= 2
	}
	return p
}

func leUint64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8 && i < len(b); i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}

// PHS is the legacy-ABI-compatible entry point.
func PHS(out, password, salt []byte, tCost, mCost uint32) error {
	p := contract.Params{
		Password: password,
		Salt:     salt,
		TCost:    tCost,
		MCost:    mCost,
		OutLen:   uint32(len(out)),
	}
	res, err := Scheme.Derive(p)
	if err != nil {
		return err
	}
	copy(out, res)
	return nil
}
