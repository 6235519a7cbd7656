// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package arena implements the memory-hardness substrate every scheme
// mixes into: a single owned, cache-line-aligned byte buffer exposed
// through bounds-checked block and row views.
package arena

import (
	"unsafe"

	"github.com/holiman/uint256"
	"github.com/luxfi/phs/contract"
	"github.com/luxfi/phs/wipe"
)

// cacheLine is the alignment boundary arenas are rounded up to.
const cacheLine = 64

// Index is an arena block index, always reduced into [0, N) either by
// mask (N a power of two) or explicit modulo.
type Index uint64

// Arena is the owned M = N*W byte buffer every scheme mixes into. It
// is allocated once per PHS call and zeroed on Close.
type Arena struct {
	buf   []byte // over-allocated; data starts at a cache-line boundary
	data  []byte // cache-line-aligned view of exactly N*W bytes
	n     int    // block count
	w     int    // block width in bytes
	mask  uint64 // n-1 when n is a power of two, else 0
	masked bool
}

// New allocates an Arena of n blocks of w bytes each. It is the only
// operation in this module that may fail with contract.ErrOutOfMemory.
func New(n, w int) (*Arena, error) {
	if n <= 0 || w <= 0 {
		return nil, contract.InvalidParams(contract.StatusInvalidMemoryCost, "arena dimensions must be positive")
	}
	size := n * w
	buf := make([]byte, size+cacheLine)
	if buf == nil { // unreachable for make, kept for symmetry with the documented failure mode
		return nil, contract.ErrOutOfMemory
	}
	off := alignOffset(buf)
	a := &Arena{
		buf:  buf,
		data: buf[off : off+size],
		n:    n,
		w:    w,
	}
	if n&(n-1) == 0 {
		a.mask = uint64(n - 1)
		a.masked = true
	}
	return a, nil
}

// alignOffset returns how many leading bytes of buf to skip so the
// data view starts on a cacheLine boundary.
func alignOffset(buf []byte) int {
	addr := uintptr(unsafe.Pointer(&buf[0]))
	rem := addr % cacheLine
	if rem == 0 {
		return 0
	}
	return int(cacheLine - rem)
}

// N is the block count.
func (a *Arena) N() int { return a.n }

// W is the block width in bytes.
func (a *Arena) W() int { return a.w }

// Reduce maps an arbitrary index into [0, N): masked when N is a power
// of two, modulo otherwise. Both branches are free of secret-dependent
// control flow themselves; the *value* i may depend on secret state,
// but the reduction operation does not branch on it.
func (a *Arena) Reduce(i uint64) Index {
	if a.masked {
		return Index(i & a.mask)
	}
	return Index(i % uint64(a.n))
}

// Block returns the bounds-checked byte slice for block i.
func (a *Arena) Block(i Index) []byte {
	start := int(i) * a.w
	return a.data[start : start+a.w]
}

// Row returns a multi-block contiguous view of cols blocks starting at
// row*cols, for schemes (Lyra2) that address the arena as a 2-D matrix.
func (a *Arena) Row(row, cols int) []byte {
	start := row * cols * a.w
	end := start + cols*a.w
	return a.data[start:end]
}

// Word64 reinterprets block i as a slice of little-endian uint64 lanes,
// matching the little-endian word order output is written in.
func (a *Arena) Word64(i Index) []uint64 {
	b := a.Block(i)
	words := make([]uint64, a.w/8)
	for k := range words {
		words[k] = leUint64(b[k*8:])
	}
	return words
}

// PutWord64 writes lanes back into block i in little-endian order.
func (a *Arena) PutWord64(i Index, lanes []uint64) {
	b := a.Block(i)
	for k, v := range lanes {
		putLeUint64(b[k*8:], v)
	}
}

// Close zeroes the full extent of the arena through wipe.Bytes before
// the buffer becomes eligible for collection.
func (a *Arena) Close() {
	wipe.Bytes(a.data)
	wipe.Bytes(a.buf)
}

// MaskOf returns n-1 as a uint256, for schemes whose sliding window or
// span size is a power of two and want a mask instead of a modulo
// (twocats' Wandering window).
func MaskOf(n int) *uint256.Int {
	m := uint256.NewInt(uint64(n))
	one := uint256.NewInt(1)
	return m.Sub(m, one)
}

func leUint64(b []byte) uint64 {
	_ = b[7]
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
}

func putLeUint64(b []byte, v uint64) {
	_ = b[7]
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	b[4] = byte(v >> 32)
	b[5] = byte(v >> 40)
	b[6] = byte(v >> 48)
	b[7] = byte(v >> 56)
}
