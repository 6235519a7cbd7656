// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package extract implements the Output Extractor: compress final
// arena and state into exactly outlen bytes, either directly
// (full-hash-fits) or via a counter-prefixed XOF stream.
package extract

import "encoding/binary"

// HashFunc produces a fixed-size digest of data.
type HashFunc func(data []byte) []byte

// FullHashFits truncates H(arena) to outLen when outLen fits within
// one digest.
func FullHashFits(h HashFunc, arena []byte, outLen int) []byte {
	sum := h(arena)
	if outLen > len(sum) {
		outLen = len(sum)
	}
	out := make([]byte, outLen)
	copy(out, sum)
	return out
}

// CounterStream squeezes output longer than one digest: starting at
// counter=1, repeatedly hash counter||arena||password and append until
// outLen bytes are produced.
func CounterStream(h HashFunc, arena, password []byte, outLen int) []byte {
	out := make([]byte, 0, outLen)
	counter := uint32(1)
	for len(out) < outLen {
		var be [4]byte
		binary.BigEndian.PutUint32(be[:], counter)
		buf := make([]byte, 0, 4+len(arena)+len(password))
		buf = append(buf, be[:]...)
		buf = append(buf, arena...)
		buf = append(buf, password...)
		out = append(out, h(buf)...)
		counter++
	}
	return out[:outLen]
}

// XOF is satisfied by any extendable-output hash state (blake3, k12):
// Write absorbs input, Read squeezes output bytes.
type XOF interface {
	Write(p []byte) (int, error)
	Read(p []byte) (int, error)
}

// FromXOF writes arena||password into x and squeezes exactly outLen
// bytes, the native-XOF variant of the counter-stream shape used by
// schemes whose primitive (blake3, KangarooTwelve) supports arbitrary
// output length directly.
func FromXOF(x XOF, arena, password []byte, outLen int) ([]byte, error) {
	if _, err := x.Write(arena); err != nil {
		return nil, err
	}
	if _, err := x.Write(password); err != nil {
		return nil, err
	}
	out := make([]byte, outLen)
	if _, err := x.Read(out); err != nil {
		return nil, err
	}
	return out, nil
}
