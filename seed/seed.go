// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package seed implements Seed Derivation: the shapes schemes use to
// turn (password, salt, params) into seed-derived mixing state.
package seed

import (
	"crypto/sha512"
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// DoubleHash computes seed = PRF(PRF(salt) || password) using SHA-512
// as PRF.
func DoubleHash(password, salt []byte) []byte {
	inner := sha512.Sum512(salt)
	h := sha512.New()
	h.Write(inner[:])
	h.Write(password)
	sum := h.Sum(nil)
	return sum
}

// PrefixedCounterPRF derives block_i = PRF(BE32(i) || prefixed_salt ||
// password) using BLAKE2b-512.
func PrefixedCounterPRF(password, prefixedSalt []byte, counter uint32, outLen int) ([]byte, error) {
	h, err := blake2b.New512(nil)
	if err != nil {
		return nil, err
	}
	var be [4]byte
	binary.BigEndian.PutUint32(be[:], counter)
	h.Write(be[:])
	h.Write(prefixedSalt)
	h.Write(password)
	sum := h.Sum(nil)
	out := make([]byte, outLen)
	for copied := 0; copied < outLen; {
		n := copy(out[copied:], sum)
		copied += n
		if copied < outLen {
			sum = blake2bAgain(sum)
		}
	}
	return out, nil
}

func blake2bAgain(prev []byte) []byte {
	h, _ := blake2b.New512(nil)
	h.Write(prev)
	return h.Sum(nil)
}

// Basil packs every numeric parameter into a fixed little-endian order
// ahead of password||salt. Some reference basil encodings are
// host-memcpy-dependent; this implementation fixes little-endian
// rather than reproducing that ambiguity.
func Basil(params ...uint64) []byte {
	out := make([]byte, 8*len(params))
	for i, p := range params {
		binary.LittleEndian.PutUint64(out[i*8:], p)
	}
	return out
}

// PadTenOneOne implements pad10*1 padding for Lyra2's
// padded-concatenation seed shape: append 0x80, zero-pad to a multiple
// of blockLen, then set the final bit.
func PadTenOneOne(data []byte, blockLen int) []byte {
	padded := append([]byte{}, data...)
	padded = append(padded, 0x80)
	for len(padded)%blockLen != 0 {
		padded = append(padded, 0x00)
	}
	padded[len(padded)-1] |= 0x01
	return padded
}
