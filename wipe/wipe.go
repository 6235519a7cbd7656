// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package wipe implements the secure memory wipe every mixing kernel in
// this module applies to state, seed material, and the arena before
// deallocation.
//
// This is deliberately stdlib: a loop the compiler cannot prove dead,
// pinned with runtime.KeepAlive so it cannot be eliminated as a dead
// store to a slice about to be discarded.
package wipe

import "runtime"

// Bytes zeroes b in place through a write path the compiler cannot
// optimize away.
func Bytes(b []byte) {
	if len(b) == 0 {
		return
	}
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// Words zeroes a uint64 lane array in place.
func Words(w []uint64) {
	if len(w) == 0 {
		return
	}
	for i := range w {
		w[i] = 0
	}
	runtime.KeepAlive(w)
}
