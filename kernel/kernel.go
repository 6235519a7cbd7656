// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package kernel implements the two-phase Setup/Wandering mixing loop
// shared by every scheme, generalized over a scheme-supplied round
// function and schedule so each scheme package only has to provide the
// parts that vary: F, deterministic_past, and pseudorandom_from_state.
package kernel

import (
	"sync"

	"github.com/luxfi/phs/arena"
)

// State is the small register-resident mixing state threaded through
// every block update.
type State []uint64

// RoundFunc is the block update primitive F: it absorbs src1 (and
// optionally src2) into s and returns the bytes written back to dst.
type RoundFunc func(s State, src1, src2 []byte) (dst []byte)

// ScheduleFunc selects the secondary source block for row during Setup
// (deterministic_past) or Wandering (pseudorandom_from_state).
type ScheduleFunc func(s State, row int) int

// SchedulePoint identifies one write position.
type SchedulePoint struct {
	Slice, Lane, Block int
}

// Stats is an optional, caller-provided collector for block-touch and
// phase-completion events. A nil Stats disables collection entirely;
// the kernel itself stays reentrant and holds no package-level state.
type Stats interface {
	BlockTouched(point SchedulePoint)
	PhaseDone(phase string, blocks int)
}

// Setup fills every block of a in a deterministic, password-independent
// schedule: block 0 and 1 come from the seed-derived state, then each
// row = 2..N-1 absorbs its predecessor and past(row) < row.
func Setup(a *arena.Arena, s State, seed0, seed1 []byte, f RoundFunc, past ScheduleFunc, stats Stats) {
	a.PutWord64(0, bytesToWords(seed0, a.W()/8))
	a.PutWord64(1, bytesToWords(seed1, a.W()/8))

	for row := 2; row < a.N(); row++ {
		src2 := a.Reduce(uint64(past(s, row)))
		out := f(s, a.Block(arena.Index(row-1)), a.Block(src2))
		copy(a.Block(arena.Index(row)), out)
		if stats != nil {
			stats.BlockTouched(SchedulePoint{Slice: 0, Block: row})
		}
	}
	if stats != nil {
		stats.PhaseDone("setup", a.N())
	}
}

// Wander repeats the state-dependent rewrite rounds times, reversing
// direction on odd/even repetitions and feeding the round's output
// back into the secondary source (rowa) so a pebbling adversary cannot
// cheaply recompute it later.
func Wander(a *arena.Arena, s State, f RoundFunc, rnd ScheduleFunc, rounds int, stats Stats) {
	n := a.N()
	for tau := 1; tau <= rounds; tau++ {
		odd := tau%2 == 1
		prev := 0
		if odd {
			prev = 0
		} else {
			prev = n - 1
		}

		order := make([]int, n)
		if odd {
			for i := 0; i < n; i++ {
				order[i] = n - 1 - i
			}
		} else {
			for i := 0; i < n; i++ {
				order[i] = i
			}
		}

		for _, row := range order {
			rowa := a.Reduce(uint64(rnd(s, row)))
			out := f(s, a.Block(arena.Index(prev)), a.Block(rowa))
			dst := a.Block(arena.Index(row))
			copy(dst, out)
			feedback := rotWordsXor(out, a.Block(rowa))
			copy(a.Block(rowa), feedback)
			prev = row
			if stats != nil {
				stats.BlockTouched(SchedulePoint{Slice: tau, Lane: 0, Block: row})
			}
		}
		if stats != nil {
			stats.PhaseDone("wander", n)
		}
	}
}

// RunParallel shards the arena across `parallelism` goroutines and
// synchronizes them with a barrier after every slice: all goroutines
// finish slice k's writes before any goroutine starts slice k+1.
func RunParallel(parallelism, slices int, work func(lane, slice int)) {
	if parallelism <= 1 {
		for slice := 0; slice < slices; slice++ {
			work(0, slice)
		}
		return
	}
	for slice := 0; slice < slices; slice++ {
		var wg sync.WaitGroup
		wg.Add(parallelism)
		for lane := 0; lane < parallelism; lane++ {
			go func(lane int) {
				defer wg.Done()
				work(lane, slice)
			}(lane)
		}
		wg.Wait() // barrier: no goroutine starts slice+1 before all finish slice
	}
}

func bytesToWords(b []byte, n int) []uint64 {
	out := make([]uint64, n)
	for i := 0; i < n; i++ {
		var v uint64
		for k := 0; k < 8; k++ {
			idx := i*8 + k
			if idx < len(b) {
				v |= uint64(b[idx]) << (8 * k)
			}
		}
		out[i] = v
	}
	return out
}

// rotWordsXor implements the optional feedback write: arena[src2] <-
// rotW(out) XOR arena[src2], rotating by one byte as the cheapest
// faithful rendition of a word rotation over a byte-addressed arena.
func rotWordsXor(out, old []byte) []byte {
	n := len(old)
	res := make([]byte, n)
	for i := 0; i < n; i++ {
		var rotated byte
		if len(out) > 0 {
			rotated = out[(i+1)%len(out)]
		}
		res[i] = rotated ^ old[i]
	}
	return res
}
