// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

// Params is the caller-supplied argument record for one PHS call.
// The core reads it and never mutates it.
type Params struct {
	Password []byte
	Salt     []byte
	TCost    uint32
	MCost    uint32
	OutLen   uint32
}

// BoundTable is a scheme's per-call validity envelope: the min/max
// bounds its Parameter Decoder enforces before deriving working
// dimensions.
type BoundTable struct {
	MinTCost, MaxTCost uint32
	MinMCost, MaxMCost uint32
	MaxOutLen          uint32
	MaxSaltLen         uint32
	MaxPasswordLen     uint32
}

// Validate applies a BoundTable to Params, returning the first
// violated bound as a Status-tagged error: output length, salt
// length, password length, time cost, then memory cost.
func (b BoundTable) Validate(p Params) error {
	if b.MaxOutLen != 0 && p.OutLen > b.MaxOutLen {
		return InvalidParams(StatusInvalidOutputLength, "outlen exceeds scheme maximum")
	}
	if b.MaxSaltLen != 0 && uint32(len(p.Salt)) > b.MaxSaltLen {
		return InvalidParams(StatusInvalidSaltLength, "saltlen exceeds scheme maximum")
	}
	if b.MaxPasswordLen != 0 && uint32(len(p.Password)) > b.MaxPasswordLen {
		return InvalidParams(StatusInvalidPasswordLength, "inlen exceeds scheme maximum")
	}
	if p.TCost < b.MinTCost || (b.MaxTCost != 0 && p.TCost > b.MaxTCost) {
		return InvalidParams(StatusInvalidTimeCost, "t_cost out of range")
	}
	if p.MCost < b.MinMCost || (b.MaxMCost != 0 && p.MCost > b.MaxMCost) {
		return InvalidParams(StatusInvalidMemoryCost, "m_cost out of range")
	}
	return nil
}

// Derived holds the working dimensions computed from Params by a scheme's
// Parameter Decoder: arena shape, round counts, lane/thread fan-out.
type Derived struct {
	N, W          int // arena blocks (N) x block width in bytes (W)
	RoundsTime    int // outer Wandering repetitions (t_cost-derived)
	RoundsInner   int // inner primitive rounds per block update
	Lanes         int
	Parallelism   int
	SeedLen       int
}
