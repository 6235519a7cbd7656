// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package polypasshash implements PolyPassHash's single-password hash
// path: password and salt are mixed with SHA-256 (crypto/sha256) into
// input keying material, then expanded to the requested output length
// with HKDF (golang.org/x/crypto/hkdf). PolyPassHash's defining
// feature — splitting a threshold secret across a password store with
// Shamir secret sharing so no single hash is independently verifiable
// — is explicitly out of scope; this implementation hashes each
// password independently, as if the threshold secret were always
// fully reconstructed.
package polypasshash

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/luxfi/phs/contract"
	"github.com/luxfi/phs/wipe"
)

const SchemeID = "polypasshash"

var Bounds = contract.BoundTable{
	MinTCost:  1,
	MaxTCost:  1 << 20,
	MinMCost:  0,
	MaxMCost:  0, // PolyPassHash's single-password path has no memory-hard arena
	MaxOutLen: 255 * sha256.Size,
}

type scheme struct{}

var Scheme contract.Scheme = scheme{}

func (scheme) ID() string                 { return SchemeID }
func (scheme) Bounds() contract.BoundTable { return Bounds }

func (scheme) Decode(p contract.Params) (contract.Derived, error) {
	if err := Bounds.Validate(p); err != nil {
		return contract.Derived{}, err
	}
	// BoundTable.Validate reads a zero MaxMCost as "no upper bound", so
	// the m_cost == 0 lock is enforced here.
	if p.MCost != 0 {
		return contract.Derived{}, contract.InvalidParams(contract.StatusInvalidMemoryCost, "m_cost must be 0")
	}
	return contract.Derived{
		N:           0,
		W:           0,
		RoundsTime:  int(p.TCost),
		RoundsInner: 1,
		Lanes:       1,
		Parallelism: 1,
		SeedLen:     32,
	}, nil
}

func (s scheme) Derive(p contract.Params) ([]byte, error) {
	if _, err := s.Decode(p); err != nil {
		return nil, err
	}

	ikmHash := sha256.New()
	ikmHash.Write(p.Password)
	ikmHash.Write(p.Salt)
	ikm := ikmHash.Sum(nil)
	defer wipe.Bytes(ikm)

	// A stretching loop stands in for repeated threshold-secret mixing:
	// each round re-derives the IKM from its own HKDF output, so
	// t_cost still controls attacker work even with no arena.
	for i := uint32(0); i < p.TCost; i++ {
		hk := hkdf.New(sha256.New, ikm, p.Salt, []byte("polypasshash-stretch"))
		next := make([]byte, 32)
		if _, err := io.ReadFull(hk, next); err != nil {
			return nil, contract.ErrPrimitiveFailed
		}
		copy(ikm, next)
	}

	hk := hkdf.New(sha256.New, ikm, p.Salt, []byte("polypasshash-output"))
	out := make([]byte, p.OutLen)
	if _, err := io.ReadFull(hk, out); err != nil {
		return nil, contract.ErrPrimitiveFailed
	}
	return out, nil
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
