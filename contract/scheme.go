// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

// Scheme is the common entry point every password-hashing candidate in
// this module implements: a uniform decode/derive dispatch shape keyed
// by scheme identifier rather than by EVM precompile address.
type Scheme interface {
	// ID is the scheme's registry key, e.g. "lyra2", "battcrypt".
	ID() string

	// Bounds returns the per-scheme validity envelope.
	Bounds() BoundTable

	// Decode validates Params against Bounds and derives working
	// dimensions: arena shape, round counts, lane and thread fan-out.
	Decode(p Params) (Derived, error)

	// Derive runs Seed -> Arena -> Mixing -> Extractor and returns
	// exactly Params.OutLen bytes, or a Status-tagged error. Derive
	// never partially writes output: on error the returned slice is nil.
	Derive(p Params) ([]byte, error)
}

// Module is the registration idiom every scheme package exposes: a
// registry-facing singleton keyed by scheme identifier.
type Module interface {
	ID() string
	Scheme() Scheme
}
