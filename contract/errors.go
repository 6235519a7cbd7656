// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package contract defines the shared entry point every password-hashing
// scheme in this module implements: parameter validation, the status-code
// taxonomy of the original PHS(...) int ABI, and the Scheme registration
// interface schemes plug into the registry with.
package contract

import "errors"

// Status mirrors the scalar return code of the original
//
//	PHS(out, outlen, in, inlen, salt, saltlen, t_cost, m_cost) -> int
//
// ABI: 0 is success, every other value is one of the codes below.
type Status int

const (
	StatusOK Status = iota
	StatusInvalidOutputLength
	StatusInvalidSaltLength
	StatusInvalidPasswordLength
	StatusInvalidTimeCost
	StatusInvalidMemoryCost
	StatusOutOfMemory
	StatusPrimitiveError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusInvalidOutputLength:
		return "InvalidOutputLength"
	case StatusInvalidSaltLength:
		return "InvalidSaltLength"
	case StatusInvalidPasswordLength:
		return "InvalidPasswordLength"
	case StatusInvalidTimeCost:
		return "InvalidTimeCost"
	case StatusInvalidMemoryCost:
		return "InvalidMemoryCost"
	case StatusOutOfMemory:
		return "OutOfMemory"
	case StatusPrimitiveError:
		return "PrimitiveError"
	default:
		return "Unknown"
	}
}

// Code returns the negative-int status the legacy PHS ABI expects;
// StatusOK maps to 0.
func (s Status) Code() int {
	if s == StatusOK {
		return 0
	}
	return -int(s)
}

// StatusErr wraps a Status with the human-readable reason that produced it.
type StatusErr struct {
	Status Status
	Reason string
}

func (e *StatusErr) Error() string {
	if e.Reason == "" {
		return e.Status.String()
	}
	return e.Status.String() + ": " + e.Reason
}

// InvalidParams constructs a StatusErr for a Parameter Decoder rejection.
func InvalidParams(status Status, reason string) error {
	return &StatusErr{Status: status, Reason: reason}
}

// StatusCode recovers the legacy int ABI code from any error produced by
// this module. Errors that don't originate here map to StatusPrimitiveError.
func StatusCode(err error) int {
	if err == nil {
		return 0
	}
	var se *StatusErr
	if errors.As(err, &se) {
		return se.Status.Code()
	}
	return StatusPrimitiveError.Code()
}

// Sentinel errors surfaced by components below the Parameter Decoder.
var (
	ErrOutOfMemory     = &StatusErr{Status: StatusOutOfMemory, Reason: "arena allocation failed"}
	ErrPrimitiveFailed = &StatusErr{Status: StatusPrimitiveError, Reason: "primitive adapter failed"}
)
