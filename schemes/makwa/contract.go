// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package makwa implements the Makwa memory-hard scheme's CPU-hard
// sibling shape: cost is spent in repeated modular squaring over a
// fixed public modulus (math/big), not in arena traversal, so this
// scheme does not use the arena or kernel packages at all. Pre- and
// post-processing run the squaring input and output through AES
// (crypto/aes) as Makwa's internal masking step, and the final
// Output Extractor squeezes an arbitrary-length digest via SHAKE256
// (golang.org/x/crypto/sha3).
package makwa

import (
	"crypto/aes"
	"crypto/sha512"
	"math/big"

	"golang.org/x/crypto/sha3"

	"github.com/luxfi/phs/contract"
	"github.com/luxfi/phs/wipe"
)

const SchemeID = "makwa"

var Bounds = contract.BoundTable{
	MinTCost:  1,
	MaxTCost:  1 << 24,
	MinMCost:  0,
	MaxMCost:  3, // selects modulus bit-size tier, not an arena size
	MaxOutLen: 256,
}

// modulusTiers holds the four fixed, public moduli of the squaring
// chain; m_cost (0..3) selects one. Tiers 0 and 3 are the primes
// 2^256-189 and 2^1024-105; tiers 1 and 2 are composite. None of them
// is a modulus with secret factors.
var modulusTiers = [4]*big.Int{
	mustModulus("115792089237316195423570985008687907853269984665640564039457584007913129639747"),
	mustModulus("179769313486231590772930519078902473361797697894230657273430081157732675805505447331757989943899373899827141985886939107"),
	mustModulus("269599466671506397946670150870196079798993311554932994243652716265443988137532706789378980751183227437004679744075303149297476560620170170618271019498696321"),
	mustModulus("179769313486231590772930519078902473361797697894230657273430081157732675805500963132708477322407536021120113879871393357658789768814416622492847430639474124377767893424865485276302219601246094119453082952085005768838150682342462881473913110540827237163350510684586298239947245938479716304835356329624224137111"),
}

func mustModulus(dec string) *big.Int {
	n, ok := new(big.Int).SetString(dec, 10)
	if !ok {
		panic("makwa: invalid modulus constant")
	}
	return n
}

type scheme struct{}

var Scheme contract.Scheme = scheme{}

func (scheme) ID() string                 { return SchemeID }
func (scheme) Bounds() contract.BoundTable { return Bounds }

func (scheme) Decode(p contract.Params) (contract.Derived, error) {
	if err := Bounds.Validate(p); err != nil {
		return contract.Derived{}, err
	}
	return contract.Derived{
		N:           1,
		W:           0,
		RoundsTime:  int(p.TCost),
		RoundsInner: 1,
		Lanes:       1,
		Parallelism: 1,
		SeedLen:     64,
	}, nil
}

func (s scheme) Derive(p contract.Params) ([]byte, error) {
	d, err := s.Decode(p)
	if err != nil {
		return nil, err
	}
	modulus := modulusTiers[p.MCost]

	seedMaterial := sha512.Sum512(append(append([]byte{}, p.Password...), p.Salt...))
	defer wipe.Bytes(seedMaterial[:])

	masked, err := aesMask(seedMaterial[:32], seedMaterial[32:48])
	if err != nil {
		return nil, contract.ErrPrimitiveFailed
	}

	x := new(big.Int).SetBytes(masked)
	x.Mod(x, modulus)
	two := big.NewInt(2)
	for i := 0; i < d.RoundsTime; i++ {
		x.Exp(x, two, modulus)
	}

	xb := x.Bytes()
	unmasked, err := aesUnmask(xb, seedMaterial[32:48])
	if err != nil {
		return nil, contract.ErrPrimitiveFailed
	}

	xof := sha3.NewShake256()
	xof.Write(unmasked)
	xof.Write(seedMaterial[:])
	out := make([]byte, p.OutLen)
	if _, err := xof.Read(out); err != nil {
		return nil, contract.ErrPrimitiveFailed
	}
	return out, nil
}

// aesMask/aesUnmask implement Makwa's pre/post "KDF" masking step as a
// single AES-CTR pass, keeping the squaring input indistinguishable
// from random without requiring a second modular operation.
func aesMask(key, iv []byte) ([]byte, error) {
	return aesCTR(key, iv, padTo16(key))
}

func aesUnmask(data, iv []byte) ([]byte, error) {
	return aesCTR(key16(iv), iv, data)
}

func aesCTR(key, iv, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key16(key))
	if err != nil {
		return nil, err
	}
	counter := make([]byte, aes.BlockSize)
	copy(counter, iv)
	out := make([]byte, len(data))
	stream := make([]byte, aes.BlockSize)
	for off := 0; off < len(data); off += aes.BlockSize {
		block.Encrypt(stream, counter)
		end := off + aes.BlockSize
		if end > len(data) {
			end = len(data)
		}
		for i := off; i < end; i++ {
			out[i] = data[i] ^ stream[i-off]
		}
		incCounter(counter)
	}
	return out, nil
}

func incCounter(c []byte) {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]++
		if c[i] != 0 {
			return
		}
	}
}

func key16(b []byte) []byte {
	k := make([]byte, 16)
	copy(k, b)
	return k
}

func padTo16(b []byte) []byte {
	if len(b)%16 == 0 {
		return b
	}
	padded := make([]byte, ((len(b)/16)+1)*16)
	copy(padded, b)
	return padded
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
