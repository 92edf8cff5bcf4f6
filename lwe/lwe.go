package lwe

import (
	"fmt"
	"math/bits"

	topayz512 "github.com/TOPAY-FOUNDATION/TOPAY-Z512"
	"github.com/TOPAY-FOUNDATION/TOPAY-Z512/utils"
)

// KeyGen generates an LWE key pair from fresh entropy.
func KeyGen(p topayz512.Params) (*topayz512.PublicKey, *topayz512.SecretKey, error) {
	seed, err := utils.SecureRandomBytes(p.SeedLength)
	if err != nil {
		return nil, nil, err
	}
	pk, sk, err := KeyGenWithSeed(p, seed)
	utils.Zeroize(seed)
	return pk, sk, err
}

// KeyGenWithSeed deterministically expands seed into a key pair: a uniform
// N×N matrix A, a small secret vector s, a small error vector e, and
// b = A·s + e mod Q. Identical seeds produce byte-identical keys on every
// platform.
func KeyGenWithSeed(p topayz512.Params, seed []byte) (*topayz512.PublicKey, *topayz512.SecretKey, error) {
	rng, err := utils.NewSeededRNG(seed)
	if err != nil {
		return nil, nil, err
	}

	a := RandomMatrix(rng, p.N, p.N, p.Q)
	s := RandomErrorVector(rng, p.N, p.Q, p.Sigma)
	e := RandomErrorVector(rng, p.N, p.Q, p.Sigma)

	// A and s are folded before b is computed so that a key pair which
	// round-trips through the codec is algebraically identical to the one
	// produced here.
	fold16(a)
	fold16(s)

	b := matVecMul(a, s, p.N, p.N, p.Q)
	for i := range b {
		b[i] = modAdd(b[i], e[i], p.Q)
	}
	fold16(b)
	utils.ZeroizeUint32(e)

	keySeed := append([]byte{}, seed[:p.SeedLength]...)
	pk := &topayz512.PublicKey{A: a, B: b, Seed: keySeed, Params: p}
	sk := &topayz512.SecretKey{S: s, Seed: append([]byte{}, keySeed...), Params: p}
	return pk, sk, nil
}

// Encrypt encrypts a short message against an encoded public key (A‖b‖...).
// The message bytes are packed little-endian into one integer and scaled
// into a single modulus coefficient; messages whose packed value does not
// fit one coefficient are rejected.
func Encrypt(p topayz512.Params, publicKeyBytes, message, seed []byte) ([]uint32, uint32, error) {
	aSize := p.N * p.N * topayz512.CoeffBytes
	bSize := p.N * topayz512.CoeffBytes
	if len(publicKeyBytes) < aSize+bSize {
		return nil, 0, fmt.Errorf("%w: public key bytes are too short", topayz512.ErrInvalidKeyFormat)
	}

	a, err := DecodeMatrix(publicKeyBytes[:aSize], p.N, p.N)
	if err != nil {
		return nil, 0, err
	}
	b, err := DecodeMatrix(publicKeyBytes[aSize:aSize+bSize], 1, p.N)
	if err != nil {
		return nil, 0, err
	}

	// One bit of each coefficient is reserved as noise headroom.
	bitsPerCoeff := bits.Len32(p.Q) - 2
	coeffsNeeded := (len(message)*8 + bitsPerCoeff - 1) / bitsPerCoeff
	if coeffsNeeded > 1 {
		return nil, 0, fmt.Errorf("%w: message too large for single-coefficient encryption", topayz512.ErrEncapsulation)
	}

	rng, err := utils.NewSeededRNG(seed)
	if err != nil {
		return nil, 0, err
	}
	r := RandomErrorVector(rng, p.N, p.Q, p.Sigma)

	v := vecMatMul(r, a, p.N, p.N, p.Q)
	c := innerProduct(r, b, p.Q)
	utils.ZeroizeUint32(r)

	var messageVal uint32
	for i, by := range message {
		messageVal |= uint32(by) << (8 * i)
	}
	scaling := p.Q / 256
	c = modAdd(c, messageVal*scaling%p.Q, p.Q)

	fold16(v)
	c &= 0xFFFF
	return v, c, nil
}

// Decrypt recovers the encoded message bytes from a ciphertext (v, c) and
// the secret vector s. The rounding step absorbs the accumulated error e·r;
// correctness requires |e·r| < Q/512, which ValidateParams enforces for the
// chosen Sigma.
func Decrypt(p topayz512.Params, v []uint32, c uint32, s []uint32) ([]byte, error) {
	if len(v) != p.N || len(s) != p.N {
		return nil, fmt.Errorf("%w: vector length must equal the lattice dimension %d", topayz512.ErrInvalidParameter, p.N)
	}

	vs := innerProduct(v, s, p.Q)
	m := modSub(c, vs, p.Q)

	// Round to the nearest multiple of the scaling factor; the final fold
	// into [0, 256) maps negative noise around zero back onto the message.
	scaling := p.Q / 256
	messageVal := (m + scaling/2) / scaling % 256

	message := []byte{}
	remaining := messageVal
	for remaining > 0 || len(message) == 0 {
		message = append(message, byte(remaining&0xFF))
		remaining >>= 8
	}
	return message, nil
}
