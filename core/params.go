// Package core provides parameter sets and validation for TOPAY-Z512.
package core

import (
	"errors"
	"fmt"
	"math"

	topayz512 "github.com/TOPAY-FOUNDATION/TOPAY-Z512"
)

// Z512Params is the canonical parameter set: 512-bit classical security with
// lattice dimension 1024 over the prime modulus 2^16 + 1.
var Z512Params = topayz512.Params{
	Level:        topayz512.Z512,
	N:            1024,
	Q:            65537,
	Sigma:        0.75,
	SecretLength: 64,
	SeedLength:   32,
	FragmentSize: 256,
	MinFragments: 2,
	MaxFragments: 16,
}

// GetParams returns the parameter set for the given security level.
func GetParams(level topayz512.SecurityLevel) (topayz512.Params, error) {
	switch level {
	case topayz512.Z512:
		return Z512Params, nil
	default:
		return topayz512.Params{}, fmt.Errorf("unknown security level: %s", level)
	}
}

// ValidateParams validates the parameter set for security and consistency.
func ValidateParams(p topayz512.Params) error {
	if p.N <= 0 {
		return errors.New("lattice dimension must be positive")
	}
	if !isPrime(uint64(p.Q)) {
		return errors.New("modulus must be prime")
	}
	if p.Q > 1<<16+1 {
		return errors.New("modulus does not fit the 2-byte coefficient layout")
	}
	if p.Q < 512 {
		return errors.New("modulus too small for message scaling")
	}
	if p.Sigma <= 0 {
		return errors.New("sigma must be positive")
	}
	// Decapsulation rounds away the accumulated error e·r; the fold is only
	// reliable when a six-sigma noise excursion stays below Q/512. Re-check
	// this bound whenever N, Q, or Sigma change.
	noiseStd := (p.Sigma*p.Sigma + 1.0/12) * math.Sqrt(float64(p.N))
	if 6*noiseStd >= float64(p.Q)/512 {
		return errors.New("sigma exceeds the decryption noise budget for this N and Q")
	}
	if p.SecretLength != 64 {
		return errors.New("secret length must equal the SHA3-512 digest size")
	}
	if p.SeedLength < 32 {
		return errors.New("seed length must be at least 32 bytes")
	}
	if p.FragmentSize <= 0 {
		return errors.New("fragment size must be positive")
	}
	if p.MinFragments < 2 {
		return errors.New("minimum fragment count must be at least 2")
	}
	if p.MaxFragments < p.MinFragments {
		return errors.New("maximum fragment count must be at least the minimum")
	}
	return nil
}

// isPrime checks primality by trial division. It is used for validating
// parameters, not for generating large primes.
func isPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	if n == 2 {
		return true
	}
	if n%2 == 0 {
		return false
	}
	for i := uint64(3); i*i <= n; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}
