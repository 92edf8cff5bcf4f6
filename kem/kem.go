// Package kem implements the Key Encapsulation Mechanism façade for
// TOPAY-Z512. It wraps the LWE engine with typed, length-validated key and
// ciphertext containers and derives 512-bit shared secrets with SHA3-512.
package kem

import (
	"fmt"

	topayz512 "github.com/TOPAY-FOUNDATION/TOPAY-Z512"
	"github.com/TOPAY-FOUNDATION/TOPAY-Z512/core"
	"github.com/TOPAY-FOUNDATION/TOPAY-Z512/lwe"
	"github.com/TOPAY-FOUNDATION/TOPAY-Z512/utils"
)

// GenerateKeyPair generates a TOPAY-Z512 KEM key pair from fresh entropy.
func GenerateKeyPair(p topayz512.Params) (*topayz512.KeyPair, error) {
	seed, err := utils.SecureRandomBytes(p.SeedLength)
	if err != nil {
		return nil, err
	}
	kp, err := GenerateKeyPairFromSeed(p, seed)
	utils.Zeroize(seed)
	return kp, err
}

// GenerateKeyPairFromSeed generates a deterministic key pair from seed.
// Identical seeds yield byte-identical public and secret keys, which is what
// makes regression vectors reproducible across platforms.
func GenerateKeyPairFromSeed(p topayz512.Params, seed []byte) (*topayz512.KeyPair, error) {
	if err := core.ValidateParams(p); err != nil {
		return nil, err
	}
	pk, sk, err := lwe.KeyGenWithSeed(p, seed)
	if err != nil {
		return nil, err
	}
	return &topayz512.KeyPair{PublicKey: *pk, SecretKey: *sk}, nil
}

// Encapsulate generates a shared secret and the ciphertext that transports
// it to the holder of the secret key.
func Encapsulate(pk *topayz512.PublicKey) (*topayz512.EncapsulationResult, error) {
	// The ephemeral seed is fresh entropy, never the key seed.
	seed, err := utils.SecureRandomBytes(pk.Params.SeedLength)
	if err != nil {
		return nil, err
	}
	res, err := EncapsulateWithSeed(pk, seed)
	utils.Zeroize(seed)
	return res, err
}

// EncapsulateWithSeed performs deterministic encapsulation from an ephemeral
// seed. The seed must be independent of the key seed and never reused.
//
// The sampled message is SecretLength bytes; its leading byte is what the
// single-coefficient LWE encoding protects algebraically, while the shared
// secret is the SHA3-512 digest of the whole message.
func EncapsulateWithSeed(pk *topayz512.PublicKey, seed []byte) (*topayz512.EncapsulationResult, error) {
	p := pk.Params
	rng, err := utils.NewSeededRNG(seed)
	if err != nil {
		return nil, err
	}

	message := make([]byte, p.SecretLength)
	rng.Read(message)
	encSeed := make([]byte, p.SeedLength)
	rng.Read(encSeed)

	v, c, err := lwe.Encrypt(p, SerializePublicKey(pk), message[:1], encSeed)
	utils.Zeroize(encSeed)
	if err != nil {
		utils.Zeroize(message)
		return nil, err
	}

	return &topayz512.EncapsulationResult{
		SharedSecret: utils.Hash(message),
		Ciphertext:   topayz512.Ciphertext{V: v, C: c, Message: message},
	}, nil
}

// Decapsulate recovers the shared secret from a ciphertext. It fails when
// the message recovered from the LWE layer does not match the plaintext
// carried in the ciphertext, which signals corruption, tampering, or a
// parameter mismatch.
func Decapsulate(sk *topayz512.SecretKey, ct *topayz512.Ciphertext) ([]byte, error) {
	p := sk.Params
	if len(ct.V) != p.N || len(ct.Message) != p.SecretLength {
		return nil, fmt.Errorf("%w: wrong component lengths", topayz512.ErrInvalidCiphertextFormat)
	}

	recovered, err := lwe.Decrypt(p, ct.V, ct.C, sk.S)
	if err != nil {
		return nil, err
	}
	if len(recovered) != 1 || recovered[0] != ct.Message[0] {
		return nil, fmt.Errorf("%w: invalid ciphertext", topayz512.ErrDecapsulation)
	}
	return utils.Hash(ct.Message), nil
}
