// Package topayz512 implements the TOPAY-Z512 post-quantum KEM.
//
// This file defines the shared value types used across the sub-packages.
// Matrices are stored flattened in row-major order; every coefficient lies
// in [0, Q) and is serialized as a 2-byte little-endian scalar.
package topayz512

// SecurityLevel represents the security level of a TOPAY-Z512 parameter set.
type SecurityLevel string

const (
	// Z512 provides 512-bit classical / 256-bit quantum security.
	Z512 SecurityLevel = "Z-512"
)

// CoeffBytes is the number of bytes used to serialize one coefficient.
const CoeffBytes = 2

// =============================================================================
// Parameter Types
// =============================================================================

// Params contains the complete parameter set for a security level.
// A Params value is immutable after construction; all derived sizes are
// computed from it.
type Params struct {
	Level SecurityLevel `json:"level"`

	// LWE parameters.
	N     int     `json:"n"`     // Lattice dimension
	Q     uint32  `json:"q"`     // Prime modulus
	Sigma float64 `json:"sigma"` // Error standard deviation

	// Derived byte lengths.
	SecretLength int `json:"secret_length"` // Shared secret length (hash digest size)
	SeedLength   int `json:"seed_length"`   // RNG seed length

	// Fragmentation parameters.
	FragmentSize int `json:"fragment_size"` // Byte-buffer fragment payload size
	MinFragments int `json:"min_fragments"` // Lower bound on fragment count
	MaxFragments int `json:"max_fragments"` // Upper bound on fragment count
}

// PublicKeySize returns the serialized public key length: A‖b‖seed.
func (p Params) PublicKeySize() int {
	return p.N*p.N*CoeffBytes + p.N*CoeffBytes + p.SeedLength
}

// SecretKeySize returns the serialized secret key length: s‖seed.
func (p Params) SecretKeySize() int {
	return p.N*CoeffBytes + p.SeedLength
}

// CiphertextSize returns the serialized ciphertext length: v‖c‖message.
func (p Params) CiphertextSize() int {
	return p.N*CoeffBytes + CoeffBytes + p.SecretLength
}

// =============================================================================
// KEM Key Types
// =============================================================================

// PublicKey is the LWE public key: the matrix A, the vector b = A·s + e mod Q,
// and the 32-byte seed the key was expanded from. The seed is not secret; it
// is carried so A can be regenerated instead of re-transmitted.
type PublicKey struct {
	A      []uint32 // N×N matrix, row-major
	B      []uint32 // N-vector
	Seed   []byte
	Params Params
}

// SecretKey is the LWE secret key: the small vector s and the key seed.
// Call Zeroize when the key is no longer needed.
type SecretKey struct {
	S      []uint32 // N-vector
	Seed   []byte
	Params Params
}

// KeyPair contains both public and secret keys.
type KeyPair struct {
	PublicKey PublicKey
	SecretKey SecretKey
}

// Ciphertext is the KEM ciphertext: v = r·A, the scalar c = r·b + encode(m),
// and the plaintext message bytes echoed for the decapsulation-side
// equality check.
type Ciphertext struct {
	V       []uint32 // N-vector
	C       uint32   // scalar
	Message []byte   // SecretLength bytes
}

// EncapsulationResult contains the result of KEM encapsulation.
type EncapsulationResult struct {
	SharedSecret []byte
	Ciphertext   Ciphertext
}

// =============================================================================
// Fragmentation Types
// =============================================================================

// Fragment is one integrity-checked slice of a larger byte buffer.
// Invariants: Index < Total, Digest = SHA3-512(Data), and all fragments of
// one logical buffer share the same Total.
type Fragment struct {
	Index  uint32 `json:"index"`
	Total  uint32 `json:"total"`
	Data   []byte `json:"data"`
	Digest []byte `json:"digest"`
}

// FragmentedPublicKey is an ordered sequence of K independent component
// public keys produced by one fragmented key generation.
type FragmentedPublicKey struct {
	Fragments []PublicKey
}

// FragmentedSecretKey is the matching ordered sequence of component secret
// keys. Call Zeroize when the key is no longer needed.
type FragmentedSecretKey struct {
	Fragments []SecretKey
}

// FragmentedCiphertext is the ordered sequence of component ciphertexts
// produced by one fragmented encapsulation.
type FragmentedCiphertext struct {
	Fragments []Ciphertext
}

// NumFragments returns the number of component public keys.
func (f *FragmentedPublicKey) NumFragments() int { return len(f.Fragments) }

// NumFragments returns the number of component secret keys.
func (f *FragmentedSecretKey) NumFragments() int { return len(f.Fragments) }

// NumFragments returns the number of component ciphertexts.
func (f *FragmentedCiphertext) NumFragments() int { return len(f.Fragments) }
