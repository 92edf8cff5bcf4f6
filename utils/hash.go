package utils

import "golang.org/x/crypto/sha3"

// DigestSize is the SHA3-512 output length in bytes.
const DigestSize = 64

// Hash computes the SHA3-512 digest of the input.
func Hash(data []byte) []byte {
	h := sha3.New512()
	h.Write(data)
	return h.Sum(nil)
}

// HashCombine computes the SHA3-512 digest of the concatenation a‖b.
// Fragment combination depends on this exact layout; do not reorder or
// length-prefix the inputs.
func HashCombine(a, b []byte) []byte {
	h := sha3.New512()
	h.Write(a)
	h.Write(b)
	return h.Sum(nil)
}
