// Package utils provides entropy, deterministic random expansion, hashing,
// and memory-scrubbing helpers for TOPAY-Z512.
package utils

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20"

	topayz512 "github.com/TOPAY-FOUNDATION/TOPAY-Z512"
)

// RandReader is the entropy source for non-deterministic operations.
// It is a variable so tests can substitute a deterministic reader.
var RandReader io.Reader = rand.Reader

// SecureRandomBytes generates n cryptographically secure random bytes from
// the operating system's CSPRNG.
func SecureRandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(RandReader, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", topayz512.ErrRandomGeneration, err)
	}
	return buf, nil
}

// SeededRNG is a deterministic pseudo-random stream expanded from a seed with
// the ChaCha20 keystream. Identical seeds produce identical streams on every
// platform, which makes keys and test vectors reproducible.
type SeededRNG struct {
	stream *chacha20.Cipher
}

// NewSeededRNG creates a deterministic generator from the first 32 bytes of
// seed. Seeds shorter than 32 bytes are rejected.
func NewSeededRNG(seed []byte) (*SeededRNG, error) {
	if len(seed) < chacha20.KeySize {
		return nil, fmt.Errorf("%w: seed must be at least %d bytes", topayz512.ErrRandomGeneration, chacha20.KeySize)
	}
	key := make([]byte, chacha20.KeySize)
	copy(key, seed[:chacha20.KeySize])
	nonce := make([]byte, chacha20.NonceSize)
	stream, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	Zeroize(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", topayz512.ErrRandomGeneration, err)
	}
	return &SeededRNG{stream: stream}, nil
}

// Read fills p with keystream bytes. It never fails.
func (r *SeededRNG) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	r.stream.XORKeyStream(p, p)
	return len(p), nil
}

// Uint32 returns the next 32 bits of the stream as a little-endian integer.
func (r *SeededRNG) Uint32() uint32 {
	var buf [4]byte
	r.stream.XORKeyStream(buf[:], buf[:])
	return binary.LittleEndian.Uint32(buf[:])
}
