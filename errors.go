package topayz512

import "errors"

// Error definitions. Sub-packages wrap these with fmt.Errorf("%w: ...") so
// callers can match with errors.Is.
var (
	// ErrInvalidParameter indicates malformed byte lengths or dimensions for
	// a matrix/vector decode.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidKeyFormat indicates a wrong-length public or secret key.
	ErrInvalidKeyFormat = errors.New("invalid key format")

	// ErrInvalidCiphertextFormat indicates a wrong-length ciphertext.
	ErrInvalidCiphertextFormat = errors.New("invalid ciphertext format")

	// ErrRandomGeneration indicates a seed that is too short or an entropy
	// source failure.
	ErrRandomGeneration = errors.New("random generation failed")

	// ErrEncapsulation indicates a message that does not fit the
	// single-coefficient encoding.
	ErrEncapsulation = errors.New("encapsulation failed")

	// ErrDecapsulation indicates that the recovered message does not match
	// the embedded plaintext: ciphertext corruption, tampering, or a
	// parameter mismatch.
	ErrDecapsulation = errors.New("decapsulation failed")

	// ErrFragmentation indicates empty input, a fragment-count mismatch, a
	// missing or duplicate index, a digest mismatch, or a fragment-count
	// bound violation.
	ErrFragmentation = errors.New("fragmentation error")
)
