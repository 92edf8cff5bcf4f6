package lwe

import (
	"encoding/binary"
	"fmt"

	topayz512 "github.com/TOPAY-FOUNDATION/TOPAY-Z512"
)

// EncodeMatrix serializes a rows×cols matrix (flattened row-major) into
// 2-byte little-endian scalars. Coefficients are truncated to 16 bits;
// callers keep serialized components folded so the truncation is lossless.
func EncodeMatrix(m []uint32, rows, cols int) []byte {
	out := make([]byte, rows*cols*topayz512.CoeffBytes)
	for i, v := range m[:rows*cols] {
		binary.LittleEndian.PutUint16(out[i*topayz512.CoeffBytes:], uint16(v))
	}
	return out
}

// DecodeMatrix parses rows×cols 2-byte little-endian scalars into a flattened
// row-major matrix. Round-trip law: DecodeMatrix(EncodeMatrix(m)) == m for
// any matrix whose entries fit 16 bits.
func DecodeMatrix(b []byte, rows, cols int) ([]uint32, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: matrix dimensions must be positive", topayz512.ErrInvalidParameter)
	}
	if len(b) < rows*cols*topayz512.CoeffBytes {
		return nil, fmt.Errorf("%w: byte array too small for a %dx%d matrix", topayz512.ErrInvalidParameter, rows, cols)
	}
	m := make([]uint32, rows*cols)
	for i := range m {
		m[i] = uint32(binary.LittleEndian.Uint16(b[i*topayz512.CoeffBytes:]))
	}
	return m, nil
}
