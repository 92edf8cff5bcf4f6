// Package lwe implements the Learning With Errors arithmetic engine for
// TOPAY-Z512: modular arithmetic, the fixed-width coefficient codec,
// deterministic sampling, key generation, encryption, and decryption.
package lwe

import (
	"runtime"
	"sync"
)

// modAdd returns (a + b) mod q.
func modAdd(a, b, q uint32) uint32 {
	return uint32((uint64(a) + uint64(b)) % uint64(q))
}

// modSub returns (a - b) mod q, always non-negative.
func modSub(a, b, q uint32) uint32 {
	return uint32((uint64(a) + uint64(q) - uint64(b%q)) % uint64(q))
}

// modMul returns (a * b) mod q.
func modMul(a, b, q uint32) uint32 {
	return uint32(uint64(a) * uint64(b) % uint64(q))
}

// fold16 truncates every coefficient to 16 bits, exactly what the wire codec
// does (Q-1 folds to 0). Components that get serialized are folded at
// creation so the in-memory and decoded forms agree bit for bit; the sparse
// +1 perturbation this introduces stays inside the decryption noise budget.
func fold16(v []uint32) {
	for i := range v {
		v[i] &= 0xFFFF
	}
}

// matVecMul computes A·v mod q for a rows×cols row-major matrix. Products are
// accumulated exactly in uint64 and reduced once per row. The row loop is
// parallelized for large matrices.
func matVecMul(a, v []uint32, rows, cols int, q uint32) []uint32 {
	result := make([]uint32, rows)
	numWorkers := runtime.GOMAXPROCS(0)

	mulRows := func(start, end int) {
		for i := start; i < end; i++ {
			var sum uint64
			rowOffset := i * cols
			for j := 0; j < cols; j++ {
				sum += uint64(a[rowOffset+j]) * uint64(v[j])
			}
			result[i] = uint32(sum % uint64(q))
		}
	}

	if rows < 64 || numWorkers <= 1 {
		mulRows(0, rows)
		return result
	}

	var wg sync.WaitGroup
	rowsPerWorker := (rows + numWorkers - 1) / numWorkers
	for w := 0; w < numWorkers; w++ {
		start := w * rowsPerWorker
		end := start + rowsPerWorker
		if end > rows {
			end = rows
		}
		if start >= rows {
			break
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			mulRows(start, end)
		}(start, end)
	}
	wg.Wait()
	return result
}

// vecMatMul computes r·A mod q, a cols-vector, for a rows-vector r and a
// rows×cols row-major matrix.
func vecMatMul(r, a []uint32, rows, cols int, q uint32) []uint32 {
	sums := make([]uint64, cols)
	for i := 0; i < rows; i++ {
		ri := uint64(r[i])
		rowOffset := i * cols
		for j := 0; j < cols; j++ {
			sums[j] += ri * uint64(a[rowOffset+j]) % uint64(q)
		}
	}
	result := make([]uint32, cols)
	for j := range result {
		result[j] = uint32(sums[j] % uint64(q))
	}
	return result
}

// innerProduct computes the dot product of two vectors mod q.
func innerProduct(a, b []uint32, q uint32) uint32 {
	var sum uint64
	for i := range a {
		sum += uint64(a[i]) * uint64(b[i]) % uint64(q)
	}
	return uint32(sum % uint64(q))
}
