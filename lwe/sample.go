package lwe

import (
	"math"

	"github.com/TOPAY-FOUNDATION/TOPAY-Z512/utils"
)

// SampleUniform returns a uniform value in [0, q) using rejection sampling,
// so the distribution carries no modulo bias.
func SampleUniform(rng *utils.SeededRNG, q uint32) uint32 {
	threshold := math.MaxUint32 - math.MaxUint32%q
	for {
		v := rng.Uint32()
		if v < threshold {
			return v % q
		}
	}
}

// SampleGaussian draws a rounded Gaussian sample with standard deviation
// sigma via the Box-Muller transform, consuming two uniform floats per call.
func SampleGaussian(rng *utils.SeededRNG, sigma float64) int32 {
	u1 := (float64(rng.Uint32()) + 1) / 4294967296.0 // (0, 1]
	u2 := float64(rng.Uint32()) / 4294967296.0       // [0, 1)

	radius := math.Sqrt(-2 * math.Log(u1))
	theta := 2 * math.Pi * u2
	return int32(math.Round(radius * math.Cos(theta) * sigma))
}

// RandomMatrix generates a rows×cols matrix of uniform coefficients in [0, q).
func RandomMatrix(rng *utils.SeededRNG, rows, cols int, q uint32) []uint32 {
	m := make([]uint32, rows*cols)
	for i := range m {
		m[i] = SampleUniform(rng, q)
	}
	return m
}

// RandomErrorVector generates an n-vector of discrete Gaussian samples
// reduced into [0, q).
func RandomErrorVector(rng *utils.SeededRNG, n int, q uint32, sigma float64) []uint32 {
	v := make([]uint32, n)
	for i := range v {
		e := int64(SampleGaussian(rng, sigma))
		v[i] = uint32((e%int64(q) + int64(q)) % int64(q))
	}
	return v
}
