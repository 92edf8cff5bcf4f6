// Package topayz512 implements the TOPAY-Z512 post-quantum key encapsulation
// mechanism together with its parallel-fragmentation layer.
//
// The KEM is built on the Learning With Errors (LWE) problem over Z_65537 with
// lattice dimension 1024 and derives 512-bit shared secrets with SHA3-512.
// The fragmentation layer splits large byte buffers into integrity-checked
// fragments and splits a single KEM operation into K independent component
// operations so the work can be distributed across cores or low-power devices
// and recombined deterministically.
//
// WARNING: this is an experimental construction that has NOT been formally
// verified by academic peer review. DO NOT use it to protect sensitive data.
package topayz512

// Version of the TOPAY-Z512 Go implementation.
const Version = "1.0.0"

// API summary:
//
// Key Encapsulation (KEM):
//   - kem.GenerateKeyPair(params) - Generate an LWE key pair
//   - kem.Encapsulate(pk) - Generate a shared secret and ciphertext
//   - kem.Decapsulate(sk, ct) - Recover the shared secret from a ciphertext
//
// Fragmentation:
//   - fragment.FragmentData(params, data) - Split a buffer into fragments
//   - fragment.ReconstructData(fragments) - Reassemble and verify fragments
//   - fragment.KeyGen(params, k) - Generate K independent component key pairs
//   - fragment.Encapsulate(fpk) - Encapsulate against every component key
//   - fragment.Decapsulate(fsk, fct) - Recover the combined shared secret
//
// Parameters:
//   - core.GetParams(level) - Get the parameter set for a security level
//   - Z512 - 512-bit classical / 256-bit quantum security
