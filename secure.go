package topayz512

import "runtime"

// Zeroize overwrites the secret vector and seed with zeros. runtime.KeepAlive
// keeps the compiler from eliding the stores.
func (sk *SecretKey) Zeroize() {
	for i := range sk.S {
		sk.S[i] = 0
	}
	for i := range sk.Seed {
		sk.Seed[i] = 0
	}
	runtime.KeepAlive(sk.S)
	runtime.KeepAlive(sk.Seed)
}

// Zeroize overwrites every component secret key with zeros.
func (f *FragmentedSecretKey) Zeroize() {
	for i := range f.Fragments {
		f.Fragments[i].Zeroize()
	}
}
