package fragment

import (
	"fmt"
	"sync"

	topayz512 "github.com/TOPAY-FOUNDATION/TOPAY-Z512"
	"github.com/TOPAY-FOUNDATION/TOPAY-Z512/kem"
	"github.com/TOPAY-FOUNDATION/TOPAY-Z512/utils"
)

// checkFragmentCount rejects component counts outside [MinFragments, MaxFragments].
func checkFragmentCount(p topayz512.Params, k int) error {
	if k < p.MinFragments || k > p.MaxFragments {
		return fmt.Errorf("%w: fragment count must be between %d and %d, got %d",
			topayz512.ErrFragmentation, p.MinFragments, p.MaxFragments, k)
	}
	return nil
}

// NewFragmentedPublicKey wraps component public keys, rejecting counts
// outside the fragment bounds and components built for a different
// parameter set.
func NewFragmentedPublicKey(p topayz512.Params, keys []topayz512.PublicKey) (*topayz512.FragmentedPublicKey, error) {
	if err := checkFragmentCount(p, len(keys)); err != nil {
		return nil, err
	}
	for i := range keys {
		if keys[i].Params != p {
			return nil, fmt.Errorf("%w: component public key %d carries a different parameter set",
				topayz512.ErrFragmentation, i)
		}
	}
	return &topayz512.FragmentedPublicKey{Fragments: keys}, nil
}

// NewFragmentedSecretKey wraps component secret keys, rejecting counts
// outside the fragment bounds and components built for a different
// parameter set.
func NewFragmentedSecretKey(p topayz512.Params, keys []topayz512.SecretKey) (*topayz512.FragmentedSecretKey, error) {
	if err := checkFragmentCount(p, len(keys)); err != nil {
		return nil, err
	}
	for i := range keys {
		if keys[i].Params != p {
			return nil, fmt.Errorf("%w: component secret key %d carries a different parameter set",
				topayz512.ErrFragmentation, i)
		}
	}
	return &topayz512.FragmentedSecretKey{Fragments: keys}, nil
}

// NewFragmentedCiphertext wraps component ciphertexts, rejecting counts
// outside the fragment bounds.
func NewFragmentedCiphertext(p topayz512.Params, cts []topayz512.Ciphertext) (*topayz512.FragmentedCiphertext, error) {
	if err := checkFragmentCount(p, len(cts)); err != nil {
		return nil, err
	}
	return &topayz512.FragmentedCiphertext{Fragments: cts}, nil
}

// KeyGen generates k independent KEM key pairs, one per fragment. The
// component generations share no state and run on separate goroutines.
func KeyGen(p topayz512.Params, k int) (*topayz512.FragmentedPublicKey, *topayz512.FragmentedSecretKey, error) {
	if err := checkFragmentCount(p, k); err != nil {
		return nil, nil, err
	}

	pks := make([]topayz512.PublicKey, k)
	sks := make([]topayz512.SecretKey, k)
	errs := make([]error, k)

	var wg sync.WaitGroup
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			kp, err := kem.GenerateKeyPair(p)
			if err != nil {
				errs[i] = err
				return
			}
			pks[i] = kp.PublicKey
			sks[i] = kp.SecretKey
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, nil, err
		}
	}

	fpk, err := NewFragmentedPublicKey(p, pks)
	if err != nil {
		return nil, nil, err
	}
	fsk, err := NewFragmentedSecretKey(p, sks)
	if err != nil {
		return nil, nil, err
	}
	return fpk, fsk, nil
}

// Encapsulate runs one plain encapsulation per component public key and
// combines the component shared secrets into one.
func Encapsulate(fpk *topayz512.FragmentedPublicKey) (*topayz512.FragmentedCiphertext, []byte, error) {
	k := fpk.NumFragments()
	if k == 0 {
		return nil, nil, fmt.Errorf("%w: empty fragmented public key", topayz512.ErrFragmentation)
	}
	p := fpk.Fragments[0].Params
	if err := checkFragmentCount(p, k); err != nil {
		return nil, nil, err
	}

	cts := make([]topayz512.Ciphertext, k)
	secrets := make([][]byte, k)
	errs := make([]error, k)

	var wg sync.WaitGroup
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := kem.Encapsulate(&fpk.Fragments[i])
			if err != nil {
				errs[i] = err
				return
			}
			cts[i] = res.Ciphertext
			secrets[i] = res.SharedSecret
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			zeroizeAll(secrets)
			return nil, nil, err
		}
	}

	fct, err := NewFragmentedCiphertext(p, cts)
	if err != nil {
		zeroizeAll(secrets)
		return nil, nil, err
	}
	return fct, combineSecrets(secrets), nil
}

// Decapsulate recovers the combined shared secret from a fragmented secret
// key and ciphertext. Any component failure fails the whole operation; there
// is no partial-success mode.
func Decapsulate(fsk *topayz512.FragmentedSecretKey, fct *topayz512.FragmentedCiphertext) ([]byte, error) {
	k := fsk.NumFragments()
	if k != fct.NumFragments() {
		return nil, fmt.Errorf("%w: secret key has %d fragments, ciphertext has %d",
			topayz512.ErrFragmentation, k, fct.NumFragments())
	}
	if k == 0 {
		return nil, fmt.Errorf("%w: empty fragment set", topayz512.ErrFragmentation)
	}

	secrets := make([][]byte, k)
	errs := make([]error, k)

	var wg sync.WaitGroup
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			secrets[i], errs[i] = kem.Decapsulate(&fsk.Fragments[i], &fct.Fragments[i])
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			zeroizeAll(secrets)
			return nil, err
		}
	}

	return combineSecrets(secrets), nil
}

// combineSecrets concatenates the component secrets in fragment order and
// hashes the concatenation. The order and the concatenate-then-hash shape
// are load-bearing: per-component hashing or XOR would admit
// secret-substitution across fragments. Component secrets are scrubbed
// before returning.
func combineSecrets(secrets [][]byte) []byte {
	var size int
	for _, s := range secrets {
		size += len(s)
	}
	combined := make([]byte, 0, size)
	for _, s := range secrets {
		combined = append(combined, s...)
	}
	final := utils.Hash(combined)
	utils.Zeroize(combined)
	zeroizeAll(secrets)
	return final
}

func zeroizeAll(secrets [][]byte) {
	for _, s := range secrets {
		utils.Zeroize(s)
	}
}
