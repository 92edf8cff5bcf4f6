package fragment

import (
	"bytes"
	"errors"
	"testing"

	topayz512 "github.com/TOPAY-FOUNDATION/TOPAY-Z512"
	"github.com/TOPAY-FOUNDATION/TOPAY-Z512/core"
	"github.com/TOPAY-FOUNDATION/TOPAY-Z512/kem"
)

// testParams trades the Z512 dimension down for test speed; fragmentation
// semantics do not depend on N.
var testParams = func() topayz512.Params {
	p := core.Z512Params
	p.N = 128
	return p
}()

func testData(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i * 7)
	}
	return data
}

func TestFragmentDataRoundTrip(t *testing.T) {
	// One byte, one under, exactly one, one over a fragment boundary, and the
	// full 16-fragment capacity.
	for _, n := range []int{1, 255, 256, 257, 4096} {
		data := testData(n)
		fragments, err := FragmentData(testParams, data)
		if err != nil {
			t.Fatalf("FragmentData(%d bytes) failed: %v", n, err)
		}

		wantCount := (n + testParams.FragmentSize - 1) / testParams.FragmentSize
		if len(fragments) != wantCount {
			t.Fatalf("%d bytes: got %d fragments, want %d", n, len(fragments), wantCount)
		}
		for i, f := range fragments {
			if f.Index != uint32(i) || f.Total != uint32(wantCount) {
				t.Fatalf("%d bytes: fragment %d carries index %d total %d", n, i, f.Index, f.Total)
			}
			if !VerifyFragment(&fragments[i]) {
				t.Fatalf("%d bytes: fragment %d fails its own digest", n, i)
			}
		}

		out, err := ReconstructData(fragments)
		if err != nil {
			t.Fatalf("ReconstructData(%d bytes) failed: %v", n, err)
		}
		if !bytes.Equal(out, data) {
			t.Errorf("%d bytes: reconstruction mismatch", n)
		}
	}
}

func TestFragmentDataRejectsEmptyAndOversized(t *testing.T) {
	if _, err := FragmentData(testParams, nil); !errors.Is(err, topayz512.ErrFragmentation) {
		t.Errorf("empty input: expected ErrFragmentation, got %v", err)
	}
	// 4097 bytes need 17 fragments, one past MaxFragments.
	if _, err := FragmentData(testParams, testData(4097)); !errors.Is(err, topayz512.ErrFragmentation) {
		t.Errorf("oversized input: expected ErrFragmentation, got %v", err)
	}
}

func TestReconstructShuffled(t *testing.T) {
	data := testData(1000)
	fragments, err := FragmentData(testParams, data)
	if err != nil {
		t.Fatalf("FragmentData failed: %v", err)
	}

	shuffled := []topayz512.Fragment{fragments[3], fragments[0], fragments[2], fragments[1]}
	out, err := ReconstructData(shuffled)
	if err != nil {
		t.Fatalf("ReconstructData failed on shuffled input: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Error("shuffled reconstruction mismatch")
	}
}

func TestReconstructDetectsTampering(t *testing.T) {
	fragments, err := FragmentData(testParams, testData(600))
	if err != nil {
		t.Fatalf("FragmentData failed: %v", err)
	}
	fragments[1].Data[0] ^= 0x01
	if _, err := ReconstructData(fragments); !errors.Is(err, topayz512.ErrFragmentation) {
		t.Errorf("tampered payload: expected ErrFragmentation, got %v", err)
	}
	if VerifyFragment(&fragments[1]) {
		t.Error("VerifyFragment accepted a tampered fragment")
	}
}

func TestReconstructStructuralErrors(t *testing.T) {
	fragments, err := FragmentData(testParams, testData(700))
	if err != nil {
		t.Fatalf("FragmentData failed: %v", err)
	}

	if _, err := ReconstructData(nil); !errors.Is(err, topayz512.ErrFragmentation) {
		t.Errorf("empty set: expected ErrFragmentation, got %v", err)
	}
	if _, err := ReconstructData(fragments[:2]); !errors.Is(err, topayz512.ErrFragmentation) {
		t.Errorf("missing fragment: expected ErrFragmentation, got %v", err)
	}

	dup := []topayz512.Fragment{fragments[0], fragments[1], fragments[1]}
	if _, err := ReconstructData(dup); !errors.Is(err, topayz512.ErrFragmentation) {
		t.Errorf("duplicate index: expected ErrFragmentation, got %v", err)
	}

	mixed := make([]topayz512.Fragment, len(fragments))
	copy(mixed, fragments)
	mixed[2].Total = 99
	if _, err := ReconstructData(mixed); !errors.Is(err, topayz512.ErrFragmentation) {
		t.Errorf("inconsistent total: expected ErrFragmentation, got %v", err)
	}
}

func TestFragmentWireCodec(t *testing.T) {
	fragments, err := FragmentData(testParams, testData(300))
	if err != nil {
		t.Fatalf("FragmentData failed: %v", err)
	}

	for i := range fragments {
		wire := SerializeFragment(&fragments[i])
		parsed, err := ParseFragment(wire)
		if err != nil {
			t.Fatalf("ParseFragment failed: %v", err)
		}
		if parsed.Index != fragments[i].Index || parsed.Total != fragments[i].Total {
			t.Error("header fields changed across the wire")
		}
		if !bytes.Equal(parsed.Data, fragments[i].Data) || !bytes.Equal(parsed.Digest, fragments[i].Digest) {
			t.Error("payload or digest changed across the wire")
		}
		if !VerifyFragment(parsed) {
			t.Error("parsed fragment fails digest verification")
		}
	}
}

func TestParseFragmentRejectsMalformed(t *testing.T) {
	fragments, err := FragmentData(testParams, testData(300))
	if err != nil {
		t.Fatalf("FragmentData failed: %v", err)
	}
	wire := SerializeFragment(&fragments[0])

	if _, err := ParseFragment(wire[:10]); !errors.Is(err, topayz512.ErrFragmentation) {
		t.Errorf("truncated header: expected ErrFragmentation, got %v", err)
	}
	if _, err := ParseFragment(wire[:len(wire)-1]); !errors.Is(err, topayz512.ErrFragmentation) {
		t.Errorf("truncated payload: expected ErrFragmentation, got %v", err)
	}

	// index >= total is structurally impossible for a produced fragment.
	bad := make([]byte, len(wire))
	copy(bad, wire)
	bad[0] = 0xFF
	if _, err := ParseFragment(bad); !errors.Is(err, topayz512.ErrFragmentation) {
		t.Errorf("index out of range: expected ErrFragmentation, got %v", err)
	}
}

func TestFragmentedKEMRoundTrip(t *testing.T) {
	for _, k := range []int{2, 16} {
		fpk, fsk, err := KeyGen(testParams, k)
		if err != nil {
			t.Fatalf("KeyGen(k=%d) failed: %v", k, err)
		}
		if fpk.NumFragments() != k || fsk.NumFragments() != k {
			t.Fatalf("k=%d: got %d/%d fragments", k, fpk.NumFragments(), fsk.NumFragments())
		}

		fct, secret, err := Encapsulate(fpk)
		if err != nil {
			t.Fatalf("Encapsulate(k=%d) failed: %v", k, err)
		}
		if len(secret) != testParams.SecretLength {
			t.Fatalf("k=%d: combined secret length = %d", k, len(secret))
		}

		recovered, err := Decapsulate(fsk, fct)
		if err != nil {
			t.Fatalf("Decapsulate(k=%d) failed: %v", k, err)
		}
		if !bytes.Equal(secret, recovered) {
			t.Errorf("k=%d: combined secrets disagree", k)
		}
	}
}

func TestFragmentedKEMBounds(t *testing.T) {
	for _, k := range []int{0, 1, 17} {
		if _, _, err := KeyGen(testParams, k); !errors.Is(err, topayz512.ErrFragmentation) {
			t.Errorf("KeyGen(k=%d): expected ErrFragmentation, got %v", k, err)
		}
	}
	if _, err := NewFragmentedPublicKey(testParams, make([]topayz512.PublicKey, 1)); !errors.Is(err, topayz512.ErrFragmentation) {
		t.Error("NewFragmentedPublicKey accepted a single component")
	}
}

func TestFragmentedKEMRejectsMixedParams(t *testing.T) {
	kp1, err := kem.GenerateKeyPair(testParams)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	other := testParams
	other.N = 64
	kp2, err := kem.GenerateKeyPair(other)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	pks := []topayz512.PublicKey{kp1.PublicKey, kp2.PublicKey}
	if _, err := NewFragmentedPublicKey(testParams, pks); !errors.Is(err, topayz512.ErrFragmentation) {
		t.Errorf("mixed public key params: expected ErrFragmentation, got %v", err)
	}

	sks := []topayz512.SecretKey{kp1.SecretKey, kp2.SecretKey}
	if _, err := NewFragmentedSecretKey(testParams, sks); !errors.Is(err, topayz512.ErrFragmentation) {
		t.Errorf("mixed secret key params: expected ErrFragmentation, got %v", err)
	}
}

func TestFragmentedKEMCountMismatch(t *testing.T) {
	fpk, fsk, err := KeyGen(testParams, 3)
	if err != nil {
		t.Fatalf("KeyGen failed: %v", err)
	}
	fct, _, err := Encapsulate(fpk)
	if err != nil {
		t.Fatalf("Encapsulate failed: %v", err)
	}

	short := &topayz512.FragmentedCiphertext{Fragments: fct.Fragments[:2]}
	if _, err := Decapsulate(fsk, short); !errors.Is(err, topayz512.ErrFragmentation) {
		t.Errorf("count mismatch: expected ErrFragmentation, got %v", err)
	}
}

func TestFragmentedKEMTamperedComponent(t *testing.T) {
	fpk, fsk, err := KeyGen(testParams, 2)
	if err != nil {
		t.Fatalf("KeyGen failed: %v", err)
	}
	fct, _, err := Encapsulate(fpk)
	if err != nil {
		t.Fatalf("Encapsulate failed: %v", err)
	}

	fct.Fragments[1].C = (fct.Fragments[1].C + testParams.Q/2) % testParams.Q
	if _, err := Decapsulate(fsk, fct); !errors.Is(err, topayz512.ErrDecapsulation) {
		t.Errorf("tampered component: expected ErrDecapsulation, got %v", err)
	}
}

func TestCombineSecretsOrderDependent(t *testing.T) {
	a := bytes.Repeat([]byte{0xAA}, 64)
	b := bytes.Repeat([]byte{0xBB}, 64)

	// combineSecrets scrubs its inputs, so hand it copies.
	clone := func(s []byte) []byte { return append([]byte{}, s...) }
	ab := combineSecrets([][]byte{clone(a), clone(b)})
	ba := combineSecrets([][]byte{clone(b), clone(a)})
	if bytes.Equal(ab, ba) {
		t.Error("combined secret must depend on fragment order")
	}

	again := combineSecrets([][]byte{clone(a), clone(b)})
	if !bytes.Equal(ab, again) {
		t.Error("combined secret must be deterministic in the components")
	}
}

func TestCombinedSecretDiffersFromComponents(t *testing.T) {
	fpk, fsk, err := KeyGen(testParams, 2)
	if err != nil {
		t.Fatalf("KeyGen failed: %v", err)
	}
	fct, secret, err := Encapsulate(fpk)
	if err != nil {
		t.Fatalf("Encapsulate failed: %v", err)
	}

	// The combiner hashes the concatenation, so no component secret can leak
	// through as the result.
	for i := range fsk.Fragments {
		component, err := kem.Decapsulate(&fsk.Fragments[i], &fct.Fragments[i])
		if err != nil {
			t.Fatalf("component Decapsulate failed: %v", err)
		}
		if bytes.Equal(component, secret) {
			t.Errorf("combined secret equals component %d", i)
		}
	}
}
