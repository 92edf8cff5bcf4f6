package lwe

import (
	"bytes"
	"errors"
	"testing"

	topayz512 "github.com/TOPAY-FOUNDATION/TOPAY-Z512"
	"github.com/TOPAY-FOUNDATION/TOPAY-Z512/utils"
)

// testParams is a reduced-dimension parameter set; the noise budget holds for
// every N, so the small dimension only buys test speed.
var testParams = topayz512.Params{
	Level:        topayz512.Z512,
	N:            128,
	Q:            65537,
	Sigma:        0.75,
	SecretLength: 64,
	SeedLength:   32,
	FragmentSize: 256,
	MinFragments: 2,
	MaxFragments: 16,
}

func testSeed(fill byte) []byte {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i) ^ fill
	}
	return seed
}

func encodeKeys(t *testing.T, p topayz512.Params, pk *topayz512.PublicKey) []byte {
	t.Helper()
	out := EncodeMatrix(pk.A, p.N, p.N)
	return append(out, EncodeMatrix(pk.B, 1, p.N)...)
}

func TestModArithmetic(t *testing.T) {
	const q = 65537
	if got := modAdd(65536, 1, q); got != 0 {
		t.Errorf("modAdd(65536, 1) = %d, want 0", got)
	}
	if got := modSub(0, 1, q); got != 65536 {
		t.Errorf("modSub(0, 1) = %d, want 65536", got)
	}
	if got := modMul(65536, 65536, q); got != 1 {
		t.Errorf("modMul(65536, 65536) = %d, want 1", got)
	}
	if got := modMul(256, 256, q); got != 65536 {
		t.Errorf("modMul(256, 256) = %d, want 65536", got)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	rng, err := utils.NewSeededRNG(testSeed(0))
	if err != nil {
		t.Fatalf("NewSeededRNG failed: %v", err)
	}

	const rows, cols = 7, 13
	m := make([]uint32, rows*cols)
	for i := range m {
		m[i] = rng.Uint32() % 65536
	}

	decoded, err := DecodeMatrix(EncodeMatrix(m, rows, cols), rows, cols)
	if err != nil {
		t.Fatalf("DecodeMatrix failed: %v", err)
	}
	for i := range m {
		if decoded[i] != m[i] {
			t.Fatalf("entry %d: got %d, want %d", i, decoded[i], m[i])
		}
	}
}

func TestDecodeMatrixErrors(t *testing.T) {
	if _, err := DecodeMatrix(make([]byte, 10), 2, 3); !errors.Is(err, topayz512.ErrInvalidParameter) {
		t.Errorf("short buffer: expected ErrInvalidParameter, got %v", err)
	}
	if _, err := DecodeMatrix(nil, 0, 3); !errors.Is(err, topayz512.ErrInvalidParameter) {
		t.Errorf("zero rows: expected ErrInvalidParameter, got %v", err)
	}
}

func TestSampleUniformRange(t *testing.T) {
	rng, _ := utils.NewSeededRNG(testSeed(1))
	const q = 12289
	for i := 0; i < 10000; i++ {
		if v := SampleUniform(rng, q); v >= q {
			t.Fatalf("sample %d out of range [0, %d)", v, q)
		}
	}
}

func TestSampleGaussianDeterministic(t *testing.T) {
	r1, _ := utils.NewSeededRNG(testSeed(2))
	r2, _ := utils.NewSeededRNG(testSeed(2))
	for i := 0; i < 100; i++ {
		a := SampleGaussian(r1, 0.75)
		b := SampleGaussian(r2, 0.75)
		if a != b {
			t.Fatalf("sample %d diverged: %d vs %d", i, a, b)
		}
		if a < -10 || a > 10 {
			t.Fatalf("sample %d implausibly large for sigma 0.75: %d", i, a)
		}
	}
}

func TestRandomErrorVectorRange(t *testing.T) {
	rng, _ := utils.NewSeededRNG(testSeed(3))
	v := RandomErrorVector(rng, 256, testParams.Q, testParams.Sigma)
	if len(v) != 256 {
		t.Fatalf("wrong length %d", len(v))
	}
	for i, x := range v {
		if x >= testParams.Q {
			t.Fatalf("entry %d out of range: %d", i, x)
		}
	}
}

func TestKeyGenWithSeedDeterministic(t *testing.T) {
	pk1, sk1, err := KeyGenWithSeed(testParams, testSeed(4))
	if err != nil {
		t.Fatalf("KeyGenWithSeed failed: %v", err)
	}
	pk2, sk2, err := KeyGenWithSeed(testParams, testSeed(4))
	if err != nil {
		t.Fatalf("KeyGenWithSeed failed: %v", err)
	}

	if !bytes.Equal(EncodeMatrix(pk1.A, testParams.N, testParams.N), EncodeMatrix(pk2.A, testParams.N, testParams.N)) {
		t.Error("matrix A not deterministic")
	}
	if !bytes.Equal(EncodeMatrix(pk1.B, 1, testParams.N), EncodeMatrix(pk2.B, 1, testParams.N)) {
		t.Error("vector b not deterministic")
	}
	if !bytes.Equal(EncodeMatrix(sk1.S, 1, testParams.N), EncodeMatrix(sk2.S, 1, testParams.N)) {
		t.Error("secret s not deterministic")
	}
}

func TestKeyGenShortSeed(t *testing.T) {
	if _, _, err := KeyGenWithSeed(testParams, make([]byte, 8)); !errors.Is(err, topayz512.ErrRandomGeneration) {
		t.Errorf("expected ErrRandomGeneration, got %v", err)
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	pk, sk, err := KeyGenWithSeed(testParams, testSeed(5))
	if err != nil {
		t.Fatalf("KeyGenWithSeed failed: %v", err)
	}
	pkBytes := encodeKeys(t, testParams, pk)

	for _, msg := range [][]byte{{0x00}, {0x01}, {0x42}, {0xFF}} {
		v, c, err := Encrypt(testParams, pkBytes, msg, testSeed(6))
		if err != nil {
			t.Fatalf("Encrypt(%x) failed: %v", msg, err)
		}
		got, err := Decrypt(testParams, v, c, sk.S)
		if err != nil {
			t.Fatalf("Decrypt(%x) failed: %v", msg, err)
		}
		if !bytes.Equal(got, msg) {
			t.Errorf("round trip of %x returned %x", msg, got)
		}
	}
}

func TestEncryptMessageTooLarge(t *testing.T) {
	pk, _, err := KeyGenWithSeed(testParams, testSeed(7))
	if err != nil {
		t.Fatalf("KeyGenWithSeed failed: %v", err)
	}
	pkBytes := encodeKeys(t, testParams, pk)

	_, _, err = Encrypt(testParams, pkBytes, []byte{0x12, 0x34}, testSeed(8))
	if !errors.Is(err, topayz512.ErrEncapsulation) {
		t.Errorf("expected ErrEncapsulation, got %v", err)
	}
}

func TestEncryptShortPublicKey(t *testing.T) {
	_, _, err := Encrypt(testParams, make([]byte, 100), []byte{0x01}, testSeed(9))
	if !errors.Is(err, topayz512.ErrInvalidKeyFormat) {
		t.Errorf("expected ErrInvalidKeyFormat, got %v", err)
	}
}

func TestDecryptDimensionMismatch(t *testing.T) {
	_, sk, err := KeyGenWithSeed(testParams, testSeed(10))
	if err != nil {
		t.Fatalf("KeyGenWithSeed failed: %v", err)
	}
	if _, err := Decrypt(testParams, make([]uint32, 3), 0, sk.S); !errors.Is(err, topayz512.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestKeyRoundTripThroughCodec(t *testing.T) {
	// A key pair that crosses the wire must decapsulate exactly like the
	// in-memory original.
	pk, sk, err := KeyGenWithSeed(testParams, testSeed(11))
	if err != nil {
		t.Fatalf("KeyGenWithSeed failed: %v", err)
	}

	sBytes := EncodeMatrix(sk.S, 1, testParams.N)
	sDecoded, err := DecodeMatrix(sBytes, 1, testParams.N)
	if err != nil {
		t.Fatalf("DecodeMatrix failed: %v", err)
	}

	v, c, err := Encrypt(testParams, encodeKeys(t, testParams, pk), []byte{0x7A}, testSeed(12))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	got, err := Decrypt(testParams, v, c, sDecoded)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if !bytes.Equal(got, []byte{0x7A}) {
		t.Errorf("decoded secret key recovered %x", got)
	}
}
