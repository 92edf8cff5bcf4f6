package kem

import (
	"encoding/binary"
	"fmt"

	topayz512 "github.com/TOPAY-FOUNDATION/TOPAY-Z512"
	"github.com/TOPAY-FOUNDATION/TOPAY-Z512/lwe"
)

// SerializePublicKey encodes pk as A‖b‖seed, 2 bytes per coefficient.
func SerializePublicKey(pk *topayz512.PublicKey) []byte {
	p := pk.Params
	out := make([]byte, 0, p.PublicKeySize())
	out = append(out, lwe.EncodeMatrix(pk.A, p.N, p.N)...)
	out = append(out, lwe.EncodeMatrix(pk.B, 1, p.N)...)
	out = append(out, pk.Seed...)
	return out
}

// ParsePublicKey decodes an A‖b‖seed public key of exactly PublicKeySize
// bytes.
func ParsePublicKey(p topayz512.Params, data []byte) (*topayz512.PublicKey, error) {
	if len(data) != p.PublicKeySize() {
		return nil, fmt.Errorf("%w: public key must be %d bytes, got %d",
			topayz512.ErrInvalidKeyFormat, p.PublicKeySize(), len(data))
	}
	aSize := p.N * p.N * topayz512.CoeffBytes
	bSize := p.N * topayz512.CoeffBytes

	a, err := lwe.DecodeMatrix(data[:aSize], p.N, p.N)
	if err != nil {
		return nil, err
	}
	b, err := lwe.DecodeMatrix(data[aSize:aSize+bSize], 1, p.N)
	if err != nil {
		return nil, err
	}
	seed := append([]byte{}, data[aSize+bSize:]...)
	return &topayz512.PublicKey{A: a, B: b, Seed: seed, Params: p}, nil
}

// SerializeSecretKey encodes sk as s‖seed.
func SerializeSecretKey(sk *topayz512.SecretKey) []byte {
	p := sk.Params
	out := make([]byte, 0, p.SecretKeySize())
	out = append(out, lwe.EncodeMatrix(sk.S, 1, p.N)...)
	out = append(out, sk.Seed...)
	return out
}

// ParseSecretKey decodes an s‖seed secret key of exactly SecretKeySize bytes.
func ParseSecretKey(p topayz512.Params, data []byte) (*topayz512.SecretKey, error) {
	if len(data) != p.SecretKeySize() {
		return nil, fmt.Errorf("%w: secret key must be %d bytes, got %d",
			topayz512.ErrInvalidKeyFormat, p.SecretKeySize(), len(data))
	}
	sSize := p.N * topayz512.CoeffBytes
	s, err := lwe.DecodeMatrix(data[:sSize], 1, p.N)
	if err != nil {
		return nil, err
	}
	seed := append([]byte{}, data[sSize:]...)
	return &topayz512.SecretKey{S: s, Seed: seed, Params: p}, nil
}

// SerializeCiphertext encodes ct as v‖c‖message.
func SerializeCiphertext(p topayz512.Params, ct *topayz512.Ciphertext) []byte {
	out := make([]byte, 0, p.CiphertextSize())
	out = append(out, lwe.EncodeMatrix(ct.V, 1, p.N)...)
	var c [topayz512.CoeffBytes]byte
	binary.LittleEndian.PutUint16(c[:], uint16(ct.C))
	out = append(out, c[:]...)
	out = append(out, ct.Message...)
	return out
}

// ParseCiphertext decodes a v‖c‖message ciphertext of exactly CiphertextSize
// bytes.
func ParseCiphertext(p topayz512.Params, data []byte) (*topayz512.Ciphertext, error) {
	if len(data) != p.CiphertextSize() {
		return nil, fmt.Errorf("%w: ciphertext must be %d bytes, got %d",
			topayz512.ErrInvalidCiphertextFormat, p.CiphertextSize(), len(data))
	}
	vSize := p.N * topayz512.CoeffBytes
	v, err := lwe.DecodeMatrix(data[:vSize], 1, p.N)
	if err != nil {
		return nil, err
	}
	c := uint32(binary.LittleEndian.Uint16(data[vSize:]))
	message := append([]byte{}, data[vSize+topayz512.CoeffBytes:]...)
	return &topayz512.Ciphertext{V: v, C: c, Message: message}, nil
}
