// Package signature carries signatures tagged with the code of the algorithm
// that produced them. On the wire capbac objects carry only the hex encoded
// raw signature, the tag is implied by the object version.
package signature

import (
	"encoding/hex"
	"fmt"
)

// ES256K is the varsig code for ECDSA over secp256k1 with a SHA-256 digest.
const ES256K = 0xd0e7

// RawSize is the size of a compact r||s secp256k1 signature.
const RawSize = 64

type Signature interface {
	Code() uint64
	Size() uint64
	// Raw signature (without signature algorithm info).
	Raw() []byte
}

type signature struct {
	code uint64
	raw  []byte
}

func NewSignature(code uint64, raw []byte) Signature {
	return signature{code: code, raw: raw}
}

func (s signature) Code() uint64 {
	return s.code
}

func (s signature) Size() uint64 {
	return uint64(len(s.raw))
}

func (s signature) Raw() []byte {
	return s.raw
}

// Format renders the raw signature as lowercase hex, the form carried in the
// SI field of capbac objects.
func Format(s Signature) string {
	return hex.EncodeToString(s.Raw())
}

// Parse reads a hex encoded raw signature and tags it with code.
func Parse(code uint64, str string) (Signature, error) {
	raw, err := hex.DecodeString(str)
	if err != nil {
		return nil, fmt.Errorf("decoding signature hex: %w", err)
	}
	if len(raw) != RawSize {
		return nil, fmt.Errorf("signature must be %d bytes, got %d", RawSize, len(raw))
	}
	return NewSignature(code, raw), nil
}
