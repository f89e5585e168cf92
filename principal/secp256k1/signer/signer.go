package signer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/capbac/go-capbac/crypto/signature"
	"github.com/capbac/go-capbac/did"
	"github.com/capbac/go-capbac/principal"
	"github.com/capbac/go-capbac/principal/multiformat"
	"github.com/capbac/go-capbac/principal/secp256k1/verifier"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/multiformats/go-multicodec"
)

const Code = uint64(multicodec.Secp256k1Priv)
const Name = verifier.Name

const SignatureCode = verifier.SignatureCode
const SignatureAlgorithm = verifier.SignatureAlgorithm

// HexSize is the length of a hex encoded private key.
const HexSize = 2 * secp256k1.PrivKeyBytesLen

func Generate() (principal.Signer, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generating secp256k1 key: %w", err)
	}
	return fromPrivateKey(priv), nil
}

// Parse reads a hex encoded private key, the format of ledger key files.
func Parse(str string) (principal.Signer, error) {
	if len(str) != HexSize {
		return nil, fmt.Errorf("private key must be %d hex characters, got %d", HexSize, len(str))
	}
	raw, err := hex.DecodeString(str)
	if err != nil {
		return nil, fmt.Errorf("decoding private key hex: %w", err)
	}
	return FromRaw(raw)
}

// Format renders the signer as a hex encoded private key.
func Format(s principal.Signer) string {
	return hex.EncodeToString(s.Raw())
}

func FromRaw(raw []byte) (principal.Signer, error) {
	if len(raw) != secp256k1.PrivKeyBytesLen {
		return nil, fmt.Errorf("private key must be %d bytes, got %d", secp256k1.PrivKeyBytesLen, len(raw))
	}
	var k secp256k1.ModNScalar
	if overflow := k.SetByteSlice(raw); overflow || k.IsZero() {
		return nil, fmt.Errorf("private key out of range")
	}
	return fromPrivateKey(secp256k1.NewPrivateKey(&k)), nil
}

func Decode(b []byte) (principal.Signer, error) {
	utb, err := multiformat.Untag(Code, b, secp256k1.PrivKeyBytesLen)
	if err != nil {
		return nil, err
	}
	return FromRaw(utb)
}

func fromPrivateKey(priv *secp256k1.PrivateKey) principal.Signer {
	return secpsigner{
		bytes:    multiformat.Tag(Code, priv.Serialize()),
		privKey:  priv,
		verifier: verifier.FromPublicKey(priv.PubKey()),
	}
}

type secpsigner struct {
	bytes    []byte
	privKey  *secp256k1.PrivateKey
	verifier principal.Verifier
}

func (s secpsigner) Code() uint64 {
	return Code
}

func (s secpsigner) SignatureCode() uint64 {
	return SignatureCode
}

func (s secpsigner) SignatureAlgorithm() string {
	return SignatureAlgorithm
}

func (s secpsigner) Verifier() principal.Verifier {
	return s.verifier
}

func (s secpsigner) DID() did.DID {
	return s.verifier.DID()
}

func (s secpsigner) Encode() []byte {
	return s.bytes
}

func (s secpsigner) Raw() []byte {
	b, _ := multiformat.Untag(Code, s.bytes, secp256k1.PrivKeyBytesLen)
	return b
}

// Sign produces a deterministic (RFC 6979) signature over the SHA-256 digest
// of msg, serialized as a 64 byte compact r||s with a low S value.
func (s secpsigner) Sign(msg []byte) signature.Signature {
	digest := sha256.Sum256(msg)
	sig := ecdsa.Sign(s.privKey, digest[:])

	r, ss := sig.R(), sig.S()
	rb, sb := r.Bytes(), ss.Bytes()
	raw := make([]byte, 0, signature.RawSize)
	raw = append(raw, rb[:]...)
	raw = append(raw, sb[:]...)
	return signature.NewSignature(SignatureCode, raw)
}
