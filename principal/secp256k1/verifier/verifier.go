package verifier

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/capbac/go-capbac/crypto/signature"
	"github.com/capbac/go-capbac/did"
	"github.com/capbac/go-capbac/principal"
	"github.com/capbac/go-capbac/principal/multiformat"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/multiformats/go-multicodec"
)

const Code = uint64(multicodec.Secp256k1Pub)
const Name = "secp256k1"

const SignatureCode = signature.ES256K
const SignatureAlgorithm = "ES256K"

// HexSize is the length of a hex encoded compressed public key.
const HexSize = 2 * secp256k1.PubKeyBytesLenCompressed

// Parse reads a hex encoded compressed public key, the form used for
// subjects and transaction senders.
func Parse(str string) (principal.Verifier, error) {
	if len(str) != HexSize {
		return nil, fmt.Errorf("public key must be %d hex characters, got %d", HexSize, len(str))
	}
	raw, err := hex.DecodeString(str)
	if err != nil {
		return nil, fmt.Errorf("decoding public key hex: %w", err)
	}
	return FromRaw(raw)
}

// Format renders the verifier as a hex encoded compressed public key.
func Format(v principal.Verifier) string {
	return hex.EncodeToString(v.Raw())
}

func FromRaw(raw []byte) (principal.Verifier, error) {
	pub, err := secp256k1.ParsePubKey(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}
	return FromPublicKey(pub), nil
}

func FromPublicKey(pub *secp256k1.PublicKey) principal.Verifier {
	return secpverifier{bytes: multiformat.Tag(Code, pub.SerializeCompressed()), pubKey: pub}
}

func Decode(b []byte) (principal.Verifier, error) {
	utb, err := multiformat.Untag(Code, b, secp256k1.PubKeyBytesLenCompressed)
	if err != nil {
		return nil, err
	}
	return FromRaw(utb)
}

type secpverifier struct {
	bytes  []byte
	pubKey *secp256k1.PublicKey
}

func (v secpverifier) Code() uint64 {
	return Code
}

// Verify checks a compact r||s signature over the SHA-256 digest of msg.
// Anything that cannot be parsed is a failed verification. High S values are
// rejected, matching libsecp256k1.
func (v secpverifier) Verify(msg []byte, sig signature.Signature) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	if sig == nil || sig.Code() != SignatureCode {
		return false
	}
	raw := sig.Raw()
	if len(raw) != signature.RawSize {
		return false
	}

	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(raw[:32]); overflow || r.IsZero() {
		return false
	}
	if overflow := s.SetByteSlice(raw[32:]); overflow || s.IsZero() || s.IsOverHalfOrder() {
		return false
	}

	digest := sha256.Sum256(msg)
	return ecdsa.NewSignature(&r, &s).Verify(digest[:], v.pubKey)
}

func (v secpverifier) DID() did.DID {
	id, _ := did.Decode(v.bytes)
	return id
}

func (v secpverifier) Encode() []byte {
	return v.bytes
}

func (v secpverifier) Raw() []byte {
	b, _ := multiformat.Untag(Code, v.bytes, secp256k1.PubKeyBytesLenCompressed)
	return b
}
