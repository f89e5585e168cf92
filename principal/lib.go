package principal

import (
	"github.com/capbac/go-capbac/crypto/signature"
	"github.com/capbac/go-capbac/did"
)

type Signer interface {
	DID() did.DID
	Code() uint64
	SignatureCode() uint64
	SignatureAlgorithm() string
	// Sign produces a signature over msg.
	Sign(msg []byte) signature.Signature
	Verifier() Verifier
	// Encode is the multiformat tagged private key.
	Encode() []byte
	// Raw is the untagged private key.
	Raw() []byte
}

type Verifier interface {
	DID() did.DID
	Code() uint64
	Verify(msg []byte, sig signature.Signature) bool
	// Encode is the multiformat tagged public key.
	Encode() []byte
	// Raw is the untagged public key.
	Raw() []byte
}
