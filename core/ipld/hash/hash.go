// Package hash describes digest functions whose output is used both as a
// multihash (content links) and as plain hex (state addresses).
package hash

import "encoding/hex"

type Hasher interface {
	Code() uint64
	Size() uint64
	Sum(b []byte) (Digest, error)
}

// Digest is the output of a Hasher.
type Digest struct {
	code uint64
	raw  []byte
	mh   []byte
}

func NewDigest(code uint64, raw []byte, mh []byte) Digest {
	return Digest{code: code, raw: raw, mh: mh}
}

func (d Digest) Code() uint64 {
	return d.code
}

func (d Digest) Size() uint64 {
	return uint64(len(d.raw))
}

// Digest is the raw hash output.
func (d Digest) Digest() []byte {
	return d.raw
}

// Bytes is the multihash encoding of the digest.
func (d Digest) Bytes() []byte {
	return d.mh
}

// Hex is the lowercase hex encoding of the raw hash output.
func (d Digest) Hex() string {
	return hex.EncodeToString(d.raw)
}
