package sha512

import (
	"crypto/sha512"

	"github.com/capbac/go-capbac/core/ipld/hash"
	"github.com/multiformats/go-multihash"
)

// sha2-512
const Code = multihash.SHA2_512

// sha2-512 hash has a 64-byte sum
const Size = sha512.Size

type hasher struct{}

func (hasher) Code() uint64 {
	return Code
}

func (hasher) Size() uint64 {
	return Size
}

func (hasher) Sum(b []byte) (hash.Digest, error) {
	sum := sha512.Sum512(b)
	mh, err := multihash.Encode(sum[:], Code)
	if err != nil {
		return hash.Digest{}, err
	}
	return hash.NewDigest(Code, sum[:], mh), nil
}

var Hasher = hasher{}

// MustSum is Hasher.Sum for callers that cannot handle an error. Encoding a
// sha2-512 multihash only fails if the multihash table is broken.
func MustSum(b []byte) hash.Digest {
	d, err := Hasher.Sum(b)
	if err != nil {
		panic(err)
	}
	return d
}
