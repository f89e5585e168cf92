package did

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multicodec"
	"github.com/multiformats/go-varint"
)

const Prefix = "did:"
const KeyPrefix = "did:key:"

const DIDCore = 0x0d1d
const Secp256k1 = uint64(multicodec.Secp256k1Pub)

type DID struct {
	str string
}

var Undef = DID{}

// Defined returns true if the DID is not the zero value.
func (d DID) Defined() bool {
	return d.str != ""
}

// Bytes is the binary form of the DID. For did:key this is the multicodec
// tagged public key.
func (d DID) Bytes() []byte {
	if !d.Defined() {
		return nil
	}
	if strings.HasPrefix(d.str, KeyPrefix) {
		_, bytes, err := multibase.Decode(d.str[len(KeyPrefix):])
		if err != nil {
			return nil
		}
		return bytes
	}
	buf := varint.ToUvarint(DIDCore)
	return append(buf, []byte(d.str[len(Prefix):])...)
}

func (d DID) DID() DID {
	return d
}

func (d DID) String() string {
	return d.str
}

func (d DID) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.str)
}

func (d *DID) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	parsed, err := Parse(str)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func Decode(bytes []byte) (DID, error) {
	code, n, err := varint.FromUvarint(bytes)
	if err != nil {
		return Undef, err
	}
	switch code {
	case Secp256k1:
		b58key, err := multibase.Encode(multibase.Base58BTC, bytes)
		if err != nil {
			return Undef, err
		}
		return DID{KeyPrefix + b58key}, nil
	case DIDCore:
		return DID{Prefix + string(bytes[n:])}, nil
	}
	return Undef, fmt.Errorf("unsupported DID encoding: 0x%x", code)
}

func Parse(str string) (DID, error) {
	if !strings.HasPrefix(str, Prefix) {
		return Undef, fmt.Errorf("must start with 'did:'")
	}
	if strings.HasPrefix(str, KeyPrefix) {
		code, bytes, err := multibase.Decode(str[len(KeyPrefix):])
		if err != nil {
			return Undef, err
		}
		if code != multibase.Base58BTC {
			return Undef, fmt.Errorf("not Base58BTC encoded")
		}
		return Decode(bytes)
	}
	buf := varint.ToUvarint(DIDCore)
	buf = append(buf, []byte(str[len(Prefix):])...)
	return Decode(buf)
}
