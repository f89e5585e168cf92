// Package cbor is the canonical binary codec. Maps are always written with
// their keys in RFC 7049 canonical order so that the same logical value
// produces the same bytes on every replica.
package cbor

import (
	"bytes"

	"github.com/ipld/go-ipld-prime"
	"github.com/ipld/go-ipld-prime/codec/dagcbor"
	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/node/basicnode"
	"github.com/ipld/go-ipld-prime/node/bindnode"
	"github.com/ipld/go-ipld-prime/schema"
)

const Code = 0x71

// Links are not part of any capbac object, a CID tag in the input is an error.
var decodeOptions = dagcbor.DecodeOptions{AllowLinks: false}

func Encode(val any, typ schema.Type, opts ...bindnode.Option) ([]byte, error) {
	return ipld.Marshal(dagcbor.Encode, val, typ, opts...)
}

func Decode(b []byte, bind any, typ schema.Type, opts ...bindnode.Option) error {
	_, err := ipld.Unmarshal(b, decodeOptions.Decode, bind, typ, opts...)
	return err
}

// EncodeNode encodes an untyped node.
func EncodeNode(n datamodel.Node) ([]byte, error) {
	return ipld.Encode(n, dagcbor.Encode)
}

// DecodeNode decodes bytes into a schema-free node, leaving structural checks
// to the caller.
func DecodeNode(b []byte) (datamodel.Node, error) {
	nb := basicnode.Prototype.Any.NewBuilder()
	err := decodeOptions.Decode(nb, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	return nb.Build(), nil
}
