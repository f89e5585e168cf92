// Package json reads and writes the dag-json form of capbac objects, used for
// drafts and listings handled by people rather than the ledger.
package json

import (
	"bytes"

	"github.com/ipld/go-ipld-prime"
	"github.com/ipld/go-ipld-prime/codec/dagjson"
	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/node/basicnode"
	"github.com/ipld/go-ipld-prime/node/bindnode"
	"github.com/ipld/go-ipld-prime/schema"
)

const Code = 0x0129

// Encode encodes a bound value of the given schema type.
func Encode(val any, typ schema.Type, opts ...bindnode.Option) ([]byte, error) {
	return ipld.Marshal(dagjson.Encode, val, typ, opts...)
}

// EncodeNode encodes an untyped node.
func EncodeNode(n datamodel.Node) ([]byte, error) {
	return ipld.Encode(n, dagjson.Encode)
}

// DecodeNode decodes JSON into a schema-free node. Drafts are partial, so
// they are checked against a format before being bound to a type.
func DecodeNode(b []byte) (datamodel.Node, error) {
	nb := basicnode.Prototype.Any.NewBuilder()
	if err := dagjson.Decode(nb, bytes.NewReader(b)); err != nil {
		return nil, err
	}
	return nb.Build(), nil
}
