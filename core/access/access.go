// Package access describes requests made by the subject of a capability to
// perform one action on one resource of a device.
package access

import (
	"fmt"

	"github.com/capbac/go-capbac/core/ipld"
	"github.com/capbac/go-capbac/core/ipld/codec/cbor"
	"github.com/capbac/go-capbac/core/schema"
	"github.com/capbac/go-capbac/core/token"
	"github.com/ipld/go-ipld-prime/datamodel"
)

var Format = schema.Format{
	Name: "access request",
	Fields: map[string]schema.Field{
		"II": {Description: "issue instant", Len: token.TimestampLength},
		"VR": {Description: "version", Values: []string{token.Version}},
		"DE": {Description: "device URI", MaxLen: token.DeviceMaxLength},
		"AC": {Description: "action", Values: token.Actions},
		"RE": {Description: "resource", MaxLen: token.ResourceMaxLength},
		"IC": {Description: "capability", Len: token.IDLength},
		"SI": {Description: "signature", Len: token.SignatureLength},
	},
}

// Unsigned lists the fields a client fills in when signing.
var Unsigned = []string{"II", "VR", "SI"}

type Request struct {
	II string
	VR string
	DE string
	AC string
	RE string
	IC string
	SI string
}

func (r Request) Signature() string {
	return r.SI
}

func (r Request) ToIPLD() (ipld.Node, error) {
	nd, err := ipld.WrapWithRecovery(&r, Type())
	if err != nil {
		return nil, err
	}
	return nd.Representation(), nil
}

// SigningPayload is the canonical encoding of every field except SI.
func (r Request) SigningPayload() ([]byte, error) {
	nd, err := r.ToIPLD()
	if err != nil {
		return nil, err
	}
	unsigned, err := ipld.Omit(nd, "SI")
	if err != nil {
		return nil, err
	}
	return cbor.EncodeNode(unsigned)
}

func Encode(r Request) ([]byte, error) {
	return cbor.Encode(&r, Type())
}

func Decode(b []byte) (Request, error) {
	var r Request
	err := cbor.Decode(b, &r, Type())
	return r, err
}

func FromNode(n datamodel.Node) (Request, error) {
	r, err := ipld.Rebind[Request](n, Type())
	if err != nil {
		return Request{}, fmt.Errorf("binding access request: %w", err)
	}
	return r, nil
}

// Validate checks the structure of a decoded access request node.
func Validate(n datamodel.Node, without ...string) error {
	if err := Format.Check(n, without...); err != nil {
		return err
	}
	if v, err := n.LookupByString("II"); err == nil {
		ii, _ := v.AsString()
		if _, err := token.ParseTimestamp(Format.Name, "II", ii); err != nil {
			return err
		}
	}
	return nil
}
