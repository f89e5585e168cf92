package revocation

import (
	"github.com/capbac/go-capbac/core/schema"
	"github.com/capbac/go-capbac/core/token"
	"github.com/ipld/go-ipld-prime/datamodel"
)

// Type of revocation.
type Kind string

const (
	// ThisOnly removes the target and reparents its children to the target's
	// parent.
	ThisOnly Kind = "ICO"
	// All removes the target and every descendant.
	All Kind = "ALL"
	// DependantsOnly removes every descendant but keeps the target.
	DependantsOnly Kind = "DCO"
)

var Format = schema.Format{
	Name: "revocation request",
	Fields: map[string]schema.Field{
		"ID": {Description: "target token identifier", Len: token.IDLength},
		"II": {Description: "issue instant", Len: token.TimestampLength},
		"VR": {Description: "version", Values: []string{token.Version}},
		"DE": {Description: "device URI", MaxLen: token.DeviceMaxLength},
		"RT": {Description: "revocation type", Values: []string{string(ThisOnly), string(All), string(DependantsOnly)}},
		"IC": {Description: "requester capability", Kinds: []datamodel.Kind{datamodel.Kind_Null, datamodel.Kind_String}, Len: token.IDLength},
		"SI": {Description: "signature", Len: token.SignatureLength},
	},
}

// Unsigned lists the fields a client fills in when signing.
var Unsigned = []string{"II", "VR", "SI"}

// Validate checks the structure of a decoded revocation request node.
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
