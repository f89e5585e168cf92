package token

import (
	"github.com/capbac/go-capbac/core/schema"
	"github.com/ipld/go-ipld-prime/datamodel"
)

const (
	// Version is the only protocol version accepted in VR.
	Version = "1.0"

	IDLength          = 16
	TimestampLength   = 10
	SubjectLength     = 66
	SignatureLength   = 128
	DeviceMaxLength   = 2000
	ResourceMaxLength = 2000
)

var Actions = []string{"GET", "POST", "PUT", "DELETE"}

var Format = schema.Format{
	Name: "capability token",
	Fields: map[string]schema.Field{
		"ID": {Description: "token identifier", Len: IDLength},
		"II": {Description: "issue instant", Len: TimestampLength},
		"VR": {Description: "version", Values: []string{Version}},
		"SU": {Description: "subject public key", Len: SubjectLength},
		"DE": {Description: "device URI", MaxLen: DeviceMaxLength},
		"AR": {Description: "access rights", Kinds: []datamodel.Kind{datamodel.Kind_List}},
		"NB": {Description: "not before", Len: TimestampLength},
		"NA": {Description: "not after", Len: TimestampLength},
		"IC": {Description: "parent capability", Kinds: []datamodel.Kind{datamodel.Kind_Null, datamodel.Kind_String}, Len: IDLength},
		"SI": {Description: "signature", Len: SignatureLength},
	},
}

var AccessRightFormat = schema.Format{
	Name: "access right",
	Fields: map[string]schema.Field{
		"AC": {Description: "action", Values: Actions},
		"RE": {Description: "resource", MaxLen: ResourceMaxLength},
		"DD": {Description: "delegation depth", Kinds: []datamodel.Kind{datamodel.Kind_Int}},
	},
}

// Unsigned lists the fields a client fills in when signing.
var Unsigned = []string{"II", "VR", "SI"}
