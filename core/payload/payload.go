// Package payload is the envelope carried by capbac transactions: an action
// name and the object it applies to.
package payload

import (
	"fmt"

	"github.com/capbac/go-capbac/core/ipld"
	"github.com/capbac/go-capbac/core/ipld/codec/cbor"
	"github.com/capbac/go-capbac/core/result/failure"
	"github.com/capbac/go-capbac/core/schema"
	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/fluent/qp"
	"github.com/ipld/go-ipld-prime/node/basicnode"
)

type Action string

const (
	Issue  Action = "issue"
	Revoke Action = "revoke"
)

var Format = schema.Format{
	Name: "payload",
	Fields: map[string]schema.Field{
		"AC": {Description: "action", Values: []string{string(Issue), string(Revoke)}},
		"OB": {Description: "object", Kinds: []datamodel.Kind{datamodel.Kind_Map}},
	},
}

type Payload struct {
	Action Action
	// Object is the schema-free object, validated by the handler of Action.
	Object datamodel.Node
}

type DecodeError struct {
	failure.NamedWithStackTrace
	cause error
}

func NewDecodeError(cause error) DecodeError {
	return DecodeError{failure.NamedWithCurrentStackTrace("DecodeError"), cause}
}

func (de DecodeError) Error() string {
	return fmt.Sprintf("invalid payload serialization: %s", de.cause)
}

func (de DecodeError) Unwrap() error {
	return de.cause
}

func (de DecodeError) Category() failure.Category {
	return failure.Malformed
}

// Decode reads a payload, checking the envelope but not the object.
func Decode(b []byte) (Payload, error) {
	nd, err := cbor.DecodeNode(b)
	if err != nil {
		return Payload{}, NewDecodeError(err)
	}
	if err := Format.Check(nd); err != nil {
		return Payload{}, err
	}
	ac, _ := nd.LookupByString("AC")
	action, _ := ac.AsString()
	ob, _ := nd.LookupByString("OB")
	return Payload{Action: Action(action), Object: ob}, nil
}

// Encode builds the canonical payload bytes for obj.
func Encode(action Action, obj ipld.Builder) ([]byte, error) {
	ob, err := obj.ToIPLD()
	if err != nil {
		return nil, fmt.Errorf("building payload object: %w", err)
	}
	nd, err := qp.BuildMap(basicnode.Prototype.Map, 2, func(ma datamodel.MapAssembler) {
		qp.MapEntry(ma, "AC", qp.String(string(action)))
		qp.MapEntry(ma, "OB", qp.Node(ob))
	})
	if err != nil {
		return nil, fmt.Errorf("building payload: %w", err)
	}
	return cbor.EncodeNode(nd)
}
