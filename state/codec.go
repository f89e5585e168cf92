package state

import (
	"fmt"
	"maps"
	"slices"

	"github.com/capbac/go-capbac/core/ipld/codec/cbor"
	"github.com/capbac/go-capbac/core/schema"
	"github.com/capbac/go-capbac/core/token"
	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/fluent/qp"
	"github.com/ipld/go-ipld-prime/node/basicnode"
)

var RecordFormat = schema.Format{
	Name: "stored capability",
	Fields: map[string]schema.Field{
		"II": {Description: "issue instant", Len: token.TimestampLength},
		"SU": {Description: "subject public key", Len: token.SubjectLength},
		"AR": {Description: "access rights", Kinds: []datamodel.Kind{datamodel.Kind_Map}},
		"NB": {Description: "not before", Len: token.TimestampLength},
		"NA": {Description: "not after", Len: token.TimestampLength},
		"IC": {Description: "parent capability", Kinds: []datamodel.Kind{datamodel.Kind_Null, datamodel.Kind_String}, Len: token.IDLength},
	},
}

// Encode renders the device state in its canonical stored form.
func Encode(s token.DeviceState) ([]byte, error) {
	nd, err := ToIPLD(s)
	if err != nil {
		return nil, err
	}
	return cbor.EncodeNode(nd)
}

// ToIPLD builds the data model form of the device state, keyed by token
// identifier.
func ToIPLD(s token.DeviceState) (datamodel.Node, error) {
	nd, err := qp.BuildMap(basicnode.Prototype.Map, int64(len(s)), func(ma datamodel.MapAssembler) {
		for _, id := range s.IDs() {
			qp.MapEntry(ma, id, recordAssembler(s[id]))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("building device state: %w", err)
	}
	return nd, nil
}

func recordAssembler(r token.Record) qp.Assemble {
	return qp.Map(6, func(ma datamodel.MapAssembler) {
		qp.MapEntry(ma, "II", qp.String(r.II))
		qp.MapEntry(ma, "SU", qp.String(r.SU))
		qp.MapEntry(ma, "AR", qp.Map(int64(len(r.AR)), func(ma datamodel.MapAssembler) {
			for _, resource := range slices.Sorted(maps.Keys(r.AR)) {
				actions := r.AR[resource]
				qp.MapEntry(ma, resource, qp.Map(int64(len(actions)), func(ma datamodel.MapAssembler) {
					for _, action := range slices.Sorted(maps.Keys(actions)) {
						qp.MapEntry(ma, action, qp.Int(actions[action]))
					}
				}))
			}
		}))
		qp.MapEntry(ma, "NB", qp.String(r.NB))
		qp.MapEntry(ma, "NA", qp.String(r.NA))
		if r.IC == nil {
			qp.MapEntry(ma, "IC", qp.Null())
		} else {
			qp.MapEntry(ma, "IC", qp.String(*r.IC))
		}
	})
}

// Decode reads a device state in the form produced by Encode.
func Decode(b []byte) (token.DeviceState, error) {
	nd, err := cbor.DecodeNode(b)
	if err != nil {
		return nil, err
	}
	if nd.Kind() != datamodel.Kind_Map {
		return nil, fmt.Errorf("device state is a %s, not a map", nd.Kind())
	}
	s := make(token.DeviceState, nd.Length())
	it := nd.MapIterator()
	for !it.Done() {
		k, v, err := it.Next()
		if err != nil {
			return nil, err
		}
		id, err := k.AsString()
		if err != nil {
			return nil, err
		}
		rec, err := decodeRecord(v)
		if err != nil {
			return nil, fmt.Errorf("capability %s: %w", id, err)
		}
		s[id] = rec
	}
	return s, nil
}

func decodeRecord(n datamodel.Node) (token.Record, error) {
	if err := RecordFormat.Check(n); err != nil {
		return token.Record{}, err
	}
	var r token.Record
	r.II = mustString(n, "II")
	r.SU = mustString(n, "SU")
	r.NB = mustString(n, "NB")
	r.NA = mustString(n, "NA")
	if ic, _ := n.LookupByString("IC"); !ic.IsNull() {
		p, _ := ic.AsString()
		r.IC = &p
	}

	ar, _ := n.LookupByString("AR")
	r.AR = token.Rights{}
	it := ar.MapIterator()
	for !it.Done() {
		k, actions, err := it.Next()
		if err != nil {
			return token.Record{}, err
		}
		resource, err := k.AsString()
		if err != nil {
			return token.Record{}, err
		}
		if actions.Kind() != datamodel.Kind_Map {
			return token.Record{}, fmt.Errorf("rights for %s are a %s, not a map", resource, actions.Kind())
		}
		ait := actions.MapIterator()
		for !ait.Done() {
			ak, dv, err := ait.Next()
			if err != nil {
				return token.Record{}, err
			}
			action, err := ak.AsString()
			if err != nil {
				return token.Record{}, err
			}
			depth, err := dv.AsInt()
			if err != nil {
				return token.Record{}, fmt.Errorf("depth of %s %s: %w", action, resource, err)
			}
			r.AR.Set(resource, action, depth)
		}
	}
	return r, nil
}

// mustString reads a field already checked to be a string.
func mustString(n datamodel.Node, key string) string {
	v, _ := n.LookupByString(key)
	s, _ := v.AsString()
	return s
}
