// Package schema checks schema-free nodes against declarative field-format
// tables. A table maps field names to the constraints a value must satisfy,
// checks are strict: required fields must be present and unknown fields are
// rejected.
package schema

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/ipld/go-ipld-prime/datamodel"
)

// Field describes the constraints on a single field. When Kinds is set and
// the value is a string, Len and MaxLen still apply.
type Field struct {
	Description string
	// Values the field may take, compared exactly.
	Values []string
	// Kinds the value may have.
	Kinds []datamodel.Kind
	// Len is the exact length of a string value, 0 for no constraint.
	Len int
	// MaxLen is the maximum length of a string value, 0 for no constraint.
	MaxLen int
}

// Format is a named table of fields.
type Format struct {
	Name   string
	Fields map[string]Field
}

// Names returns the field names of the format in sorted order, excluding any
// listed in without.
func (f Format) Names(without ...string) []string {
	names := make([]string, 0, len(f.Fields))
	for name := range f.Fields {
		if slices.Contains(without, name) {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Check verifies that n is a map holding exactly the fields of the format
// (minus those listed in without) and that every value satisfies its
// constraints. Fields are visited in sorted order so the reported error is
// stable for a given input.
func (f Format) Check(n datamodel.Node, without ...string) error {
	if n == nil || n.Kind() != datamodel.Kind_Map {
		return NewFormatError(f.Name, "", "not a map", "map", kindOf(n))
	}

	active := f.Names(without...)
	present := map[string]datamodel.Node{}
	it := n.MapIterator()
	for !it.Done() {
		k, v, err := it.Next()
		if err != nil {
			return NewFormatError(f.Name, "", fmt.Sprintf("reading map: %s", err), "map", kindOf(n))
		}
		ks, err := k.AsString()
		if err != nil {
			return NewFormatError(f.Name, "", "non-string key", "string", k.Kind().String())
		}
		present[ks] = v
	}

	for _, name := range active {
		v, ok := present[name]
		if !ok {
			return NewFormatError(f.Name, name, "missing field", f.Fields[name].Description, "nothing")
		}
		if err := f.checkField(name, f.Fields[name], v); err != nil {
			return err
		}
	}

	var unexpected []string
	for name := range present {
		if !slices.Contains(active, name) {
			unexpected = append(unexpected, name)
		}
	}
	if len(unexpected) > 0 {
		slices.Sort(unexpected)
		return NewFormatError(f.Name, unexpected[0], "unexpected field", strings.Join(active, ","), unexpected[0])
	}
	return nil
}

func (f Format) checkField(name string, field Field, v datamodel.Node) error {
	if len(field.Values) > 0 {
		s, err := v.AsString()
		if err != nil {
			return NewFormatError(f.Name, name, "invalid type", "string", v.Kind().String())
		}
		if !slices.Contains(field.Values, s) {
			return NewFormatError(f.Name, name, "invalid value", strings.Join(field.Values, "|"), s)
		}
		return nil
	}

	if len(field.Kinds) > 0 {
		if !slices.Contains(field.Kinds, v.Kind()) {
			return NewFormatError(f.Name, name, "invalid type", kindNames(field.Kinds), v.Kind().String())
		}
		if v.Kind() != datamodel.Kind_String {
			return nil
		}
	}

	s, err := v.AsString()
	if err != nil {
		return NewFormatError(f.Name, name, "invalid type", "string", v.Kind().String())
	}
	n := utf8.RuneCountInString(s)
	if field.Len > 0 && n != field.Len {
		return NewFormatError(f.Name, name, "invalid length", fmt.Sprint(field.Len), fmt.Sprint(n))
	}
	if field.MaxLen > 0 && n > field.MaxLen {
		return NewFormatError(f.Name, name, "too long", fmt.Sprintf("at most %d", field.MaxLen), fmt.Sprint(n))
	}
	return nil
}

func kindOf(n datamodel.Node) string {
	if n == nil {
		return "nothing"
	}
	return n.Kind().String()
}

func kindNames(kinds []datamodel.Kind) string {
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, k.String())
	}
	return strings.Join(names, "|")
}
