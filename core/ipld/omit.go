package ipld

import (
	"slices"

	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/node/basicnode"
	"github.com/ipld/go-ipld-prime/schema"
)

// Omit copies the map node n without the listed keys. Typed nodes are copied
// through their representation.
func Omit(n datamodel.Node, keys ...string) (datamodel.Node, error) {
	if typed, ok := n.(schema.TypedNode); ok {
		n = typed.Representation()
	}

	nb := basicnode.Prototype.Map.NewBuilder()
	ma, err := nb.BeginMap(n.Length())
	if err != nil {
		return nil, err
	}
	it := n.MapIterator()
	for !it.Done() {
		k, v, err := it.Next()
		if err != nil {
			return nil, err
		}
		ks, err := k.AsString()
		if err != nil {
			return nil, err
		}
		if slices.Contains(keys, ks) {
			continue
		}
		if err := ma.AssembleKey().AssignString(ks); err != nil {
			return nil, err
		}
		if err := ma.AssembleValue().AssignNode(v); err != nil {
			return nil, err
		}
	}
	if err := ma.Finish(); err != nil {
		return nil, err
	}
	return nb.Build(), nil
}
