package ipld

import (
	"errors"

	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/node/bindnode"
	"github.com/ipld/go-ipld-prime/schema"
)

// Rebind takes a Node and binds it to the Go type according to the passed schema.
func Rebind[T any](nd datamodel.Node, typ schema.Type, opts ...bindnode.Option) (ptrVal T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(r, "unknown panic rebinding node")
		}
	}()

	if typedNode, ok := nd.(schema.TypedNode); ok {
		nd = typedNode.Representation()
	}

	var nilbind T
	np := bindnode.Prototype(&nilbind, typ, opts...)
	nb := np.Representation().NewBuilder()
	err = nb.AssignNode(nd)
	if err != nil {
		return
	}
	rnd := nb.Build()
	ptrVal = *bindnode.Unwrap(rnd).(*T)
	return
}

// WrapWithRecovery wraps a pointer to a Go value as a typed node. bindnode
// panics when the Go type does not match the schema, the panic is returned as
// an error instead.
func WrapWithRecovery(ptrVal any, typ schema.Type, opts ...bindnode.Option) (nd schema.TypedNode, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(r, "unknown panic wrapping value")
		}
	}()
	nd = bindnode.Wrap(ptrVal, typ, opts...)
	return
}

func recovered(r any, fallback string) error {
	if asStr, ok := r.(string); ok {
		return errors.New(asStr)
	} else if asErr, ok := r.(error); ok {
		return asErr
	}
	return errors.New(fallback)
}
