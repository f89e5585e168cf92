package ipld

import (
	"github.com/ipld/go-ipld-prime"
)

type Link = ipld.Link
type Node = ipld.Node

// Builder is a type that can be represented as an IPLD node.
type Builder interface {
	ToIPLD() (Node, error)
}
