package block

import (
	"fmt"

	"github.com/capbac/go-capbac/core/ipld/hash"
	"github.com/ipfs/go-cid"
	"github.com/ipld/go-ipld-prime"
	cidlink "github.com/ipld/go-ipld-prime/linking/cid"
)

type Block interface {
	Link() ipld.Link
	Bytes() []byte
}

type block struct {
	link  ipld.Link
	bytes []byte
}

func (b *block) Link() ipld.Link {
	return b.link
}

func (b *block) Bytes() []byte {
	return b.bytes
}

func NewBlock(link ipld.Link, bytes []byte) Block {
	return &block{link, bytes}
}

// FromBytes addresses already encoded bytes.
func FromBytes(b []byte, code uint64, hasher hash.Hasher) (Block, error) {
	digest, err := hasher.Sum(b)
	if err != nil {
		return nil, fmt.Errorf("hashing block: %w", err)
	}
	link := cidlink.Link{Cid: cid.NewCidV1(code, digest.Bytes())}
	return NewBlock(link, b), nil
}
