package block

import (
	"testing"

	"github.com/capbac/go-capbac/core/ipld/codec/cbor"
	"github.com/capbac/go-capbac/core/ipld/hash/sha512"
	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/fluent/qp"
	"github.com/ipld/go-ipld-prime/node/basicnode"
	cidlink "github.com/ipld/go-ipld-prime/linking/cid"
	"github.com/multiformats/go-multihash"
	"github.com/stretchr/testify/require"
)

func TestFromBytes(t *testing.T) {
	nd, err := qp.BuildMap(basicnode.Prototype.Any, 1, func(ma datamodel.MapAssembler) {
		qp.MapEntry(ma, "uri", qp.String("coap://sensor"))
	})
	require.NoError(t, err)
	b, err := cbor.EncodeNode(nd)
	require.NoError(t, err)

	blk, err := FromBytes(b, cbor.Code, sha512.Hasher)
	require.NoError(t, err)
	require.Equal(t, b, blk.Bytes())

	c := blk.Link().(cidlink.Link).Cid
	require.Equal(t, uint64(1), c.Version())
	require.Equal(t, uint64(cbor.Code), c.Prefix().Codec)
	require.Equal(t, uint64(multihash.SHA2_512), c.Prefix().MhType)

	t.Run("stable", func(t *testing.T) {
		again, err := FromBytes(b, cbor.Code, sha512.Hasher)
		require.NoError(t, err)
		require.Equal(t, blk.Link().String(), again.Link().String())
	})

	t.Run("content addressed", func(t *testing.T) {
		other, err := FromBytes(append([]byte{}, b[:len(b)-1]...), cbor.Code, sha512.Hasher)
		require.NoError(t, err)
		require.NotEqual(t, blk.Link().String(), other.Link().String())
	})
}
