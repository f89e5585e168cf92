package json

import (
	"testing"

	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/fluent/qp"
	"github.com/ipld/go-ipld-prime/node/basicnode"
	"github.com/stretchr/testify/require"
)

func TestNode(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		nd, err := qp.BuildMap(basicnode.Prototype.Any, 2, func(ma datamodel.MapAssembler) {
			qp.MapEntry(ma, "IC", qp.Null())
			qp.MapEntry(ma, "RE", qp.String("time"))
		})
		require.NoError(t, err)

		b, err := EncodeNode(nd)
		require.NoError(t, err)
		require.Equal(t, `{"IC":null,"RE":"time"}`, string(b))

		back, err := DecodeNode(b)
		require.NoError(t, err)
		require.True(t, datamodel.DeepEqual(nd, back))
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := DecodeNode([]byte(`{"IC":`))
		require.Error(t, err)
	})
}
