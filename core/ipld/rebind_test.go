package ipld

import (
	"testing"

	"github.com/ipld/go-ipld-prime"
	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/fluent/qp"
	"github.com/ipld/go-ipld-prime/node/basicnode"
	"github.com/stretchr/testify/require"
)

type right struct {
	Resource string
	Depth    int64
}

func TestRebind(t *testing.T) {
	ts, err := ipld.LoadSchemaBytes([]byte(`
		type Right struct {
			resource String
			depth Int
		}
	`))
	require.NoError(t, err)
	typ := ts.TypeByName("Right")

	t.Run("basic node", func(t *testing.T) {
		nd, err := qp.BuildMap(basicnode.Prototype.Any, 2, func(ma datamodel.MapAssembler) {
			qp.MapEntry(ma, "resource", qp.String("time"))
			qp.MapEntry(ma, "depth", qp.Int(3))
		})
		require.NoError(t, err)

		r, err := Rebind[right](nd, typ)
		require.NoError(t, err)
		require.Equal(t, right{Resource: "time", Depth: 3}, r)
	})

	t.Run("typed node", func(t *testing.T) {
		nd, err := WrapWithRecovery(&right{Resource: "temp", Depth: 1}, typ)
		require.NoError(t, err)

		r, err := Rebind[right](nd, typ)
		require.NoError(t, err)
		require.Equal(t, "temp", r.Resource)
	})

	t.Run("missing field", func(t *testing.T) {
		nd, err := qp.BuildMap(basicnode.Prototype.Any, 1, func(ma datamodel.MapAssembler) {
			qp.MapEntry(ma, "resource", qp.String("time"))
		})
		require.NoError(t, err)

		_, err = Rebind[right](nd, typ)
		require.Error(t, err)
	})

	t.Run("wrong kind", func(t *testing.T) {
		nd, err := qp.BuildMap(basicnode.Prototype.Any, 2, func(ma datamodel.MapAssembler) {
			qp.MapEntry(ma, "resource", qp.Int(1))
			qp.MapEntry(ma, "depth", qp.Int(3))
		})
		require.NoError(t, err)

		_, err = Rebind[right](nd, typ)
		require.Error(t, err)
	})
}

func TestWrapWithRecovery(t *testing.T) {
	ts, err := ipld.LoadSchemaBytes([]byte(`
		type Right struct {
			resource String
			depth Int
		}
	`))
	require.NoError(t, err)

	type mismatched struct {
		Resource int
	}
	_, err = WrapWithRecovery(&mismatched{}, ts.TypeByName("Right"))
	require.Error(t, err)
}
