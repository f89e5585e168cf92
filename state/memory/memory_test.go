package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContext(t *testing.T) {
	ctx := context.Background()

	t.Run("values are copied", func(t *testing.T) {
		c := New()
		in := []byte("blob")
		_, err := c.SetState(ctx, map[string][]byte{"abc": in})
		require.NoError(t, err)
		in[0] = 'X'

		out, err := c.GetState(ctx, []string{"abc", "def"})
		require.NoError(t, err)
		require.Equal(t, map[string][]byte{"abc": []byte("blob")}, out)

		out["abc"][0] = 'Y'
		require.Equal(t, []byte("blob"), c.Snapshot()["abc"])
	})

	t.Run("namespaces", func(t *testing.T) {
		c := New(WithNamespaces("ab"))
		written, err := c.SetState(ctx, map[string][]byte{"abc": {1}, "abd": {2}})
		require.NoError(t, err)
		require.Equal(t, []string{"abc", "abd"}, written)

		_, err = c.SetState(ctx, map[string][]byte{"abe": {1}, "xyz": {2}})
		require.Error(t, err)
		require.NotContains(t, c.Snapshot(), "abe")

		_, err = c.GetState(ctx, []string{"xyz"})
		require.Error(t, err)
	})
}
