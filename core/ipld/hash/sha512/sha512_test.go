package sha512

import (
	"testing"

	"github.com/multiformats/go-multihash"
	"github.com/stretchr/testify/require"
)

func TestSum(t *testing.T) {
	d, err := Hasher.Sum([]byte("capbac"))
	require.NoError(t, err)
	require.Equal(t, uint64(Code), d.Code())
	require.Equal(t, uint64(Size), d.Size())
	require.Len(t, d.Digest(), Size)

	dm, err := multihash.Decode(d.Bytes())
	require.NoError(t, err)
	require.Equal(t, d.Digest(), dm.Digest)
	require.Equal(t, uint64(multihash.SHA2_512), dm.Code)
}

func TestHex(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		require.Equal(t,
			"cf83e1357eefb8bdf1542850d66d8007d620e4050b5715dc83f4a921d36ce9ce47d0d13c5d85f2b0ff8318d2877eec2f63b931bd47417a81a538327af927da3e",
			MustSum(nil).Hex(),
		)
	})

	t.Run("family name", func(t *testing.T) {
		h := MustSum([]byte("capbac")).Hex()
		require.Len(t, h, 2*Size)
		require.Equal(t, "d7ae4e", h[:6])
	})
}
