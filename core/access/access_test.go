package access

import (
	"errors"
	"testing"

	"github.com/capbac/go-capbac/core/schema"
	"github.com/capbac/go-capbac/core/token"
	"github.com/capbac/go-capbac/testing/fixtures"
	"github.com/capbac/go-capbac/testing/helpers"
	"github.com/stretchr/testify/require"
)

func TestAccessRequest(t *testing.T) {
	r := Request{
		II: "1700000000",
		VR: token.Version,
		DE: fixtures.Device,
		AC: "GET",
		RE: "time",
		IC: "0123456789abcdef",
	}

	t.Run("unsigned subset", func(t *testing.T) {
		nd := helpers.Must(r.ToIPLD())
		err := Validate(nd)
		var fe schema.FormatError
		require.True(t, errors.As(err, &fe))
		require.Equal(t, "SI", fe.Field())
	})

	t.Run("round trip", func(t *testing.T) {
		out, err := Decode(helpers.Must(Encode(r)))
		require.NoError(t, err)
		require.Equal(t, r, out)
	})

	t.Run("payload excludes signature", func(t *testing.T) {
		p0 := helpers.Must(r.SigningPayload())
		s := r
		s.SI = "ff"
		require.Equal(t, p0, helpers.Must(s.SigningPayload()))
	})

	t.Run("bad action", func(t *testing.T) {
		s := r
		s.AC = "FETCH"
		err := Validate(helpers.Must(s.ToIPLD()), "SI")
		var fe schema.FormatError
		require.True(t, errors.As(err, &fe))
		require.Equal(t, "AC", fe.Field())
	})

	t.Run("from node", func(t *testing.T) {
		out, err := FromNode(helpers.Must(r.ToIPLD()))
		require.NoError(t, err)
		require.Equal(t, r, out)
	})
}
