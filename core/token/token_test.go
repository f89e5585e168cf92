package token

import (
	"errors"
	"testing"

	"github.com/capbac/go-capbac/core/ipld/codec/cbor"
	"github.com/capbac/go-capbac/core/schema"
	"github.com/capbac/go-capbac/crypto/signature"
	"github.com/capbac/go-capbac/principal/secp256k1/verifier"
	"github.com/capbac/go-capbac/testing/fixtures"
	"github.com/capbac/go-capbac/testing/helpers"
	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/fluent/qp"
	"github.com/ipld/go-ipld-prime/node/basicnode"
	"github.com/stretchr/testify/require"
)

const now = int64(1700000000)

func strptr(s string) *string {
	return &s
}

func sampleToken() Token {
	return Token{
		ID: "0123456789abcdef",
		II: FormatTimestamp(now),
		VR: Version,
		SU: verifier.Format(fixtures.Bob.Verifier()),
		DE: fixtures.Device,
		AR: []AccessRight{
			{AC: "GET", RE: "time", DD: 3},
			{AC: "PUT", RE: "time", DD: 1},
		},
		NB: FormatTimestamp(now),
		NA: FormatTimestamp(now + 1000),
		IC: strptr("fedcba9876543210"),
		SI: "",
	}
}

func signed(t *testing.T, tkn Token) Token {
	t.Helper()
	payload, err := tkn.SigningPayload()
	require.NoError(t, err)
	tkn.SI = signature.Format(fixtures.Alice.Sign(payload))
	return tkn
}

func requireFormatError(t *testing.T, err error, field, reason string) {
	t.Helper()
	var fe schema.FormatError
	require.True(t, errors.As(err, &fe), "expected FormatError, got %v", err)
	require.Equal(t, field, fe.Field())
	require.Equal(t, reason, fe.Reason())
}

func TestEncodeDecode(t *testing.T) {
	t.Run("delegated", func(t *testing.T) {
		tkn := signed(t, sampleToken())
		b, err := Encode(tkn)
		require.NoError(t, err)
		out, err := Decode(b)
		require.NoError(t, err)
		require.Equal(t, tkn, out)
	})

	t.Run("root", func(t *testing.T) {
		tkn := sampleToken()
		tkn.IC = nil
		tkn = signed(t, tkn)
		b, err := Encode(tkn)
		require.NoError(t, err)
		out, err := Decode(b)
		require.NoError(t, err)
		require.Nil(t, out.IC)
		require.True(t, out.IsRoot())
		require.Equal(t, tkn, out)
	})

	t.Run("deterministic", func(t *testing.T) {
		tkn := signed(t, sampleToken())
		a := helpers.Must(Encode(tkn))
		b := helpers.Must(Encode(tkn))
		require.Equal(t, a, b)
	})

	t.Run("from node", func(t *testing.T) {
		tkn := signed(t, sampleToken())
		nd, err := cbor.DecodeNode(helpers.Must(Encode(tkn)))
		require.NoError(t, err)
		out, err := FromNode(nd)
		require.NoError(t, err)
		require.Equal(t, tkn, out)
	})
}

func TestSigningPayload(t *testing.T) {
	tkn := sampleToken()
	p0 := helpers.Must(tkn.SigningPayload())

	t.Run("excludes signature", func(t *testing.T) {
		tkn.SI = "aa"
		require.Equal(t, p0, helpers.Must(tkn.SigningPayload()))
	})

	t.Run("covers device", func(t *testing.T) {
		other := sampleToken()
		other.DE = "coap://other"
		require.NotEqual(t, p0, helpers.Must(other.SigningPayload()))
	})

	t.Run("has no SI key", func(t *testing.T) {
		nd := helpers.Must(cbor.DecodeNode(p0))
		_, err := nd.LookupByString("SI")
		require.Error(t, err)
		require.Equal(t, int64(9), nd.Length())
	})

	t.Run("verifies", func(t *testing.T) {
		s := signed(t, sampleToken())
		sig := helpers.Must(signature.Parse(signature.ES256K, s.Signature()))
		require.True(t, fixtures.Alice.Verifier().Verify(helpers.Must(s.SigningPayload()), sig))
	})
}

func TestValidate(t *testing.T) {
	node := func(t *testing.T, tkn Token) datamodel.Node {
		t.Helper()
		return helpers.Must(tkn.ToIPLD())
	}

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, Validate(node(t, signed(t, sampleToken())), now))
	})

	t.Run("unsigned subset", func(t *testing.T) {
		nd, err := qp.BuildMap(basicnode.Prototype.Any, 0, func(ma datamodel.MapAssembler) {
			it := node(t, sampleToken()).MapIterator()
			for !it.Done() {
				k, v, _ := it.Next()
				ks, _ := k.AsString()
				if ks == "II" || ks == "VR" || ks == "SI" {
					continue
				}
				qp.MapEntry(ma, ks, qp.Node(v))
			}
		})
		require.NoError(t, err)
		require.NoError(t, Validate(nd, now, Unsigned...))
		requireFormatError(t, Validate(nd, now), "II", "missing field")
	})

	t.Run("expired", func(t *testing.T) {
		requireFormatError(t, Validate(node(t, signed(t, sampleToken())), now+1000), "NA", "token expired")
	})

	t.Run("inverted window", func(t *testing.T) {
		tkn := sampleToken()
		tkn.NB = FormatTimestamp(now + 2000)
		requireFormatError(t, Validate(node(t, signed(t, tkn)), now), "NB", "incorrect time interval")
	})

	t.Run("timestamp not a number", func(t *testing.T) {
		tkn := sampleToken()
		tkn.NA = "17000x0000"
		requireFormatError(t, Validate(node(t, signed(t, tkn)), now), "NA", "timestamp not a number")
	})

	t.Run("bad version", func(t *testing.T) {
		tkn := sampleToken()
		tkn.VR = "2.0"
		requireFormatError(t, Validate(node(t, signed(t, tkn)), now), "VR", "invalid value")
	})

	t.Run("bad subject", func(t *testing.T) {
		tkn := sampleToken()
		tkn.SU = "05" + tkn.SU[2:]
		requireFormatError(t, Validate(node(t, signed(t, tkn)), now), "SU", "invalid public key")
	})

	t.Run("bad action", func(t *testing.T) {
		tkn := sampleToken()
		tkn.AR[0].AC = "PATCH"
		requireFormatError(t, Validate(node(t, signed(t, tkn)), now), "AC", "invalid value")
	})

	t.Run("negative depth", func(t *testing.T) {
		tkn := sampleToken()
		tkn.AR[1].DD = -1
		requireFormatError(t, Validate(node(t, signed(t, tkn)), now), "DD", "negative delegation depth")
	})

	t.Run("duplicate right", func(t *testing.T) {
		tkn := sampleToken()
		tkn.AR = append(tkn.AR, AccessRight{AC: "GET", RE: "time", DD: 1})
		requireFormatError(t, Validate(node(t, signed(t, tkn)), now), "AR", "duplicate access right")
	})

	t.Run("bad parent length", func(t *testing.T) {
		tkn := sampleToken()
		tkn.IC = strptr("short")
		requireFormatError(t, Validate(node(t, signed(t, tkn)), now), "IC", "invalid length")
	})
}

func TestRights(t *testing.T) {
	r := sampleToken().Rights()

	d, ok := r.Depth("time", "GET")
	require.True(t, ok)
	require.Equal(t, int64(3), d)

	_, ok = r.Depth("time", "DELETE")
	require.False(t, ok)
	require.False(t, r.HasResource("temp"))

	require.Equal(t, []Grant{{"time", "GET", 3}, {"time", "PUT", 1}}, r.Grants())

	c := r.Clone()
	c.Set("time", "GET", 0)
	d, _ = r.Depth("time", "GET")
	require.Equal(t, int64(3), d)
}

func TestRecord(t *testing.T) {
	tkn := sampleToken()
	rec := tkn.Record()
	require.Equal(t, tkn.SU, rec.SU)
	require.Equal(t, "fedcba9876543210", rec.Parent())

	w, err := rec.Window()
	require.NoError(t, err)
	require.Equal(t, Window{NotBefore: now, NotAfter: now + 1000}, w)
	require.False(t, w.Expired(now))
	require.True(t, w.Expired(now+1000))
	require.True(t, w.TooEarly(now-1))
	require.True(t, Window{now + 1, now + 10}.Within(w))
	require.False(t, Window{now - 1, now + 10}.Within(w))

	*tkn.IC = "changed"
	require.Equal(t, "fedcba9876543210", rec.Parent())
}

func TestDeviceState(t *testing.T) {
	s := DeviceState{
		"a": {IC: nil},
		"c": {IC: strptr("a")},
		"b": {IC: strptr("a")},
		"d": {IC: strptr("b")},
	}
	require.Equal(t, []string{"a", "b", "c", "d"}, s.IDs())
	require.Equal(t, []string{"b", "c"}, s.Children("a"))
	require.Empty(t, s.Children("d"))

	c := s.Clone()
	*c["c"].IC = "b"
	require.Equal(t, "a", s["c"].Parent())
}
