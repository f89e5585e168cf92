package client

import (
	"errors"
	"testing"
	"time"

	"github.com/capbac/go-capbac/core/payload"
	"github.com/capbac/go-capbac/core/revocation"
	"github.com/capbac/go-capbac/core/schema"
	"github.com/capbac/go-capbac/core/token"
	"github.com/capbac/go-capbac/crypto/signature"
	"github.com/capbac/go-capbac/principal/secp256k1/verifier"
	"github.com/capbac/go-capbac/testing/fixtures"
	"github.com/capbac/go-capbac/testing/helpers"
	"github.com/stretchr/testify/require"
)

const now = int64(1700000000)

func clock() time.Time {
	return time.Unix(now, 0)
}

func strptr(s string) *string {
	return &s
}

func draft() token.Token {
	return token.Token{
		ID: helpers.RandomID(),
		SU: verifier.Format(fixtures.Bob.Verifier()),
		DE: fixtures.Device,
		AR: []token.AccessRight{{AC: "GET", RE: "time", DD: 1}},
		NB: token.FormatTimestamp(now),
		NA: token.FormatTimestamp(now + 3600),
		IC: strptr(helpers.RandomID()),
	}
}

func TestSign(t *testing.T) {
	c := helpers.Must(New(fixtures.Alice, WithClock(clock)))

	tkn, err := c.Sign(draft())
	require.NoError(t, err)
	require.Equal(t, token.Version, tkn.VR)
	require.Equal(t, token.FormatTimestamp(now), tkn.II)
	require.Len(t, tkn.SI, token.SignatureLength)

	msg, err := tkn.SigningPayload()
	require.NoError(t, err)
	sig, err := signature.Parse(signature.ES256K, tkn.SI)
	require.NoError(t, err)
	require.True(t, fixtures.Alice.Verifier().Verify(msg, sig))

	again, err := c.Sign(tkn)
	require.NoError(t, err)
	require.Equal(t, tkn.SI, again.SI)
}

func TestIssue(t *testing.T) {
	c := helpers.Must(New(fixtures.Alice, WithClock(clock)))

	t.Run("delegated", func(t *testing.T) {
		d := draft()
		txn, err := c.Issue(d, false)
		require.NoError(t, err)
		require.Equal(t, c.PublicKey(), txn.SignerPublicKey())

		p, err := payload.Decode(txn.Payload())
		require.NoError(t, err)
		require.Equal(t, payload.Issue, p.Action)
		require.NoError(t, token.Validate(p.Object, now))

		tkn, err := token.FromNode(p.Object)
		require.NoError(t, err)
		require.Equal(t, d.ID, tkn.ID)
		require.Equal(t, *d.IC, tkn.Parent())
	})

	t.Run("root", func(t *testing.T) {
		txn, err := c.Issue(draft(), true)
		require.NoError(t, err)

		p, err := payload.Decode(txn.Payload())
		require.NoError(t, err)
		tkn, err := token.FromNode(p.Object)
		require.NoError(t, err)
		require.True(t, tkn.IsRoot())
		require.Equal(t, c.PublicKey(), tkn.SU)
	})

	t.Run("expired window", func(t *testing.T) {
		tkn := draft()
		tkn.NA = token.FormatTimestamp(now)
		_, err := c.Issue(tkn, false)
		var fe schema.FormatError
		require.True(t, errors.As(err, &fe))
		require.Equal(t, "NA", fe.Field())
	})

	t.Run("malformed draft", func(t *testing.T) {
		tkn := draft()
		tkn.ID = "short"
		_, err := c.Issue(tkn, false)
		var fe schema.FormatError
		require.True(t, errors.As(err, &fe))
		require.Equal(t, "ID", fe.Field())
	})
}

func TestRevoke(t *testing.T) {
	c := helpers.Must(New(fixtures.Bob, WithClock(clock)))

	t.Run("valid", func(t *testing.T) {
		txn, err := c.Revoke(revocation.Request{
			ID: helpers.RandomID(),
			DE: fixtures.Device,
			RT: string(revocation.All),
			IC: strptr(helpers.RandomID()),
		})
		require.NoError(t, err)

		p, err := payload.Decode(txn.Payload())
		require.NoError(t, err)
		require.Equal(t, payload.Revoke, p.Action)
		require.NoError(t, revocation.Validate(p.Object))
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := c.Revoke(revocation.Request{
			ID: helpers.RandomID(),
			DE: fixtures.Device,
			RT: "SOME",
			IC: strptr(helpers.RandomID()),
		})
		var fe schema.FormatError
		require.True(t, errors.As(err, &fe))
		require.Equal(t, "RT", fe.Field())
	})
}
