// Package client prepares signed capbac objects and the ledger transactions
// that carry them.
package client

import (
	"fmt"
	"time"

	"github.com/capbac/go-capbac/core/access"
	"github.com/capbac/go-capbac/core/ipld"
	"github.com/capbac/go-capbac/core/payload"
	"github.com/capbac/go-capbac/core/revocation"
	"github.com/capbac/go-capbac/core/token"
	"github.com/capbac/go-capbac/crypto/signature"
	"github.com/capbac/go-capbac/principal"
	"github.com/capbac/go-capbac/principal/secp256k1/verifier"
	"github.com/capbac/go-capbac/server/transaction"
)

type Client struct {
	signer principal.Signer
	clock  func() time.Time
}

func New(signer principal.Signer, options ...Option) (*Client, error) {
	cfg := clientConfig{clock: time.Now}
	for _, opt := range options {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	return &Client{signer: signer, clock: cfg.clock}, nil
}

// PublicKey is the hex encoded compressed public key of the client, the form
// used in SU fields and transaction headers.
func (c *Client) PublicKey() string {
	return verifier.Format(c.signer.Verifier())
}

func (c *Client) now() int64 {
	return c.clock().Unix()
}

func (c *Client) sign(obj interface{ SigningPayload() ([]byte, error) }) (string, error) {
	msg, err := obj.SigningPayload()
	if err != nil {
		return "", fmt.Errorf("encoding signing payload: %w", err)
	}
	return signature.Format(c.signer.Sign(msg)), nil
}

// Sign fills in the version, issue instant and signature of t.
func (c *Client) Sign(t token.Token) (token.Token, error) {
	t.VR = token.Version
	t.II = token.FormatTimestamp(c.now())
	t.SI = ""
	si, err := c.sign(t)
	if err != nil {
		return token.Token{}, err
	}
	t.SI = si
	return t, nil
}

// Issue checks t, signs it and wraps it in an issue transaction. When root is
// set the token is made a root token for the client's own key.
func (c *Client) Issue(t token.Token, root bool) (transaction.Transaction, error) {
	if root {
		t.IC = nil
		t.SU = c.PublicKey()
	}
	unsigned, err := omitUnsigned(t, token.Unsigned)
	if err != nil {
		return nil, err
	}
	if err := token.Validate(unsigned, c.now(), token.Unsigned...); err != nil {
		return nil, err
	}
	signed, err := c.Sign(t)
	if err != nil {
		return nil, err
	}
	return c.transaction(payload.Issue, signed)
}

// SignRevocation fills in the version, issue instant and signature of r.
func (c *Client) SignRevocation(r revocation.Request) (revocation.Request, error) {
	r.VR = token.Version
	r.II = token.FormatTimestamp(c.now())
	r.SI = ""
	si, err := c.sign(r)
	if err != nil {
		return revocation.Request{}, err
	}
	r.SI = si
	return r, nil
}

// Revoke checks r, signs it and wraps it in a revoke transaction.
func (c *Client) Revoke(r revocation.Request) (transaction.Transaction, error) {
	unsigned, err := omitUnsigned(r, revocation.Unsigned)
	if err != nil {
		return nil, err
	}
	if err := revocation.Validate(unsigned, revocation.Unsigned...); err != nil {
		return nil, err
	}
	signed, err := c.SignRevocation(r)
	if err != nil {
		return nil, err
	}
	return c.transaction(payload.Revoke, signed)
}

// SignAccess checks r and fills in its version, issue instant and signature.
func (c *Client) SignAccess(r access.Request) (access.Request, error) {
	unsigned, err := omitUnsigned(r, access.Unsigned)
	if err != nil {
		return access.Request{}, err
	}
	if err := access.Validate(unsigned, access.Unsigned...); err != nil {
		return access.Request{}, err
	}
	r.VR = token.Version
	r.II = token.FormatTimestamp(c.now())
	r.SI = ""
	si, err := c.sign(r)
	if err != nil {
		return access.Request{}, err
	}
	r.SI = si
	return r, nil
}

func (c *Client) transaction(action payload.Action, obj ipld.Builder) (transaction.Transaction, error) {
	b, err := payload.Encode(action, obj)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", action, err)
	}
	return transaction.NewTransaction(b, c.PublicKey()), nil
}

func omitUnsigned(obj ipld.Builder, fields []string) (ipld.Node, error) {
	nd, err := obj.ToIPLD()
	if err != nil {
		return nil, err
	}
	return ipld.Omit(nd, fields...)
}
