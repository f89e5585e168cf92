package token

import (
	"fmt"

	"github.com/capbac/go-capbac/core/ipld"
	"github.com/capbac/go-capbac/core/ipld/codec/cbor"
	"github.com/capbac/go-capbac/core/schema"
	"github.com/capbac/go-capbac/principal/secp256k1/verifier"
	"github.com/ipld/go-ipld-prime/datamodel"
)

type AccessRight struct {
	AC string
	RE string
	DD int64
}

// Token is a capability token as it travels on the wire.
type Token struct {
	ID string
	II string
	VR string
	SU string
	DE string
	AR []AccessRight
	NB string
	NA string
	IC *string
	SI string
}

func (t Token) IsRoot() bool {
	return t.IC == nil
}

// Parent is the identifier of the parent capability, empty for a root.
func (t Token) Parent() string {
	if t.IC == nil {
		return ""
	}
	return *t.IC
}

// Signature is the hex encoded SI field.
func (t Token) Signature() string {
	return t.SI
}

func (t Token) ToIPLD() (ipld.Node, error) {
	nd, err := ipld.WrapWithRecovery(&t, Type())
	if err != nil {
		return nil, err
	}
	return nd.Representation(), nil
}

// SigningPayload is the canonical encoding of every field except SI.
func (t Token) SigningPayload() ([]byte, error) {
	nd, err := t.ToIPLD()
	if err != nil {
		return nil, err
	}
	unsigned, err := ipld.Omit(nd, "SI")
	if err != nil {
		return nil, err
	}
	return cbor.EncodeNode(unsigned)
}

func (t Token) Window() (Window, error) {
	nb, err := ParseTimestamp(Format.Name, "NB", t.NB)
	if err != nil {
		return Window{}, err
	}
	na, err := ParseTimestamp(Format.Name, "NA", t.NA)
	if err != nil {
		return Window{}, err
	}
	return Window{NotBefore: nb, NotAfter: na}, nil
}

// Rights normalizes AR into a resource -> action -> depth mapping. Duplicate
// pairs are rejected by Validate, here the last one wins.
func (t Token) Rights() Rights {
	rights := Rights{}
	for _, ar := range t.AR {
		rights.Set(ar.RE, ar.AC, ar.DD)
	}
	return rights
}

// Record is the form in which the token is kept in device state.
func (t Token) Record() Record {
	var ic *string
	if t.IC != nil {
		p := *t.IC
		ic = &p
	}
	return Record{II: t.II, SU: t.SU, AR: t.Rights(), NB: t.NB, NA: t.NA, IC: ic}
}

func Encode(t Token) ([]byte, error) {
	return cbor.Encode(&t, Type())
}

func Decode(b []byte) (Token, error) {
	var t Token
	err := cbor.Decode(b, &t, Type())
	return t, err
}

// FromNode binds an already validated node to a Token.
func FromNode(n datamodel.Node) (Token, error) {
	t, err := ipld.Rebind[Token](n, Type())
	if err != nil {
		return Token{}, fmt.Errorf("binding capability token: %w", err)
	}
	return t, nil
}

// Validate checks the structure of a decoded token node and its time window
// at now. Fields listed in without are not expected to be present.
func Validate(n datamodel.Node, now int64, without ...string) error {
	if err := Format.Check(n, without...); err != nil {
		return err
	}

	ar, _ := n.LookupByString("AR")
	if err := validateRights(ar); err != nil {
		return err
	}

	if ii, err := lookupString(n, "II"); err == nil {
		if _, err := ParseTimestamp(Format.Name, "II", ii); err != nil {
			return err
		}
	}

	su, _ := lookupString(n, "SU")
	if _, err := verifier.Parse(su); err != nil {
		return schema.NewFormatError(Format.Name, "SU", "invalid public key", "compressed secp256k1 key", su)
	}

	nbs, _ := lookupString(n, "NB")
	nas, _ := lookupString(n, "NA")
	nb, err := ParseTimestamp(Format.Name, "NB", nbs)
	if err != nil {
		return err
	}
	na, err := ParseTimestamp(Format.Name, "NA", nas)
	if err != nil {
		return err
	}
	if nb > na {
		return schema.NewFormatError(Format.Name, "NB", "incorrect time interval", "NB <= NA", fmt.Sprintf("%d > %d", nb, na))
	}
	if (Window{NotBefore: nb, NotAfter: na}).Expired(now) {
		return schema.NewFormatError(Format.Name, "NA", "token expired", fmt.Sprintf("after %d", now), nas)
	}
	return nil
}

func validateRights(ar datamodel.Node) error {
	seen := map[[2]string]struct{}{}
	it := ar.ListIterator()
	for it != nil && !it.Done() {
		idx, entry, err := it.Next()
		if err != nil {
			return schema.NewFormatError(Format.Name, "AR", fmt.Sprintf("reading list: %s", err), "list", ar.Kind().String())
		}
		if err := AccessRightFormat.Check(entry); err != nil {
			return err
		}
		dd, _ := entry.LookupByString("DD")
		depth, err := dd.AsInt()
		if err != nil || depth < 0 {
			return schema.NewFormatError(AccessRightFormat.Name, "DD", "negative delegation depth", ">= 0", fmt.Sprint(depth))
		}
		ac, _ := lookupString(entry, "AC")
		re, _ := lookupString(entry, "RE")
		key := [2]string{re, ac}
		if _, ok := seen[key]; ok {
			return schema.NewFormatError(Format.Name, "AR", "duplicate access right", "unique resource and action", fmt.Sprintf("entry %d: %s %s", idx, ac, re))
		}
		seen[key] = struct{}{}
	}
	return nil
}

func lookupString(n datamodel.Node, key string) (string, error) {
	v, err := n.LookupByString(key)
	if err != nil {
		return "", err
	}
	return v.AsString()
}
