package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/capbac/go-capbac/core/access"
	"github.com/capbac/go-capbac/core/ipld/codec/json"
	"github.com/capbac/go-capbac/core/revocation"
	"github.com/capbac/go-capbac/core/token"
	"github.com/capbac/go-capbac/principal/secp256k1/signer"
	"github.com/capbac/go-capbac/principal/secp256k1/verifier"
	"github.com/capbac/go-capbac/server/transaction"
	"github.com/capbac/go-capbac/state"
	"github.com/capbac/go-capbac/validator"
	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/fluent/qp"
	"github.com/ipld/go-ipld-prime/node/basicnode"
)

// RunKeygen writes a new private key to path and prints its public forms.
func RunKeygen(out io.Writer, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("key file %s already exists", path)
	}
	s, err := signer.Generate()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(signer.Format(s)+"\n"), 0o600); err != nil {
		return fmt.Errorf("writing key file: %w", err)
	}
	fmt.Fprintf(out, "public key: %s\n", verifier.Format(s.Verifier()))
	fmt.Fprintf(out, "did: %s\n", s.DID())
	return nil
}

// RunSign prints the signed form of the token in file.
func RunSign(ctx context.Context, a *app, file string) error {
	draft, err := readToken(file, false)
	if err != nil {
		return err
	}
	c, err := a.Client()
	if err != nil {
		return err
	}
	signed, err := c.Sign(draft)
	if err != nil {
		return err
	}
	b, err := json.Encode(&signed, token.Type())
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, string(b))
	return nil
}

// RunIssue submits the token in file to the local ledger.
func RunIssue(ctx context.Context, a *app, file string, root bool) error {
	draft, err := readToken(file, root)
	if err != nil {
		return err
	}
	c, err := a.Client()
	if err != nil {
		return err
	}
	txn, err := c.Issue(draft, root)
	if err != nil {
		return err
	}
	if err := apply(ctx, a, txn); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "issued %s\n", draft.ID)
	return nil
}

// RunRevoke submits the revocation request in file to the local ledger.
func RunRevoke(ctx context.Context, a *app, file string) error {
	n, err := readDraft(file, blanks(revocation.Unsigned))
	if err != nil {
		return err
	}
	req, err := revocation.FromNode(n)
	if err != nil {
		return err
	}
	c, err := a.Client()
	if err != nil {
		return err
	}
	txn, err := c.Revoke(req)
	if err != nil {
		return err
	}
	if err := apply(ctx, a, txn); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "revoked %s (%s)\n", req.ID, req.RT)
	return nil
}

// RunList prints the capability set stored for device.
func RunList(ctx context.Context, a *app, device string) error {
	ledger, err := a.Ledger()
	if err != nil {
		return err
	}
	s, err := state.NewStore(ledger).Load(ctx, device)
	if err != nil {
		return err
	}
	n, err := state.ToIPLD(s)
	if err != nil {
		return err
	}
	b, err := json.EncodeNode(n)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, string(b))
	return nil
}

// RunValidate signs the access request in file and checks it against the
// local ledger.
func RunValidate(ctx context.Context, a *app, file string) error {
	n, err := readDraft(file, blanks(access.Unsigned))
	if err != nil {
		return err
	}
	draft, err := access.FromNode(n)
	if err != nil {
		return err
	}
	c, err := a.Client()
	if err != nil {
		return err
	}
	req, err := c.SignAccess(draft)
	if err != nil {
		return err
	}
	ledger, err := a.Ledger()
	if err != nil {
		return err
	}
	s, err := state.NewStore(ledger).Load(ctx, req.DE)
	if err != nil {
		return err
	}
	if err := validator.Access(s, req, a.clock().Unix()); err != nil {
		return fmt.Errorf("access denied: %w", err)
	}
	fmt.Fprintf(a.out, "access granted: %s %s\n", req.AC, req.RE)
	return nil
}

func apply(ctx context.Context, a *app, txn transaction.Transaction) error {
	ledger, err := a.Ledger()
	if err != nil {
		return err
	}
	h, err := a.Handler()
	if err != nil {
		return err
	}
	return h.Apply(ctx, txn, ledger)
}

// readToken reads a token draft. A root draft may leave out its subject and
// parent, they are set when issuing.
func readToken(file string, root bool) (token.Token, error) {
	fill := blanks(token.Unsigned)
	if root {
		fill["SU"] = basicnode.NewString("")
		fill["IC"] = datamodel.Null
	}
	n, err := readDraft(file, fill)
	if err != nil {
		return token.Token{}, err
	}
	return token.FromNode(n)
}

func blanks(fields []string) map[string]datamodel.Node {
	fill := make(map[string]datamodel.Node, len(fields))
	for _, f := range fields {
		fill[f] = basicnode.NewString("")
	}
	return fill
}

// readDraft reads a JSON object from file and adds the fields of fill it
// lacks, so that it binds to its typed form.
func readDraft(file string, fill map[string]datamodel.Node) (datamodel.Node, error) {
	var (
		b   []byte
		err error
	)
	if file == "-" {
		b, err = io.ReadAll(os.Stdin)
	} else {
		b, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}
	n, err := json.DecodeNode(b)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", file, err)
	}
	if n.Kind() != datamodel.Kind_Map {
		return nil, errors.New("input is not a JSON object")
	}
	return qp.BuildMap(basicnode.Prototype.Map, n.Length()+int64(len(fill)), func(ma datamodel.MapAssembler) {
		it := n.MapIterator()
		for !it.Done() {
			k, v, err := it.Next()
			if err != nil {
				panic(err)
			}
			ks, err := k.AsString()
			if err != nil {
				panic(err)
			}
			qp.MapEntry(ma, ks, qp.Node(v))
		}
		for _, field := range slices.Sorted(maps.Keys(fill)) {
			if _, err := n.LookupByString(field); err != nil {
				qp.MapEntry(ma, field, qp.Node(fill[field]))
			}
		}
	})
}
