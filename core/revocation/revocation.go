package revocation

import (
	"fmt"

	"github.com/capbac/go-capbac/core/ipld"
	"github.com/capbac/go-capbac/core/ipld/codec/cbor"
	"github.com/ipld/go-ipld-prime/datamodel"
)

// Request asks for the removal of token ID (and possibly its descendants)
// under the authority of capability IC.
type Request struct {
	ID string
	II string
	VR string
	DE string
	RT string
	IC *string
	SI string
}

func (r Request) Kind() Kind {
	return Kind(r.RT)
}

// Capability is the identifier of the requester's capability, empty when
// none was presented.
func (r Request) Capability() string {
	if r.IC == nil {
		return ""
	}
	return *r.IC
}

func (r Request) Signature() string {
	return r.SI
}

func (r Request) ToIPLD() (ipld.Node, error) {
	nd, err := ipld.WrapWithRecovery(&r, Type())
	if err != nil {
		return nil, err
	}
	return nd.Representation(), nil
}

// SigningPayload is the canonical encoding of every field except SI.
func (r Request) SigningPayload() ([]byte, error) {
	nd, err := r.ToIPLD()
	if err != nil {
		return nil, err
	}
	unsigned, err := ipld.Omit(nd, "SI")
	if err != nil {
		return nil, err
	}
	return cbor.EncodeNode(unsigned)
}

func Encode(r Request) ([]byte, error) {
	return cbor.Encode(&r, Type())
}

func Decode(b []byte) (Request, error) {
	var r Request
	err := cbor.Decode(b, &r, Type())
	return r, err
}

func FromNode(n datamodel.Node) (Request, error) {
	r, err := ipld.Rebind[Request](n, Type())
	if err != nil {
		return Request{}, fmt.Errorf("binding revocation request: %w", err)
	}
	return r, nil
}
