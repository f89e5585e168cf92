package validator

import (
	"github.com/capbac/go-capbac/core/access"
	"github.com/capbac/go-capbac/core/token"
)

// Access decides whether req may be served by the device at now. The
// capability named by req.IC and each of its ancestors must be currently
// valid and grant req.AC on req.RE, and req must be signed by the subject of
// the capability.
func Access(state token.DeviceState, req access.Request, now int64) error {
	rec, ok := state[req.IC]
	if !ok {
		return NewUnknownCapabilityError(req.IC)
	}
	ids, err := chain(state, req.IC)
	if err != nil {
		return err
	}
	for _, id := range ids {
		anc := state[id]
		if _, err := active(id, anc, now); err != nil {
			return err
		}
		if !anc.AR.HasResource(req.RE) {
			return NewUnauthorizedResourceError(id, req.RE, "")
		}
		if _, ok := anc.AR.Depth(req.RE, req.AC); !ok {
			return NewUnauthorizedResourceError(id, req.RE, req.AC)
		}
	}
	return VerifySignature(req, rec.SU)
}
