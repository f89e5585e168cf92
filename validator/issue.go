package validator

import (
	"github.com/capbac/go-capbac/core/token"
)

// Issue decides whether sender may add tkn to the device state at now and
// returns the resulting state. The token is expected to have passed
// structural validation and signature verification already.
//
// A root token (no parent) may only be issued by its own subject. A delegated
// token must be issued by the subject of its parent, and every capability on
// the chain up to the root must be currently valid, cover the requested
// validity window and grant each requested right with a strictly greater
// delegation depth.
func Issue(state token.DeviceState, tkn token.Token, sender string, now int64) (token.DeviceState, error) {
	if _, ok := state[tkn.ID]; ok {
		return nil, NewDuplicateTokenError(tkn.ID)
	}

	if tkn.IsRoot() {
		if tkn.SU != sender {
			return nil, NewUnauthorizedRootIssueError(tkn.SU, sender)
		}
	} else if err := authorizeDelegation(state, tkn, sender, now); err != nil {
		return nil, err
	}

	next := state.Clone()
	next[tkn.ID] = tkn.Record()
	return next, nil
}

func authorizeDelegation(state token.DeviceState, tkn token.Token, sender string, now int64) error {
	parent, ok := state[tkn.Parent()]
	if !ok {
		return NewUnknownParentError(tkn.Parent())
	}
	if parent.SU != sender {
		return NewUnauthorizedDelegationError(tkn.Parent(), parent.SU, sender)
	}

	window, err := tkn.Window()
	if err != nil {
		return err
	}
	ancestors, err := chain(state, tkn.Parent())
	if err != nil {
		return err
	}
	grants := tkn.Rights().Grants()
	for _, id := range ancestors {
		if err := checkAncestor(id, state[id], window, grants, now); err != nil {
			return err
		}
	}
	return nil
}

func checkAncestor(id string, anc token.Record, window token.Window, grants []token.Grant, now int64) InvalidChainError {
	granted, err := active(id, anc, now)
	if err != nil {
		return err
	}
	if !window.Within(granted) {
		return NewWindowEscalationError(id, window, granted)
	}
	for _, g := range grants {
		if !anc.AR.HasResource(g.Resource) {
			return NewUnauthorizedResourceError(id, g.Resource, "")
		}
		depth, ok := anc.AR.Depth(g.Resource, g.Action)
		if !ok {
			return NewUnauthorizedResourceError(id, g.Resource, g.Action)
		}
		if g.Depth >= depth {
			return NewExcessiveDelegationError(id, g.Resource, g.Action, g.Depth, depth)
		}
	}
	return nil
}
