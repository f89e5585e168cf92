package validator

import (
	"slices"

	"github.com/capbac/go-capbac/core/revocation"
	"github.com/capbac/go-capbac/core/token"
)

type OperationKind int

const (
	// Reparent points a capability at a new parent.
	Reparent OperationKind = iota
	// Remove deletes a capability from the device state.
	Remove
)

func (k OperationKind) String() string {
	switch k {
	case Reparent:
		return "reparent"
	case Remove:
		return "remove"
	}
	return "unknown"
}

// Operation is a single state change produced by planning a revocation.
type Operation struct {
	Kind OperationKind
	ID   string
	// Parent is the new parent of a reparented capability, nil to make it a
	// root.
	Parent *string
}

// Revoke decides whether sender may revoke the target of req at now and
// returns the resulting state.
//
// The sender must be the subject of the capability named by req.IC, which
// must either be the target itself or one of its ancestors. Every capability
// from req.IC up to the root must be currently valid.
func Revoke(state token.DeviceState, req revocation.Request, sender string, now int64) (token.DeviceState, error) {
	target, ok := state[req.ID]
	if !ok {
		return nil, NewUnknownTargetError(req.ID)
	}

	capID := req.Capability()
	if capID == "" {
		return nil, NewUnauthorizedRevokeError(capID, sender, "no capability presented")
	}
	capRec, ok := state[capID]
	if !ok {
		return nil, NewUnauthorizedRevokeError(capID, sender, "capability does not exist")
	}
	if capRec.SU != sender {
		return nil, NewUnauthorizedRevokeError(capID, sender, "sender is not the capability subject")
	}

	if capID != req.ID {
		ancestors, err := chain(state, target.Parent())
		if err != nil {
			return nil, err
		}
		if !slices.Contains(ancestors, capID) {
			return nil, NewInsufficientAuthorityError(capID, req.ID)
		}
	}

	authority, err := chain(state, capID)
	if err != nil {
		return nil, err
	}
	for _, id := range authority {
		if _, err := active(id, state[id], now); err != nil {
			return nil, err
		}
	}

	ops, err := Plan(state, req.ID, req.Kind())
	if err != nil {
		return nil, err
	}
	return Apply(state, ops), nil
}

// Plan lists the operations that revoking target with the given kind
// performs, in a stable order.
func Plan(state token.DeviceState, target string, kind revocation.Kind) ([]Operation, error) {
	rec, ok := state[target]
	if !ok {
		return nil, NewUnknownTargetError(target)
	}

	var ops []Operation
	switch kind {
	case revocation.ThisOnly:
		if rec.IsRoot() {
			return nil, NewInvalidRevocationTypeError(target, string(kind))
		}
		for _, child := range state.Children(target) {
			parent := rec.Parent()
			ops = append(ops, Operation{Kind: Reparent, ID: child, Parent: &parent})
		}
		ops = append(ops, Operation{Kind: Remove, ID: target})
	case revocation.DependantsOnly:
		for _, id := range Descendants(state, target) {
			ops = append(ops, Operation{Kind: Remove, ID: id})
		}
	case revocation.All:
		ops = append(ops, Operation{Kind: Remove, ID: target})
		for _, id := range Descendants(state, target) {
			ops = append(ops, Operation{Kind: Remove, ID: id})
		}
	default:
		return nil, NewInvalidRevocationTypeError(target, string(kind))
	}
	return ops, nil
}

// Apply performs ops on a copy of state.
func Apply(state token.DeviceState, ops []Operation) token.DeviceState {
	next := state.Clone()
	for _, op := range ops {
		switch op.Kind {
		case Reparent:
			rec, ok := next[op.ID]
			if !ok {
				continue
			}
			rec.IC = nil
			if op.Parent != nil {
				p := *op.Parent
				rec.IC = &p
			}
			next[op.ID] = rec
		case Remove:
			delete(next, op.ID)
		}
	}
	return next
}

// Descendants lists every transitive child of id, sorted.
func Descendants(state token.DeviceState, id string) []string {
	var found []string
	seen := map[string]struct{}{id: {}}
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range state.Children(cur) {
			if _, ok := seen[child]; ok {
				continue
			}
			seen[child] = struct{}{}
			found = append(found, child)
			queue = append(queue, child)
		}
	}
	slices.Sort(found)
	return found
}
