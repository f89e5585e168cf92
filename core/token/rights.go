package token

import (
	"cmp"
	"slices"
)

// Rights maps resource -> action -> delegation depth.
type Rights map[string]map[string]int64

func (r Rights) Set(resource, action string, depth int64) {
	actions, ok := r[resource]
	if !ok {
		actions = map[string]int64{}
		r[resource] = actions
	}
	actions[action] = depth
}

// Depth returns the delegation depth granted for the pair, and whether the
// pair is granted at all.
func (r Rights) Depth(resource, action string) (int64, bool) {
	actions, ok := r[resource]
	if !ok {
		return 0, false
	}
	d, ok := actions[action]
	return d, ok
}

// HasResource reports whether any action is granted on resource.
func (r Rights) HasResource(resource string) bool {
	_, ok := r[resource]
	return ok
}

type Grant struct {
	Resource string
	Action   string
	Depth    int64
}

// Grants lists every granted pair ordered by resource then action.
func (r Rights) Grants() []Grant {
	var grants []Grant
	for resource, actions := range r {
		for action, depth := range actions {
			grants = append(grants, Grant{resource, action, depth})
		}
	}
	slices.SortFunc(grants, func(a, b Grant) int {
		return cmp.Or(cmp.Compare(a.Resource, b.Resource), cmp.Compare(a.Action, b.Action))
	})
	return grants
}

func (r Rights) Clone() Rights {
	c := make(Rights, len(r))
	for resource, actions := range r {
		ac := make(map[string]int64, len(actions))
		for action, depth := range actions {
			ac[action] = depth
		}
		c[resource] = ac
	}
	return c
}
