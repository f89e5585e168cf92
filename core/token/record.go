package token

import "slices"

// Record is a capability as stored in device state. It drops the fields the
// handler consumes: the identifier is the map key, the device names the
// partition, the version is fixed and the signature has been verified.
type Record struct {
	II string
	SU string
	AR Rights
	NB string
	NA string
	IC *string
}

func (r Record) IsRoot() bool {
	return r.IC == nil
}

func (r Record) Parent() string {
	if r.IC == nil {
		return ""
	}
	return *r.IC
}

func (r Record) Window() (Window, error) {
	nb, err := ParseTimestamp("stored capability", "NB", r.NB)
	if err != nil {
		return Window{}, err
	}
	na, err := ParseTimestamp("stored capability", "NA", r.NA)
	if err != nil {
		return Window{}, err
	}
	return Window{NotBefore: nb, NotAfter: na}, nil
}

func (r Record) Clone() Record {
	c := r
	c.AR = r.AR.Clone()
	if r.IC != nil {
		p := *r.IC
		c.IC = &p
	}
	return c
}

// DeviceState maps token identifier to stored capability for one device.
type DeviceState map[string]Record

func (s DeviceState) Clone() DeviceState {
	c := make(DeviceState, len(s))
	for id, r := range s {
		c[id] = r.Clone()
	}
	return c
}

// IDs returns the identifiers in sorted order.
func (s DeviceState) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Children returns the identifiers of the direct children of id, sorted.
func (s DeviceState) Children(id string) []string {
	var children []string
	for _, cid := range s.IDs() {
		if p := s[cid].IC; p != nil && *p == id {
			children = append(children, cid)
		}
	}
	return children
}
