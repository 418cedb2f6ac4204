package db

// MapAccess restricts the view of a group inside one address map.
type MapAccess int

const (
	MapAccessFull MapAccess = iota
	MapAccessReadOnly
	MapAccessWriteOnly
)

func (a MapAccess) String() string {
	switch a {
	case MapAccessReadOnly:
		return "read-only"
	case MapAccessWriteOnly:
		return "write-only"
	default:
		return "full"
	}
}

// AddressMap is a top level addressing view, typically one per bus master.
// It assigns a base address and selects the visible groups; an empty group
// list makes every group visible.
type AddressMap struct {
	Name  string
	Base  uint64
	Width uint // access width of the bus master in bits

	Fixed bool // base is fixed, the layout engine must not relocate it

	Groups []string
	Access map[string]MapAccess // per group access override, keyed by group name
}

// GroupVisible reports whether the named group is part of this map.
func (m *AddressMap) GroupVisible(name string) bool {
	if len(m.Groups) == 0 {
		return true
	}
	for _, group := range m.Groups {
		if group == name {
			return true
		}
	}
	return false
}

// GroupAccess returns the access override for a group, MapAccessFull when
// none is configured.
func (m *AddressMap) GroupAccess(name string) MapAccess {
	if m.Access == nil {
		return MapAccessFull
	}
	return m.Access[name]
}
