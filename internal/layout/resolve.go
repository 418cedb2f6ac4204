package layout

import (
	"fmt"
	"sort"

	"github.com/dallingham/regenerate/internal/db"
)

// Instance is one resolved placement of a register set within an address
// map: one (group repeat, entry repeat) combination.
type Instance struct {
	Map   *db.AddressMap
	Group *db.Group
	Entry db.GroupEntry
	Set   *db.RegisterSet

	GroupIndex uint // i within the group repeat
	EntryIndex uint // j within the entry repeat

	Base   uint64 // absolute base address, register addresses are relative to it
	Length uint64
	Access db.MapAccess
}

// RegisterAddress returns the absolute address of a register of the
// instance's set.
func (inst Instance) RegisterAddress(register *db.Register) uint64 {
	return inst.Base + register.Address
}

// Name returns a unique instance identifier within the map.
func (inst Instance) Name() string {
	name := fmt.Sprintf("%s.%s", inst.Group.Name, inst.Entry.InstName())
	if inst.Group.RepeatCount() > 1 {
		name = fmt.Sprintf("%s[%d]", name, inst.GroupIndex)
	}
	if inst.Entry.RepeatCount() > 1 {
		name = fmt.Sprintf("%s[%d]", name, inst.EntryIndex)
	}
	return name
}

// ResolveMap expands an address map into its flat instance list. The
// absolute base of every instance is
//
//	map base + group base + i*group stride + entry offset + j*entry stride
//
// for all (i, j) within the declared repeat bounds. Overlapping resolved
// ranges are a layout error.
func ResolveMap(addressMap *db.AddressMap, groups []*db.Group,
	sets map[string]*db.RegisterSet) ([]Instance, error) {

	var instances []Instance

	for _, group := range groups {
		if !addressMap.GroupVisible(group.Name) {
			continue
		}
		access := addressMap.GroupAccess(group.Name)

		for i := uint(0); i < group.RepeatCount(); i++ {
			groupBase := addressMap.Base + group.Base + uint64(i)*group.Stride

			for _, entry := range group.Entries {
				regSet := sets[entry.SetName]
				if regSet == nil {
					return nil, db.StructuralError{
						Entity: fmt.Sprintf("%s.%s", group.Name, entry.InstName()),
						Reason: fmt.Sprintf("unknown register set %q", entry.SetName),
					}
				}

				for j := uint(0); j < entry.RepeatCount(); j++ {
					instances = append(instances, Instance{
						Map:        addressMap,
						Group:      group,
						Entry:      entry,
						Set:        regSet,
						GroupIndex: i,
						EntryIndex: j,
						Base:       groupBase + entry.Offset + uint64(j)*entry.Stride,
						Length:     regSet.ByteSize(),
						Access:     access,
					})
				}
			}
		}
	}

	if err := checkInstanceOverlap(addressMap.Name, instances); err != nil {
		return nil, err
	}
	return instances, nil
}

// checkInstanceOverlap verifies that no two resolved ranges of one map
// intersect. Zero length instances cannot collide.
func checkInstanceOverlap(mapName string, instances []Instance) error {
	sorted := make([]Instance, len(instances))
	copy(sorted, instances)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Base < sorted[j].Base })

	for i := 1; i < len(sorted); i++ {
		prev := sorted[i-1]
		current := sorted[i]
		if prev.Length == 0 || current.Length == 0 {
			continue
		}
		if current.Base < prev.Base+prev.Length {
			return db.LayoutError{
				Entity:   fmt.Sprintf("%s:%s", mapName, current.Name()),
				Conflict: fmt.Sprintf("%s:%s", mapName, prev.Name()),
				Reason: fmt.Sprintf("resolved ranges [0x%x,0x%x) and [0x%x,0x%x) overlap",
					current.Base, current.Base+current.Length,
					prev.Base, prev.Base+prev.Length),
			}
		}
	}
	return nil
}
