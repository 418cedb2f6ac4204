package export

import (
	"fmt"

	"github.com/dallingham/regenerate/internal/db"
	"github.com/dallingham/regenerate/internal/layout"
)

// Placement is one absolute occurrence of a register set within a view.
// A standalone set has a single placement at base 0.
type Placement struct {
	Name string
	Base uint64
}

// SetView is the resolved picture of one register set: its registers in
// address order, the span sequence tiling the address space, the per word
// composite segments and every placement the view covers.
type SetView struct {
	Set        *db.RegisterSet
	Spans      []layout.Span
	Composites []layout.WordComposite
	Placements []Placement
	Options    Options
}

// Volatile reports whether a field must be treated as volatile in output.
func (v *SetView) Volatile(field *db.BitField) bool {
	return v.Options.VolatileAll || field.Volatile
}

// View is the unit a renderer consumes, covering one export source: a
// standalone register set, a group or an address map.
type View struct {
	Name    string
	Sets    []*SetView
	Options Options
}

// NewSetView resolves a standalone register set.
func NewSetView(regSet *db.RegisterSet, options Options) (*View, error) {
	setView, err := resolveSet(regSet, options)
	if err != nil {
		return nil, err
	}
	setView.Placements = []Placement{{Name: regSet.Name}}

	return &View{
		Name:    regSet.Name,
		Sets:    []*SetView{setView},
		Options: options,
	}, nil
}

// NewGroupView resolves a group as if mapped at base 0.
func NewGroupView(group *db.Group, sets map[string]*db.RegisterSet,
	options Options) (*View, error) {

	addressMap := &db.AddressMap{
		Name:   group.Name,
		Groups: []string{group.Name},
	}
	return NewMapView(addressMap, []*db.Group{group}, sets, options)
}

// NewMapView resolves an address map into per set views with absolute
// placements.
func NewMapView(addressMap *db.AddressMap, groups []*db.Group,
	sets map[string]*db.RegisterSet, options Options) (*View, error) {

	instances, err := layout.ResolveMap(addressMap, groups, sets)
	if err != nil {
		return nil, err
	}

	view := &View{
		Name:    addressMap.Name,
		Options: options,
	}
	bySet := map[*db.RegisterSet]*SetView{}

	for _, instance := range instances {
		setView, ok := bySet[instance.Set]
		if !ok {
			if setView, err = resolveSet(instance.Set, options); err != nil {
				return nil, fmt.Errorf("resolving %s: %w", instance.Name(), err)
			}
			bySet[instance.Set] = setView
			view.Sets = append(view.Sets, setView)
		}
		setView.Placements = append(setView.Placements, Placement{
			Name: instance.Name(),
			Base: instance.Base,
		})
	}
	return view, nil
}

func resolveSet(regSet *db.RegisterSet, options Options) (*SetView, error) {
	spans, err := layout.ByteLayout(regSet)
	if err != nil {
		return nil, err
	}
	composites, err := layout.Composites(regSet)
	if err != nil {
		return nil, err
	}
	return &SetView{
		Set:        regSet,
		Spans:      spans,
		Composites: composites,
		Options:    options,
	}, nil
}
