package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dallingham/regenerate/internal/db"
)

// Project is the loaded project document together with its resolved
// register sets. It is built once and treated as immutable during a
// generation pass.
type Project struct {
	Name string
	Path string

	Sets     map[string]*db.RegisterSet
	SetPaths map[string]string // register set name to document path
	Groups   []*db.Group
	Maps     []*db.AddressMap
	Exports  []ExportRule

	// VolatileAll marks every field volatile in verification model
	// outputs, regardless of the per field flag.
	VolatileAll bool
}

// ExportRule maps one source to one output artifact.
type ExportRule struct {
	Renderer string `json:"renderer"`
	Source   string `json:"source"` // register set or group name
	Target   string `json:"target"` // output path, relative to the project file
}

// projectDocument is the JSON shape of the project file.
type projectDocument struct {
	Name         string       `json:"name"`
	RegisterSets []string     `json:"register_sets"` // document paths
	Groups       []groupDoc   `json:"groups,omitempty"`
	AddressMaps  []addrMapDoc `json:"address_maps,omitempty"`
	Exports      []ExportRule `json:"exports,omitempty"`
	VolatileAll  bool         `json:"volatile_all,omitempty"`
}

type groupDoc struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Base        string     `json:"base,omitempty"`
	Repeat      uint       `json:"repeat,omitempty"`
	Stride      string     `json:"stride,omitempty"`
	Entries     []entryDoc `json:"register_sets"`
}

type entryDoc struct {
	Set    string `json:"set"`
	Inst   string `json:"inst,omitempty"`
	Offset string `json:"offset,omitempty"`
	Repeat uint   `json:"repeat,omitempty"`
	Stride string `json:"stride,omitempty"`
}

type addrMapDoc struct {
	Name   string            `json:"name"`
	Base   string            `json:"base,omitempty"`
	Width  uint              `json:"width,omitempty"`
	Fixed  bool              `json:"fixed,omitempty"`
	Groups []string          `json:"groups,omitempty"`
	Access map[string]string `json:"access,omitempty"`
}

// Load reads a project file and all register set documents it references.
// Paths inside the document are relative to the document location.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}

	var doc projectDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing project file %s: %w", path, err)
	}

	project := &Project{
		Name:        doc.Name,
		Path:        path,
		Sets:        map[string]*db.RegisterSet{},
		SetPaths:    map[string]string{},
		Exports:     doc.Exports,
		VolatileAll: doc.VolatileAll,
	}
	baseDir := filepath.Dir(path)

	for _, setPath := range doc.RegisterSets {
		if !filepath.IsAbs(setPath) {
			setPath = filepath.Join(baseDir, setPath)
		}
		regSet, err := LoadRegisterSet(setPath)
		if err != nil {
			return nil, err
		}
		if _, exists := project.Sets[regSet.Name]; exists {
			return nil, db.StructuralError{
				Entity: regSet.Name,
				Reason: "duplicate register set name in project",
			}
		}
		project.Sets[regSet.Name] = regSet
		project.SetPaths[regSet.Name] = setPath
	}

	for _, grpDoc := range doc.Groups {
		group, err := decodeGroup(grpDoc, project.Sets)
		if err != nil {
			return nil, err
		}
		project.Groups = append(project.Groups, group)
	}

	for _, mapDoc := range doc.AddressMaps {
		addressMap, err := decodeAddressMap(mapDoc)
		if err != nil {
			return nil, err
		}
		project.Maps = append(project.Maps, addressMap)
	}
	return project, nil
}

func decodeGroup(doc groupDoc, sets map[string]*db.RegisterSet) (*db.Group, error) {
	group := &db.Group{
		Name:        doc.Name,
		Description: doc.Description,
		Repeat:      doc.Repeat,
	}

	var err error
	if group.Base, err = optionalAddress(doc.Base); err != nil {
		return nil, db.StructuralError{Entity: doc.Name, Reason: err.Error()}
	}
	if group.Stride, err = optionalAddress(doc.Stride); err != nil {
		return nil, db.StructuralError{Entity: doc.Name, Reason: err.Error()}
	}

	for _, entDoc := range doc.Entries {
		if _, ok := sets[entDoc.Set]; !ok {
			return nil, db.StructuralError{
				Entity: fmt.Sprintf("%s.%s", doc.Name, entDoc.Set),
				Reason: "references an unknown register set",
			}
		}
		entry := db.GroupEntry{
			SetName: entDoc.Set,
			Inst:    entDoc.Inst,
			Repeat:  entDoc.Repeat,
		}
		if entry.Offset, err = optionalAddress(entDoc.Offset); err != nil {
			return nil, db.StructuralError{Entity: doc.Name, Reason: err.Error()}
		}
		if entry.Stride, err = optionalAddress(entDoc.Stride); err != nil {
			return nil, db.StructuralError{Entity: doc.Name, Reason: err.Error()}
		}
		group.Entries = append(group.Entries, entry)
	}
	return group, nil
}

func decodeAddressMap(doc addrMapDoc) (*db.AddressMap, error) {
	addressMap := &db.AddressMap{
		Name:   doc.Name,
		Width:  doc.Width,
		Fixed:  doc.Fixed,
		Groups: doc.Groups,
	}

	var err error
	if addressMap.Base, err = optionalAddress(doc.Base); err != nil {
		return nil, db.StructuralError{Entity: doc.Name, Reason: err.Error()}
	}

	if len(doc.Access) > 0 {
		addressMap.Access = map[string]db.MapAccess{}
		for group, access := range doc.Access {
			switch access {
			case "full":
				addressMap.Access[group] = db.MapAccessFull
			case "read-only":
				addressMap.Access[group] = db.MapAccessReadOnly
			case "write-only":
				addressMap.Access[group] = db.MapAccessWriteOnly
			default:
				return nil, db.StructuralError{
					Entity: doc.Name,
					Reason: fmt.Sprintf("unknown access override %q for group %s", access, group),
				}
			}
		}
	}
	return addressMap, nil
}

// Save writes a project document. Register set document paths are stored
// relative to the project file location when possible.
func Save(path string, proj *Project) error {
	doc := projectDocument{
		Name:        proj.Name,
		Exports:     proj.Exports,
		VolatileAll: proj.VolatileAll,
	}
	baseDir := filepath.Dir(path)

	names := make([]string, 0, len(proj.SetPaths))
	for name := range proj.SetPaths {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		setPath := proj.SetPaths[name]
		if relative, err := filepath.Rel(baseDir, setPath); err == nil {
			setPath = relative
		}
		doc.RegisterSets = append(doc.RegisterSets, setPath)
	}

	for _, group := range proj.Groups {
		doc.Groups = append(doc.Groups, encodeGroup(group))
	}
	for _, addressMap := range proj.Maps {
		doc.AddressMaps = append(doc.AddressMaps, encodeAddressMap(addressMap))
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding project document: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing project document: %w", err)
	}
	return nil
}

func encodeGroup(group *db.Group) groupDoc {
	doc := groupDoc{
		Name:        group.Name,
		Description: group.Description,
		Base:        encodeAddress(group.Base),
		Repeat:      group.Repeat,
		Stride:      encodeAddress(group.Stride),
	}
	for _, entry := range group.Entries {
		doc.Entries = append(doc.Entries, entryDoc{
			Set:    entry.SetName,
			Inst:   entry.Inst,
			Offset: encodeAddress(entry.Offset),
			Repeat: entry.Repeat,
			Stride: encodeAddress(entry.Stride),
		})
	}
	return doc
}

func encodeAddressMap(addressMap *db.AddressMap) addrMapDoc {
	doc := addrMapDoc{
		Name:   addressMap.Name,
		Base:   encodeAddress(addressMap.Base),
		Width:  addressMap.Width,
		Fixed:  addressMap.Fixed,
		Groups: addressMap.Groups,
	}
	if len(addressMap.Access) > 0 {
		doc.Access = map[string]string{}
		for group, access := range addressMap.Access {
			doc.Access[group] = access.String()
		}
	}
	return doc
}

func encodeAddress(value uint64) string {
	if value == 0 {
		return ""
	}
	return fmt.Sprintf("0x%x", value)
}

// Group returns the group with the given name, nil if unknown.
func (p *Project) Group(name string) *db.Group {
	for _, group := range p.Groups {
		if group.Name == name {
			return group
		}
	}
	return nil
}

func optionalAddress(text string) (uint64, error) {
	if text == "" {
		return 0, nil
	}
	return parseAddress(text)
}
