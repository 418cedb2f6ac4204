package db

import "fmt"

// StructuralError reports malformed input data for a single entity, a
// missing mandatory attribute or an unparseable literal. Import of the
// entity is abandoned, import of the remaining entities continues.
type StructuralError struct {
	Entity string
	Reason string
}

func (e StructuralError) Error() string {
	return fmt.Sprintf("%s: %s", e.Entity, e.Reason)
}

// LayoutError reports overlapping ranges, misaligned addresses or a field
// exceeding its register. Generation for the affected register set aborts.
type LayoutError struct {
	Entity   string
	Conflict string // second entity involved in an overlap, if any
	Reason   string
}

func (e LayoutError) Error() string {
	if e.Conflict != "" {
		return fmt.Sprintf("%s conflicts with %s: %s", e.Entity, e.Conflict, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Entity, e.Reason)
}
