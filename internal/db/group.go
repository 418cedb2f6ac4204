package db

// GroupEntry instantiates a register set inside a group at a relative
// offset. Repeat > 1 places Repeat copies Stride bytes apart.
type GroupEntry struct {
	SetName string // referenced register set
	Inst    string // instance name, defaults to the set name
	Offset  uint64
	Repeat  uint
	Stride  uint64
}

// InstName returns the instance name, falling back to the set name.
func (e GroupEntry) InstName() string {
	if e.Inst != "" {
		return e.Inst
	}
	return e.SetName
}

// RepeatCount returns the effective repeat count, at least 1.
func (e GroupEntry) RepeatCount() uint {
	if e.Repeat < 1 {
		return 1
	}
	return e.Repeat
}

// Group is a named composition of register set instances. A group itself
// can repeat, creating identical subsystems Stride bytes apart.
type Group struct {
	Name        string
	Description string

	Base   uint64
	Repeat uint
	Stride uint64

	Entries []GroupEntry
}

// RepeatCount returns the effective repeat count, at least 1.
func (g *Group) RepeatCount() uint {
	if g.Repeat < 1 {
		return 1
	}
	return g.Repeat
}
