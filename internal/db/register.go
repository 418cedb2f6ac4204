package db

import (
	"fmt"
	"sort"
	"strings"
)

// Register defines one addressable hardware register.
type Register struct {
	Name        string // descriptive name
	Token       string // unique identifier token within the register set
	Description string

	Address   uint64
	Width     uint // bits, one of 8, 16, 32, 64
	Dimension uint // array element count, 1 for a scalar
	RAMSize   uint64 // byte size of a memory block register, 0 otherwise
	Share     ShareType

	NoCodeGeneration bool // documentation only, no logic emitted
	DoNotTest        bool // excluded from generated verification sequences

	fields []*BitField
}

// NewRegister creates a scalar register at the given byte address.
func NewRegister(token string, address uint64, width uint) *Register {
	return &Register{
		Name:      NameFromToken(token),
		Token:     normalizeToken(token),
		Address:   address,
		Width:     width,
		Dimension: 1,
	}
}

// ByteWidth returns the width of the register in bytes.
func (r *Register) ByteWidth() uint64 {
	return uint64(r.Width) / 8
}

// ByteSize returns the total byte span of the register including array
// elements and memory blocks.
func (r *Register) ByteSize() uint64 {
	if r.RAMSize > 0 {
		return r.RAMSize
	}
	dim := r.Dimension
	if dim < 1 {
		dim = 1
	}
	return r.ByteWidth() * uint64(dim)
}

// Fields returns the bit fields sorted by ascending start position.
func (r *Register) Fields() []*BitField {
	fields := make([]*BitField, len(r.fields))
	copy(fields, r.fields)
	sort.Slice(fields, func(i, j int) bool {
		return fields[i].Start < fields[j].Start
	})
	return fields
}

// AddField adds a bit field after validating it against the register.
func (r *Register) AddField(field *BitField) error {
	if err := field.Validate(r.Width); err != nil {
		return err
	}
	if r.Share == ShareNone {
		for _, existing := range r.fields {
			if field.Start <= existing.Stop && existing.Start <= field.Stop {
				return LayoutError{
					Entity:   fmt.Sprintf("%s.%s", r.Token, field.Name),
					Conflict: fmt.Sprintf("%s.%s", r.Token, existing.Name),
					Reason: fmt.Sprintf("bit ranges [%d:%d] and [%d:%d] overlap",
						field.Stop, field.Start, existing.Stop, existing.Start),
				}
			}
		}
	}
	r.fields = append(r.fields, field)
	return nil
}

// Validate checks the register invariants.
func (r *Register) Validate() error {
	switch r.Width {
	case 8, 16, 32, 64:
	default:
		return StructuralError{
			Entity: r.Token,
			Reason: fmt.Sprintf("unsupported register width %d", r.Width),
		}
	}
	if r.Address%r.ByteWidth() != 0 {
		return LayoutError{
			Entity: r.Token,
			Reason: fmt.Sprintf("address 0x%x not aligned to %d byte width", r.Address, r.ByteWidth()),
		}
	}
	for _, field := range r.fields {
		if err := field.Validate(r.Width); err != nil {
			return err
		}
	}
	return nil
}

// Equal reports full structural equality including the address.
func (r *Register) Equal(other *Register) bool {
	if other == nil {
		return false
	}
	if r.Address != other.Address || r.Token != other.Token || r.Dimension != other.Dimension {
		return false
	}
	return r.GroupEqual(other)
}

// GroupEqual reports structural equality ignoring address, token and
// dimension. Two registers that compare equal here describe the same
// hardware layout and can share a repeating block template.
func (r *Register) GroupEqual(other *Register) bool {
	if other == nil {
		return false
	}
	if r.Width != other.Width || r.RAMSize != other.RAMSize || r.Share != other.Share {
		return false
	}
	fields := r.Fields()
	otherFields := other.Fields()
	if len(fields) != len(otherFields) {
		return false
	}
	for i, field := range fields {
		if !field.Equal(otherFields[i]) {
			return false
		}
	}
	return true
}

// ArrayEqual reports whether other is the directly preceding array element
// of this register: same layout and an address exactly one register width
// below this one.
func (r *Register) ArrayEqual(other *Register) bool {
	if other == nil {
		return false
	}
	if other.Address+other.ByteWidth() != r.Address {
		return false
	}
	return r.GroupEqual(other)
}

func normalizeToken(token string) string {
	return strings.ToUpper(strings.TrimSpace(token))
}

// NameFromToken converts a token like DMA_CTRL_REG into "Dma Ctrl".
func NameFromToken(token string) string {
	words := strings.Split(normalizeToken(token), "_")
	if len(words) > 1 && words[len(words)-1] == "REG" {
		words = words[:len(words)-1]
	}
	for i, word := range words {
		word = strings.ToLower(word)
		if word != "" {
			word = strings.ToUpper(word[:1]) + word[1:]
		}
		words[i] = word
	}
	return strings.Join(words, " ")
}
