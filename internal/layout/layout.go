// Package layout derives addressing facts from a register set: the byte
// span sequence including reserved gaps, the per word read composite and
// the resolved address map instances. Renderers consume these results and
// never re-derive them.
package layout

import (
	"fmt"

	"github.com/dallingham/regenerate/internal/db"
)

// Span is one contiguous byte range of the address space, either occupied
// by a register or reserved.
type Span struct {
	Offset uint64
	Length uint64

	// Register owning the span, nil for a reserved gap. A shared address
	// pair is represented by the read half, WriteHalf carries the write
	// side register.
	Register  *db.Register
	WriteHalf *db.Register
}

// Reserved reports whether the span is an unused gap.
func (s Span) Reserved() bool {
	return s.Register == nil
}

// End returns the first byte offset after the span.
func (s Span) End() uint64 {
	return s.Offset + s.Length
}

// ByteLayout computes the byte span sequence of a register set. The spans
// tile the address space [0, 2^AddressWidth) exactly: register spans in
// ascending address order with reserved spans filling every gap, including
// the trailing gap after the last register.
func ByteLayout(regSet *db.RegisterSet) ([]Span, error) {
	var spans []Span
	var nextFree uint64
	var last *Span

	for _, register := range regSet.Registers() {
		if err := register.Validate(); err != nil {
			return nil, err
		}

		if register.Address < nextFree {
			if last != nil && shareCounterparts(last.Register, register) &&
				register.Address == last.Offset {
				last.WriteHalf = register
				continue
			}
			conflict := ""
			if last != nil && last.Register != nil {
				conflict = last.Register.Token
			}
			return nil, db.LayoutError{
				Entity:   register.Token,
				Conflict: conflict,
				Reason: fmt.Sprintf("address 0x%x overlaps allocated range ending at 0x%x",
					register.Address, nextFree),
			}
		}

		if register.Address > nextFree {
			spans = append(spans, Span{
				Offset: nextFree,
				Length: register.Address - nextFree,
			})
		}

		spans = append(spans, Span{
			Offset:   register.Address,
			Length:   register.ByteSize(),
			Register: register,
		})
		last = &spans[len(spans)-1]
		nextFree = register.Address + register.ByteSize()
	}

	space := regSet.AddressSpace()
	if nextFree > space {
		return nil, db.LayoutError{
			Entity: regSet.Name,
			Reason: fmt.Sprintf("registers end at 0x%x beyond %d bit address space",
				nextFree, regSet.AddressWidth),
		}
	}
	if nextFree < space {
		spans = append(spans, Span{
			Offset: nextFree,
			Length: space - nextFree,
		})
	}
	return spans, nil
}

// shareCounterparts reports whether two registers form a read/write pair
// at one shared address.
func shareCounterparts(a, b *db.Register) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Share != db.ShareNone && b.Share != db.ShareNone && a.Share != b.Share
}
