package layout

import (
	"fmt"
	"sort"

	"github.com/dallingham/regenerate/internal/db"
)

// Segment is one slice of a data bus word in the read composite, either a
// field slice or a zero filler.
type Segment struct {
	// High and Low are the inclusive bit positions within the data word.
	High uint
	Low  uint

	// Field is nil for a zero filler. For a field wider than the remaining
	// word, FieldHigh/FieldLow select the covered slice of the field.
	Field     *db.BitField
	FieldHigh uint
	FieldLow  uint
}

// Width returns the bit width of the segment.
func (s Segment) Width() uint {
	return s.High - s.Low + 1
}

// Filler reports whether the segment is a zero filler.
func (s Segment) Filler() bool {
	return s.Field == nil
}

// WordComposite is the read back value assembly of one data bus word: the
// concatenation of its segments in descending bit order always covers the
// full data bus width.
type WordComposite struct {
	Address  uint64
	Segments []Segment
}

// fieldSlice positions a slice of a field within one data word.
type fieldSlice struct {
	field    *db.BitField
	register *db.Register
	high     uint // in-word bit positions
	low      uint
	fieldHi  uint // covered field bit positions
	fieldLo  uint
}

// Composites assembles the read composite for every data word of the set
// that carries at least one read visible field. Write half registers of a
// shared address are excluded, they decode at the address for writes only.
func Composites(regSet *db.RegisterSet) ([]WordComposite, error) {
	dataWidth := regSet.DataWidth
	if dataWidth == 0 {
		return nil, db.LayoutError{Entity: regSet.Name, Reason: "data bus width not set"}
	}

	words := map[uint64][]fieldSlice{}
	for _, register := range regSet.Registers() {
		if register.Share == db.ShareWrite {
			continue
		}
		for _, field := range register.Fields() {
			sliceFieldIntoWords(words, register, field, dataWidth)
		}
	}

	keys := make([]uint64, 0, len(words))
	for key := range words {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	composites := make([]WordComposite, 0, len(keys))
	for _, key := range keys {
		composite, err := assembleWord(key, words[key], dataWidth)
		if err != nil {
			return nil, err
		}
		composites = append(composites, composite)
	}
	return composites, nil
}

// sliceFieldIntoWords splits a field into per word slices. Registers wider
// than the data bus span multiple consecutive word addresses.
func sliceFieldIntoWords(words map[uint64][]fieldSlice, register *db.Register,
	field *db.BitField, dataWidth uint) {

	for wordIndex := field.Start / dataWidth; wordIndex <= field.Stop/dataWidth; wordIndex++ {
		wordBase := wordIndex * dataWidth
		low := field.Start
		if wordBase > low {
			low = wordBase
		}
		high := field.Stop
		if max := wordBase + dataWidth - 1; high > max {
			high = max
		}

		address := register.Address + uint64(wordIndex)*uint64(dataWidth/8)
		words[address] = append(words[address], fieldSlice{
			field:    field,
			register: register,
			high:     high % dataWidth,
			low:      low % dataWidth,
			fieldHi:  high,
			fieldLo:  low,
		})
	}
}

// assembleWord walks the slices of one word in descending bit order,
// inserting zero fillers for every gap. The segment widths always add up
// to the data bus width.
func assembleWord(address uint64, slices []fieldSlice, dataWidth uint) (WordComposite, error) {
	sort.Slice(slices, func(i, j int) bool { return slices[i].high > slices[j].high })

	composite := WordComposite{Address: address}
	lastFree := int(dataWidth) - 1

	for _, slice := range slices {
		if int(slice.high) > lastFree {
			return WordComposite{}, db.LayoutError{
				Entity: fmt.Sprintf("%s.%s", slice.register.Token, slice.field.Name),
				Reason: fmt.Sprintf("bit %d at address 0x%x already assigned", slice.high, address),
			}
		}
		if int(slice.high) < lastFree {
			composite.Segments = append(composite.Segments, Segment{
				High: uint(lastFree),
				Low:  slice.high + 1,
			})
		}
		composite.Segments = append(composite.Segments, Segment{
			High:      slice.high,
			Low:       slice.low,
			Field:     slice.field,
			FieldHigh: slice.fieldHi,
			FieldLow:  slice.fieldLo,
		})
		lastFree = int(slice.low) - 1
	}

	if lastFree >= 0 {
		composite.Segments = append(composite.Segments, Segment{
			High: uint(lastFree),
			Low:  0,
		})
	}
	return composite, nil
}

// TotalWidth returns the summed width of the composite segments.
func (c WordComposite) TotalWidth() uint {
	var total uint
	for _, segment := range c.Segments {
		total += segment.Width()
	}
	return total
}
