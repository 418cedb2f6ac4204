// Package db contains the register database model: bit fields, registers,
// register sets, groups and address maps, plus the field type table that
// defines the hardware semantics of every field type.
package db

import (
	"fmt"
	"strings"
)

// FieldValue is one enumerated legal value of a bit field.
type FieldValue struct {
	Value       uint64
	Token       string
	Description string
}

// BitField holds the data of one named bit range inside a register.
type BitField struct {
	Name        string
	Description string

	// Bit positions are 0 based and inclusive, Stop >= Start.
	Start uint
	Stop  uint

	Type       FieldType
	ResetType  ResetType
	ResetValue uint64
	ResetInput string // reset input signal name when ResetType is ResetInput

	Volatile bool
	Values   []FieldValue

	// Optional signal bindings. An empty output signal defaults to the
	// cleaned field name.
	inputSignal   string
	outputSignal  string
	controlSignal string
}

// NewBitField creates a field covering the inclusive bit range [start, stop].
func NewBitField(name string, start, stop uint, fieldType FieldType) *BitField {
	return &BitField{
		Name:  name,
		Start: start,
		Stop:  stop,
		Type:  fieldType,
	}
}

// Width returns the width of the field in bits.
func (f *BitField) Width() uint {
	return f.Stop - f.Start + 1
}

// Mask returns the bit mask of the field within its register.
func (f *BitField) Mask() uint64 {
	if f.Width() >= 64 {
		return ^uint64(0)
	}
	return ((uint64(1) << f.Width()) - 1) << f.Start
}

// TypeInfo returns the field type table entry of the field.
func (f *BitField) TypeInfo() FieldTypeInfo {
	info, _ := LookupFieldType(f.Type)
	return info
}

// InputSignal returns the bound input signal name.
func (f *BitField) InputSignal() string {
	return f.inputSignal
}

// SetInputSignal binds the input signal name.
func (f *BitField) SetInputSignal(name string) {
	f.inputSignal = cleanSignal(name)
}

// OutputSignal returns the bound output signal name, defaulting to the
// cleaned field name when none was set.
func (f *BitField) OutputSignal() string {
	if f.outputSignal != "" {
		return f.outputSignal
	}
	return cleanSignal(f.Name)
}

// SetOutputSignal binds the output signal name.
func (f *BitField) SetOutputSignal(name string) {
	f.outputSignal = cleanSignal(name)
}

// ControlSignal returns the bound control signal name.
func (f *BitField) ControlSignal() string {
	return f.controlSignal
}

// SetControlSignal binds the control signal name.
func (f *BitField) SetControlSignal(name string) {
	f.controlSignal = cleanSignal(name)
}

// Validate checks the field invariants against the owning register width.
func (f *BitField) Validate(registerWidth uint) error {
	if f.Stop < f.Start {
		return StructuralError{
			Entity: f.Name,
			Reason: fmt.Sprintf("stop bit %d below start bit %d", f.Stop, f.Start),
		}
	}
	if f.Stop >= registerWidth {
		return LayoutError{
			Entity: f.Name,
			Reason: fmt.Sprintf("bit range [%d:%d] exceeds register width %d", f.Stop, f.Start, registerWidth),
		}
	}
	return nil
}

// Equal reports structural equality of two fields, signal bindings included.
func (f *BitField) Equal(other *BitField) bool {
	if other == nil {
		return false
	}
	if f.Name != other.Name || f.Start != other.Start || f.Stop != other.Stop ||
		f.Type != other.Type || f.ResetType != other.ResetType ||
		f.ResetValue != other.ResetValue || f.Volatile != other.Volatile {
		return false
	}
	return f.inputSignal == other.inputSignal &&
		f.outputSignal == other.outputSignal &&
		f.controlSignal == other.controlSignal
}

// cleanSignal replaces white space runs in a signal name with underscores.
func cleanSignal(name string) string {
	return strings.Join(strings.Fields(name), "_")
}
