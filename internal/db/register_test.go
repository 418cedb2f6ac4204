package db

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestNewRegister(t *testing.T) {
	register := NewRegister(" dma_ctrl_reg ", 0x10, 32)

	assert.Equal(t, "DMA_CTRL_REG", register.Token)
	assert.Equal(t, "Dma Ctrl", register.Name)
	assert.Equal(t, uint64(4), register.ByteWidth())
	assert.Equal(t, uint(1), register.Dimension)
}

func TestRegisterByteSize(t *testing.T) {
	tests := []struct {
		name      string
		width     uint
		dimension uint
		ramSize   uint64
		want      uint64
	}{
		{name: "scalar", width: 32, dimension: 1, want: 4},
		{name: "array", width: 32, dimension: 4, want: 16},
		{name: "zero dimension treated as scalar", width: 16, dimension: 0, want: 2},
		{name: "memory block", width: 32, dimension: 1, ramSize: 256, want: 256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			register := NewRegister("R", 0, tt.width)
			register.Dimension = tt.dimension
			register.RAMSize = tt.ramSize
			assert.Equal(t, tt.want, register.ByteSize())
		})
	}
}

func TestRegisterValidate(t *testing.T) {
	tests := []struct {
		name    string
		address uint64
		width   uint
		wantErr bool
	}{
		{name: "aligned 32 bit", address: 0x14, width: 32},
		{name: "aligned 8 bit", address: 0x3, width: 8},
		{name: "misaligned 32 bit", address: 0x2, width: 32, wantErr: true},
		{name: "misaligned 16 bit", address: 0x1, width: 16, wantErr: true},
		{name: "invalid width", address: 0, width: 24, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			register := NewRegister("R", tt.address, tt.width)
			err := register.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegisterAddFieldOverlap(t *testing.T) {
	register := NewRegister("CTRL", 0, 32)

	assert.NoError(t, register.AddField(NewBitField("A", 0, 3, ReadWrite)))
	assert.NoError(t, register.AddField(NewBitField("B", 4, 7, ReadWrite)))

	err := register.AddField(NewBitField("C", 6, 8, ReadWrite))
	assert.Error(t, err)

	layoutErr, ok := err.(LayoutError)
	assert.True(t, ok)
	assert.Equal(t, "CTRL.C", layoutErr.Entity)
	assert.Equal(t, "CTRL.B", layoutErr.Conflict)
}

func TestRegisterAddFieldOverlapAllowedWhenShared(t *testing.T) {
	register := NewRegister("DATA", 0, 32)
	register.Share = ShareRead

	assert.NoError(t, register.AddField(NewBitField("RD", 0, 31, ReadOnlyValue)))
	assert.NoError(t, register.AddField(NewBitField("RD2", 0, 15, ReadOnlyValue)))
}

func TestRegisterAddFieldExceedingWidth(t *testing.T) {
	register := NewRegister("CTRL", 0, 8)
	err := register.AddField(NewBitField("WIDE", 0, 8, ReadWrite))
	assert.Error(t, err)
}

func TestRegisterFieldsSorted(t *testing.T) {
	register := NewRegister("CTRL", 0, 32)
	assert.NoError(t, register.AddField(NewBitField("HIGH", 16, 23, ReadWrite)))
	assert.NoError(t, register.AddField(NewBitField("LOW", 0, 7, ReadWrite)))

	fields := register.Fields()
	assert.Len(t, fields, 2)
	assert.Equal(t, "LOW", fields[0].Name)
	assert.Equal(t, "HIGH", fields[1].Name)
}

func TestRegisterGroupEqual(t *testing.T) {
	a := NewRegister("FOO0", 0x00, 32)
	assert.NoError(t, a.AddField(NewBitField("F", 0, 7, ReadWrite)))

	b := NewRegister("FOO1", 0x40, 32)
	assert.NoError(t, b.AddField(NewBitField("F", 0, 7, ReadWrite)))

	// same layout, different address and token
	assert.True(t, a.GroupEqual(b))
	assert.False(t, a.Equal(b))

	c := NewRegister("FOO2", 0x80, 32)
	assert.NoError(t, c.AddField(NewBitField("F", 0, 7, ReadOnly)))
	assert.False(t, a.GroupEqual(c))
}

func TestRegisterArrayEqual(t *testing.T) {
	a := NewRegister("FOO0", 0x00, 32)
	assert.NoError(t, a.AddField(NewBitField("F", 0, 7, ReadWrite)))

	b := NewRegister("FOO1", 0x04, 32)
	assert.NoError(t, b.AddField(NewBitField("F", 0, 7, ReadWrite)))

	assert.True(t, b.ArrayEqual(a))
	// not adjacent
	assert.False(t, a.ArrayEqual(b))
}
