package layout

import (
	"testing"

	"github.com/dallingham/regenerate/internal/db"
	"github.com/retroenv/retrogolib/assert"
)

func newTestSet(t *testing.T, addressWidth uint, addresses ...uint64) *db.RegisterSet {
	t.Helper()
	regSet := db.NewRegisterSet("test", 32, addressWidth)
	for i, address := range addresses {
		register := db.NewRegister(regToken(i), address, 32)
		assert.NoError(t, register.AddField(db.NewBitField("VALUE", 0, 31, db.ReadWrite)))
		assert.NoError(t, regSet.AddRegister(register))
	}
	return regSet
}

func regToken(i int) string {
	return string(rune('A'+i)) + "_REG"
}

func TestByteLayoutGapsAndTrailer(t *testing.T) {
	// registers at 0x00, 0x04 and 0x10 in a 32 byte address space
	regSet := newTestSet(t, 5, 0x00, 0x04, 0x10)

	spans, err := ByteLayout(regSet)
	assert.NoError(t, err)
	assert.Len(t, spans, 5)

	assert.False(t, spans[0].Reserved())
	assert.Equal(t, uint64(0x00), spans[0].Offset)
	assert.False(t, spans[1].Reserved())
	assert.Equal(t, uint64(0x04), spans[1].Offset)

	assert.True(t, spans[2].Reserved())
	assert.Equal(t, uint64(0x08), spans[2].Offset)
	assert.Equal(t, uint64(8), spans[2].Length)

	assert.False(t, spans[3].Reserved())
	assert.Equal(t, uint64(0x10), spans[3].Offset)

	assert.True(t, spans[4].Reserved())
	assert.Equal(t, uint64(0x14), spans[4].Offset)
	assert.Equal(t, uint64(12), spans[4].Length)
}

func TestByteLayoutTilesAddressSpace(t *testing.T) {
	tests := []struct {
		name      string
		addrWidth uint
		addresses []uint64
	}{
		{name: "empty set", addrWidth: 4},
		{name: "dense", addrWidth: 4, addresses: []uint64{0x0, 0x4, 0x8, 0xc}},
		{name: "sparse", addrWidth: 8, addresses: []uint64{0x10, 0x40, 0xfc}},
		{name: "single", addrWidth: 10, addresses: []uint64{0x200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			regSet := newTestSet(t, tt.addrWidth, tt.addresses...)
			spans, err := ByteLayout(regSet)
			assert.NoError(t, err)

			// spans tile [0, 2^addrWidth) with no gap and no overlap
			var next uint64
			for _, span := range spans {
				assert.Equal(t, next, span.Offset)
				next = span.End()
			}
			assert.Equal(t, regSet.AddressSpace(), next)
		})
	}
}

func TestByteLayoutArrayAndMemoryBlock(t *testing.T) {
	regSet := db.NewRegisterSet("dma", 32, 8)

	array := db.NewRegister("CH", 0x0, 32)
	array.Dimension = 4
	assert.NoError(t, regSet.AddRegister(array))

	memory := db.NewRegister("BUF", 0x40, 32)
	memory.RAMSize = 0x40
	assert.NoError(t, regSet.AddRegister(memory))

	spans, err := ByteLayout(regSet)
	assert.NoError(t, err)
	assert.Len(t, spans, 4)

	assert.Equal(t, uint64(0x10), spans[0].Length)
	assert.True(t, spans[1].Reserved())
	assert.Equal(t, uint64(0x40), spans[2].Length)
	assert.Equal(t, uint64(0x80), spans[3].Offset)
}

func TestByteLayoutOverlapError(t *testing.T) {
	regSet := newTestSet(t, 8, 0x0, 0x0)

	_, err := ByteLayout(regSet)
	assert.Error(t, err)

	layoutErr, ok := err.(db.LayoutError)
	assert.True(t, ok)
	assert.Equal(t, "A_REG", layoutErr.Conflict)
}

func TestByteLayoutMisalignedError(t *testing.T) {
	regSet := db.NewRegisterSet("test", 32, 8)
	assert.NoError(t, regSet.AddRegister(db.NewRegister("A", 0x2, 32)))

	_, err := ByteLayout(regSet)
	assert.Error(t, err)
}

func TestByteLayoutSharedAddress(t *testing.T) {
	regSet := db.NewRegisterSet("fifo", 32, 4)

	readHalf := db.NewRegister("RX", 0x0, 32)
	readHalf.Share = db.ShareRead
	writeHalf := db.NewRegister("TX", 0x0, 32)
	writeHalf.Share = db.ShareWrite
	assert.NoError(t, regSet.AddRegister(readHalf))
	assert.NoError(t, regSet.AddRegister(writeHalf))

	spans, err := ByteLayout(regSet)
	assert.NoError(t, err)
	assert.Len(t, spans, 2)

	assert.Equal(t, "RX", spans[0].Register.Token)
	assert.NotNil(t, spans[0].WriteHalf)
	assert.Equal(t, "TX", spans[0].WriteHalf.Token)
	assert.True(t, spans[1].Reserved())
}
