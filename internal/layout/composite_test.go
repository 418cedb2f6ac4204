package layout

import (
	"testing"

	"github.com/dallingham/regenerate/internal/db"
	"github.com/retroenv/retrogolib/assert"
)

func TestCompositesFillers(t *testing.T) {
	regSet := db.NewRegisterSet("test", 32, 4)
	register := db.NewRegister("CTRL", 0x0, 32)
	assert.NoError(t, register.AddField(db.NewBitField("LOW", 2, 5, db.ReadWrite)))
	assert.NoError(t, register.AddField(db.NewBitField("HIGH", 16, 23, db.ReadOnlyValue)))
	assert.NoError(t, regSet.AddRegister(register))

	composites, err := Composites(regSet)
	assert.NoError(t, err)
	assert.Len(t, composites, 1)

	segments := composites[0].Segments
	assert.Len(t, segments, 5)

	// descending order: filler [31:24], HIGH [23:16], filler [15:6], LOW [5:2], filler [1:0]
	assert.True(t, segments[0].Filler())
	assert.Equal(t, uint(31), segments[0].High)
	assert.Equal(t, uint(24), segments[0].Low)

	assert.Equal(t, "HIGH", segments[1].Field.Name)
	assert.True(t, segments[2].Filler())
	assert.Equal(t, "LOW", segments[3].Field.Name)

	assert.True(t, segments[4].Filler())
	assert.Equal(t, uint(0), segments[4].Low)
}

func TestCompositesTotalWidthProperty(t *testing.T) {
	regSet := db.NewRegisterSet("mixed", 32, 6)

	full := db.NewRegister("FULL", 0x0, 32)
	assert.NoError(t, full.AddField(db.NewBitField("ALL", 0, 31, db.ReadWrite)))
	assert.NoError(t, regSet.AddRegister(full))

	sparse := db.NewRegister("SPARSE", 0x4, 32)
	assert.NoError(t, sparse.AddField(db.NewBitField("A", 0, 0, db.Write1ToClearSet)))
	assert.NoError(t, sparse.AddField(db.NewBitField("B", 30, 31, db.ReadOnly)))
	assert.NoError(t, regSet.AddRegister(sparse))

	wide := db.NewRegister("WIDE", 0x8, 64)
	assert.NoError(t, wide.AddField(db.NewBitField("SPAN", 24, 47, db.ReadWrite)))
	assert.NoError(t, regSet.AddRegister(wide))

	composites, err := Composites(regSet)
	assert.NoError(t, err)

	// every distinct word address assembles to exactly the data bus width
	for _, composite := range composites {
		assert.Equal(t, regSet.DataWidth, composite.TotalWidth())
	}
}

func TestCompositesWideRegisterSlicing(t *testing.T) {
	regSet := db.NewRegisterSet("wide", 32, 4)
	register := db.NewRegister("CNT", 0x0, 64)
	assert.NoError(t, register.AddField(db.NewBitField("VALUE", 16, 47, db.ReadOnlyValue)))
	assert.NoError(t, regSet.AddRegister(register))

	composites, err := Composites(regSet)
	assert.NoError(t, err)
	assert.Len(t, composites, 2)

	// first word holds VALUE[31:16], second word VALUE[47:32]
	assert.Equal(t, uint64(0x0), composites[0].Address)
	assert.Equal(t, uint64(0x4), composites[1].Address)

	first := composites[0].Segments[0]
	assert.Equal(t, "VALUE", first.Field.Name)
	assert.Equal(t, uint(31), first.High)
	assert.Equal(t, uint(16), first.Low)
	assert.Equal(t, uint(31), first.FieldHigh)

	second := composites[1].Segments[1]
	assert.Equal(t, "VALUE", second.Field.Name)
	assert.Equal(t, uint(15), second.High)
	assert.Equal(t, uint(0), second.Low)
	assert.Equal(t, uint(47), second.FieldHigh)
	assert.Equal(t, uint(32), second.FieldLow)
}

func TestCompositesShareModeExcludesWriteHalf(t *testing.T) {
	regSet := db.NewRegisterSet("fifo", 32, 4)

	readHalf := db.NewRegister("RX", 0x0, 32)
	readHalf.Share = db.ShareRead
	assert.NoError(t, readHalf.AddField(db.NewBitField("RX_DATA", 0, 15, db.ReadOnlyValue)))
	assert.NoError(t, regSet.AddRegister(readHalf))

	writeHalf := db.NewRegister("TX", 0x0, 32)
	writeHalf.Share = db.ShareWrite
	assert.NoError(t, writeHalf.AddField(db.NewBitField("TX_DATA", 0, 15, db.WriteOnly)))
	assert.NoError(t, regSet.AddRegister(writeHalf))

	composites, err := Composites(regSet)
	assert.NoError(t, err)
	assert.Len(t, composites, 1)

	// only the read half contributes to the read assembly
	segments := composites[0].Segments
	assert.Len(t, segments, 2)
	assert.Equal(t, "RX_DATA", segments[1].Field.Name)
	assert.Equal(t, regSet.DataWidth, composites[0].TotalWidth())
}

func TestCompositesBitConflict(t *testing.T) {
	regSet := db.NewRegisterSet("bad", 32, 4)
	register := db.NewRegister("X", 0x0, 32)
	register.Share = db.ShareRead // share mode bypasses the register level overlap check
	assert.NoError(t, register.AddField(db.NewBitField("A", 0, 7, db.ReadOnlyValue)))
	assert.NoError(t, register.AddField(db.NewBitField("B", 4, 11, db.ReadOnlyValue)))
	assert.NoError(t, regSet.AddRegister(register))

	_, err := Composites(regSet)
	assert.Error(t, err)
}
