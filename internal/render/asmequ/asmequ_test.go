package asmequ

import (
	"strings"
	"testing"

	"github.com/dallingham/regenerate/internal/db"
	"github.com/dallingham/regenerate/internal/export"
	"github.com/retroenv/retrogolib/assert"
)

func TestRender(t *testing.T) {
	regSet := db.NewRegisterSet("uart", 32, 4)

	ctrl := db.NewRegister("CTRL_REG", 0x0, 32)
	assert.NoError(t, ctrl.AddField(db.NewBitField("enable", 0, 0, db.ReadWrite)))

	fifo := db.NewRegister("FIFO_REG", 0x4, 32)
	fifo.Dimension = 2
	assert.NoError(t, fifo.AddField(db.NewBitField("value", 0, 7, db.ReadWrite)))

	assert.NoError(t, regSet.AddRegister(ctrl))
	assert.NoError(t, regSet.AddRegister(fifo))

	view, err := export.NewSetView(regSet, export.Options{})
	assert.NoError(t, err)

	var sb strings.Builder
	assert.NoError(t, New().Render(&sb, view))
	output := sb.String()

	assert.Contains(t, output, ";; uart register addresses")
	assert.Contains(t, output, ".equ UART_CTRL_REG,")
	assert.Contains(t, output, ".equ UART_FIFO_REG0,")
	assert.Contains(t, output, ".equ UART_FIFO_REG1,")
	assert.Contains(t, output, "0x8\n")
}

func TestRenderSkipsNoCodeRegisters(t *testing.T) {
	regSet := db.NewRegisterSet("uart", 32, 4)

	debug := db.NewRegister("DEBUG_REG", 0x0, 32)
	debug.NoCodeGeneration = true
	assert.NoError(t, debug.AddField(db.NewBitField("probe", 0, 0, db.ReadOnly)))
	assert.NoError(t, regSet.AddRegister(debug))

	view, err := export.NewSetView(regSet, export.Options{})
	assert.NoError(t, err)

	var sb strings.Builder
	assert.NoError(t, New().Render(&sb, view))
	assert.False(t, strings.Contains(sb.String(), "DEBUG_REG"))
}
