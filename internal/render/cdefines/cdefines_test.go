package cdefines

import (
	"strings"
	"testing"

	"github.com/dallingham/regenerate/internal/db"
	"github.com/dallingham/regenerate/internal/export"
	"github.com/retroenv/retrogolib/assert"
)

func testView(t *testing.T) *export.View {
	t.Helper()

	regSet := db.NewRegisterSet("uart", 32, 4)

	ctrl := db.NewRegister("CTRL_REG", 0x0, 32)
	assert.NoError(t, ctrl.AddField(db.NewBitField("enable", 0, 0, db.ReadWrite)))

	data := db.NewRegister("DATA_REG", 0x4, 32)
	data.Dimension = 2
	assert.NoError(t, data.AddField(db.NewBitField("value", 0, 7, db.ReadWrite)))

	hidden := db.NewRegister("DEBUG_REG", 0xc, 32)
	hidden.NoCodeGeneration = true
	assert.NoError(t, hidden.AddField(db.NewBitField("probe", 0, 0, db.ReadOnly)))

	assert.NoError(t, regSet.AddRegister(ctrl))
	assert.NoError(t, regSet.AddRegister(data))
	assert.NoError(t, regSet.AddRegister(hidden))

	view, err := export.NewSetView(regSet, export.Options{})
	assert.NoError(t, err)
	return view
}

func TestRender(t *testing.T) {
	view := testView(t)

	var sb strings.Builder
	assert.NoError(t, New().Render(&sb, view))
	output := sb.String()

	assert.Contains(t, output, "#ifndef __UART_H")
	assert.Contains(t, output, "(*((volatile unsigned long*)0x0))")
	assert.Contains(t, output, "UART_CTRL_REG")
	assert.Contains(t, output, "UART_DATA_REG0")
	assert.Contains(t, output, "UART_DATA_REG1")
	assert.Contains(t, output, "(*((volatile unsigned long*)0x8))")
	assert.Contains(t, output, "UART_CTRL_REG__ENABLE_MASK")
	assert.Contains(t, output, "UART_DATA_REG__VALUE_MASK")
	assert.Contains(t, output, "0xff\n")
	assert.Contains(t, output, "UART_DATA_REG__VALUE_SHIFT")
	assert.Contains(t, output, "#endif")
	assert.False(t, strings.Contains(output, "DEBUG_REG"))
}

func TestRenderGroupPlacement(t *testing.T) {
	regSet := db.NewRegisterSet("timer", 32, 3)
	count := db.NewRegister("COUNT_REG", 0x0, 32)
	assert.NoError(t, count.AddField(db.NewBitField("value", 0, 31, db.ReadOnly)))
	assert.NoError(t, regSet.AddRegister(count))

	group := &db.Group{
		Name: "timers",
		Entries: []db.GroupEntry{
			{SetName: "timer", Inst: "tmr", Repeat: 2, Stride: 0x10},
		},
	}
	sets := map[string]*db.RegisterSet{"timer": regSet}

	view, err := export.NewGroupView(group, sets, export.Options{})
	assert.NoError(t, err)

	var sb strings.Builder
	assert.NoError(t, New().Render(&sb, view))
	output := sb.String()

	assert.Contains(t, output, "TIMERS_TMR_0__COUNT_REG")
	assert.Contains(t, output, "TIMERS_TMR_1__COUNT_REG")
	assert.Contains(t, output, "0x10))")
}
