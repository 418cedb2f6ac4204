package generator

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dallingham/regenerate/internal/project"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

const testSetDocument = `{
  "name": "uart",
  "data_width": 32,
  "address_width": 4,
  "registers": [
    {
      "token": "CTRL_REG",
      "address": "0x0",
      "width": 32,
      "fields": [
        {"name": "enable", "start": 0, "stop": 0, "type": "RW"}
      ]
    }
  ]
}
`

func writeProject(t *testing.T, projectDoc string) *project.Project {
	t.Helper()

	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "uart.json"), []byte(testSetDocument), 0o644))

	path := filepath.Join(dir, "project.json")
	assert.NoError(t, os.WriteFile(path, []byte(projectDoc), 0o644))

	proj, err := project.Load(path)
	assert.NoError(t, err)
	return proj
}

func TestRun(t *testing.T) {
	proj := writeProject(t, `{
  "name": "soc",
  "register_sets": ["uart.json"],
  "exports": [
    {"renderer": "c-defines", "source": "uart", "target": "out/uart.h"},
    {"renderer": "asm-equ", "source": "uart", "target": "out/uart.s"}
  ]
}
`)

	gen := New(log.NewTestLogger(t), proj, Options{Workers: 2})
	results, err := gen.Run(context.Background())
	assert.NoError(t, err)
	assert.Len(t, results, 2)

	header, err := os.ReadFile(results[0].Target)
	assert.NoError(t, err)
	assert.Contains(t, string(header), "UART_CTRL_REG")

	equates, err := os.ReadFile(results[1].Target)
	assert.NoError(t, err)
	assert.Contains(t, string(equates), ".equ UART_CTRL_REG,")

	// no temporary files may remain next to the artifacts
	entries, err := os.ReadDir(filepath.Dir(results[0].Target))
	assert.NoError(t, err)
	for _, entry := range entries {
		assert.False(t, strings.Contains(entry.Name(), ".tmp"))
	}
}

func TestRunSkipsUpToDateArtifacts(t *testing.T) {
	proj := writeProject(t, `{
  "name": "soc",
  "register_sets": ["uart.json"],
  "exports": [
    {"renderer": "c-defines", "source": "uart", "target": "uart.h"}
  ]
}
`)
	gen := New(log.NewTestLogger(t), proj, Options{})

	results, err := gen.Run(context.Background())
	assert.NoError(t, err)
	assert.False(t, results[0].Skipped)

	results, err = gen.Run(context.Background())
	assert.NoError(t, err)
	assert.True(t, results[0].Skipped)

	forced := New(log.NewTestLogger(t), proj, Options{Force: true})
	results, err = forced.Run(context.Background())
	assert.NoError(t, err)
	assert.False(t, results[0].Skipped)
}

func TestRunUnsupportedRenderer(t *testing.T) {
	proj := writeProject(t, `{
  "name": "soc",
  "register_sets": ["uart.json"],
  "exports": [
    {"renderer": "bogus", "source": "uart", "target": "uart.txt"}
  ]
}
`)
	gen := New(log.NewTestLogger(t), proj, Options{})

	results, err := gen.Run(context.Background())
	assert.Error(t, err)
	assert.NotNil(t, results[0].Err)
	assert.ErrorContains(t, results[0].Err, "unsupported renderer")

	_, statErr := os.Stat(results[0].Target)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunUnknownSource(t *testing.T) {
	proj := writeProject(t, `{
  "name": "soc",
  "register_sets": ["uart.json"],
  "exports": [
    {"renderer": "c-defines", "source": "missing", "target": "missing.h"}
  ]
}
`)
	gen := New(log.NewTestLogger(t), proj, Options{})

	_, err := gen.Run(context.Background())
	assert.Error(t, err)
}

func TestRunCanceledContext(t *testing.T) {
	proj := writeProject(t, `{
  "name": "soc",
  "register_sets": ["uart.json"],
  "exports": [
    {"renderer": "c-defines", "source": "uart", "target": "uart.h"}
  ]
}
`)
	gen := New(log.NewTestLogger(t), proj, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.Run(ctx)
	assert.Error(t, err)
}
