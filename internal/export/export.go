// Package export defines the resolved read-only view that output renderers
// consume. All layout facts are derived here once per register set; a
// renderer only walks the view and formats text, it never re-derives
// addresses or bit positions.
package export

import (
	"io"
)

const (
	CDefines = "c-defines"
	AsmEqu   = "asm-equ"
)

// Renderer writes one text artifact for a resolved view.
type Renderer interface {
	Render(w io.Writer, view *View) error
}

// Options carries renderer independent output settings.
type Options struct {
	// VolatileAll marks every field as volatile in verification oriented
	// outputs, overriding the per field flag.
	VolatileAll bool
}
