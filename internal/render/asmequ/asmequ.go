// Package asmequ renders GNU assembler equates mapping register names to
// their absolute memory mapped addresses.
package asmequ

import (
	"fmt"
	"io"
	"strings"

	"github.com/dallingham/regenerate/internal/db"
	"github.com/dallingham/regenerate/internal/export"
)

const equLine = "\t.equ %-32s 0x%x\n"

// Renderer writes assembler equate files.
type Renderer struct{}

// New creates a new assembler equates renderer.
func New() export.Renderer {
	return &Renderer{}
}

// Render writes the equates file for the view.
func (r *Renderer) Render(w io.Writer, view *export.View) error {
	if _, err := fmt.Fprintf(w, ";; %s register addresses\n\n", view.Name); err != nil {
		return fmt.Errorf("writing header comment: %w", err)
	}

	for _, setView := range view.Sets {
		if err := renderSet(w, setView); err != nil {
			return fmt.Errorf("rendering set %s: %w", setView.Set.Name, err)
		}
	}
	return nil
}

func renderSet(w io.Writer, setView *export.SetView) error {
	for _, placement := range setView.Placements {
		for _, register := range setView.Set.Registers() {
			if register.NoCodeGeneration {
				continue
			}
			if err := writeRegister(w, placement, register); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return fmt.Errorf("writing separator: %w", err)
		}
	}
	return nil
}

func writeRegister(w io.Writer, placement export.Placement, register *db.Register) error {
	name := prefix(placement.Name) + register.Token
	base := placement.Base + register.Address

	if register.Dimension > 1 {
		for i := uint(0); i < register.Dimension; i++ {
			address := base + uint64(i)*register.ByteWidth()
			element := fmt.Sprintf("%s%d,", name, i)
			if _, err := fmt.Fprintf(w, equLine, element, address); err != nil {
				return fmt.Errorf("writing equate %s: %w", name, err)
			}
		}
		return nil
	}

	if _, err := fmt.Fprintf(w, equLine, name+",", base); err != nil {
		return fmt.Errorf("writing equate %s: %w", name, err)
	}
	return nil
}

// prefix converts a placement name into an equate name prefix.
func prefix(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToUpper(name) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	sb.WriteByte('_')
	return sb.String()
}
