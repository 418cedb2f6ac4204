// Package cdefines renders C preprocessor defines mapping register names to
// their absolute memory mapped addresses.
package cdefines

import (
	"fmt"
	"io"
	"strings"

	"github.com/dallingham/regenerate/internal/db"
	"github.com/dallingham/regenerate/internal/export"
)

const (
	defineLine = "#define %-40s (*((volatile %s)0x%x))\n"
	maskLine   = "#define %-40s 0x%x\n"
	shiftLine  = "#define %-40s %d\n"
)

var regTypes = map[uint]string{
	8:  "unsigned char*",
	16: "unsigned short*",
	32: "unsigned long*",
	64: "unsigned long long*",
}

// Renderer writes C define headers.
type Renderer struct{}

// New creates a new C defines renderer.
func New() export.Renderer {
	return &Renderer{}
}

// Render writes the header file for the view.
func (r *Renderer) Render(w io.Writer, view *export.View) error {
	guard := "__" + identifier(view.Name) + "_H"
	if _, err := fmt.Fprintf(w, "#ifndef %s\n#define %s 1\n\n", guard, guard); err != nil {
		return fmt.Errorf("writing include guard: %w", err)
	}

	for _, setView := range view.Sets {
		if err := renderSet(w, setView); err != nil {
			return fmt.Errorf("rendering set %s: %w", setView.Set.Name, err)
		}
	}

	if _, err := fmt.Fprintf(w, "#endif\n"); err != nil {
		return fmt.Errorf("writing trailer: %w", err)
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
	return renderMasks(w, setView.Set)
}

// renderMasks writes the field mask and shift defines of a set. The values do
// not depend on where a set is placed, so they are emitted once per set.
func renderMasks(w io.Writer, regSet *db.RegisterSet) error {
	wrote := false
	for _, register := range regSet.Registers() {
		if register.NoCodeGeneration {
			continue
		}
		for _, field := range register.Fields() {
			name := identifier(regSet.Name) + "_" + register.Token + "__" + identifier(field.Name)
			if _, err := fmt.Fprintf(w, maskLine, name+"_MASK", field.Mask()); err != nil {
				return fmt.Errorf("writing mask define %s: %w", name, err)
			}
			if _, err := fmt.Fprintf(w, shiftLine, name+"_SHIFT", field.Start); err != nil {
				return fmt.Errorf("writing shift define %s: %w", name, err)
			}
			wrote = true
		}
	}
	if !wrote {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}
	return nil
}

func writeRegister(w io.Writer, placement export.Placement, register *db.Register) error {
	regType, ok := regTypes[register.Width]
	if !ok {
		return fmt.Errorf("no C type for width %d of %s", register.Width, register.Token)
	}

	name := identifier(placement.Name) + "_" + register.Token
	base := placement.Base + register.Address

	if register.Dimension > 1 {
		for i := uint(0); i < register.Dimension; i++ {
			address := base + uint64(i)*register.ByteWidth()
			element := fmt.Sprintf("%s%d", name, i)
			if _, err := fmt.Fprintf(w, defineLine, element, regType, address); err != nil {
				return fmt.Errorf("writing define %s: %w", element, err)
			}
		}
		return nil
	}

	if _, err := fmt.Fprintf(w, defineLine, name, regType, base); err != nil {
		return fmt.Errorf("writing define %s: %w", name, err)
	}
	return nil
}

// identifier converts a placement or view name into a C identifier.
func identifier(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToUpper(name) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
