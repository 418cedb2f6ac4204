package grouping

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dallingham/regenerate/internal/db"
)

// arrayElement matches tokens like FOO0, FOO1_REG: a base name, a numeric
// index and an optional fixed suffix.
var arrayElement = regexp.MustCompile(`(?i)^(.*[^0-9])([0-9]+)(_REG)?\s*$`)

// FoldArrays collapses runs of numbered registers into dimensioned array
// registers. A register folds into its predecessor when its index is
// exactly one above the predecessor's, its field layout is structurally
// identical and its address directly follows the predecessor's elements.
// Folding keeps the first element's metadata and increments its dimension.
func FoldArrays(registers []*db.Register) []*db.Register {
	var folded []*db.Register
	var last *db.Register
	lastIndex := -1

	for _, register := range registers {
		baseToken, suffix, index := splitArrayToken(register.Token)

		if index >= 1 && lastIndex+1 == index && foldable(last, register) {
			last.Dimension++
			last.Token = baseToken + suffix
			last.Name = db.NameFromToken(last.Token)
			lastIndex = index
			continue
		}

		folded = append(folded, register)
		last = register
		lastIndex = index
	}
	return folded
}

// splitArrayToken splits a token into base name, fixed suffix and numeric
// index. The index is -1 for tokens without a trailing number.
func splitArrayToken(token string) (base, suffix string, index int) {
	match := arrayElement.FindStringSubmatch(token)
	if match == nil {
		return token, "", -1
	}

	base = strings.TrimSuffix(match[1], "_")
	index, err := strconv.Atoi(match[2])
	if err != nil {
		return token, "", -1
	}
	return base, match[3], index
}

// foldable reports whether register extends last as the next array
// element: identical layout and an address directly after the existing
// elements.
func foldable(last, register *db.Register) bool {
	if last == nil {
		return false
	}
	if register.Address != last.Address+last.ByteWidth()*uint64(last.Dimension) {
		return false
	}
	return register.GroupEqual(last)
}
