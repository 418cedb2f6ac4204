// Package importer reads foreign register descriptions in the IP-XACT
// interchange format and populates the register database entities.
package importer

import (
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/dallingham/regenerate/internal/db"
	"github.com/retroenv/retrogolib/log"
)

// Options control the import behavior.
type Options struct {
	// ReservedPatterns match field names that carry no payload and are
	// dropped, unless KeepReserved is set.
	ReservedPatterns []string
	KeepReserved     bool

	// DataWidth is the bus width assumed for imported sets when the
	// document does not declare register sizes, in bits.
	DataWidth uint
}

// DefaultOptions returns the default import options.
func DefaultOptions() Options {
	return Options{
		ReservedPatterns: []string{"^RESERVED", "^RSVD"},
		DataWidth:        32,
	}
}

// Result holds the outcome of one import run. Entity level failures do not
// abort the run, the skipped entities are reported in Errors.
type Result struct {
	Title  string
	Sets   []*db.RegisterSet
	Errors []error
}

// Importer decodes IP-XACT component documents.
type Importer struct {
	logger   *log.Logger
	options  Options
	reserved []*regexp.Regexp
}

// New creates an importer.
func New(logger *log.Logger, options Options) (*Importer, error) {
	imp := &Importer{
		logger:  logger,
		options: options,
	}
	for _, pattern := range options.ReservedPatterns {
		matcher, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling reserved pattern %q: %w", pattern, err)
		}
		imp.reserved = append(imp.reserved, matcher)
	}
	return imp, nil
}

// document mirrors the IP-XACT component element hierarchy. Namespace
// prefixes (spirit:, ipxact:) are ignored, matching is by local name.
type document struct {
	Vendor     string      `xml:"vendor"`
	Name       string      `xml:"name"`
	MemoryMaps []memoryMap `xml:"memoryMaps>memoryMap"`
}

type memoryMap struct {
	Name          string         `xml:"name"`
	AddressBlocks []addressBlock `xml:"addressBlock"`
}

type addressBlock struct {
	Name        string        `xml:"name"`
	BaseAddress string        `xml:"baseAddress"`
	Range       string        `xml:"range"`
	Width       string        `xml:"width"`
	Registers   []rawRegister `xml:"register"`
}

type rawRegister struct {
	Name          string     `xml:"name"`
	Description   string     `xml:"description"`
	AddressOffset string     `xml:"addressOffset"`
	Size          string     `xml:"size"`
	Dim           string     `xml:"dim"`
	Reset         *rawReset  `xml:"reset"`
	Fields        []rawField `xml:"field"`
}

type rawField struct {
	Name               string    `xml:"name"`
	Description        string    `xml:"description"`
	BitOffset          string    `xml:"bitOffset"`
	BitWidth           string    `xml:"bitWidth"`
	Access             string    `xml:"access"`
	ModifiedWriteValue string    `xml:"modifiedWriteValue"`
	Volatile           string    `xml:"volatile"`
	Reset              *rawReset `xml:"reset"`
}

type rawReset struct {
	Value string `xml:"value"`
}

var accessTypes = map[string]db.FieldType{
	"read-only":  db.ReadOnly,
	"read-write": db.ReadWrite,
	"write-only": db.WriteOnly,
	"writeOnce":  db.WriteOnly,
}

var modifiedWriteTypes = map[string]db.FieldType{
	"oneToClear": db.Write1ToClearSet,
	"oneToSet":   db.Write1ToSet,
}

// Import decodes one IP-XACT document into register sets, one per memory
// map. Malformed entities are skipped and reported, import continues.
func (imp *Importer) Import(reader io.Reader) (*Result, error) {
	var doc document
	decoder := xml.NewDecoder(reader)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}

	result := &Result{Title: doc.Name}
	for _, rawMap := range doc.MemoryMaps {
		regSet := imp.importMemoryMap(rawMap, result)
		result.Sets = append(result.Sets, regSet)
	}
	return result, nil
}

func (imp *Importer) importMemoryMap(rawMap memoryMap, result *Result) *db.RegisterSet {
	regSet := db.NewRegisterSet(strings.ToLower(rawMap.Name), imp.options.DataWidth, 0)
	ignored := 0

	for _, block := range rawMap.AddressBlocks {
		base := uint64(0)
		if block.BaseAddress != "" {
			value, err := parseWord(block.BaseAddress)
			if err != nil {
				result.Errors = append(result.Errors, db.StructuralError{
					Entity: block.Name,
					Reason: fmt.Sprintf("unparseable base address %q", block.BaseAddress),
				})
				continue
			}
			base = value
		}

		for _, raw := range block.Registers {
			register, err := imp.importRegister(raw, base)
			if err != nil {
				result.Errors = append(result.Errors, err)
				continue
			}
			if len(register.Fields()) == 0 {
				ignored++
				continue
			}
			if err := regSet.AddRegister(register); err != nil {
				result.Errors = append(result.Errors, err)
			}
		}
	}

	regSet.AddressWidth = addressWidthFor(regSet.ByteSize())
	if ignored > 0 {
		imp.logger.Info("Ignored registers that contained no useful fields",
			log.String("set", regSet.Name),
			log.Int("count", ignored))
	}
	return regSet
}

func (imp *Importer) importRegister(raw rawRegister, base uint64) (*db.Register, error) {
	if raw.Name == "" {
		return nil, db.StructuralError{Entity: "register", Reason: "missing name"}
	}
	offset, err := parseWord(raw.AddressOffset)
	if err != nil {
		return nil, db.StructuralError{
			Entity: raw.Name,
			Reason: fmt.Sprintf("unparseable address offset %q", raw.AddressOffset),
		}
	}

	width := imp.options.DataWidth
	if raw.Size != "" {
		size, err := parseWord(raw.Size)
		if err != nil {
			return nil, db.StructuralError{
				Entity: raw.Name,
				Reason: fmt.Sprintf("unparseable size %q", raw.Size),
			}
		}
		width = uint(size)
	}

	register := db.NewRegister(raw.Name, base+offset, width)
	register.Description = normalizeText(raw.Description)

	if raw.Dim != "" {
		dim, err := parseWord(raw.Dim)
		if err != nil {
			return nil, db.StructuralError{
				Entity: raw.Name,
				Reason: fmt.Sprintf("unparseable dim %q", raw.Dim),
			}
		}
		if dim > 1 {
			register.Dimension = uint(dim)
		}
	}

	var registerReset uint64
	hasRegisterReset := false
	if raw.Reset != nil {
		value, err := parseWord(raw.Reset.Value)
		if err == nil {
			registerReset = value
			hasRegisterReset = true
		}
	}

	for _, rawFld := range raw.Fields {
		field, err := imp.importField(rawFld, register.Token)
		if err != nil {
			return nil, err
		}
		if field == nil {
			continue // reserved filler
		}
		if hasRegisterReset && field.ResetType == db.ResetNone {
			field.ResetType = db.ResetNumeric
			field.ResetValue = (registerReset >> field.Start) & maskFor(field.Width())
		}
		if err := register.AddField(field); err != nil {
			return nil, err
		}
	}
	return register, nil
}

// importField converts one field element. A nil result without error means
// the field matched a reserved pattern and was dropped.
func (imp *Importer) importField(raw rawField, registerToken string) (*db.BitField, error) {
	name := strings.ToUpper(strings.TrimSpace(raw.Name))
	if name == "" {
		return nil, db.StructuralError{
			Entity: registerToken,
			Reason: "field with missing name",
		}
	}
	if !imp.options.KeepReserved && imp.isReserved(name) {
		return nil, nil
	}

	offset, err := parseWord(raw.BitOffset)
	if err != nil {
		return nil, db.StructuralError{
			Entity: fmt.Sprintf("%s.%s", registerToken, name),
			Reason: fmt.Sprintf("unparseable bit offset %q", raw.BitOffset),
		}
	}
	width, err := parseWord(raw.BitWidth)
	if err != nil || width == 0 {
		return nil, db.StructuralError{
			Entity: fmt.Sprintf("%s.%s", registerToken, name),
			Reason: fmt.Sprintf("unparseable bit width %q", raw.BitWidth),
		}
	}

	field := db.NewBitField(name, uint(offset), uint(offset+width-1), fieldTypeFor(raw))
	field.Description = normalizeText(raw.Description)
	field.ResetType = db.ResetNone
	field.Volatile = raw.Volatile == "true"

	if raw.Reset != nil {
		value, err := parseWord(raw.Reset.Value)
		if err != nil {
			return nil, db.StructuralError{
				Entity: fmt.Sprintf("%s.%s", registerToken, name),
				Reason: fmt.Sprintf("unparseable reset value %q", raw.Reset.Value),
			}
		}
		field.ResetType = db.ResetNumeric
		field.ResetValue = value
	}
	return field, nil
}

// fieldTypeFor maps IP-XACT access metadata to a field type. A modified
// write value takes precedence over the plain access mode.
func fieldTypeFor(raw rawField) db.FieldType {
	if fieldType, ok := modifiedWriteTypes[raw.ModifiedWriteValue]; ok {
		return fieldType
	}
	if fieldType, ok := accessTypes[raw.Access]; ok {
		return fieldType
	}
	return db.ReadOnly
}

func (imp *Importer) isReserved(name string) bool {
	for _, matcher := range imp.reserved {
		if matcher.MatchString(name) {
			return true
		}
	}
	return false
}

var verilogLiteral = regexp.MustCompile(`^\d+'([hbd])(\S+)$`)

// parseWord parses an address or value literal. C style 0x prefixes,
// plain decimal and Verilog style 32'h literals are accepted.
func parseWord(text string) (uint64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, fmt.Errorf("empty literal")
	}

	if value, err := strconv.ParseUint(text, 0, 64); err == nil {
		return value, nil
	}

	if match := verilogLiteral.FindStringSubmatch(text); match != nil {
		digits := strings.ReplaceAll(match[2], "_", "")
		switch match[1] {
		case "h":
			return strconv.ParseUint(digits, 16, 64)
		case "b":
			return strconv.ParseUint(digits, 2, 64)
		default:
			return strconv.ParseUint(digits, 10, 64)
		}
	}

	// bare hex without prefix is common in reset values
	return strconv.ParseUint(text, 16, 64)
}

// normalizeText collapses white space runs into single spaces.
func normalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func maskFor(width uint) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << width) - 1
}

// addressWidthFor returns the smallest address bus width covering size
// bytes.
func addressWidthFor(size uint64) uint {
	var width uint
	for size > uint64(1)<<width {
		width++
	}
	return width
}
