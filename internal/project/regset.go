// Package project loads and saves the JSON documents driving generation:
// register set documents and the project file naming sets, groups, address
// maps and export rules.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/dallingham/regenerate/internal/db"
)

// setDocument is the JSON shape of a register set document.
type setDocument struct {
	Name         string        `json:"name"`
	Title        string        `json:"title,omitempty"`
	Description  string        `json:"description,omitempty"`
	DataWidth    uint          `json:"data_width"`
	AddressWidth uint          `json:"address_width"`
	Registers    []registerDoc `json:"registers"`
}

type registerDoc struct {
	Token       string     `json:"token"`
	Name        string     `json:"name,omitempty"`
	Description string     `json:"description,omitempty"`
	Address     string     `json:"address"`
	Width       uint       `json:"width"`
	Dimension   uint       `json:"dimension,omitempty"`
	RAMSize     uint64     `json:"ram_size,omitempty"`
	Share       string     `json:"share,omitempty"`
	NoCode      bool       `json:"no_code,omitempty"`
	DoNotTest   bool       `json:"do_not_test,omitempty"`
	Fields      []fieldDoc `json:"fields"`
}

type fieldDoc struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Start       uint   `json:"start"`
	Stop        uint   `json:"stop"`
	Type        string `json:"type"`
	ResetType   string `json:"reset_type,omitempty"`
	ResetValue  uint64 `json:"reset_value,omitempty"`
	ResetInput  string `json:"reset_input,omitempty"`
	Volatile    bool   `json:"volatile,omitempty"`

	InputSignal   string `json:"input_signal,omitempty"`
	OutputSignal  string `json:"output_signal,omitempty"`
	ControlSignal string `json:"control_signal,omitempty"`
}

// LoadRegisterSet reads a register set document.
func LoadRegisterSet(path string) (*db.RegisterSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading register set document: %w", err)
	}

	var doc setDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing register set document %s: %w", path, err)
	}
	return decodeSet(doc)
}

func decodeSet(doc setDocument) (*db.RegisterSet, error) {
	regSet := db.NewRegisterSet(doc.Name, doc.DataWidth, doc.AddressWidth)
	regSet.Title = doc.Title
	regSet.Description = doc.Description

	for _, regDoc := range doc.Registers {
		register, err := decodeRegister(regDoc)
		if err != nil {
			return nil, err
		}
		if err := regSet.AddRegister(register); err != nil {
			return nil, err
		}
	}

	if err := regSet.Validate(); err != nil {
		return nil, err
	}
	return regSet, nil
}

func decodeRegister(doc registerDoc) (*db.Register, error) {
	address, err := parseAddress(doc.Address)
	if err != nil {
		return nil, db.StructuralError{
			Entity: doc.Token,
			Reason: fmt.Sprintf("unparseable address %q", doc.Address),
		}
	}

	register := db.NewRegister(doc.Token, address, doc.Width)
	if doc.Name != "" {
		register.Name = doc.Name
	}
	register.Description = doc.Description
	if doc.Dimension > 1 {
		register.Dimension = doc.Dimension
	}
	register.RAMSize = doc.RAMSize
	register.NoCodeGeneration = doc.NoCode
	register.DoNotTest = doc.DoNotTest

	switch doc.Share {
	case "", "none":
		register.Share = db.ShareNone
	case "read":
		register.Share = db.ShareRead
	case "write":
		register.Share = db.ShareWrite
	default:
		return nil, db.StructuralError{
			Entity: doc.Token,
			Reason: fmt.Sprintf("unknown share mode %q", doc.Share),
		}
	}

	for _, fldDoc := range doc.Fields {
		field, err := decodeField(fldDoc, doc.Token)
		if err != nil {
			return nil, err
		}
		if err := register.AddField(field); err != nil {
			return nil, err
		}
	}
	return register, nil
}

func decodeField(doc fieldDoc, registerToken string) (*db.BitField, error) {
	fieldType, ok := db.FieldTypeFromID(doc.Type)
	if !ok {
		return nil, db.StructuralError{
			Entity: fmt.Sprintf("%s.%s", registerToken, doc.Name),
			Reason: fmt.Sprintf("unknown field type %q", doc.Type),
		}
	}

	field := db.NewBitField(doc.Name, doc.Start, doc.Stop, fieldType)
	field.Description = doc.Description
	field.ResetValue = doc.ResetValue
	field.ResetInput = doc.ResetInput
	field.Volatile = doc.Volatile
	field.SetInputSignal(doc.InputSignal)
	field.SetOutputSignal(doc.OutputSignal)
	field.SetControlSignal(doc.ControlSignal)

	switch doc.ResetType {
	case "", "numeric":
		field.ResetType = db.ResetNumeric
	case "input":
		field.ResetType = db.ResetInput
	case "none":
		field.ResetType = db.ResetNone
	default:
		return nil, db.StructuralError{
			Entity: fmt.Sprintf("%s.%s", registerToken, doc.Name),
			Reason: fmt.Sprintf("unknown reset type %q", doc.ResetType),
		}
	}
	return field, nil
}

// SaveRegisterSet writes a register set document, used by the import tool
// to persist recovered structure.
func SaveRegisterSet(path string, regSet *db.RegisterSet) error {
	doc := encodeSet(regSet)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding register set document: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing register set document: %w", err)
	}
	return nil
}

func encodeSet(regSet *db.RegisterSet) setDocument {
	doc := setDocument{
		Name:         regSet.Name,
		Title:        regSet.Title,
		Description:  regSet.Description,
		DataWidth:    regSet.DataWidth,
		AddressWidth: regSet.AddressWidth,
	}

	for _, register := range regSet.Registers() {
		regDoc := registerDoc{
			Token:       register.Token,
			Name:        register.Name,
			Description: register.Description,
			Address:     fmt.Sprintf("0x%x", register.Address),
			Width:       register.Width,
			RAMSize:     register.RAMSize,
			Share:       register.Share.String(),
			NoCode:      register.NoCodeGeneration,
			DoNotTest:   register.DoNotTest,
		}
		if regDoc.Share == "none" {
			regDoc.Share = ""
		}
		if register.Dimension > 1 {
			regDoc.Dimension = register.Dimension
		}

		for _, field := range register.Fields() {
			fldDoc := fieldDoc{
				Name:        field.Name,
				Description: field.Description,
				Start:       field.Start,
				Stop:        field.Stop,
				Type:        field.Type.String(),
				ResetValue:  field.ResetValue,
				ResetInput:  field.ResetInput,
				Volatile:    field.Volatile,

				InputSignal:   field.InputSignal(),
				ControlSignal: field.ControlSignal(),
			}
			switch field.ResetType {
			case db.ResetInput:
				fldDoc.ResetType = "input"
			case db.ResetNone:
				fldDoc.ResetType = "none"
			}
			regDoc.Fields = append(regDoc.Fields, fldDoc)
		}
		doc.Registers = append(doc.Registers, regDoc)
	}
	return doc
}

func parseAddress(text string) (uint64, error) {
	return strconv.ParseUint(text, 0, 64)
}
