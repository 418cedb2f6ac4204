package db

// FieldTypeInfo describes the physical implementation contract of a field
// type. Every renderer derives its per-field decisions from this table and
// nothing else, so hardware, verification and documentation outputs cannot
// disagree about a field's behavior.
type FieldTypeInfo struct {
	Type        FieldType
	ID          string // shorthand notation, e.g. "RW1S"
	Description string

	Input    bool // field has an external input signal
	Control  bool // field has a load/control signal
	OneShot  bool // field emits a one cycle pulse after a qualifying access
	DataOut  bool // field drives a data output signal
	ReadQual bool // field needs a read strobe qualifier (side effect on read)
	ReadOnly bool
	SimpleAccess string // access class with input/output detail removed: RO, RW, W1C, W1S, WO
}

// WriteOnly reports whether the field accepts writes but is not readable.
func (i FieldTypeInfo) WriteOnly() bool {
	return i.Type == WriteOnly
}

// Access returns the externally visible access mode string.
func (i FieldTypeInfo) Access() string {
	switch {
	case i.ReadOnly:
		return "RO"
	case i.WriteOnly():
		return "WO"
	default:
		return "RW"
	}
}

var fieldTypes = [fieldTypeCount]FieldTypeInfo{
	ReadOnly: {
		Type: ReadOnly, ID: "RO", DataOut: true, ReadOnly: true,
		SimpleAccess: "RO", Description: "Read Only",
	},
	ReadOnlyValue: {
		Type: ReadOnlyValue, ID: "ROV", Input: true, ReadOnly: true,
		SimpleAccess: "RO", Description: "Read Only, value continuously assigned",
	},
	ReadOnlyLoad: {
		Type: ReadOnlyLoad, ID: "ROLD", Input: true, Control: true, DataOut: true, ReadOnly: true,
		SimpleAccess: "RO", Description: "Read Only, value loaded on control signal",
	},
	ReadOnlyValueOneShot: {
		Type: ReadOnlyValueOneShot, ID: "RV1S", Input: true, OneShot: true, DataOut: true, ReadQual: true, ReadOnly: true,
		SimpleAccess: "RO", Description: "Read Only, value continuously assigned, one shot on read",
	},
	ReadOnlyClearLoad: {
		Type: ReadOnlyClearLoad, ID: "RCLD", Input: true, Control: true, DataOut: true, ReadQual: true, ReadOnly: true,
		SimpleAccess: "RO", Description: "Read Only, value loaded on control signal, cleared on read",
	},
	ReadWrite: {
		Type: ReadWrite, ID: "RW", DataOut: true,
		SimpleAccess: "RW", Description: "Read/Write",
	},
	ReadWriteOneShot: {
		Type: ReadWriteOneShot, ID: "RW1S", OneShot: true, DataOut: true,
		SimpleAccess: "RW", Description: "Read/Write, one shot on any write",
	},
	ReadWriteOneShotOne: {
		Type: ReadWriteOneShotOne, ID: "RW1S1", OneShot: true, DataOut: true,
		SimpleAccess: "RW", Description: "Read/Write, one shot on write of 1",
	},
	ReadWriteLoad: {
		Type: ReadWriteLoad, ID: "RWLD", Input: true, Control: true, DataOut: true,
		SimpleAccess: "RW", Description: "Read/Write, value loaded on control signal",
	},
	ReadWriteLoadOneShot: {
		Type: ReadWriteLoadOneShot, ID: "RWLD1S", Input: true, Control: true, OneShot: true, DataOut: true,
		SimpleAccess: "RW", Description: "Read/Write, value loaded on control signal, one shot on any write",
	},
	ReadWriteLoadOneShotOne: {
		Type: ReadWriteLoadOneShotOne, ID: "RWLD1S1", Input: true, Control: true, OneShot: true, DataOut: true,
		SimpleAccess: "RW", Description: "Read/Write, value loaded on control signal, one shot on write of 1",
	},
	ReadWriteSet: {
		Type: ReadWriteSet, ID: "RWS", Input: true, DataOut: true,
		SimpleAccess: "RW", Description: "Read/Write, bits set on input signal",
	},
	ReadWriteSetOneShot: {
		Type: ReadWriteSetOneShot, ID: "RWS1S", Input: true, OneShot: true, DataOut: true,
		SimpleAccess: "RW", Description: "Read/Write, bits set on input signal, one shot on any write",
	},
	ReadWriteSetOneShotOne: {
		Type: ReadWriteSetOneShotOne, ID: "RWS1S1", Input: true, OneShot: true, DataOut: true,
		SimpleAccess: "RW", Description: "Read/Write, bits set on input signal, one shot on write of 1",
	},
	ReadWriteClear: {
		Type: ReadWriteClear, ID: "RWC", Input: true, DataOut: true,
		SimpleAccess: "RW", Description: "Read/Write, bits cleared on input signal",
	},
	ReadWriteClearOneShot: {
		Type: ReadWriteClearOneShot, ID: "RWC1S", Input: true, OneShot: true, DataOut: true,
		SimpleAccess: "RW", Description: "Read/Write, bits cleared on input signal, one shot on any write",
	},
	ReadWriteClearOneShotOne: {
		Type: ReadWriteClearOneShotOne, ID: "RWC1S1", Input: true, OneShot: true, DataOut: true,
		SimpleAccess: "RW", Description: "Read/Write, bits cleared on input signal, one shot on write of 1",
	},
	Write1ToClearSet: {
		Type: Write1ToClearSet, ID: "W1CS", Input: true, DataOut: true,
		SimpleAccess: "W1C", Description: "Write 1 to Clear, bits set on input signal",
	},
	Write1ToClearSetOneShot: {
		Type: Write1ToClearSetOneShot, ID: "W1CS1S", Input: true, OneShot: true, DataOut: true,
		SimpleAccess: "W1C", Description: "Write 1 to Clear, bits set on input signal, one shot on any write",
	},
	Write1ToClearSetOneShotOne: {
		Type: Write1ToClearSetOneShotOne, ID: "W1CS1S1", Input: true, OneShot: true, DataOut: true,
		SimpleAccess: "W1C", Description: "Write 1 to Clear, bits set on input signal, one shot on write of 1",
	},
	Write1ToClearLoad: {
		Type: Write1ToClearLoad, ID: "W1CLD", Input: true, Control: true, DataOut: true,
		SimpleAccess: "W1C", Description: "Write 1 to Clear, value loaded on control signal",
	},
	Write1ToClearLoadOneShot: {
		Type: Write1ToClearLoadOneShot, ID: "W1CLD1S", Input: true, Control: true, OneShot: true, DataOut: true,
		SimpleAccess: "W1C", Description: "Write 1 to Clear, value loaded on control signal, one shot on any write",
	},
	Write1ToClearLoadOneShotOne: {
		Type: Write1ToClearLoadOneShotOne, ID: "W1CLD1S1", Input: true, Control: true, OneShot: true, DataOut: true,
		SimpleAccess: "W1C", Description: "Write 1 to Clear, value loaded on control signal, one shot on write of 1",
	},
	Write1ToSet: {
		Type: Write1ToSet, ID: "W1S", Input: true, DataOut: true,
		SimpleAccess: "W1S", Description: "Write 1 to Set, clear on input signal",
	},
	Write1ToSetOneShot: {
		Type: Write1ToSetOneShot, ID: "W1S1S", Input: true, OneShot: true, DataOut: true,
		SimpleAccess: "W1S", Description: "Write 1 to Set, one shot on any write, clear on input signal",
	},
	Write1ToSetOneShotOne: {
		Type: Write1ToSetOneShotOne, ID: "W1S1S1", Input: true, OneShot: true, DataOut: true,
		SimpleAccess: "W1S", Description: "Write 1 to Set, one shot on write of 1, clear on input signal",
	},
	WriteOnly: {
		Type: WriteOnly, ID: "WO", DataOut: true,
		SimpleAccess: "WO", Description: "Write Only",
	},
	ReadWriteResetOnComplement: {
		Type: ReadWriteResetOnComplement, ID: "RWRC", DataOut: true,
		SimpleAccess: "RW", Description: "Read/Write, reset on write of complement",
	},
	ReadWriteProtect: {
		Type: ReadWriteProtect, ID: "RWPR", Control: true, DataOut: true,
		SimpleAccess: "RW", Description: "Read/Write, read only while control signal set",
	},
	ReadWriteProtectOneShot: {
		Type: ReadWriteProtectOneShot, ID: "RWPR1S", Control: true, OneShot: true, DataOut: true,
		SimpleAccess: "RW", Description: "Read/Write, read only while control signal set, one shot on any valid write",
	},
	Write1ToClearSetSoftClear: {
		Type: Write1ToClearSetSoftClear, ID: "W1CSC", Input: true, Control: true, DataOut: true,
		SimpleAccess: "W1C", Description: "Write 1 to Clear, bits set on input signal, soft clear",
	},
}

var idToFieldType = buildIDIndex()

func buildIDIndex() map[string]FieldType {
	index := make(map[string]FieldType, len(fieldTypes))
	for _, info := range fieldTypes {
		index[info.ID] = info.Type
	}
	return index
}

// LookupFieldType returns the implementation contract for a field type.
func LookupFieldType(t FieldType) (FieldTypeInfo, bool) {
	if t < 0 || t >= fieldTypeCount {
		return FieldTypeInfo{}, false
	}
	return fieldTypes[t], true
}

// FieldTypeFromID resolves a shorthand ID like "RWLD1S" to its field type.
func FieldTypeFromID(id string) (FieldType, bool) {
	t, ok := idToFieldType[id]
	return t, ok
}

// FieldTypeInfos returns all table entries in enum order.
func FieldTypeInfos() []FieldTypeInfo {
	infos := make([]FieldTypeInfo, len(fieldTypes))
	copy(infos, fieldTypes[:])
	return infos
}
