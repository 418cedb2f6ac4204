package db

// FieldType identifies the hardware semantics of a bit field. The set is
// closed, every value has an entry in the field type table.
type FieldType int

const (
	ReadOnly FieldType = iota
	ReadOnlyValue
	ReadOnlyLoad
	ReadOnlyClearLoad
	ReadOnlyValueOneShot
	ReadWrite
	ReadWriteOneShot
	ReadWriteOneShotOne
	ReadWriteLoad
	ReadWriteLoadOneShot
	ReadWriteLoadOneShotOne
	ReadWriteSet
	ReadWriteSetOneShot
	ReadWriteSetOneShotOne
	ReadWriteClear
	ReadWriteClearOneShot
	ReadWriteClearOneShotOne
	Write1ToClearSet
	Write1ToClearSetOneShot
	Write1ToClearSetOneShotOne
	Write1ToClearLoad
	Write1ToClearLoadOneShot
	Write1ToClearLoadOneShotOne
	Write1ToSet
	Write1ToSetOneShot
	Write1ToSetOneShotOne
	WriteOnly
	ReadWriteResetOnComplement
	ReadWriteProtect
	ReadWriteProtectOneShot
	Write1ToClearSetSoftClear

	fieldTypeCount
)

// String returns the short ID of the field type.
func (t FieldType) String() string {
	info, ok := LookupFieldType(t)
	if !ok {
		return "UNKNOWN"
	}
	return info.ID
}

// ResetType describes how the reset value of a field is supplied.
type ResetType int

const (
	ResetNumeric ResetType = iota // fixed numeric value
	ResetInput                    // driven by an input signal
	ResetNone
)

// ShareType describes how a register shares its address. A shared address
// pairs a read-half register with a write-half register, their fields may
// overlap in bit position.
type ShareType int

const (
	ShareNone ShareType = iota
	ShareRead
	ShareWrite
)

func (s ShareType) String() string {
	switch s {
	case ShareRead:
		return "read"
	case ShareWrite:
		return "write"
	default:
		return "none"
	}
}
