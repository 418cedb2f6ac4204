// Package options contains the program options.
package options

// Parameters contains file path options.
type Parameters struct {
	Project string // project file to generate artifacts from
	Import  string // foreign register description file to import
	Output  string // output directory for imported documents
}

// Flags contains behavior options.
type Flags struct {
	Force        bool   // write artifacts even when they are up to date
	Workers      int    // parallel generation jobs
	KeepReserved bool   // keep reserved placeholder fields on import
	Boundary     uint64 // repeating block boundary for import, 0 disables detection
	Debug        bool
	Quiet        bool
}

// Program options of the register compiler.
type Program struct {
	Parameters
	Flags
}
