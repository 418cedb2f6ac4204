// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/dallingham/regenerate/internal/options"
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Import == "") {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	normalizeOptions(&opts)

	if len(args) > 0 {
		opts.Project = args[0]
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: regenerate [options] <project file>\n")
	fmt.Printf("       regenerate -import <register description> [options]\n\n")
	e.flags.PrintDefaults()
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after the project file, please pass the project file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes option values
func normalizeOptions(opts *options.Program) {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Output == "" {
		opts.Output = "."
	}
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Import, "import", "", "name of a foreign register description file (IP-XACT) to import")
	flags.StringVar(&opts.Output, "o", "", "output directory for imported register set documents")
	flags.Uint64Var(&opts.Boundary, "block", 0, "power of two address boundary for repeating block detection on import, 0 disables it")
	flags.BoolVar(&opts.KeepReserved, "keep-reserved", false, "keep reserved placeholder fields when importing")
	flags.BoolVar(&opts.Force, "f", false, "write artifacts even when they are newer than their sources")
	flags.IntVar(&opts.Workers, "j", 1, "number of parallel generation jobs")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
