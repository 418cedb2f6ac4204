// Package main implements the main entry point for a register specification compiler
package main

import (
	"context"
	"errors"
	"os"

	"github.com/dallingham/regenerate/internal/cli"
	"github.com/dallingham/regenerate/internal/config"
	"github.com/dallingham/regenerate/internal/fileprocessor"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			fileprocessor.PrintBanner(logger, opts, version, commit, date)
			usageErr.ShowUsage()
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	fileprocessor.PrintBanner(logger, opts, version, commit, date)

	if opts.Import != "" {
		if err := fileprocessor.ProcessImport(logger, opts); err != nil {
			logger.Fatal("Import failed", log.Err(err))
		}
		return
	}

	if err := fileprocessor.ProcessProject(ctx, logger, opts); err != nil {
		// handle context cancellation (Ctrl+C) gracefully
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Fatal("Generation failed", log.Err(err))
	}
}
