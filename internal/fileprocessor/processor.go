// Package fileprocessor handles the import and generation workflows
package fileprocessor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dallingham/regenerate/internal/db"
	"github.com/dallingham/regenerate/internal/generator"
	"github.com/dallingham/regenerate/internal/grouping"
	"github.com/dallingham/regenerate/internal/importer"
	"github.com/dallingham/regenerate/internal/options"
	"github.com/dallingham/regenerate/internal/project"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// ProcessProject loads a project and generates all of its artifacts.
func ProcessProject(ctx context.Context, logger *log.Logger, opts options.Program) error {
	proj, err := project.Load(opts.Project)
	if err != nil {
		return fmt.Errorf("loading project: %w", err)
	}
	logger.Debug("Loaded project",
		log.String("name", proj.Name),
		log.Int("sets", len(proj.Sets)),
		log.Int("exports", len(proj.Exports)))

	gen := generator.New(logger, proj, generator.Options{
		Force:   opts.Force,
		Workers: opts.Workers,
	})

	results, err := gen.Run(ctx)
	for _, result := range results {
		if result.Err != nil {
			logger.Error("Generation failed",
				log.String("source", result.Rule.Source),
				log.String("target", result.Target),
				log.Err(result.Err))
		}
	}
	return err
}

// ProcessImport reads a foreign register description, recovers array and
// repeating block structure and writes register set documents plus a
// project document into the output directory.
func ProcessImport(logger *log.Logger, opts options.Program) error {
	file, err := os.Open(opts.Import)
	if err != nil {
		return fmt.Errorf("opening import file: %w", err)
	}
	defer func() { _ = file.Close() }()

	importOptions := importer.DefaultOptions()
	importOptions.KeepReserved = opts.KeepReserved

	imp, err := importer.New(logger, importOptions)
	if err != nil {
		return err
	}
	result, err := imp.Import(file)
	if err != nil {
		return fmt.Errorf("importing '%s': %w", opts.Import, err)
	}
	for _, skipped := range result.Errors {
		logger.Warn("Skipped malformed entity", log.Err(skipped))
	}

	if err := os.MkdirAll(opts.Output, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	proj := &project.Project{
		Name:     projectName(result.Title, opts.Import),
		Path:     filepath.Join(opts.Output, "project.json"),
		Sets:     map[string]*db.RegisterSet{},
		SetPaths: map[string]string{},
	}

	for _, regSet := range result.Sets {
		sets, group, err := recoverStructure(regSet, opts.Boundary)
		if err != nil {
			return fmt.Errorf("recovering structure of %s: %w", regSet.Name, err)
		}
		if group != nil {
			proj.Groups = append(proj.Groups, group)
		}

		for _, out := range sets {
			path := filepath.Join(opts.Output, out.Name+".json")
			if err := project.SaveRegisterSet(path, out); err != nil {
				return err
			}
			proj.Sets[out.Name] = out
			proj.SetPaths[out.Name] = path
			logger.Info("Wrote register set document",
				log.String("set", out.Name),
				log.String("file", path))
		}
	}

	if err := project.Save(proj.Path, proj); err != nil {
		return err
	}
	logger.Info("Wrote project document", log.String("file", proj.Path))
	return nil
}

// recoverStructure folds array elements and, when a block boundary is
// given, splits repeating blocks into their own register sets referenced
// by a group with repeat counts. Without repetition the set stays whole.
func recoverStructure(regSet *db.RegisterSet, boundary uint64) ([]*db.RegisterSet, *db.Group, error) {
	registers := grouping.FoldArrays(regSet.Registers())

	if boundary == 0 {
		folded, err := rebuildSet(regSet, regSet.Name, regSet.AddressWidth, registers)
		if err != nil {
			return nil, nil, err
		}
		return []*db.RegisterSet{folded}, nil, nil
	}

	blocks, err := grouping.Detect(registers, boundary)
	if err != nil {
		return nil, nil, err
	}

	repeats := false
	for _, block := range blocks {
		if block.Repeat > 1 {
			repeats = true
			break
		}
	}
	if !repeats {
		folded, err := rebuildSet(regSet, regSet.Name, regSet.AddressWidth, registers)
		if err != nil {
			return nil, nil, err
		}
		return []*db.RegisterSet{folded}, nil, nil
	}

	group := &db.Group{Name: regSet.Name}
	var sets []*db.RegisterSet
	blockIndex := 0

	for _, block := range blocks {
		var sub *db.RegisterSet
		var entry db.GroupEntry

		if block.Repeat > 1 {
			blockIndex++
			name := fmt.Sprintf("%s_blk%d", regSet.Name, blockIndex)
			for _, register := range block.Registers {
				register.Address -= block.Base
			}
			sub, err = rebuildSet(regSet, name, addressWidthFor(boundary), block.Registers)
			entry = db.GroupEntry{
				SetName: name,
				Inst:    name,
				Offset:  block.Base,
				Repeat:  block.Repeat,
				Stride:  boundary,
			}
		} else {
			// rebase the leftover to its lowest address so its resolved
			// range does not cover the repeated blocks below it
			offset := block.Registers[0].Address
			align := uint64(1)
			for _, register := range block.Registers {
				if register.Address < offset {
					offset = register.Address
				}
				if register.ByteWidth() > align {
					align = register.ByteWidth()
				}
			}
			// keep every register aligned to its own width after rebasing
			offset -= offset % align
			for _, register := range block.Registers {
				register.Address -= offset
			}
			sub, err = rebuildSet(regSet, regSet.Name, regSet.AddressWidth, block.Registers)
			entry = db.GroupEntry{SetName: regSet.Name, Inst: regSet.Name, Offset: offset}
		}
		if err != nil {
			return nil, nil, err
		}

		group.Entries = append(group.Entries, entry)
		sets = append(sets, sub)
	}
	return sets, group, nil
}

func rebuildSet(src *db.RegisterSet, name string, addressWidth uint,
	registers []*db.Register) (*db.RegisterSet, error) {

	out := db.NewRegisterSet(name, src.DataWidth, addressWidth)
	out.Title = src.Title
	out.Description = src.Description
	for _, register := range registers {
		if err := out.AddRegister(register); err != nil {
			return nil, err
		}
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// addressWidthFor returns the smallest address width covering a byte size.
func addressWidthFor(size uint64) uint {
	var width uint
	for uint64(1)<<width < size {
		width++
	}
	return width
}

func projectName(title, importPath string) string {
	if title != "" {
		return title
	}
	base := filepath.Base(importPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// PrintBanner prints the program banner
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}
	logger.Info("regenerate", log.String("version", buildinfo.Version(version, commit, date)))
}
