// Package generator drives artifact generation: it turns a project's export
// rules into jobs, runs them on a bounded worker pool and writes each
// artifact atomically.
package generator

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/dallingham/regenerate/internal/db"
	"github.com/dallingham/regenerate/internal/export"
	"github.com/dallingham/regenerate/internal/project"
	"github.com/dallingham/regenerate/internal/render/asmequ"
	"github.com/dallingham/regenerate/internal/render/cdefines"
	"github.com/retroenv/retrogolib/log"
)

// Options configures one generation pass.
type Options struct {
	Force   bool // write artifacts even when they are newer than their sources
	Workers int  // bounded parallelism, defaults to 1
}

// Result is the outcome of one export rule.
type Result struct {
	Rule    project.ExportRule
	Target  string
	Skipped bool
	Err     error
}

// Generator runs the export rules of a loaded project.
type Generator struct {
	logger  *log.Logger
	project *project.Project
	options Options
}

// New creates a generator for a project.
func New(logger *log.Logger, proj *project.Project, options Options) *Generator {
	if options.Workers < 1 {
		options.Workers = 1
	}
	return &Generator{
		logger:  logger,
		project: proj,
		options: options,
	}
}

// Run executes all export rules and returns one result per rule, in rule
// order. A failed rule does not stop the others; the returned error
// summarizes the failures.
func (g *Generator) Run(ctx context.Context) ([]Result, error) {
	rules := g.project.Exports
	results := make([]Result, len(rules))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for worker := 0; worker < g.options.Workers; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				results[index] = g.runRule(ctx, rules[index])
			}
		}()
	}

	for index := range rules {
		select {
		case jobs <- index:
		case <-ctx.Done():
			results[index] = Result{Rule: rules[index], Err: ctx.Err()}
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}

	var failed int
	for _, result := range results {
		if result.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return results, fmt.Errorf("%d of %d artifacts failed", failed, len(rules))
	}
	return results, nil
}

func (g *Generator) runRule(ctx context.Context, rule project.ExportRule) Result {
	result := Result{
		Rule:   rule,
		Target: g.targetPath(rule),
	}
	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	if !g.options.Force && upToDate(result.Target, g.sourcesFor(rule)) {
		g.logger.Debug("artifact up to date",
			log.String("target", result.Target))
		result.Skipped = true
		return result
	}

	renderer, err := newRenderer(rule.Renderer)
	if err != nil {
		result.Err = err
		return result
	}

	view, err := g.buildView(rule)
	if err != nil {
		result.Err = err
		return result
	}

	if err := writeArtifact(result.Target, func(w io.Writer) error {
		return renderer.Render(w, view)
	}); err != nil {
		result.Err = err
		return result
	}

	g.logger.Info("wrote artifact",
		log.String("renderer", rule.Renderer),
		log.String("source", rule.Source),
		log.String("target", result.Target))
	return result
}

// newRenderer maps a renderer identifier to its implementation.
func newRenderer(id string) (export.Renderer, error) {
	switch id {
	case export.CDefines:
		return cdefines.New(), nil
	case export.AsmEqu:
		return asmequ.New(), nil
	default:
		return nil, fmt.Errorf("unsupported renderer '%s'", id)
	}
}

// buildView resolves the rule source, which names either a register set, a
// group or an address map of the project.
func (g *Generator) buildView(rule project.ExportRule) (*export.View, error) {
	options := export.Options{VolatileAll: g.project.VolatileAll}

	if regSet, ok := g.project.Sets[rule.Source]; ok {
		return export.NewSetView(regSet, options)
	}
	if group := g.project.Group(rule.Source); group != nil {
		return export.NewGroupView(group, g.project.Sets, options)
	}
	for _, addressMap := range g.project.Maps {
		if addressMap.Name == rule.Source {
			return export.NewMapView(addressMap, g.project.Groups, g.project.Sets, options)
		}
	}
	return nil, db.StructuralError{
		Entity: rule.Source,
		Reason: "export rule references an unknown set, group or map",
	}
}

// targetPath resolves a rule target relative to the project file.
func (g *Generator) targetPath(rule project.ExportRule) string {
	if filepath.IsAbs(rule.Target) {
		return rule.Target
	}
	return filepath.Join(filepath.Dir(g.project.Path), rule.Target)
}

// sourcesFor returns the files whose modification times invalidate the
// rule's artifact: the project file and every register set document the
// source draws from.
func (g *Generator) sourcesFor(rule project.ExportRule) []string {
	sources := []string{g.project.Path}

	appendSet := func(name string) {
		if path, ok := g.project.SetPaths[name]; ok {
			sources = append(sources, path)
		}
	}

	if _, ok := g.project.Sets[rule.Source]; ok {
		appendSet(rule.Source)
		return sources
	}
	if group := g.project.Group(rule.Source); group != nil {
		for _, entry := range group.Entries {
			appendSet(entry.SetName)
		}
		return sources
	}
	for _, addressMap := range g.project.Maps {
		if addressMap.Name != rule.Source {
			continue
		}
		for _, group := range g.project.Groups {
			if !addressMap.GroupVisible(group.Name) {
				continue
			}
			for _, entry := range group.Entries {
				appendSet(entry.SetName)
			}
		}
	}
	return sources
}

// upToDate reports whether the target exists and is newer than all sources.
func upToDate(target string, sources []string) bool {
	targetInfo, err := os.Stat(target)
	if err != nil {
		return false
	}
	for _, source := range sources {
		sourceInfo, err := os.Stat(source)
		if err != nil {
			return false
		}
		if sourceInfo.ModTime().After(targetInfo.ModTime()) {
			return false
		}
	}
	return true
}

// writeArtifact writes through a temporary file in the target directory and
// renames it into place, so a failed render never leaves partial output.
func writeArtifact(target string, render func(io.Writer) error) error {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(target)+".tmp*")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}

	if err := render(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rendering %s: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("closing temporary file: %w", err)
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replacing %s: %w", target, err)
	}
	return nil
}
