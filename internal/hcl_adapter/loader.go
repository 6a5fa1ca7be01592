// Package hcl_adapter loads gridbuild workspaces written in HCL and
// translates them into the format-agnostic config model.
package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/gridbuild/internal/config"
	"github.com/specialistvlad/gridbuild/internal/ctxlog"
	"github.com/specialistvlad/gridbuild/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	entryPoints config.EntryPointResolver
}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL configuration loader. Entry points named in
// run blocks are looked up in entryPoints; a nil resolver leaves them
// unbound.
func NewLoader(entryPoints config.EntryPointResolver) *Loader {
	return &Loader{entryPoints: entryPoints}
}

type parsedFile struct {
	path string
	root fileRoot
}

// Load reads every .hcl file under paths. The convention is decoded first so
// that module blocks in any file can reference it.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := fsutil.CollectFiles(".hcl", paths...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	parsed := make([]parsedFile, 0, len(hclFiles))
	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		parsed = append(parsed, parsedFile{path: file, root: root})
	}

	model := &config.Model{Convention: config.DefaultSettings()}
	if err := l.loadConvention(ctx, parsed, model); err != nil {
		return nil, err
	}

	evalCtx := moduleEvalContext(model.Convention)
	for _, pf := range parsed {
		for _, mb := range pf.root.Modules {
			d, err := l.translateModule(ctx, pf.path, mb, evalCtx)
			if err != nil {
				return nil, err
			}
			model.Modules = append(model.Modules, d)
		}
	}

	logger.Debug("HCL loading complete.", "modules", len(model.Modules), "convention_file", model.ConventionFile)
	return model, nil
}

func (l *Loader) loadConvention(ctx context.Context, parsed []parsedFile, model *config.Model) error {
	logger := ctxlog.FromContext(ctx)
	var block *conventionBlock
	for _, pf := range parsed {
		for _, cb := range pf.root.Conventions {
			if block != nil {
				return &config.DuplicateConventionError{First: model.ConventionFile, Second: pf.path}
			}
			block = cb
			model.ConventionFile = pf.path
		}
	}
	if block == nil {
		logger.Debug("No convention block found, using defaults.")
		return nil
	}

	var body settingsBody
	if diags := gohcl.DecodeBody(block.Body, conventionEvalContext(), &body); diags.HasErrors() {
		return fmt.Errorf("failed to decode convention in %s: %w", model.ConventionFile, diags)
	}
	model.Convention = applyConvention(model.Convention, &body)
	logger.Debug("Convention loaded.", "file", model.ConventionFile, "language_version", model.Convention.LanguageVersion)
	return nil
}
