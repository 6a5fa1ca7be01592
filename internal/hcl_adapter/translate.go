package hcl_adapter

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/gridbuild/internal/config"
	"github.com/specialistvlad/gridbuild/internal/ctxlog"
)

// applyConvention overlays every attribute set in b onto base.
func applyConvention(base config.Settings, b *settingsBody) config.Settings {
	if b.LanguageVersion != nil {
		base.LanguageVersion = *b.LanguageVersion
	}
	if b.PreviewFeatures != nil {
		base.PreviewFeatures = *b.PreviewFeatures
	}
	if b.PreviewFlag != nil {
		base.PreviewFlag = *b.PreviewFlag
	}
	if b.SourceDirs != nil {
		base.SourceDirs = *b.SourceDirs
	}
	if b.Compiler != nil {
		base.Compiler = *b.Compiler
	}
	if b.CompilerArgs != nil {
		base.CompilerArgs = *b.CompilerArgs
	}
	if b.TestFramework != nil {
		base.TestFramework = *b.TestFramework
	}
	if b.TestCommand != nil {
		base.TestCommand = *b.TestCommand
	}
	if b.TestArgs != nil {
		base.TestArgs = *b.TestArgs
	}
	if b.RunArgs != nil {
		base.RunArgs = *b.RunArgs
	}
	return base
}

// translateOverrides converts an overrides block. An empty list stays
// distinct from an omitted attribute.
func translateOverrides(b *settingsBody) config.Overrides {
	var o config.Overrides
	if b == nil {
		return o
	}
	o.LanguageVersion = b.LanguageVersion
	o.PreviewFeatures = b.PreviewFeatures
	o.PreviewFlag = b.PreviewFlag
	o.TestFramework = b.TestFramework
	o.Compiler = nonNil(b.Compiler)
	o.CompilerArgs = nonNil(b.CompilerArgs)
	o.TestCommand = nonNil(b.TestCommand)
	o.TestArgs = nonNil(b.TestArgs)
	o.RunArgs = nonNil(b.RunArgs)
	return o
}

func nonNil(p *[]string) []string {
	if p == nil {
		return nil
	}
	if *p == nil {
		return []string{}
	}
	return *p
}

// translateModule decodes one module block into a descriptor. The entry
// point, when declared, is bound through the loader's resolver.
func (l *Loader) translateModule(ctx context.Context, file string, mb *moduleBlock, evalCtx *hcl.EvalContext) (*config.ModuleDescriptor, error) {
	logger := ctxlog.FromContext(ctx).With("module", mb.ID)
	logger.Debug("Translating HCL module to internal config model.")

	var body moduleBody
	if diags := gohcl.DecodeBody(mb.Body, evalCtx, &body); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode module '%s' in %s: %w", mb.ID, file, diags)
	}
	if body.Overrides != nil && body.Overrides.SourceDirs != nil {
		return nil, fmt.Errorf("%s: module '%s': source_dirs belongs on the module block, not in overrides", file, mb.ID)
	}

	d := &config.ModuleDescriptor{
		ID:         mb.ID,
		Dir:        filepath.Dir(file),
		File:       file,
		SourceDirs: nonNil(body.SourceDirs),
		DependsOn:  body.DependsOn,
		Overrides:  translateOverrides(body.Overrides),
	}
	if body.Tests != nil {
		d.Tests = *body.Tests
	}

	if body.Run != nil {
		ep := &config.EntryPoint{Name: body.Run.EntryPoint, Args: body.Run.Args}
		if l.entryPoints != nil {
			rn, ok := l.entryPoints.Lookup(ep.Name)
			if !ok {
				return nil, &config.UnknownEntryPointError{Module: mb.ID, Name: ep.Name, File: file}
			}
			ep.Runnable = rn
		}
		d.EntryPoint = ep
		logger.Debug("Entry point bound.", "entry_point", ep.Name)
	}

	if !d.Overrides.IsZero() {
		logger.Debug("Module overrides the convention.")
	}
	return d, nil
}
