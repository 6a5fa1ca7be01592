// Package convention applies the workspace-wide build convention to each
// module. The convention is captured once, by value, when the Resolver is
// created; Resolve never mutates it, so concurrent workers can share one
// Resolver without locking.
package convention

import (
	"path/filepath"
	"slices"

	"github.com/specialistvlad/gridbuild/internal/config"
)

// Resolver computes effective module settings.
type Resolver struct {
	convention config.Settings
}

// New captures a private copy of conv.
func New(conv config.Settings) *Resolver {
	return &Resolver{convention: conv.Clone()}
}

// Convention returns a copy of the captured convention.
func (r *Resolver) Convention() config.Settings {
	return r.convention.Clone()
}

// Resolve returns the convention overlaid by every field the descriptor sets
// explicitly. Source dirs are returned as absolute paths rooted at the
// module's directory. When preview features are on, the preview flag is
// appended to the compiler, test, and run arguments.
func (r *Resolver) Resolve(d *config.ModuleDescriptor) config.Settings {
	eff := r.convention.Clone()
	o := d.Overrides

	if d.SourceDirs != nil {
		eff.SourceDirs = slices.Clone(d.SourceDirs)
	}
	if o.LanguageVersion != nil {
		eff.LanguageVersion = *o.LanguageVersion
	}
	if o.PreviewFeatures != nil {
		eff.PreviewFeatures = *o.PreviewFeatures
	}
	if o.PreviewFlag != nil {
		eff.PreviewFlag = *o.PreviewFlag
	}
	if o.Compiler != nil {
		eff.Compiler = slices.Clone(o.Compiler)
	}
	if o.CompilerArgs != nil {
		eff.CompilerArgs = slices.Clone(o.CompilerArgs)
	}
	if o.TestFramework != nil {
		eff.TestFramework = *o.TestFramework
	}
	if o.TestCommand != nil {
		eff.TestCommand = slices.Clone(o.TestCommand)
	}
	if o.TestArgs != nil {
		eff.TestArgs = slices.Clone(o.TestArgs)
	}
	if o.RunArgs != nil {
		eff.RunArgs = slices.Clone(o.RunArgs)
	}

	for i, dir := range eff.SourceDirs {
		if !filepath.IsAbs(dir) {
			eff.SourceDirs[i] = filepath.Join(d.Dir, dir)
		}
	}

	if eff.PreviewFeatures && eff.PreviewFlag != "" {
		eff.CompilerArgs = appendOnce(eff.CompilerArgs, eff.PreviewFlag)
		eff.TestArgs = appendOnce(eff.TestArgs, eff.PreviewFlag)
		eff.RunArgs = appendOnce(eff.RunArgs, eff.PreviewFlag)
	}
	return eff
}

func appendOnce(args []string, flag string) []string {
	if slices.Contains(args, flag) {
		return args
	}
	return append(args, flag)
}
