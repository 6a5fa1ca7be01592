// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import "slices"

// Model is the unified, format-agnostic representation of a workspace.
type Model struct {
	// Convention is the workspace-wide default Settings. It is the built-in
	// default when no convention block was declared.
	Convention Settings
	// ConventionFile is the file that declared the convention, or "" when the
	// built-in default is in effect.
	ConventionFile string
	// Modules are listed in discovery order (files sorted by path, blocks in
	// source order).
	Modules []*ModuleDescriptor
}

// ModuleDescriptor describes one independently buildable module.
type ModuleDescriptor struct {
	ID string
	// Dir is the directory of the declaring file; relative source dirs and the
	// working directory of every step resolve against it.
	Dir  string
	File string
	// SourceDirs is nil when the module relies on the convention's layout.
	SourceDirs []string
	DependsOn  []string
	// Tests declares a test step for the module.
	Tests      bool
	EntryPoint *EntryPoint
	Overrides  Overrides
}

// EntryPoint is a module's runnable behavior, bound at load time.
type EntryPoint struct {
	Name     string
	Args     []string
	Runnable Runnable
}

// Settings is the complete set of build knobs applied to a module.
type Settings struct {
	LanguageVersion int
	PreviewFeatures bool
	// PreviewFlag is appended to compiler, test, and run arguments when
	// PreviewFeatures is on.
	PreviewFlag   string
	SourceDirs    []string
	Compiler      []string
	CompilerArgs  []string
	TestFramework string
	TestCommand   []string
	TestArgs      []string
	RunArgs       []string
}

// Overrides holds the fields a module sets explicitly. A nil pointer or a nil
// slice means "not set".
type Overrides struct {
	LanguageVersion *int
	PreviewFeatures *bool
	PreviewFlag     *string
	Compiler        []string
	CompilerArgs    []string
	TestFramework   *string
	TestCommand     []string
	TestArgs        []string
	RunArgs         []string
}

// DefaultSettings returns the convention used when a workspace declares none.
func DefaultSettings() Settings {
	return Settings{
		LanguageVersion: 14,
		PreviewFlag:     "--enable-preview",
		SourceDirs:      []string{"src"},
		TestFramework:   "junit-platform",
	}
}

// Clone returns a deep copy of s.
func (s Settings) Clone() Settings {
	out := s
	out.SourceDirs = slices.Clone(s.SourceDirs)
	out.Compiler = slices.Clone(s.Compiler)
	out.CompilerArgs = slices.Clone(s.CompilerArgs)
	out.TestCommand = slices.Clone(s.TestCommand)
	out.TestArgs = slices.Clone(s.TestArgs)
	out.RunArgs = slices.Clone(s.RunArgs)
	return out
}

// IsZero reports whether no override is set.
func (o Overrides) IsZero() bool {
	return o.LanguageVersion == nil &&
		o.PreviewFeatures == nil &&
		o.PreviewFlag == nil &&
		o.Compiler == nil &&
		o.CompilerArgs == nil &&
		o.TestFramework == nil &&
		o.TestCommand == nil &&
		o.TestArgs == nil &&
		o.RunArgs == nil
}

// HasEntryPoint reports whether the module declares an entry point.
func (d *ModuleDescriptor) HasEntryPoint() bool {
	return d.EntryPoint != nil
}
