// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import (
	"context"
	"io"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads every configuration file found under the given paths and
	// translates them into the format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// EntryPointResolver binds entry-point names written in configuration to the
// Go behavior registered under that name.
type EntryPointResolver interface {
	Lookup(name string) (Runnable, bool)
}

// Invocation is everything a Runnable receives when a module is run.
type Invocation struct {
	Module   string
	Dir      string
	Args     []string
	Settings Settings
	Stdout   io.Writer
	Stderr   io.Writer
}

// Runnable is the behavior a module exposes through its entry point. The
// returned exit code is recorded in the module's build result; a non-nil
// error means the behavior could not be started at all.
type Runnable interface {
	Run(ctx context.Context, inv Invocation) (int, error)
}

// RunnableFunc adapts a plain function to the Runnable interface.
type RunnableFunc func(ctx context.Context, inv Invocation) (int, error)

// Run implements Runnable.
func (f RunnableFunc) Run(ctx context.Context, inv Invocation) (int, error) {
	return f(ctx, inv)
}
