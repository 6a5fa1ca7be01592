// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownEntryPoint is returned when a run block names an entry point
	// that no registered module provides.
	ErrUnknownEntryPoint = errors.New("unknown entry point")
	// ErrDuplicateConvention is returned when more than one convention block
	// is declared across the workspace.
	ErrDuplicateConvention = errors.New("duplicate convention")
)

// UnknownEntryPointError names the module and the unresolved entry point.
type UnknownEntryPointError struct {
	Module string
	Name   string
	File   string
}

func (e *UnknownEntryPointError) Error() string {
	return fmt.Sprintf("%s: module '%s' uses unknown entry point '%s'", e.File, e.Module, e.Name)
}

func (e *UnknownEntryPointError) Unwrap() error { return ErrUnknownEntryPoint }

// DuplicateConventionError names both declaring files.
type DuplicateConventionError struct {
	First  string
	Second string
}

func (e *DuplicateConventionError) Error() string {
	return fmt.Sprintf("convention declared twice: in %s and in %s", e.First, e.Second)
}

func (e *DuplicateConventionError) Unwrap() error { return ErrDuplicateConvention }
