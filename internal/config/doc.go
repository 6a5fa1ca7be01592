// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package config defines the format-agnostic model of a multi-module
// workspace: the shared build convention, the per-module descriptors, and the
// contracts (Loader, EntryPointResolver, Runnable) that connect a concrete
// configuration format to the rest of the build.
//
// # Core Concepts
//
//   - Settings: the full set of build knobs (language version, preview flags,
//     source layout, compiler and test commands, run arguments). The workspace
//     convention is one Settings value.
//
//   - Overrides: a sparse Settings. Only fields a module explicitly sets are
//     non-nil, and those shadow the convention for that module alone.
//
//   - ModuleDescriptor: one independently buildable unit. It names its
//     dependencies by identifier and may carry a typed EntryPoint whose
//     Runnable was bound when the configuration was loaded.
//
// The model is the single input of the module store and the graph builder.
// Format-specific packages (such as hcl_adapter) only produce it.
package config
