// Package modulestore is the in-memory Module Descriptor Store. It owns every
// config.ModuleDescriptor of a build invocation, rejects duplicate identifiers
// at registration, and hands descriptors out in registration order so that
// diagnostics are reproducible from run to run.
package modulestore
