// Package registry holds the Go behaviors that modules can name as their
// entry point. Built-in behaviors live under the top-level modules/ directory
// and add themselves through the Module interface; the configuration loader
// resolves entry-point names against a Registry while it loads, so an unknown
// name is a configuration error rather than a failure halfway through a build.
package registry
