// Package dag builds and validates the module dependency graph and derives
// the deterministic build plan from it.
package dag
