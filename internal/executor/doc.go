// Package executor runs a build plan. Modules whose dependencies all
// succeeded are dispatched to a bounded worker pool; a failure marks every
// transitive dependent skipped and leaves unrelated modules running.
package executor
