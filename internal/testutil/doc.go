// Package testutil holds helpers shared by gridbuild tests: an in-memory
// workspace writer, a captured logger, and fakes for the toolchain and for
// entry points.
package testutil
