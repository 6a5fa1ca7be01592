// Package cli is responsible for the command-line interface of gridbuild.
// It turns arguments, environment defaults and an optional .env file into an
// app.Config, runs the requested command, and maps the outcome onto a
// process exit code carried by ExitError.
package cli
