// Package report renders build reports for people and for machines.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/specialistvlad/gridbuild/internal/executor"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for report files whose extension is neither
// JSON nor YAML.
var ErrUnknownFormat = errors.New("unknown report format")

// Format is a machine-readable report encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the encoding from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// WriteTable prints one row per module, sorted by id, followed by a
// summary line.
func WriteTable(w io.Writer, r *executor.Report) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "MODULE\tSTATUS\tEXIT\tDETAIL")
	for _, res := range r.Results {
		exit := "-"
		if res.ExitCode >= 0 {
			exit = strconv.Itoa(res.ExitCode)
		}
		detail := res.Detail
		if detail == "" {
			detail = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", res.Module, res.Status, exit, firstLine(detail))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, Summary(r))
	return err
}

// Summary is the one-line tally of a report.
func Summary(r *executor.Report) string {
	s, f, k := r.Counts()
	noun := "modules"
	if len(r.Results) == 1 {
		noun = "module"
	}
	return fmt.Sprintf("%d %s: %d succeeded, %d failed, %d skipped", len(r.Results), noun, s, f, k)
}

// Encode writes r in the given format.
func Encode(w io.Writer, format Format, r *executor.Report) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

// WriteFile saves r to path, choosing the format from the extension.
func WriteFile(path string, r *executor.Report) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	if err := Encode(f, format, r); err != nil {
		f.Close()
		return fmt.Errorf("writing report file: %w", err)
	}
	return f.Close()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
