package toolchain

import (
	"path/filepath"
	"strconv"
	"strings"
)

const sourceDirsPlaceholder = "{source_dirs}"

// Expand substitutes module placeholders in argv. An argument that is
// exactly {source_dirs} becomes one argument per source dir; embedded in
// other text the dirs are joined with the OS path list separator.
func Expand(argv []string, u Unit) []string {
	r := strings.NewReplacer(
		"{module}", u.Module,
		"{dir}", u.Dir,
		"{version}", strconv.Itoa(u.Settings.LanguageVersion),
		"{framework}", u.Settings.TestFramework,
		sourceDirsPlaceholder, strings.Join(u.Settings.SourceDirs, string(filepath.ListSeparator)),
	)

	out := make([]string, 0, len(argv))
	for _, arg := range argv {
		if arg == sourceDirsPlaceholder {
			out = append(out, u.Settings.SourceDirs...)
			continue
		}
		out = append(out, r.Replace(arg))
	}
	return out
}
