// Package music implements the music library pipeline: directory scanning,
// flat-file persistence, star and collection registries, and filtering.
package music

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	bracketed     = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)`)
	dashRun       = regexp.MustCompile(`-{2,}`)
	spaceRun      = regexp.MustCompile(` {2,}`)
)

// archiveSuffixes are stripped from the end of a directory name during
// title cleaning. Longer suffixes are listed first so ".tar.gz" wins
// over ".gz".
var archiveSuffixes = []string{".tar.gz", ".zip", ".rar", ".7z", ".gz", ".bz2"}

// NormalizePath reduces a filesystem path to the key used by the star and
// collection registries: the basename, lowercased, with whitespace runs
// replaced by underscores. Release paths themselves are never normalized;
// membership tests normalize one side before comparing.
func NormalizePath(path string) string {
	base := filepath.Base(path)
	if base == "/" || base == "." {
		return ""
	}
	base = strings.ToLower(base)
	return whitespaceRun.ReplaceAllString(base, "_")
}

// PathsMatch reports whether two paths normalize to the same key.
func PathsMatch(a, b string) bool {
	return NormalizePath(a) == NormalizePath(b)
}

// CleanTitle turns a directory name into a display title: bracketed
// substrings go, anything after " - " goes, a trailing archive extension
// goes, underscores become spaces, repeated dashes and spaces collapse.
func CleanTitle(name string) string {
	title := bracketed.ReplaceAllString(name, "")

	if idx := strings.Index(title, " - "); idx >= 0 {
		title = title[:idx]
	}

	lower := strings.ToLower(title)
	for _, suffix := range archiveSuffixes {
		if strings.HasSuffix(lower, suffix) {
			title = title[:len(title)-len(suffix)]
			break
		}
	}

	title = strings.ReplaceAll(title, "_", " ")
	title = dashRun.ReplaceAllString(title, "-")
	title = spaceRun.ReplaceAllString(title, " ")

	return strings.TrimSpace(title)
}
