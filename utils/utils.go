package utils

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// Expands tilde and all environment variables from the given path.
func ExpandPath(path string) string {
	s, err := homedir.Expand(path)
	if err == nil {
		return os.ExpandEnv(s)
	}
	return os.ExpandEnv(path)
}

// DefaultLispExtensions are the file extensions treated as Lisp sources when
// none are configured.
var DefaultLispExtensions = []string{
	".clj", ".cljs", ".cljc", ".edn", ".bb",
	".lisp", ".lsp", ".cl", ".asd",
	".el", ".scm", ".ss", ".rkt",
	".fnl", ".janet", ".hy", ".lfe",
}

// NormalizeExtensions lowercases extensions and makes sure each one starts
// with a dot. Empty entries and duplicates are dropped.
func NormalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if !slices.Contains(out, e) {
			out = append(out, e)
		}
	}
	return out
}

// IsLispFile returns whether the filename has one of the given extensions.
func IsLispFile(filename string, exts []string) bool {
	ext := filepath.Ext(filename)
	if ext == "" {
		return false
	}
	for _, v := range exts {
		if strings.EqualFold(ext, v) {
			return true
		}
	}
	return false
}

// GlobPatterns turns extensions into the patterns used to search
// directories, e.g. ".clj" becomes "*.clj".
func GlobPatterns(exts []string) []string {
	patterns := make([]string, len(exts))
	for i, e := range exts {
		patterns[i] = "*" + e
	}
	return patterns
}
