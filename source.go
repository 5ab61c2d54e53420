package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/lambdaed/parinfer/utils"
	"github.com/muesli/gitcha"
)

// source provides a readable Lisp source.
type source struct {
	reader io.ReadCloser
	URL    string
	local  bool
}

// sourceFromArg parses an argument and creates a readable source for it.
func sourceFromArg(ctx context.Context, arg string) (*source, error) {
	// from stdin
	if arg == "-" {
		return &source{reader: os.Stdin, URL: "-"}, nil
	}

	// HTTP(S) URLs:
	if isURL(arg) {
		u, err := url.ParseRequestURI(arg)
		if err != nil {
			return nil, err
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, fmt.Errorf("%s is not a supported protocol", u.Scheme)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		// consumer of the source is responsible for closing the ReadCloser.
		resp, err := http.DefaultClient.Do(req) // nolint:bodyclose
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("HTTP status %d", resp.StatusCode)
		}
		return &source{reader: resp.Body, URL: u.String()}, nil
	}

	// a file:
	r, err := os.Open(arg)
	if err != nil {
		return nil, err
	}
	return &source{reader: r, URL: arg, local: true}, nil
}

func isURL(path string) bool {
	_, err := url.ParseRequestURI(path)
	return err == nil && strings.Contains(path, "://")
}

// expandArgs resolves the command line arguments into the list of sources to
// process. Directories are searched for files with one of the given
// extensions; everything else is passed through. Order is kept and
// duplicates are dropped.
func expandArgs(args, exts []string) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, arg := range args {
		if arg == "-" || isURL(arg) {
			add(arg)
			continue
		}

		p := utils.ExpandPath(arg)
		st, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !st.IsDir() {
			add(p)
			continue
		}

		found, err := findLispFiles(p, exts)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}
	return out, nil
}

var ignorePatterns = []string{
	"node_modules",
	".*",
}

// findLispFiles searches dir for Lisp sources, honoring .gitignore files.
// The returned paths are rooted at dir as given.
func findLispFiles(dir string, exts []string) ([]string, error) {
	// results come back absolute; they are made relative to dir again below
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	ch, err := gitcha.FindFilesExcept(abs, utils.GlobPatterns(exts), ignorePatterns)
	if err != nil {
		return nil, fmt.Errorf("could not search %s: %w", dir, err)
	}

	var files []string
	for res := range ch {
		rel, err := filepath.Rel(abs, res.Path)
		if err != nil {
			files = append(files, res.Path)
			continue
		}
		files = append(files, filepath.Join(dir, rel))
	}
	slices.Sort(files)
	return files, nil
}
