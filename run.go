package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/lambdaed/parinfer/parinfer"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// record is the outcome of processing one source.
type record struct {
	Path    string          `json:"path"    yaml:"path"`
	Mode    parinfer.Mode   `json:"mode"    yaml:"mode"`
	Changed bool            `json:"changed" yaml:"changed"`
	Result  parinfer.Result `json:"result"  yaml:"result"`

	input string
	local bool
}

func processArg(ctx context.Context, arg string, mode parinfer.Mode, opts parinfer.Options) (record, error) {
	src, err := sourceFromArg(ctx, arg)
	if err != nil {
		return record{}, err
	}
	defer src.reader.Close() //nolint:errcheck

	b, err := io.ReadAll(src.reader)
	if err != nil {
		return record{}, fmt.Errorf("could not read %s: %w", src.URL, err)
	}
	return processText(src.URL, string(b), src.local, mode, opts), nil
}

func processText(path, text string, local bool, mode parinfer.Mode, opts parinfer.Options) record {
	res := parinfer.Process(mode, text, opts)
	rec := record{
		Path:    path,
		Mode:    mode,
		Changed: res.Success && res.Text != text,
		Result:  res,
		input:   text,
		local:   local,
	}

	if res.Success {
		log.Debug("Processed source", "path", path, "mode", mode, "size", humanize.Bytes(uint64(len(text))), "changed", rec.Changed)
	} else {
		log.Debug("Could not process source", "path", path, "mode", mode, "error", res.Error.Name)
	}
	return rec
}

// processSources processes every path concurrently, at most workers at a
// time. Records come back in the order of paths.
func processSources(ctx context.Context, paths []string, mode parinfer.Mode, opts parinfer.Options, workers int) ([]record, error) {
	recs := make([]record, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec, err := processArg(ctx, p, mode, opts)
			if err != nil {
				return err
			}
			recs[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return recs, nil
}

func writeRecords(w io.Writer, format string, recs []record) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(recs); err != nil {
			return err
		}
		return enc.Close()
	}

	for i, rec := range recs {
		if !rec.Result.Success {
			continue
		}
		if _, err := io.WriteString(w, rec.Result.Text); err != nil {
			return err
		}
		if i < len(recs)-1 && !endsWithNewline(rec.Result.Text) {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

func endsWithNewline(s string) bool {
	return len(s) > 0 && s[len(s)-1] == '\n'
}

// writeBack replaces a local file with its processed text, keeping its
// permissions.
func writeBack(path, text string) error {
	st, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text), st.Mode().Perm()); err != nil {
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	log.Info("Rewrote source", "path", path)
	return nil
}
