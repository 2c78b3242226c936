package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"
	"github.com/vito/scribe/pkg/ioctx"
	"github.com/vito/scribe/pkg/transform"
	"golang.org/x/sync/errgroup"
)

const dumpExt = ".sexp"

var (
	failedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true) // red
	pathStyle   = lipgloss.NewStyle().Bold(true)
	reasonStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // gray
)

func replaceCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "replace [path...]",
		Short: "Write the Ruby source for dumps to disk",
		Long: `Replace emits every dump it is given and writes the result to disk.
A file ending in .sexp is written next to itself with a .rb extension; any
other file is overwritten. Directories are expanded to the .sexp files they
contain.

Files are processed concurrently. A file that fails to read or emit is
reported and left alone, and the command exits non-zero.`,
		Example: `  # Convert a single dump
  scribe replace model.sexp

  # Convert every dump in a directory
  scribe replace ./dumps`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplace(cmd.Context(), *cfg, args)
		},
	}
}

type replaceResult struct {
	path string
	err  error
}

func runReplace(ctx context.Context, cfg Config, paths []string) error {
	logger := ioctx.LoggerFromContext(ctx)

	if _, err := transform.New(cfg.Transforms...); err != nil {
		return err
	}

	files, err := collectDumps(paths)
	if err != nil {
		return err
	}

	results := make([]replaceResult, len(files))
	eg := new(errgroup.Group)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range files {
		eg.Go(func() error {
			results[i] = replaceResult{path: file, err: replaceFile(ctx, cfg, file)}
			return nil
		})
	}
	_ = eg.Wait()

	stderr := ioctx.StderrFromContext(ctx)
	failed := 0
	for _, res := range results {
		if res.err == nil {
			continue
		}
		failed++
		fmt.Fprintf(stderr, "%s %s %s\n",
			failedStyle.Render("✗"),
			pathStyle.Render(res.path),
			reasonStyle.Render(res.err.Error()))
	}

	logger.Debug("replace finished", "files", len(files), "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

func replaceFile(ctx context.Context, cfg Config, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	emitter, err := loadEmitter(ctx, cfg, filepath.Dir(path))
	if err != nil {
		return err
	}
	pre, err := transform.New(cfg.Transforms...)
	if err != nil {
		return err
	}

	out, err := emitter.Format(src, pre)
	if err != nil {
		return err
	}

	dest := outputPath(path)
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(dest, []byte(out+"\n"), mode); err != nil {
		return err
	}

	ioctx.LoggerFromContext(ctx).Debug("wrote", "src", path, "dest", dest)
	return nil
}

func outputPath(path string) string {
	if strings.HasSuffix(path, dumpExt) {
		return strings.TrimSuffix(path, dumpExt) + ".rb"
	}
	return path
}

// collectDumps expands directories to the dumps directly inside them.
func collectDumps(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("accessing %s: %w", path, err)
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", path, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && strings.HasSuffix(entry.Name(), dumpExt) {
				files = append(files, filepath.Join(path, entry.Name()))
			}
		}
	}
	return files, nil
}
