package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"
	"github.com/vito/scribe/pkg/ioctx"
	"github.com/vito/scribe/pkg/scribe"
	"github.com/vito/scribe/pkg/sexp"
	"github.com/vito/scribe/pkg/transform"
)

func emitCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:     "emit [file]",
		Aliases: []string{"cat"},
		Short:   "Print the Ruby source for an s-expression dump",
		Long: `Emit reads a ruby_parser s-expression dump and prints formatted Ruby
source to stdout. With no file, or with "-", the dump is read from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return runEmit(cmd.Context(), *cfg, path)
		},
	}
}

func parseCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file]",
		Short: "Dump the tree read from an s-expression dump",
		Long: `Parse reads a ruby_parser s-expression dump and prints the typed tree
the emitter works on, after any transforms.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return runParse(cmd.Context(), *cfg, path)
		},
	}
}

func runEmit(ctx context.Context, cfg Config, path string) error {
	src, err := readInput(ctx, path)
	if err != nil {
		return err
	}

	emitter, err := loadEmitter(ctx, cfg, inputDir(path))
	if err != nil {
		return err
	}
	pre, err := transform.New(cfg.Transforms...)
	if err != nil {
		return err
	}

	out, err := emitter.Format(src, pre)
	if err != nil {
		return fmt.Errorf("%s: %w", displayName(path), err)
	}

	_, err = fmt.Fprintln(ioctx.StdoutFromContext(ctx), out)
	return err
}

func runParse(ctx context.Context, cfg Config, path string) error {
	src, err := readInput(ctx, path)
	if err != nil {
		return err
	}
	pre, err := transform.New(cfg.Transforms...)
	if err != nil {
		return err
	}

	node, err := sexp.Parse(src)
	if err != nil {
		return fmt.Errorf("%s: %w", displayName(path), err)
	}
	node = pre.Process(node)

	_, err = pretty.Fprintf(ioctx.StdoutFromContext(ctx), "%# v\n", node)
	return err
}

// loadEmitter builds an emitter from --config, or from the nearest config
// file above dir.
func loadEmitter(ctx context.Context, cfg Config, dir string) (*scribe.Emitter, error) {
	logger := ioctx.LoggerFromContext(ctx)

	if cfg.ConfigPath != "" {
		config, err := scribe.LoadConfig(cfg.ConfigPath)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded config", "path", cfg.ConfigPath)
		return scribe.New(config), nil
	}

	path, config, err := scribe.FindConfig(dir)
	if err != nil {
		return nil, err
	}
	if path != "" {
		logger.Debug("found config", "path", path)
	}
	return scribe.New(config), nil
}

func readInput(ctx context.Context, path string) ([]byte, error) {
	if path == "-" {
		src, err := io.ReadAll(ioctx.StdinFromContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return src, nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return src, nil
}

func inputDir(path string) string {
	if path == "-" {
		return "."
	}
	return filepath.Dir(path)
}

func displayName(path string) string {
	if path == "-" {
		return "<stdin>"
	}
	return path
}
