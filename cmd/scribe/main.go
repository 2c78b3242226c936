package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/vito/scribe/pkg/ioctx"
	"github.com/vito/scribe/pkg/scribe"
	"github.com/vito/scribe/pkg/transform"
)

// Config holds the flags shared by every subcommand.
type Config struct {
	Debug      bool
	ConfigPath string
	Transforms []string
}

func main() {
	ctx := context.Background()
	ctx = ioctx.StdinToContext(ctx, os.Stdin)
	ctx = ioctx.StdoutToContext(ctx, os.Stdout)
	ctx = ioctx.StderrToContext(ctx, os.Stderr)
	if err := fang.Execute(ctx, newRootCmd(),
		fang.WithVersion("v0.1.0"),
		fang.WithCommit("dev"),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			_, _ = fmt.Fprintln(w, err.Error())
		}),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg Config

	rootCmd := &cobra.Command{
		Use:   "scribe",
		Short: "Ruby source emitter",
		Long: `Scribe renders ruby_parser s-expression dumps back into formatted Ruby
source, optionally rewriting the tree on the way.`,
		Example: `  # Print the Ruby source for a dump
  scribe emit model.sexp

  # Rewrite for loops into each blocks
  scribe emit --transform eachify model.sexp

  # Convert every dump in a directory to .rb files
  scribe replace ./dumps

  # Show the tree scribe sees
  scribe parse model.sexp`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if cfg.Debug {
				level = slog.LevelDebug
			}
			handler := slog.NewTextHandler(ioctx.StderrFromContext(cmd.Context()), &slog.HandlerOptions{
				Level: level,
			})
			cmd.SetContext(ioctx.LoggerToContext(cmd.Context(), slog.New(handler)))
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&cfg.Debug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&cfg.ConfigPath, "config", "c", "",
		"Path to a "+scribe.ConfigFileName+" file (searched for from the input's directory if not specified)")
	rootCmd.PersistentFlags().StringArrayVarP(&cfg.Transforms, "transform", "t", nil,
		fmt.Sprintf("Rewrite the tree before emitting (repeatable; one of %v)", transform.Names()))

	rootCmd.AddCommand(emitCmd(&cfg))
	rootCmd.AddCommand(replaceCmd(&cfg))
	rootCmd.AddCommand(parseCmd(&cfg))

	return rootCmd
}
