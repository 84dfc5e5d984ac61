// Package cli provides the command-line interface for prism.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/prism/internal/colour"
	"github.com/jmylchreest/prism/internal/config"
	"github.com/jmylchreest/prism/internal/version"
)

// app carries state shared by all subcommands of one root command.
type app struct {
	verbose  bool
	quiet    bool
	logLevel string
	logJSON  bool
	envFile  string
	noColour bool

	cfg    config.Config
	logger hclog.Logger
}

// NewRootCmd builds the prism command tree.
func NewRootCmd() *cobra.Command {
	a := &app{logger: hclog.NewNullLogger()}

	rootCmd := &cobra.Command{
		Use:   "prism",
		Short: "Dominant colour and palette extraction",
		Long: `prism extracts the dominant colours of an image and derives a four-colour
design palette (primary, secondary, complementary and accent) from them.

Images can be read from local files, HTTP(S) URLs or standard input, and the
same pipeline is available over HTTP with 'prism serve'.`,
		Version:           version.Short(),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&a.logJSON, "log-json", false, "write logs as JSON")
	rootCmd.PersistentFlags().BoolVar(&a.noColour, "no-colour", false, "disable colour swatches (NO_COLOR is also honoured)")
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", "", "read PRISM_* settings from this file (default: .env if present)")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newAnalyseCmd(a))
	rootCmd.AddCommand(newPaletteCmd(a))
	rootCmd.AddCommand(newConvertCmd(a))
	rootCmd.AddCommand(newServeCmd(a))

	return rootCmd
}

// Execute runs the root command, cancelling its context on SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// setup resolves configuration and builds the logger before any subcommand.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("log-json") {
		cfg.LogJSON = a.logJSON
	}
	switch {
	case a.quiet:
		cfg.LogLevel = "error"
	case a.verbose:
		cfg.LogLevel = "debug"
	}

	level := hclog.LevelFromString(cfg.LogLevel)
	if level == hclog.NoLevel {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	colour.DisableColourOutput = a.noColour

	a.cfg = cfg
	a.logger = newLogger(cmd.ErrOrStderr(), level, cfg.LogJSON)
	a.logger.Trace("configuration resolved", "env_file", a.envFile, "quantization", cfg.Quantization, "max_dimension", cfg.MaxDimension)
	return nil
}

func newLogger(w io.Writer, level hclog.Level, json bool) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:       "prism",
		Level:      level,
		Output:     w,
		JSONFormat: json,
	})
}

func newVersionCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), version.GetInfo())
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print version information as JSON")
	return cmd
}
