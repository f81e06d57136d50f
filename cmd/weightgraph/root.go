package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/born-ml/weightgraph/internal/config"
	"github.com/spf13/cobra"
)

// app carries state shared by all subcommands.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "weightgraph",
		Short:         "Export trained feed-forward weights as ONNX graphs",
		SilenceUsage:  true, // don't print usage on operational errors
		SilenceErrors: true, // main prints the error
		Long: `weightgraph moves a small feed-forward network between a producer and an
ONNX runtime through two files: an architecture descriptor (JSON or YAML)
and a weight container of raw tensor records.

Every file written is guarded by an advisory lock file named "<file>.lock"
next to it. The lock file is left in place and can be ignored or removed
when no weightgraph process is running.`,
		PersistentPreRunE: a.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML config file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: text or json")

	rootCmd.AddCommand(
		newSerializeCmd(a),
		newExportCmd(a),
		newInspectCmd(a),
		newRunCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// setup loads the config file and applies global flag overrides.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func newLogger(w io.Writer, c config.Log) (*slog.Logger, error) {
	level, err := config.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(c.Format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", c.Format)
	}
}

// stringFlag returns the flag value if set on the command line, else fallback.
func stringFlag(cmd *cobra.Command, name, value, fallback string) string {
	if cmd.Flags().Changed(name) {
		return value
	}
	return fallback
}
