// Package cmd implements the xgxctx command line tool.
package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	xgxcontext "github.com/xgx-io/xgx-context"
	"github.com/xgx-io/xgx-context/config"
	"github.com/xgx-io/xgx-context/slogctx"
)

// Version is set at build time with -ldflags "-X ...cmd.Version=v1.2.3".
var Version = "dev"

type rootOptions struct {
	cfgFile   string
	verbose   bool
	logFormat string
}

// NewRootCmd builds the command tree. Every call returns an independent
// tree, so tests can run commands side by side.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "xgxctx",
		Short: "Inspect and exercise xgx-context call stack annotations",
		Long: `xgxctx works with xgx-context, a library that attaches values to call
stack frames and turns errors into annotated call stacks.

Commands:
  demo         - run a small layered failure and report its Context
  config show  - print the effective configuration
  version      - print the version`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (TOML or YAML); defaults and environment only when empty")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "log format: text or json")

	root.AddCommand(newDemoCmd(opts), newConfigCmd(opts), newVersionCmd())
	return root
}

// Execute runs the command tree against os.Args and prints any failure.
func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		printError(root.ErrOrStderr(), "xgxctx", err)
		return err
	}
	return nil
}

// loadConfig resolves the configuration the flags point at.
func (o *rootOptions) loadConfig() (xgxcontext.Config, error) {
	if o.cfgFile != "" {
		return config.Load(o.cfgFile)
	}
	cfg := xgxcontext.DefaultConfig()
	if err := config.ApplyEnv(&cfg, ""); err != nil {
		return xgxcontext.Config{}, err
	}
	return cfg, cfg.Validate()
}

func (o *rootOptions) logger(w io.Writer) (*slog.Logger, error) {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level, ReplaceAttr: slogctx.ReplaceAttr}
	switch o.logFormat {
	case "text", "":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	default:
		return nil, xgxcontext.New(fmt.Sprintf("unknown log format %q", o.logFormat), "log_format", o.logFormat).
			Code(xgxcontext.CodeInvalidArgument)
	}
}

func printError(w io.Writer, msg string, err error) {
	fmt.Fprintf(w, "Error: %s: %v\n", msg, err)
}
