// Package cli implements the lazyjson command-line interface.
//
// The root command opens the interactive tree. Subcommands serve the tree to
// a browser, render it to a static page, resolve a single path, and list
// every path in a document. All commands read a file argument or, given "-"
// or nothing, standard input.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/rebeliceyang/lazyjson/internal/config"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// CLI holds the streams and global flags shared by every command
type CLI struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	verbose    bool
	yaml       bool
	configFile string

	cfg     *config.Config
	logFile *os.File
}

// New creates a CLI reading documents from in and writing results to out.
// Logs go to errOut unless log.file is configured.
func New(in io.Reader, out, errOut io.Writer) *CLI {
	return &CLI{in: in, out: out, errOut: errOut}
}

// RootCommand builds the command tree
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "lazyjson [file]",
		Short:         "Explore JSON as a collapsible tree",
		Long:          `lazyjson shows a JSON (or YAML) document as an interactive tree where values can be copied, deleted, edited and, for URLs, previewed.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			c.teardown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), firstArg(args))
		},
	}

	root.SetIn(c.in)
	root.SetOut(c.out)
	root.SetErr(c.errOut)
	root.SetVersionTemplate(fmt.Sprintf("lazyjson %s\ncommit: %s\nbuilt: %s\n", version, commit, date))

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.BoolVar(&c.yaml, "yaml", false, "parse input as YAML")
	flags.StringVarP(&c.configFile, "config", "c", "", "config file (default: user config dir)")

	root.AddCommand(c.newViewCmd())
	root.AddCommand(c.newServeCmd())
	root.AddCommand(c.newRenderCmd())
	root.AddCommand(c.newGetCmd())
	root.AddCommand(c.newPathsCmd())

	return root
}

// setup loads the config and attaches a logger to the command context
func (c *CLI) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := parseLevel(cfg.Log.Level)
	if c.verbose {
		level = log.DebugLevel
	}

	var w io.Writer = c.errOut
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		c.logFile = f
		w = f
	}

	cmd.SetContext(withLogger(cmd.Context(), newLogger(w, level)))
	return nil
}

func (c *CLI) teardown() {
	if c.logFile != nil {
		_ = c.logFile.Close()
		c.logFile = nil
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
