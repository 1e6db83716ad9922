package cli

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	zone "github.com/lrstanley/bubblezone"
	"github.com/rebeliceyang/lazyjson/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view [file]",
		Short: "Open the interactive tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), firstArg(args))
		},
	}
}

func (c *CLI) runView(ctx context.Context, file string) error {
	src, err := c.readSource(file, c.yaml)
	if err != nil {
		return err
	}
	doc, err := src.parse()
	if err != nil {
		return err
	}

	// the terminal belongs to the UI, so only a log file receives output
	logger := log.New(io.Discard)
	if c.logFile != nil {
		logger = loggerFromContext(ctx)
	}
	logger.Info("opening document", "source", src.name, "bytes", len(src.data))

	zone.NewGlobal()
	a := app.New(c.cfg, doc, app.WithLogger(logger), app.WithSource(src.name))

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if c.cfg.UI.MouseEnabled {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	if usesStdin(file) {
		// stdin carried the document; keys come from the terminal
		opts = append(opts, tea.WithInputTTY())
	}

	p := tea.NewProgram(a, opts...)
	a.SetSender(p.Send)

	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
