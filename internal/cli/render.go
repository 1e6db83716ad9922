package cli

import (
	"fmt"
	"io"

	"github.com/rebeliceyang/lazyjson/internal/export"
	jsonrender "github.com/rebeliceyang/lazyjson/internal/render"
	"github.com/spf13/cobra"
)

func (c *CLI) newRenderCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render the tree as a standalone HTML page",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			src, err := c.readSource(firstArg(args), c.yaml)
			if err != nil {
				return err
			}
			doc, err := src.parse()
			if err != nil {
				return err
			}
			root := jsonrender.Render("", doc, true)
			if c.cfg.Tree.StartCollapsed {
				for _, n := range root.Containers() {
					n.Collapsed = true
				}
			}

			if output == "" {
				page, err := jsonrender.Page(root, src.name)
				if err != nil {
					return fmt.Errorf("failed to render page: %w", err)
				}
				_, err = io.WriteString(c.out, page)
				return err
			}

			if err := export.ExportHTML(root, src.name, output); err != nil {
				return err
			}
			logger.Info("wrote page", "path", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}
