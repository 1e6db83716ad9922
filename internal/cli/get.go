package cli

import (
	"fmt"

	"github.com/rebeliceyang/lazyjson/internal/export"
	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/spf13/cobra"
)

func (c *CLI) newGetCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get [file] <path>",
		Short: "Print the value at a path such as $.users[0].name",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			file, expr := "", args[0]
			if len(args) == 2 {
				file, expr = args[0], args[1]
			}

			path, err := jsondoc.ParsePath(expr)
			if err != nil {
				return fmt.Errorf("invalid path %q: %w", expr, err)
			}

			src, err := c.readSource(file, c.yaml)
			if err != nil {
				return err
			}
			doc, err := src.parse()
			if err != nil {
				return err
			}
			value, err := jsondoc.Resolve(doc, path)
			if err != nil {
				return err
			}

			if output != "" {
				if err := export.ExportJSON(value, output); err != nil {
					return err
				}
				logger.Info("wrote value", "path", path, "file", output)
				return nil
			}

			text, err := jsondoc.Format(value)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.out, text)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}
