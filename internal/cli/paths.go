package cli

import (
	"fmt"

	"github.com/rebeliceyang/lazyjson/internal/export"
	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/spf13/cobra"
)

func (c *CLI) newPathsCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "paths [file]",
		Short: "List the path of every value",
		Long:  `List the path of every value in render order. With -o, write a CSV of path, type and value instead.`,
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

			if output != "" {
				if err := export.ExportPathsCSV(doc, output); err != nil {
					return err
				}
				logger.Info("wrote paths", "file", output)
				return nil
			}

			for _, p := range jsondoc.Paths(doc) {
				if _, err := fmt.Fprintln(c.out, p); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write CSV to this file")
	return cmd
}
