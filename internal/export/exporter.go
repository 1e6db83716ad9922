package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/models"
	"github.com/rebeliceyang/lazyjson/internal/render"
)

// ExportHTML writes the rendered tree as a standalone page
func ExportHTML(root *models.Node, title, path string) error {
	page, err := render.Page(root, title)
	if err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}

	if err := os.WriteFile(path, []byte(page), 0644); err != nil {
		return fmt.Errorf("failed to write HTML file: %w", err)
	}

	return nil
}

// ExportJSON writes a document value as pretty-printed JSON
func ExportJSON(value any, path string) error {
	data, err := jsondoc.Format(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value to JSON: %w", err)
	}

	if err := os.WriteFile(path, []byte(data+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	return nil
}

// ExportPathsCSV writes one row per value in doc: its path, its type label
// and, for scalars, its literal
func ExportPathsCSV(doc any, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)

	if err := writer.Write([]string{"Path", "Type", "Value"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, p := range jsondoc.Paths(doc) {
		value, err := jsondoc.Resolve(doc, p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", p, err)
		}

		row := []string{p.String(), jsondoc.TypeLabel(value), jsondoc.Literal(value)}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
