package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
)

// stdinName is the file argument that selects standard input
const stdinName = "-"

// source is raw document input and how to parse it
type source struct {
	name string // display name: the base file name or "stdin"
	data []byte
	yaml bool
}

// readSource reads file, or standard input when file is empty or "-". YAML
// is chosen by forceYAML or a .yaml/.yml extension.
func (c *CLI) readSource(file string, forceYAML bool) (source, error) {
	src := source{yaml: forceYAML}

	if file == "" || file == stdinName {
		data, err := io.ReadAll(c.in)
		if err != nil {
			return source{}, fmt.Errorf("failed to read stdin: %w", err)
		}
		src.name = "stdin"
		src.data = data
		return src, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return source{}, fmt.Errorf("failed to read %s: %w", file, err)
	}
	src.name = filepath.Base(file)
	src.data = data

	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		src.yaml = true
	}
	return src, nil
}

// parse returns a fresh document each call
func (s source) parse() (any, error) {
	var (
		doc any
		err error
	)
	if s.yaml {
		doc, err = jsondoc.ParseYAML(s.data)
	} else {
		doc, err = jsondoc.Parse(s.data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.name, err)
	}
	return doc, nil
}

// usesStdin reports whether file selects standard input
func usesStdin(file string) bool {
	return file == "" || file == stdinName
}
