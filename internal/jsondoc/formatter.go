package jsondoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Format formats a document value as pretty-printed JSON with two-space indent
func Format(value any) (string, error) {
	raw, err := marshalValue(value)
	if err != nil {
		return "", fmt.Errorf("failed to format: %w", err)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", fmt.Errorf("failed to format: %w", err)
	}
	return buf.String(), nil
}

// Compact formats a document value as single-line JSON
func Compact(value any) (string, error) {
	raw, err := marshalValue(value)
	if err != nil {
		return "", fmt.Errorf("failed to compact: %w", err)
	}
	return string(raw), nil
}

// Truncate shortens s to at most maxWidth terminal cells, ending in "..."
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 || runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}

	truncated := runewidth.Truncate(s, maxWidth-3, "")

	// Prefer cutting at a structural boundary when it keeps most of the text
	lastGood := strings.LastIndexAny(truncated, " ,{}[]")
	if lastGood > len(truncated)/2 {
		truncated = truncated[:lastGood]
	}

	return truncated + "..."
}

// Literal returns the display text of a scalar. Strings are wrapped in double
// quotes as-is, without escaping. Containers have no literal.
func Literal(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return `"` + val + `"`
	case Number:
		if val == "" {
			return "0"
		}
		return string(val)
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	case *Object, *Array:
		return ""
	default:
		return fmt.Sprint(val)
	}
}

var markupReplacer = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// EscapeMarkup replaces '<' and '>' so text can sit inside markup. Nothing
// else is escaped.
func EscapeMarkup(s string) string {
	return markupReplacer.Replace(s)
}
