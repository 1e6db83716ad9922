package jsondoc

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Path addresses a value inside a document. Parts are object keys or decimal
// array indices; the container being indexed decides how a part is read. The
// root is the empty path.
type Path struct {
	Parts []string
}

// Root returns the empty path
func Root() Path {
	return Path{}
}

// NewPath builds a path from parts
func NewPath(parts ...string) Path {
	return Path{Parts: append([]string(nil), parts...)}
}

// IsRoot reports whether p addresses the whole document
func (p Path) IsRoot() bool {
	return len(p.Parts) == 0
}

// Append returns a new path with part added. p is not modified.
func (p Path) Append(part string) Path {
	parts := make([]string, len(p.Parts), len(p.Parts)+1)
	copy(parts, p.Parts)
	return Path{Parts: append(parts, part)}
}

// AppendIndex returns a new path with an array index added
func (p Path) AppendIndex(i int) Path {
	return p.Append(strconv.Itoa(i))
}

// Parent returns the path without its last part. The root is its own parent.
func (p Path) Parent() Path {
	if p.IsRoot() {
		return p
	}
	return NewPath(p.Parts[:len(p.Parts)-1]...)
}

// Last returns the final part, or "" for the root
func (p Path) Last() string {
	if p.IsRoot() {
		return ""
	}
	return p.Parts[len(p.Parts)-1]
}

// Len returns the number of parts
func (p Path) Len() int {
	return len(p.Parts)
}

// Equal reports whether both paths have the same parts
func (p Path) Equal(other Path) bool {
	if len(p.Parts) != len(other.Parts) {
		return false
	}
	for i := range p.Parts {
		if p.Parts[i] != other.Parts[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix addresses p or one of its ancestors
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix.Parts) > len(p.Parts) {
		return false
	}
	for i := range prefix.Parts {
		if p.Parts[i] != prefix.Parts[i] {
			return false
		}
	}
	return true
}

// Key returns the stable address string of the path: its parts encoded as a
// JSON array. The root is "[]".
func (p Path) Key() string {
	if p.IsRoot() {
		return "[]"
	}
	b, err := marshalValue(p.Parts)
	if err != nil {
		// []string always encodes
		return "[]"
	}
	return string(b)
}

// PathFromKey decodes an address string produced by Key
func PathFromKey(key string) (Path, error) {
	var parts []string
	if err := json.Unmarshal([]byte(key), &parts); err != nil {
		return Path{}, fmt.Errorf("invalid address %q: %w", key, err)
	}
	if len(parts) == 0 {
		return Path{}, nil
	}
	return Path{Parts: parts}, nil
}

// String returns the path in $-notation, e.g. $.user.tags[0]["odd key"]
func (p Path) String() string {
	var b strings.Builder
	b.WriteString("$")
	for _, part := range p.Parts {
		switch {
		case isIndex(part):
			b.WriteString("[" + part + "]")
		case isIdentifier(part):
			b.WriteString("." + part)
		default:
			q, _ := marshalValue(part)
			b.WriteString("[" + string(q) + "]")
		}
	}
	return b.String()
}

// ParsePath parses $-notation back into a path. The leading "$" is optional.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")

	var parts []string
	for i := 0; i < len(s); {
		switch s[i] {
		case '.':
			j := i + 1
			for j < len(s) && s[j] != '.' && s[j] != '[' {
				j++
			}
			if j == i+1 {
				return Path{}, fmt.Errorf("invalid path %q: empty key at offset %d", s, i)
			}
			parts = append(parts, s[i+1:j])
			i = j

		case '[':
			if i+1 < len(s) && s[i+1] == '"' {
				dec := json.NewDecoder(strings.NewReader(s[i+1:]))
				var key string
				if err := dec.Decode(&key); err != nil {
					return Path{}, fmt.Errorf("invalid path %q: bad quoted key at offset %d: %w", s, i, err)
				}
				end := i + 1 + int(dec.InputOffset())
				if end >= len(s) || s[end] != ']' {
					return Path{}, fmt.Errorf("invalid path %q: missing ']' at offset %d", s, end)
				}
				parts = append(parts, key)
				i = end + 1
				continue
			}

			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return Path{}, fmt.Errorf("invalid path %q: missing ']' at offset %d", s, i)
			}
			idx := s[i+1 : i+end]
			if !isIndex(idx) {
				return Path{}, fmt.Errorf("invalid path %q: bad index %q", s, idx)
			}
			parts = append(parts, idx)
			i += end + 1

		default:
			return Path{}, fmt.Errorf("invalid path %q: unexpected %q at offset %d", s, s[i], i)
		}
	}

	return Path{Parts: parts}, nil
}

// ParseIndex converts a path part into an array index. Signs, leading zeros
// and non-digits are rejected.
func ParseIndex(part string) (int, bool) {
	if !isIndex(part) {
		return 0, false
	}
	i, err := strconv.Atoi(part)
	if err != nil {
		return 0, false
	}
	return i, true
}

func isIndex(part string) bool {
	if part == "" || (len(part) > 1 && part[0] == '0') {
		return false
	}
	for _, r := range part {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isIdentifier(part string) bool {
	if part == "" {
		return false
	}
	for i, r := range part {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// Resolve walks doc along path and returns the addressed value. Neither doc nor
// path is modified.
func Resolve(doc any, path Path) (any, error) {
	current := doc
	for depth, part := range path.Parts {
		next, err := step(current, part)
		if err != nil {
			return nil, &PathNotFoundError{Path: path, Depth: depth, Reason: err.Error()}
		}
		current = next
	}
	return current, nil
}

// ResolveParent resolves everything but the last part of path and returns that
// container together with the last part. The root has no parent.
func ResolveParent(doc any, path Path) (any, string, error) {
	if path.IsRoot() {
		return nil, "", &PathNotFoundError{Path: path, Depth: 0, Reason: "root has no parent"}
	}

	parent, err := Resolve(doc, path.Parent())
	if err != nil {
		return nil, "", err
	}
	switch parent.(type) {
	case *Object, *Array:
	default:
		return nil, "", &PathNotFoundError{
			Path:   path,
			Depth:  len(path.Parts) - 1,
			Reason: fmt.Sprintf("cannot index into %s", Classify(parent)),
		}
	}
	return parent, path.Last(), nil
}

func step(container any, part string) (any, error) {
	switch c := container.(type) {
	case *Object:
		v, ok := c.Get(part)
		if !ok {
			return nil, fmt.Errorf("key %q not found", part)
		}
		return v, nil
	case *Array:
		idx, ok := ParseIndex(part)
		if !ok {
			return nil, fmt.Errorf("invalid array index %q", part)
		}
		if idx >= c.Len() {
			return nil, fmt.Errorf("array index %d out of range (length %d)", idx, c.Len())
		}
		return c.Items[idx], nil
	default:
		return nil, fmt.Errorf("cannot index into %s", Classify(container))
	}
}

// Paths returns the address of every value in doc, in render order: a
// container comes before its children.
func Paths(doc any) []Path {
	var paths []Path
	collectPaths(doc, Path{}, &paths)
	return paths
}

func collectPaths(value any, current Path, paths *[]Path) {
	*paths = append(*paths, current)

	switch v := value.(type) {
	case *Object:
		v.Each(func(key string, child any) bool {
			collectPaths(child, current.Append(key), paths)
			return true
		})
	case *Array:
		for i, child := range v.Items {
			collectPaths(child, current.AppendIndex(i), paths)
		}
	}
}
