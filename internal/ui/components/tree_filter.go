package components

import (
	"strings"

	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/models"
)

// SearchQuery represents a parsed search query
type SearchQuery struct {
	Pattern    string       // The search pattern (after removing prefix/type)
	Negate     bool         // True if query starts with !
	TypeFilter jsondoc.Kind // Kind filter, empty for any
}

type typePrefix struct {
	prefix string
	kind   jsondoc.Kind
}

// Long prefixes come first so "null:" is not read as "n:" plus "ull:"
var typePrefixes = []typePrefix{
	{"object:", jsondoc.KindObject},
	{"array:", jsondoc.KindArray},
	{"string:", jsondoc.KindString},
	{"number:", jsondoc.KindNumber},
	{"boolean:", jsondoc.KindBoolean},
	{"bool:", jsondoc.KindBoolean},
	{"null:", jsondoc.KindNull},
	{"o:", jsondoc.KindObject},
	{"a:", jsondoc.KindArray},
	{"s:", jsondoc.KindString},
	{"n:", jsondoc.KindNumber},
	{"b:", jsondoc.KindBoolean},
}

// ParseSearchQuery parses a search query string into structured form
// Examples:
//   - "name" → {Pattern: "name", Negate: false, TypeFilter: ""}
//   - "!test" → {Pattern: "test", Negate: true, TypeFilter: ""}
//   - "s:http" → {Pattern: "http", Negate: false, TypeFilter: "string"}
//   - "!n:42" → {Pattern: "42", Negate: true, TypeFilter: "number"}
func ParseSearchQuery(query string) SearchQuery {
	q := SearchQuery{}

	if strings.HasPrefix(query, "!") {
		q.Negate = true
		query = query[1:]
	}

	queryLower := strings.ToLower(query)
	for _, tp := range typePrefixes {
		if strings.HasPrefix(queryLower, tp.prefix) {
			q.TypeFilter = tp.kind
			query = query[len(tp.prefix):]
			break
		}
	}

	q.Pattern = query
	return q
}

// FuzzyMatch performs fuzzy subsequence matching
// Returns whether the pattern matches and the positions of matched characters
// Matching is case-insensitive
func FuzzyMatch(pattern, target string) (bool, []int) {
	if pattern == "" {
		return true, []int{}
	}

	patternLower := strings.ToLower(pattern)
	targetLower := strings.ToLower(target)

	positions := make([]int, 0, len(pattern))
	patternIdx := 0

	for i := 0; i < len(targetLower) && patternIdx < len(patternLower); i++ {
		if targetLower[i] == patternLower[patternIdx] {
			positions = append(positions, i)
			patternIdx++
		}
	}

	if patternIdx == len(patternLower) {
		return true, positions
	}
	return false, nil
}

// NodeMatchesType checks if a node matches the given kind filter
// Empty filter matches all nodes
func NodeMatchesType(node *models.Node, typeFilter jsondoc.Kind) bool {
	return typeFilter == "" || node.Kind == typeFilter
}

// searchText is what a pattern is matched against: the key, and the literal
// for scalars
func searchText(node *models.Node) string {
	if node.IsContainer() {
		return node.Key
	}
	return node.Key + " " + node.Literal
}

// FilterTree filters the tree based on search query
// Returns a flat list of matching nodes in document order. The root never
// matches.
func FilterTree(root *models.Node, query SearchQuery) []*models.Node {
	var matches []*models.Node

	var traverse func(node *models.Node)
	traverse = func(node *models.Node) {
		if node == nil {
			return
		}

		if !node.IsRoot {
			typeMatches := NodeMatchesType(node, query.TypeFilter)

			patternMatches := true
			if query.Pattern != "" {
				patternMatches, _ = FuzzyMatch(query.Pattern, searchText(node))
			}

			shouldInclude := false
			if query.Negate {
				if query.TypeFilter != "" && !typeMatches {
					shouldInclude = true
				} else if typeMatches && !patternMatches {
					shouldInclude = true
				}
			} else {
				shouldInclude = typeMatches && patternMatches
			}

			if shouldInclude {
				matches = append(matches, node)
			}
		}

		// Always traverse children, collapsed or not
		for _, child := range node.Children {
			traverse(child)
		}
	}

	traverse(root)
	return matches
}
