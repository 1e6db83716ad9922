package components

import (
	"strings"
	"testing"

	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/models"
	"github.com/rebeliceyang/lazyjson/internal/render"
)

func TestParseSearchQuery_Simple(t *testing.T) {
	q := ParseSearchQuery("tag")

	if q.Pattern != "tag" {
		t.Errorf("expected pattern 'tag', got '%s'", q.Pattern)
	}
	if q.Negate {
		t.Error("expected Negate=false")
	}
	if q.TypeFilter != "" {
		t.Errorf("expected empty TypeFilter, got '%s'", q.TypeFilter)
	}
}

func TestParseSearchQuery_Negate(t *testing.T) {
	q := ParseSearchQuery("!test")

	if q.Pattern != "test" {
		t.Errorf("expected pattern 'test', got '%s'", q.Pattern)
	}
	if !q.Negate {
		t.Error("expected Negate=true")
	}
}

func TestParseSearchQuery_Prefixes(t *testing.T) {
	tests := []struct {
		query   string
		kind    jsondoc.Kind
		pattern string
	}{
		{"o:user", jsondoc.KindObject, "user"},
		{"object:user", jsondoc.KindObject, "user"},
		{"a:tags", jsondoc.KindArray, "tags"},
		{"array:tags", jsondoc.KindArray, "tags"},
		{"s:http", jsondoc.KindString, "http"},
		{"String:http", jsondoc.KindString, "http"},
		{"n:42", jsondoc.KindNumber, "42"},
		{"number:42", jsondoc.KindNumber, "42"},
		{"b:true", jsondoc.KindBoolean, "true"},
		{"bool:true", jsondoc.KindBoolean, "true"},
		{"boolean:true", jsondoc.KindBoolean, "true"},
		{"null:", jsondoc.KindNull, ""},
		{"null:x", jsondoc.KindNull, "x"},
	}

	for _, tt := range tests {
		q := ParseSearchQuery(tt.query)
		if q.TypeFilter != tt.kind {
			t.Errorf("%q: expected TypeFilter '%s', got '%s'", tt.query, tt.kind, q.TypeFilter)
		}
		if q.Pattern != tt.pattern {
			t.Errorf("%q: expected pattern '%s', got '%s'", tt.query, tt.pattern, q.Pattern)
		}
	}
}

func TestParseSearchQuery_NegateWithType(t *testing.T) {
	q := ParseSearchQuery("!n:4")

	if q.Pattern != "4" {
		t.Errorf("expected pattern '4', got '%s'", q.Pattern)
	}
	if !q.Negate {
		t.Error("expected Negate=true")
	}
	if q.TypeFilter != jsondoc.KindNumber {
		t.Errorf("expected TypeFilter 'number', got '%s'", q.TypeFilter)
	}
}

func TestFuzzyMatch_ExactPrefix(t *testing.T) {
	match, positions := FuzzyMatch("tag", "tag_names")

	if !match {
		t.Error("expected match")
	}
	if len(positions) != 3 || positions[0] != 0 || positions[1] != 1 || positions[2] != 2 {
		t.Errorf("expected positions [0,1,2], got %v", positions)
	}
}

func TestFuzzyMatch_Subsequence(t *testing.T) {
	match, positions := FuzzyMatch("tnm", "tag_names")

	if !match {
		t.Error("expected match")
	}
	if len(positions) != 3 {
		t.Errorf("expected 3 positions, got %d", len(positions))
	}
}

func TestFuzzyMatch_NoMatch(t *testing.T) {
	match, _ := FuzzyMatch("xyz", "tag_names")

	if match {
		t.Error("expected no match")
	}
}

func TestFuzzyMatch_CaseInsensitive(t *testing.T) {
	match, _ := FuzzyMatch("TAG", "tag_names")

	if !match {
		t.Error("expected case-insensitive match")
	}
}

func TestFuzzyMatch_EmptyPattern(t *testing.T) {
	match, positions := FuzzyMatch("", "anything")

	if !match {
		t.Error("empty pattern should match everything")
	}
	if len(positions) != 0 {
		t.Error("empty pattern should have no positions")
	}
}

func createTestTree(t *testing.T) *models.Node {
	t.Helper()
	doc, err := jsondoc.ParseString(`{
		"tag": {"id": 7, "active": true},
		"tag_names": [1, 2],
		"users": [{"name": "ada", "site": "https://example.com"}],
		"note": null
	}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return render.Render("", doc, true)
}

func TestFilterTree_SimpleMatch(t *testing.T) {
	root := createTestTree(t)
	matches := FilterTree(root, ParseSearchQuery("tag"))

	if len(matches) != 2 {
		t.Fatalf("expected 2 matches (tag, tag_names), got %d", len(matches))
	}
	if matches[0].Key != "tag" || matches[1].Key != "tag_names" {
		t.Errorf("expected matches in document order, got %s, %s", matches[0].Key, matches[1].Key)
	}
}

func TestFilterTree_MatchesLiterals(t *testing.T) {
	root := createTestTree(t)
	matches := FilterTree(root, ParseSearchQuery("ada"))

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Path.String() != "$.users[0].name" {
		t.Errorf("expected $.users[0].name, got %s", matches[0].Path.String())
	}
}

func TestFilterTree_TypeFilter(t *testing.T) {
	root := createTestTree(t)
	matches := FilterTree(root, ParseSearchQuery("a:"))

	if len(matches) != 2 {
		t.Errorf("expected 2 array matches, got %d", len(matches))
	}
	for _, m := range matches {
		if m.Kind != jsondoc.KindArray {
			t.Errorf("expected only array nodes, got %s", m.Kind)
		}
	}
}

func TestFilterTree_NullFilter(t *testing.T) {
	root := createTestTree(t)
	matches := FilterTree(root, ParseSearchQuery("null:"))

	if len(matches) != 1 || matches[0].Key != "note" {
		t.Errorf("expected only 'note', got %d matches", len(matches))
	}
}

func TestFilterTree_Negate(t *testing.T) {
	root := createTestTree(t)
	matches := FilterTree(root, ParseSearchQuery("!tag"))

	if len(matches) == 0 {
		t.Fatal("expected negated query to match something")
	}
	for _, m := range matches {
		if strings.Contains(strings.ToLower(m.Key), "tag") {
			t.Errorf("negated query should not match '%s'", m.Key)
		}
	}
}

func TestFilterTree_EmptyQuerySkipsRoot(t *testing.T) {
	root := createTestTree(t)
	matches := FilterTree(root, ParseSearchQuery(""))

	// every node but the root
	expected := len(root.Flatten()) - 1
	if len(matches) != expected {
		t.Errorf("expected %d matches, got %d", expected, len(matches))
	}
	for _, m := range matches {
		if m.IsRoot {
			t.Error("root should never match")
		}
	}
}

func TestFilterTree_SearchesCollapsedNodes(t *testing.T) {
	root := createTestTree(t)
	for _, c := range root.Containers() {
		c.Collapsed = true
	}

	matches := FilterTree(root, ParseSearchQuery("site"))
	if len(matches) != 1 {
		t.Errorf("expected 1 match inside collapsed subtree, got %d", len(matches))
	}
}
