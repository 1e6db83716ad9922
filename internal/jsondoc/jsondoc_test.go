package jsondoc

import (
	"errors"
	"strings"
	"testing"
)

func mustParse(t *testing.T, s string) any {
	t.Helper()
	v, err := ParseString(s)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", s, err)
	}
	return v
}

func TestParse_PreservesKeyOrder(t *testing.T) {
	doc := mustParse(t, `{"z":1,"a":2,"m":{"y":true,"b":null}}`)

	obj, ok := doc.(*Object)
	if !ok {
		t.Fatalf("Expected *Object, got %T", doc)
	}
	if got := strings.Join(obj.Keys(), ","); got != "z,a,m" {
		t.Errorf("Expected keys z,a,m, got %s", got)
	}

	out, err := Compact(doc)
	if err != nil {
		t.Fatalf("Compact failed: %v", err)
	}
	if out != `{"z":1,"a":2,"m":{"y":true,"b":null}}` {
		t.Errorf("Unexpected compact output: %s", out)
	}
}

func TestParse_Scalars(t *testing.T) {
	tests := []struct {
		input string
		want  any
	}{
		{`"hello"`, "hello"},
		{`"a\nb"`, "a\nb"},
		{`1.50`, Number("1.50")},
		{`-3e2`, Number("-3e2")},
		{`true`, true},
		{`false`, false},
		{`null`, nil},
	}

	for _, tt := range tests {
		got := mustParse(t, tt.input)
		if got != tt.want {
			t.Errorf("Parse(%s): expected %#v, got %#v", tt.input, tt.want, got)
		}
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, input := range []string{`{"a":`, `[1,2`, `nope`, ``, `{"a":1}}`} {
		_, err := ParseString(input)
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("Parse(%q): expected *ParseError, got %v", input, err)
		}
	}
}

func TestParse_DuplicateKeysKeepFirstPosition(t *testing.T) {
	doc := mustParse(t, `{"a":1,"b":2,"a":3}`).(*Object)

	if got := strings.Join(doc.Keys(), ","); got != "a,b" {
		t.Errorf("Expected keys a,b, got %s", got)
	}
	if v, _ := doc.Get("a"); v != Number("3") {
		t.Errorf("Expected last value 3, got %v", v)
	}
}

func TestParseYAML(t *testing.T) {
	doc, err := ParseYAML([]byte("name: demo\ncount: 3\nratio: 0.5\nok: true\nnothing: null\ntags:\n  - a\n  - b\n"))
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}

	out, err := Compact(doc)
	if err != nil {
		t.Fatalf("Compact failed: %v", err)
	}
	want := `{"name":"demo","count":3,"ratio":0.5,"ok":true,"nothing":null,"tags":["a","b"]}`
	if out != want {
		t.Errorf("Expected %s, got %s", want, out)
	}
}

func TestParseYAML_Rejects(t *testing.T) {
	inputs := []string{
		"? [a, b]\n: value\n",
		"x: .nan\n",
		"a: [1, 2\n",
	}
	for _, input := range inputs {
		_, err := ParseYAML([]byte(input))
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("ParseYAML(%q): expected *ParseError, got %v", input, err)
		}
	}
}

func TestParseYAML_Empty(t *testing.T) {
	doc, err := ParseYAML(nil)
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}
	if doc != nil {
		t.Errorf("Expected nil document, got %#v", doc)
	}
}

func TestClassifyAndTypeLabel(t *testing.T) {
	doc := mustParse(t, `{"o":{},"a":[1,2,3],"s":"x","n":1,"b":false,"z":null}`).(*Object)

	want := map[string]string{
		"o": "object",
		"a": "array[3]",
		"s": "string",
		"n": "number",
		"b": "boolean",
		"z": "null",
	}
	for key, label := range want {
		v, _ := doc.Get(key)
		if got := TypeLabel(v); got != label {
			t.Errorf("TypeLabel(%s): expected %s, got %s", key, label, got)
		}
	}

	if Classify(NewArray()) != KindArray {
		t.Error("Expected empty array to classify as array")
	}
	if !KindObject.IsContainer() || KindString.IsContainer() {
		t.Error("IsContainer is wrong for object/string")
	}
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		value any
		want  bool
	}{
		{"https://example.com/pic.png", true},
		{"http://localhost:8080/x", true},
		{"ftp://files.example.com/a.txt", true},
		{"not a url", false},
		{"mailto:someone@example.com", false},
		{"https://", false},
		{"https://exa mple.com", false},
		{"/relative/path", false},
		{Number("1"), false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := IsURL(tt.value); got != tt.want {
			t.Errorf("IsURL(%#v): expected %v, got %v", tt.value, tt.want, got)
		}
	}
}

func TestLooksLikeJSON(t *testing.T) {
	yes := []string{`{"a":1}`, `[1]`, `"x"`, `12`, `-1.5e3`, `true`, `null`, `  false `}
	no := []string{``, `hello`, `{"a":`, `01x`, `True`}

	for _, s := range yes {
		if !LooksLikeJSON(s) {
			t.Errorf("Expected %q to look like JSON", s)
		}
	}
	for _, s := range no {
		if LooksLikeJSON(s) {
			t.Errorf("Expected %q not to look like JSON", s)
		}
	}
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{"a<b>\"c\"", `"a<b>"c""`},
		{Number("1.50"), "1.50"},
		{true, "true"},
		{nil, "null"},
		{NewObject(), ""},
	}
	for _, tt := range tests {
		if got := Literal(tt.value); got != tt.want {
			t.Errorf("Literal(%#v): expected %s, got %s", tt.value, tt.want, got)
		}
	}
}

func TestEscapeMarkup(t *testing.T) {
	got := EscapeMarkup(`<b>"x" & y</b>`)
	want := `&lt;b&gt;"x" & y&lt;/b&gt;`
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestFormat_NoHTMLEscaping(t *testing.T) {
	doc := mustParse(t, `{"html":"<a href=\"x\">&</a>","list":[1,2]}`)

	got, err := Format(doc)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	want := "{\n  \"html\": \"<a href=\\\"x\\\">&</a>\",\n  \"list\": [\n    1,\n    2\n  ]\n}"
	if got != want {
		t.Errorf("Expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Expected unchanged string, got %s", got)
	}

	got := Truncate(`{"name":"a very long value that keeps going"}`, 20)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Expected ellipsis, got %s", got)
	}
	if len(got) > 20 {
		t.Errorf("Expected at most 20 cells, got %d (%s)", len(got), got)
	}

	// Wide runes count as two cells
	got = Truncate("日本語日本語日本語", 8)
	if got != "日..." && got != "日本..." {
		t.Errorf("Unexpected wide-rune truncation: %s", got)
	}
}

func TestEqual(t *testing.T) {
	a := mustParse(t, `{"a":1,"b":[true,null,"x"]}`)
	b := mustParse(t, `{"b":[true,null,"x"],"a":1.0}`)
	c := mustParse(t, `{"a":1,"b":[null,true,"x"]}`)

	if !Equal(a, b) {
		t.Error("Expected objects with reordered keys to be equal")
	}
	if Equal(a, c) {
		t.Error("Expected arrays in different order to differ")
	}
	if Equal(Number("1"), "1") {
		t.Error("Expected number and string to differ")
	}
}

func TestParseLoose(t *testing.T) {
	tests := []struct {
		text string
		want any
	}{
		{"42", Number("42")},
		{"true", true},
		{"null", nil},
		{`"quoted"`, "quoted"},
		{"plain", "plain"},
		{"  two words ", "  two words "},
	}

	for _, tt := range tests {
		got, err := ParseLoose(tt.text)
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.text, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%q: expected %#v, got %#v", tt.text, tt.want, got)
		}
	}

	for _, bad := range []string{"{not json", `{"a":1,}`, "[1,2", `"unterminated`, `  [true`} {
		_, err := ParseLoose(bad)
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("%q: expected ParseError, got %v", bad, err)
		}
	}

	obj, err := ParseLoose(`{"a":[1]}`)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if _, ok := obj.(*Object); !ok {
		t.Errorf("Expected object, got %T", obj)
	}
}
