package jsondoc

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// LooksLikeJSON checks if a string is a complete JSON literal. Bare words other
// than null/true/false are not.
func LooksLikeJSON(value string) bool {
	value = strings.TrimSpace(value)
	if len(value) == 0 {
		return false
	}

	first := value[0]
	if first != '{' && first != '[' && first != '"' {
		if value == "null" || value == "true" || value == "false" {
			return true
		}
		var n json.Number
		return json.Unmarshal([]byte(value), &n) == nil
	}

	return json.Valid([]byte(value))
}

// IsURL reports whether v is a string holding an absolute http, https or ftp
// URL with a host
func IsURL(v any) bool {
	s, ok := v.(string)
	if !ok || s == "" {
		return false
	}
	if strings.ContainsAny(s, " \t\r\n") {
		return false
	}

	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "ftp":
	default:
		return false
	}
	return u.Host != ""
}

// Classify returns the kind of a document value
func Classify(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case *Object:
		return KindObject
	case *Array:
		return KindArray
	case string:
		return KindString
	case Number, json.Number, float64, float32, int, int64, int32:
		return KindNumber
	case bool:
		return KindBoolean
	default:
		return KindUnknown
	}
}

// TypeLabel returns the kind name shown next to a node. Arrays carry their
// element count, e.g. "array[3]".
func TypeLabel(v any) string {
	if arr, ok := v.(*Array); ok {
		return string(KindArray) + "[" + strconv.Itoa(arr.Len()) + "]"
	}
	return string(Classify(v))
}
