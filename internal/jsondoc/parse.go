package jsondoc

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/buger/jsonparser"
)

// Parse parses JSON text into the document model. Object key order is kept.
func Parse(data []byte) (any, error) {
	// jsonparser is lenient about some malformed input, so validate first
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, &ParseError{Offset: int(syntaxErr.Offset), Msg: "invalid JSON", Err: err}
		}
		return nil, &ParseError{Offset: -1, Msg: "invalid JSON", Err: err}
	}

	value, dataType, _, err := jsonparser.Get(raw)
	if err != nil {
		return nil, &ParseError{Offset: -1, Msg: "invalid JSON", Err: err}
	}

	v, err := build(value, dataType)
	if err != nil {
		return nil, &ParseError{Offset: -1, Msg: "invalid JSON", Err: err}
	}
	return v, nil
}

// ParseString parses a JSON string
func ParseString(s string) (any, error) {
	return Parse([]byte(s))
}

func build(value []byte, dataType jsonparser.ValueType) (any, error) {
	switch dataType {
	case jsonparser.Object:
		obj := NewObject()
		err := jsonparser.ObjectEach(value, func(key, v []byte, vt jsonparser.ValueType, _ int) error {
			child, err := build(v, vt)
			if err != nil {
				return err
			}
			obj.Set(string(key), child)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return obj, nil

	case jsonparser.Array:
		arr := NewArray()
		var inner error
		_, err := jsonparser.ArrayEach(value, func(v []byte, vt jsonparser.ValueType, _ int, err error) {
			if inner != nil {
				return
			}
			if err != nil {
				inner = err
				return
			}
			child, err := build(v, vt)
			if err != nil {
				inner = err
				return
			}
			arr.Items = append(arr.Items, child)
		})
		if err != nil {
			return nil, err
		}
		if inner != nil {
			return nil, inner
		}
		return arr, nil

	case jsonparser.String:
		return jsonparser.ParseString(value)

	case jsonparser.Number:
		return Number(string(value)), nil

	case jsonparser.Boolean:
		return jsonparser.ParseBoolean(value)

	case jsonparser.Null:
		return nil, nil

	default:
		return nil, jsonparser.UnknownValueTypeError
	}
}

// ParseLoose parses user input for an edit. Input starting with '{', '[' or
// '"' must be valid JSON and fails with a *ParseError otherwise. Numbers and
// null/true/false parse as JSON; any other text becomes a plain string.
func ParseLoose(text string) (any, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed != "" {
		switch trimmed[0] {
		case '{', '[', '"':
			return ParseString(trimmed)
		}
	}
	if LooksLikeJSON(trimmed) {
		return ParseString(trimmed)
	}
	return text, nil
}
