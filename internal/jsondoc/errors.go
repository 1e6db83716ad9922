package jsondoc

import "fmt"

// ParseError reports malformed input. Offset is -1 when unknown.
type ParseError struct {
	Offset int
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Offset >= 0 {
		return fmt.Sprintf("parse error at offset %d: %s", e.Offset, msg)
	}
	return "parse error: " + msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// PathNotFoundError reports an address that no longer resolves against the
// document. Depth is the index of the path part that missed.
type PathNotFoundError struct {
	Path   Path
	Depth  int
	Reason string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("path %s not found at depth %d: %s", e.Path, e.Depth, e.Reason)
}
