package hl7

import (
	"errors"
	"fmt"
)

// ParseError reports a wire-level structural problem: empty input, a
// message that does not start with MSH, or an MSH segment too short to
// declare its field separator.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed HL7 message: %s", e.Reason)
}

// UnsupportedMessageTypeError reports a message whose MSH-9 composite is
// not the type a schema extractor handles.
type UnsupportedMessageTypeError struct {
	MessageType string
}

func (e *UnsupportedMessageTypeError) Error() string {
	return fmt.Sprintf("unsupported message type in MSH-9: '%s'", e.MessageType)
}

// MissingSegmentError reports that a segment required by the target schema
// is absent from the message.
type MissingSegmentError struct {
	Segment string
}

func (e *MissingSegmentError) Error() string {
	return fmt.Sprintf("missing %s segment (required for appointment)", e.Segment)
}

// ErrorKind names the error category for driver-facing output
// (CLI error objects, HTTP responses). Unrecognized errors map to "".
func ErrorKind(err error) string {
	var parseErr *ParseError
	var typeErr *UnsupportedMessageTypeError
	var segErr *MissingSegmentError
	switch {
	case errors.As(err, &parseErr):
		return "ParseError"
	case errors.As(err, &typeErr):
		return "UnsupportedMessageType"
	case errors.As(err, &segErr):
		return "MissingSegment"
	default:
		return ""
	}
}
