package hl7

import (
	"strings"
)

const defaultEncodingCharacters = `^~\&`

// Parse tokenizes one HL7 message into a Message. The field separator is
// the 4th character of the MSH line; the component, repetition, escape and
// subcomponent separators come from MSH-2, each position independently
// falling back to the ^~\& defaults when undeclared.
func Parse(message string) (*Message, error) {
	message = Normalize(message)

	var segLines []string
	for _, seg := range strings.Split(message, SegmentDelimiter) {
		if strings.TrimSpace(seg) != "" {
			segLines = append(segLines, seg)
		}
	}
	if len(segLines) == 0 || !strings.HasPrefix(segLines[0], headerSegmentName) {
		return nil, &ParseError{Reason: "message does not start with MSH segment"}
	}
	if len(segLines[0]) < 4 {
		return nil, &ParseError{Reason: "MSH segment too short to contain field separator"}
	}

	fieldSep := string(segLines[0][3])

	// MSH|^~\& - the first field after the separator is the encoding
	// characters string.
	mshParts := strings.Split(segLines[0], fieldSep)
	enc := defaultEncodingCharacters
	if len(mshParts) >= 2 && mshParts[1] != "" {
		enc = mshParts[1]
	}

	seps := Separators{
		Field:        fieldSep,
		Component:    encodingChar(enc, 0),
		Repetition:   encodingChar(enc, 1),
		Escape:       encodingChar(enc, 2),
		Subcomponent: encodingChar(enc, 3),
	}

	segments := make(map[string][][]string)
	for _, line := range segLines {
		if len(line) < 3 {
			continue
		}
		name := line[:3]
		parts := strings.Split(line, fieldSep)

		// Align fields with HL7 numbering: for MSH, the field separator
		// itself is MSH-1, so it is inserted at fields[1].
		var fields []string
		if name == headerSegmentName {
			fields = append([]string{headerSegmentName, fieldSep}, parts[1:]...)
		} else {
			fields = parts
		}
		segments[name] = append(segments[name], fields)
	}

	return &Message{Separators: seps, segments: segments}, nil
}

func encodingChar(enc string, pos int) string {
	if pos < len(enc) {
		return string(enc[pos])
	}
	return string(defaultEncodingCharacters[pos])
}
