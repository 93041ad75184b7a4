package hl7

import (
	"regexp"
	"strings"
)

// Separators holds the five delimiter characters a message declares in its
// MSH segment. Each is kept as a string so an undeclared separator can be
// represented as empty. Immutable once derived.
type Separators struct {
	Field        string
	Component    string
	Repetition   string
	Escape       string
	Subcomponent string
}

// DefaultSeparators returns the conventional HL7 separator set (|^~\&).
func DefaultSeparators() Separators {
	return Separators{
		Field:        "|",
		Component:    "^",
		Repetition:   "~",
		Escape:       `\`,
		Subcomponent: "&",
	}
}

// Message is a parsed HL7 message: its separator set plus every segment,
// keyed by 3-letter segment name. Repeated segments of the same type keep
// message order as successive occurrences. Field slices align with HL7
// field numbering: fields[1] is SEG-1, and for MSH fields[1] is the field
// separator itself per HL7 convention. Read-only after Parse.
type Message struct {
	Separators Separators
	segments   map[string][][]string
}

// HasSegment reports whether at least one occurrence of the named segment
// is present.
func (m *Message) HasSegment(name string) bool {
	return len(m.segments[name]) > 0
}

// Field returns the raw field value at (segment, fieldNum, occurrence), or
// def when the segment is absent, the occurrence or field number is out of
// range, or the value is empty. It never fails.
func (m *Message) Field(seg string, fieldNum, occurrence int, def string) string {
	occs := m.segments[seg]
	if occurrence < 0 || occurrence >= len(occs) {
		return def
	}
	fields := occs[occurrence]
	if fieldNum < 0 || fieldNum >= len(fields) {
		return def
	}
	if fields[fieldNum] == "" {
		return def
	}
	return fields[fieldNum]
}

// Component resolves (segment, fieldNum, compNum) through the repetition
// and component separators, unescapes the result, and returns def on any
// miss: absent segment, out-of-range coordinate, or empty value. compNum
// is 1-based per HL7 convention.
func (m *Message) Component(seg string, fieldNum, compNum, occurrence, repetition int, def string) string {
	raw := m.Field(seg, fieldNum, occurrence, "")
	if raw == "" {
		return def
	}

	reps := []string{raw}
	if m.Separators.Repetition != "" {
		reps = strings.Split(raw, m.Separators.Repetition)
	}
	if repetition < 0 || repetition >= len(reps) {
		return def
	}

	comps := []string{reps[repetition]}
	if m.Separators.Component != "" {
		comps = strings.Split(reps[repetition], m.Separators.Component)
	}
	if compNum <= 0 || compNum > len(comps) {
		return def
	}

	if v := Unescape(comps[compNum-1], m.Separators); v != "" {
		return v
	}
	return def
}

// Reserved single-letter escape codes from the HL7 spec. Anything else
// between escape characters is passed through untouched.
var escapeCodes = map[string]func(Separators) string{
	"F": func(s Separators) string { return s.Field },
	"S": func(s Separators) string { return s.Component },
	"R": func(s Separators) string { return s.Repetition },
	"E": func(s Separators) string { return s.Escape },
	"T": func(s Separators) string { return s.Subcomponent },
}

// Unescape decodes the basic \F\ \S\ \R\ \E\ \T\ escape sequences against
// the live separator set. Intentionally small: no hex or multibyte
// extensions, enough for scheduling fields.
func Unescape(value string, seps Separators) string {
	if value == "" || seps.Escape == "" || !strings.Contains(value, seps.Escape) {
		return value
	}

	esc := regexp.QuoteMeta(seps.Escape)
	pattern := regexp.MustCompile(esc + `(.+?)` + esc)

	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		code := pattern.FindStringSubmatch(match)[1]
		if repl, ok := escapeCodes[code]; ok {
			return repl(seps)
		}
		return match
	})
}
