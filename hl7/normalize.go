package hl7

import (
	"strings"
)

// SegmentDelimiter is the canonical HL7 segment terminator. Real files
// arrive with \r\n or bare \n instead; Normalize folds them all into \r.
const SegmentDelimiter = "\r"

const headerSegmentName = "MSH"

// Normalize converts line-ending variants into the single \r segment
// delimiter and trims a leading Byte Order Marker if it's present.
// See: https://github.com/golang/go/issues/33887
func Normalize(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\r")
	raw = strings.ReplaceAll(raw, "\n", "\r")
	return strings.TrimPrefix(raw, "\uFEFF")
}

// SplitMessages partitions a blob that may contain multiple HL7 messages
// into individual message texts. A segment line starting with MSH marks a
// message boundary. Returns an empty slice when the blob contains no MSH
// segment at all; the caller decides whether that is an error.
func SplitMessages(raw string) []string {
	raw = Normalize(raw)

	var segments []string
	for _, seg := range strings.Split(raw, SegmentDelimiter) {
		if strings.TrimSpace(seg) != "" {
			segments = append(segments, seg)
		}
	}

	var mshIndexes []int
	for i, seg := range segments {
		if strings.HasPrefix(seg, headerSegmentName) {
			mshIndexes = append(mshIndexes, i)
		}
	}
	if len(mshIndexes) == 0 {
		return []string{}
	}

	messages := make([]string, 0, len(mshIndexes))
	for idx, start := range mshIndexes {
		end := len(segments)
		if idx+1 < len(mshIndexes) {
			end = mshIndexes[idx+1]
		}
		messages = append(messages, strings.Join(segments[start:end], SegmentDelimiter)+SegmentDelimiter)
	}
	return messages
}
