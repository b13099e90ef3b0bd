package timeline

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrDecode is returned when the raw text is not a structurally valid document.
	ErrDecode = errors.New("timeline: decode failed")
	// ErrMissingTitle is returned when a document has an empty title.
	ErrMissingTitle = errors.New("timeline: missing title")
	// ErrNoBeats is returned when a document has no beats.
	ErrNoBeats = errors.New("timeline: no beats")
	// ErrIndexMismatch is returned when a beat index differs from its 1-based position.
	ErrIndexMismatch = errors.New("timeline: beat index mismatch")
	// ErrNonPositiveDuration is returned when a beat ends at or before its start,
	// or when its length does not round to a representable time.Duration.
	ErrNonPositiveDuration = errors.New("timeline: non-positive duration")
)

// ParseError describes the first validation failure found in a document.
type ParseError struct {
	Source   string // source id, empty for in-memory text
	Position int    // 1-based beat position, 0 when not beat specific
	Index    int    // index value declared by the offending beat
	Raw      string // raw time string for duration failures
	Err      error  // one of the Err* sentinels, or the decoder error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	if e.Source != "" {
		b.WriteString(e.Source)
		b.WriteString(": ")
	}
	switch {
	case errors.Is(e.Err, ErrIndexMismatch):
		fmt.Fprintf(&b, "beat index mismatch at position %d: got %d", e.Position, e.Index)
	case errors.Is(e.Err, ErrNonPositiveDuration):
		fmt.Fprintf(&b, "non-positive duration at beat %d time %q", e.Index, e.Raw)
	default:
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// maxBeatSeconds is the longest beat a time.Duration can hold.
const maxBeatSeconds = float64(math.MaxInt64 / int64(time.Second))

// rawDocument mirrors the authored YAML layout.
type rawDocument struct {
	Title  string `yaml:"title"`
	Frames []Beat `yaml:"frames"`
}

// Parse decodes and validates a timeline document. Validation stops at the
// first violation and no partial document is returned.
func Parse(raw []byte) (*Document, error) {
	var doc rawDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("%w: %v", ErrDecode, err)}
	}
	if strings.TrimSpace(doc.Title) == "" {
		return nil, &ParseError{Err: ErrMissingTitle}
	}
	if len(doc.Frames) == 0 {
		return nil, &ParseError{Err: ErrNoBeats}
	}

	beats := make([]Beat, len(doc.Frames))
	for i, b := range doc.Frames {
		if b.Index != i+1 {
			return nil, &ParseError{Position: i + 1, Index: b.Index, Err: ErrIndexMismatch}
		}
		start, end := ParseTimeRange(b.Time)
		b.start, b.end = start, end
		if end <= start || end-start > maxBeatSeconds || b.Duration() <= 0 {
			return nil, &ParseError{Position: i + 1, Index: b.Index, Raw: b.Time, Err: ErrNonPositiveDuration}
		}
		beats[i] = b
	}
	return &Document{Title: doc.Title, Beats: beats}, nil
}

// ParseTimeRange reads "mm:ss-mm:ss" (hyphen or en dash, optional spaces)
// into start and end seconds. It never fails: unparseable numbers count as
// zero and a missing end defaults to "00:01".
func ParseTimeRange(s string) (start, end float64) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), "–", "-")
	left, right, found := strings.Cut(cleaned, "-")
	if !found {
		right = "00:01"
	} else if next, _, ok := strings.Cut(right, "-"); ok {
		right = next
	}
	return parseMMSS(left), parseMMSS(right)
}

func parseMMSS(s string) float64 {
	minutes, seconds, _ := strings.Cut(strings.TrimSpace(s), ":")
	seconds, _, _ = strings.Cut(seconds, ":")
	return lenientFloat(minutes)*60 + lenientFloat(seconds)
}

func lenientFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
