package timeline

import "fmt"

// Warning is a non-fatal authoring issue found in a valid document.
type Warning struct {
	Position int
	Message  string
}

func (w Warning) String() string {
	return fmt.Sprintf("beat %d: %s", w.Position, w.Message)
}

// Lint reports beats that start before the previous beat ended. Overlaps are
// legal for playback, which only looks at per-beat durations.
func Lint(doc *Document) []Warning {
	if doc == nil {
		return nil
	}
	var warnings []Warning
	lastEnd := -1.0
	for i, b := range doc.Beats {
		if b.start < lastEnd {
			warnings = append(warnings, Warning{
				Position: i + 1,
				Message:  fmt.Sprintf("overlaps previous beat (%.2f < %.2f)", b.start, lastEnd),
			})
		}
		lastEnd = b.end
	}
	return warnings
}
