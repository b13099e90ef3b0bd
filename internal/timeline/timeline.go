// Package timeline loads and validates narrative timeline documents.
//
// A document is a title plus an ordered list of beats. Each beat declares
// the slice of screen time it occupies as a "mm:ss-mm:ss" range; playback
// dwells on a beat for exactly that long. Documents are validated once at
// load time and never mutated afterwards.
package timeline

import (
	"math"
	"time"
)

// Beat is one unit of narrative content with a declared on-screen duration.
type Beat struct {
	Index    int    `yaml:"index" json:"index"`
	Time     string `yaml:"time" json:"time"`         // e.g. "00:00–00:06", en dash or hyphen
	Camera   string `yaml:"camera" json:"camera"`     // camera & action
	Lighting string `yaml:"lighting" json:"lighting"` // lighting cue
	Notes    string `yaml:"notes" json:"notes"`       // VO/SFX notes, optional

	start float64
	end   float64
}

// Start returns the beat's start offset in seconds.
func (b Beat) Start() float64 { return b.start }

// End returns the beat's end offset in seconds.
func (b Beat) End() float64 { return b.end }

// DurationSeconds returns end minus start.
func (b Beat) DurationSeconds() float64 { return b.end - b.start }

// Duration returns the beat's dwell time.
func (b Beat) Duration() time.Duration {
	return time.Duration(math.Round(b.DurationSeconds() * float64(time.Second)))
}

// Document is an immutable, validated timeline.
type Document struct {
	Title string
	Beats []Beat
}

// Len returns the number of beats.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Beats)
}

// Beat returns the beat at the 0-based position i.
func (d *Document) Beat(i int) (Beat, bool) {
	if d == nil || i < 0 || i >= len(d.Beats) {
		return Beat{}, false
	}
	return d.Beats[i], true
}

// TotalDuration sums the dwell time of every beat.
func (d *Document) TotalDuration() time.Duration {
	var total time.Duration
	if d == nil {
		return total
	}
	for _, b := range d.Beats {
		total += b.Duration()
	}
	return total
}
