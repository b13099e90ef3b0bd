package route

// Ending is a named terminal outcome of completing a route.
type Ending string

const (
	EndingTrueWake       Ending = "true_wake"
	EndingCycleBreaker   Ending = "cycle_breaker"
	EndingLegend         Ending = "legend"
	EndingPuppetmaster   Ending = "puppetmaster"
	EndingFragmentedMind Ending = "fragmented_mind"
	EndingSunkLegend     Ending = "sunk_legend"
	// EndingFinalBell is the meta ending, unlocked by completing every primary ending.
	EndingFinalBell Ending = "final_bell"
)

var endingLabels = map[Ending]string{
	EndingTrueWake:       "The True Wake",
	EndingCycleBreaker:   "The Cycle Breaker",
	EndingLegend:         "The Legend",
	EndingPuppetmaster:   "The Puppetmaster",
	EndingFragmentedMind: "The Fragmented Mind",
	EndingSunkLegend:     "The Sunk Legend",
	EndingFinalBell:      "The Final Bell",
}

// Endings returns every ending in canonical order.
func Endings() []Ending {
	return []Ending{
		EndingTrueWake,
		EndingCycleBreaker,
		EndingLegend,
		EndingPuppetmaster,
		EndingFragmentedMind,
		EndingSunkLegend,
		EndingFinalBell,
	}
}

// PrimaryEndings returns the endings required to unlock the meta ending.
func PrimaryEndings() []Ending {
	var out []Ending
	for _, e := range Endings() {
		if e.IsPrimary() {
			out = append(out, e)
		}
	}
	return out
}

// IsPrimary reports whether e counts towards the meta unlock.
func (e Ending) IsPrimary() bool {
	return e.Valid() && e != EndingFinalBell
}

// Valid reports whether e is a member of the enumeration.
func (e Ending) Valid() bool {
	_, ok := endingLabels[e]
	return ok
}

// Label returns the display name, or the raw value for unknown endings.
func (e Ending) Label() string {
	if label, ok := endingLabels[e]; ok {
		return label
	}
	return string(e)
}

// ParseEnding converts a stored value back into an Ending.
func ParseEnding(s string) (Ending, bool) {
	e := Ending(s)
	return e, e.Valid()
}
