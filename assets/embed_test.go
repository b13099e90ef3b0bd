package assets

import (
	"testing"

	"FreshmanRoll/internal/route"
	"FreshmanRoll/internal/timeline"
)

func TestBundledRoutesParse(t *testing.T) {
	loader := timeline.NewLoader(Narrative())
	for _, rt := range route.DefaultRegistry().Routes() {
		doc, err := loader.LoadFromSource(rt.Source)
		if err != nil {
			t.Errorf("route %d (%s): %v", rt.ID, rt.Source, err)
			continue
		}
		if doc.Title != rt.Ending.Label() {
			t.Errorf("route %d: expected title %q, got %q", rt.ID, rt.Ending.Label(), doc.Title)
		}
		if w := timeline.Lint(doc); len(w) != 0 {
			t.Errorf("route %d: unexpected warnings %v", rt.ID, w)
		}
	}
}

func TestBundledSourcesMatchRegistry(t *testing.T) {
	sources, err := timeline.NewLoader(Narrative()).Sources()
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != len(route.DefaultRegistry().Routes()) {
		t.Errorf("Expected one timeline per route, got %v", sources)
	}
}
