package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"FreshmanRoll/internal/director"
	"FreshmanRoll/internal/playback"
	"FreshmanRoll/internal/progress"
	"FreshmanRoll/internal/route"
	"FreshmanRoll/internal/timeline"
)

const testTimeline = `
title: "Route"
frames:
  - index: 1
    time: "00:00-00:01"
    camera: "Wide"
    lighting: "Dim"
  - index: 2
    time: "00:01-00:02"
    camera: "Close"
    lighting: "Bright"
`

func newTestStage(t *testing.T) *Stage {
	t.Helper()
	fsys := fstest.MapFS{}
	for _, rt := range route.DefaultRegistry().Routes() {
		fsys[rt.Source] = &fstest.MapFile{Data: []byte(testTimeline)}
	}
	d := director.New(route.DefaultRegistry(), timeline.NewLoader(fsys), progress.NewTracker(), progress.NewMemoryStore())
	return NewStage(d, 50)
}

func newTestServer(t *testing.T) (*Stage, *httptest.Server) {
	t.Helper()
	stage := newTestStage(t)
	srv := httptest.NewServer(newMux(stage))
	t.Cleanup(srv.Close)
	return stage, srv
}

func post(t *testing.T, url string) int {
	t.Helper()
	resp, err := http.Post(url, "application/json", nil)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func getJSON(t *testing.T, url string, v any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: expected 200, got %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}

func TestHealthAndRoutes(t *testing.T) {
	_, srv := newTestServer(t)

	var health map[string]string
	getJSON(t, srv.URL+"/healthz", &health)
	if health["status"] != "ok" {
		t.Errorf("Expected ok, got %v", health)
	}

	var routes []routeDTO
	getJSON(t, srv.URL+"/api/routes", &routes)
	if len(routes) != 6 {
		t.Fatalf("Expected 6 routes, got %d", len(routes))
	}
	if routes[0].ID != 1 || routes[0].Ending != route.EndingTrueWake {
		t.Errorf("Unexpected first route %+v", routes[0])
	}
}

func TestStartUnknownRoute(t *testing.T) {
	_, srv := newTestServer(t)
	for _, id := range []string{"99", "0", "abc"} {
		if code := post(t, srv.URL+"/api/routes/"+id+"/start"); code != http.StatusNotFound {
			t.Errorf("route %s: expected 404, got %d", id, code)
		}
	}
}

func TestStartAndPlayThroughHTTP(t *testing.T) {
	ctx := context.Background()
	stage, srv := newTestServer(t)

	if code := post(t, srv.URL+"/api/routes/3/start"); code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d", code)
	}
	events := stage.Step(ctx, 0)
	if len(events) != 1 || events[0].Type != director.EventBeat {
		t.Fatalf("Expected beat event, got %v", events)
	}

	var st director.Status
	getJSON(t, srv.URL+"/api/session", &st)
	if st.State != playback.StatePlaying || st.RouteID != 3 || st.Position != 1 {
		t.Errorf("Unexpected session %+v", st)
	}

	if code := post(t, srv.URL+"/api/session/pause"); code != http.StatusAccepted {
		t.Errorf("pause: expected 202, got %d", code)
	}
	stage.Step(ctx, 10*time.Second)
	getJSON(t, srv.URL+"/api/session", &st)
	if !st.Paused || st.Position != 1 {
		t.Errorf("Expected paused at beat 1, got %+v", st)
	}

	if code := post(t, srv.URL+"/api/session/resume"); code != http.StatusAccepted {
		t.Errorf("resume: expected 202, got %d", code)
	}
	stage.Step(ctx, time.Second)
	stage.Step(ctx, time.Second)

	var view director.ProgressView
	getJSON(t, srv.URL+"/api/progress", &view)
	if len(view.Completed) != 1 || view.Completed[0] != route.EndingCycleBreaker {
		t.Errorf("Expected cycle_breaker completed, got %+v", view)
	}
	if len(view.Remaining) != 5 || view.MetaUnlocked {
		t.Errorf("Unexpected progress %+v", view)
	}
}

func TestSessionActions(t *testing.T) {
	stage, srv := newTestServer(t)
	for _, action := range []string{"abort", "pause", "resume"} {
		if code := post(t, srv.URL+"/api/session/"+action); code != http.StatusAccepted {
			t.Errorf("%s: expected 202, got %d", action, code)
		}
	}
	for _, action := range []string{"start_route", "bogus"} {
		if code := post(t, srv.URL+"/api/session/"+action); code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", action, code)
		}
	}
	if events := stage.Step(context.Background(), 0); len(events) != 0 {
		t.Errorf("Expected rejected actions to enqueue nothing, got %v", events)
	}
}
