package playback

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"FreshmanRoll/internal/timeline"
)

func mustDoc(t *testing.T, durations ...int) *timeline.Document {
	t.Helper()
	var b strings.Builder
	b.WriteString("title: \"X\"\nframes:\n")
	start := 0
	for i, d := range durations {
		end := start + d
		fmt.Fprintf(&b, "  - index: %d\n    time: \"%02d:%02d-%02d:%02d\"\n    camera: c%d\n    lighting: l%d\n",
			i+1, start/60, start%60, end/60, end%60, i+1, i+1)
		start = end
	}
	doc, err := timeline.Parse([]byte(b.String()))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return doc
}

func TestTwoBeatScenario(t *testing.T) {
	c := NewController()
	s, err := c.Start(mustDoc(t, 6, 4))
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if s.ID == "" {
		t.Error("Expected session id")
	}
	if c.State() != StatePlaying {
		t.Errorf("Expected playing, got %s", c.State())
	}
	if f, ok := c.CurrentFrame(); !ok || f.Index != 1 {
		t.Fatalf("Expected beat 1 on start, got %+v %v", f, ok)
	}

	if !c.Tick(6 * time.Second) {
		t.Fatal("Expected tick(6s) to advance")
	}
	if f, ok := c.CurrentFrame(); !ok || f.Index != 2 {
		t.Fatalf("Expected beat 2, got %+v %v", f, ok)
	}

	if c.Tick(4 * time.Second) {
		t.Fatal("Expected tick(4s) to finish, not advance")
	}
	if _, ok := c.CurrentFrame(); ok {
		t.Fatal("Expected no frame after finishing")
	}
	if c.State() != StateFinished {
		t.Errorf("Expected finished, got %s", c.State())
	}
	if c.Tick(time.Hour) {
		t.Error("Ticking a finished session must not advance")
	}
}

func TestTickAccumulatesBelowDuration(t *testing.T) {
	c := NewController()
	if _, err := c.Start(mustDoc(t, 2, 2)); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if c.Tick(500 * time.Millisecond) {
			t.Fatalf("Unexpected advance after %d half-second ticks", i+1)
		}
	}
	if c.Session().Remaining() != 500*time.Millisecond {
		t.Errorf("Expected 500ms remaining, got %v", c.Session().Remaining())
	}
	if !c.Tick(500 * time.Millisecond) {
		t.Fatal("Expected advance once 2s accumulated")
	}
}

func TestOverflowIsDiscarded(t *testing.T) {
	c := NewController()
	if _, err := c.Start(mustDoc(t, 1, 3, 1)); err != nil {
		t.Fatal(err)
	}
	// A long frame advances one beat only and the next beat starts fresh.
	if !c.Tick(10 * time.Second) {
		t.Fatal("Expected advance")
	}
	if f, _ := c.CurrentFrame(); f.Index != 2 {
		t.Fatalf("Expected beat 2, got %d", f.Index)
	}
	if c.Session().Remaining() != 3*time.Second {
		t.Errorf("Expected beat 2 to dwell the full 3s, got %v", c.Session().Remaining())
	}
}

func TestNegativeAndZeroTicks(t *testing.T) {
	c := NewController()
	if _, err := c.Start(mustDoc(t, 1)); err != nil {
		t.Fatal(err)
	}
	c.Tick(-5 * time.Second)
	c.Tick(0)
	if c.Session().Remaining() != time.Second {
		t.Errorf("Expected untouched timer, got %v", c.Session().Remaining())
	}
}

// Ticking through the summed duration visits every beat in order and
// finishes exactly once.
func TestTickPropertyVisitsEveryBeat(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		n := 1 + rng.Intn(8)
		durations := make([]int, n)
		for i := range durations {
			durations[i] = 1 + rng.Intn(5)
		}
		c := NewController()
		if _, err := c.Start(mustDoc(t, durations...)); err != nil {
			t.Fatal(err)
		}

		step := 250 * time.Millisecond
		total := c.Session().Document().TotalDuration()
		visited := []int{1}
		advanced, finished := 0, 0
		for spent := time.Duration(0); spent < total; spent += step {
			wasFinished := c.Session().Finished()
			if c.Tick(step) {
				advanced++
				f, _ := c.CurrentFrame()
				visited = append(visited, f.Index)
			}
			if !wasFinished && c.Session().Finished() {
				finished++
			}
		}

		if advanced != n-1 {
			t.Errorf("durations %v: expected %d advances, got %d", durations, n-1, advanced)
		}
		if finished != 1 {
			t.Errorf("durations %v: expected exactly one finish, got %d", durations, finished)
		}
		for i, idx := range visited {
			if idx != i+1 {
				t.Errorf("durations %v: expected beats in order, got %v", durations, visited)
				break
			}
		}
	}
}

func TestStartWhileActive(t *testing.T) {
	c := NewController()
	doc := mustDoc(t, 1)
	if _, err := c.Start(doc); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Start(doc); !errors.Is(err, ErrSessionActive) {
		t.Errorf("Expected ErrSessionActive, got %v", err)
	}

	// Still refused once finished but not yet acknowledged.
	c.Tick(time.Second)
	if _, err := c.Start(doc); !errors.Is(err, ErrSessionActive) {
		t.Errorf("Expected ErrSessionActive before acknowledgement, got %v", err)
	}
}

func TestStartEmptyDocument(t *testing.T) {
	c := NewController()
	if _, err := c.Start(nil); !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("Expected ErrEmptyDocument for nil, got %v", err)
	}
	if _, err := c.Start(&timeline.Document{Title: "empty"}); !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("Expected ErrEmptyDocument, got %v", err)
	}
	if c.State() != StateIdle {
		t.Errorf("Expected idle after failed start, got %s", c.State())
	}
}

func TestAcknowledgeAndAbort(t *testing.T) {
	c := NewController()
	doc := mustDoc(t, 1)

	if s, err := c.Acknowledge(); s != nil || err != nil {
		t.Errorf("Expected no-op acknowledge when idle, got %v %v", s, err)
	}

	if _, err := c.Start(doc); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Acknowledge(); !errors.Is(err, ErrNotFinished) {
		t.Errorf("Expected ErrNotFinished, got %v", err)
	}

	c.Tick(time.Second)
	s, err := c.Acknowledge()
	if err != nil || s == nil {
		t.Fatalf("Expected acknowledged session, got %v %v", s, err)
	}
	if c.State() != StateIdle {
		t.Errorf("Expected idle, got %s", c.State())
	}

	if _, err := c.Start(doc); err != nil {
		t.Fatalf("Expected restart after acknowledge, got %v", err)
	}
	if _, ok := c.Abort(); !ok {
		t.Error("Expected abort to drop the session")
	}
	if _, ok := c.Abort(); ok {
		t.Error("Expected second abort to be a no-op")
	}
	if c.Tick(time.Second) {
		t.Error("Ticking idle controller must not advance")
	}
}
