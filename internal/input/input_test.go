package input

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestDebouncerCooldown(t *testing.T) {
	clock := &fakeClock{t: time.Unix(100, 0)}
	d := NewDebouncer(200 * time.Millisecond)
	d.now = clock.now

	if !d.Allow(ActionDropRandom) {
		t.Fatal("First press should be allowed")
	}
	if d.Allow(ActionDropRandom) {
		t.Error("Immediate repeat should be suppressed")
	}
	if !d.Allow(ActionRedrop) {
		t.Error("Other actions should have their own cooldown")
	}

	clock.advance(199 * time.Millisecond)
	if d.Allow(ActionDropRandom) {
		t.Error("Repeat inside the cooldown should be suppressed")
	}
	clock.advance(time.Millisecond)
	if !d.Allow(ActionDropRandom) {
		t.Error("Repeat after the cooldown should be allowed")
	}
}

func TestDebouncerReset(t *testing.T) {
	d := NewDebouncer(time.Hour)
	d.Allow(ActionWireframe)
	d.Reset()
	if !d.Allow(ActionWireframe) {
		t.Error("Expected Reset to clear cooldowns")
	}
	if d.Allow(ActionNone) {
		t.Error("ActionNone should never fire")
	}
}

func TestDebouncerEdge(t *testing.T) {
	d := NewDebouncer(time.Second)

	if !d.Edge(ActionWireframe, true) {
		t.Fatal("Expected first press to fire")
	}
	if d.Edge(ActionWireframe, true) {
		t.Error("Holding the key should not fire again")
	}
	if d.Edge(ActionWireframe, false) {
		t.Error("Release should not fire")
	}
	if !d.Edge(ActionWireframe, true) {
		t.Error("Expected second press to fire")
	}
}

func TestDebouncerPollRepeatsOnlyViewMotion(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	d := NewDebouncer(100 * time.Millisecond)
	d.now = clock.now

	zooms, drops := 0, 0
	for range 10 {
		if d.Poll(ActionZoomIn, true) {
			zooms++
		}
		if d.Poll(ActionDropRandom, true) {
			drops++
		}
		clock.advance(50 * time.Millisecond)
	}
	if zooms != 5 {
		t.Errorf("Expected held zoom to fire 5 times, got %d", zooms)
	}
	if drops != 1 {
		t.Errorf("Expected held drop to fire once, got %d", drops)
	}
	if d.Poll(ActionZoomOut, false) {
		t.Error("Released key should not fire")
	}
}

func TestKeyTablesAgree(t *testing.T) {
	bound := map[Action]bool{}
	for _, a := range RaylibKeys {
		bound[a] = true
	}
	for r, a := range RuneKeys {
		if a != ActionQuit && !bound[a] {
			t.Errorf("Rune %q maps to %v which has no window binding", r, a)
		}
	}
	for a := ActionDropRandom; a <= ActionQuit; a++ {
		if a.String() == "none" {
			t.Errorf("Action %d has no name", a)
		}
	}
}
