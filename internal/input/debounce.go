package input

import "time"

// Debouncer suppresses repeats of the same action within a cooldown. Each
// frame driver owns one; there is no shared state between drivers.
type Debouncer struct {
	cooldown time.Duration
	last     map[Action]time.Time
	held     map[Action]bool
	now      func() time.Time
}

func NewDebouncer(cooldown time.Duration) *Debouncer {
	return &Debouncer{
		cooldown: cooldown,
		last:     make(map[Action]time.Time),
		held:     make(map[Action]bool),
		now:      time.Now,
	}
}

// Poll feeds the current key state for a. Repeating actions fire every
// cooldown while held; the rest fire once per press.
func (d *Debouncer) Poll(a Action, down bool) bool {
	if a.Repeats() {
		return down && d.Allow(a)
	}
	return d.Edge(a, down)
}

// Edge reports whether a went from released to pressed since the last call.
func (d *Debouncer) Edge(a Action, down bool) bool {
	was := d.held[a]
	d.held[a] = down
	return down && !was && a != ActionNone
}

// Allow reports whether a fires now and, if so, starts its cooldown.
func (d *Debouncer) Allow(a Action) bool {
	if a == ActionNone {
		return false
	}
	now := d.now()
	if last, ok := d.last[a]; ok && now.Sub(last) < d.cooldown {
		return false
	}
	d.last[a] = now
	return true
}

// Reset forgets every cooldown.
func (d *Debouncer) Reset() {
	clear(d.last)
	clear(d.held)
}
