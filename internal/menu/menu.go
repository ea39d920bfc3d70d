package menu

import (
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// DefaultHideDelay covers the gap between a nav trigger and its dropdown.
const DefaultHideDelay = 120 * time.Millisecond

type Submenu int

const (
	None Submenu = iota
	Category
	Sweetener
)

func (s Submenu) String() string {
	switch s {
	case Category:
		return "category"
	case Sweetener:
		return "sweetener"
	default:
		return ""
	}
}

func ParseSubmenu(name string) (Submenu, error) {
	switch name {
	case "category":
		return Category, nil
	case "sweetener":
		return Sweetener, nil
	default:
		return None, fmt.Errorf("unknown submenu %q", name)
	}
}

func (s Submenu) other() Submenu {
	if s == Category {
		return Sweetener
	}
	return Category
}

type panel struct {
	visible bool
	timer   *clock.Timer
	// gen invalidates hide callbacks whose timer was stopped too late.
	gen uint64
}

// Menu tracks the two hover submenus of the navigation bar. At most one of
// them is visible; entering a trigger (or its open dropdown) shows it and
// hides the other one immediately, leaving hides it after the delay.
type Menu struct {
	mu       sync.Mutex
	clock    clock.Clock
	delay    time.Duration
	panels   map[Submenu]*panel
	onChange func(visible Submenu)
	closed   bool
}

// New creates a menu with both submenus hidden. onChange, if set, is called
// outside the lock whenever the visible submenu changes.
func New(clk clock.Clock, delay time.Duration, onChange func(visible Submenu)) *Menu {
	if clk == nil {
		clk = clock.New()
	}
	if delay <= 0 {
		delay = DefaultHideDelay
	}

	return &Menu{
		clock: clk,
		delay: delay,
		panels: map[Submenu]*panel{
			Category:  {},
			Sweetener: {},
		},
		onChange: onChange,
	}
}

// Enter handles the pointer entering a trigger or its dropdown.
func (m *Menu) Enter(s Submenu) {
	m.mu.Lock()
	p, ok := m.panels[s]
	if !ok || m.closed {
		m.mu.Unlock()
		return
	}

	before := m.visibleLocked()

	m.cancelLocked(p)

	other := m.panels[s.other()]
	m.cancelLocked(other)
	other.visible = false

	p.visible = true

	after := m.visibleLocked()
	m.mu.Unlock()

	m.notify(before, after)
}

// Leave handles the pointer leaving a trigger or its dropdown. The hide
// replaces any hide already pending for the same submenu.
func (m *Menu) Leave(s Submenu) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.panels[s]
	if !ok || m.closed {
		return
	}

	m.cancelLocked(p)
	gen := p.gen
	p.timer = m.clock.AfterFunc(m.delay, func() {
		m.expire(s, gen)
	})
}

// Visible returns the submenu currently shown, or None.
func (m *Menu) Visible() Submenu {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.visibleLocked()
}

// Pending reports whether a hide is scheduled for the submenu.
func (m *Menu) Pending(s Submenu) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.panels[s]
	return ok && p.timer != nil
}

// Close stops pending hides and ignores further events.
func (m *Menu) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	for _, p := range m.panels {
		m.cancelLocked(p)
	}
}

func (m *Menu) expire(s Submenu, gen uint64) {
	m.mu.Lock()
	p := m.panels[s]
	if m.closed || p.gen != gen {
		m.mu.Unlock()
		return
	}

	before := m.visibleLocked()
	p.timer = nil
	p.visible = false
	after := m.visibleLocked()
	m.mu.Unlock()

	m.notify(before, after)
}

func (m *Menu) cancelLocked(p *panel) {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.gen++
}

func (m *Menu) visibleLocked() Submenu {
	for _, s := range []Submenu{Category, Sweetener} {
		if m.panels[s].visible {
			return s
		}
	}
	return None
}

func (m *Menu) notify(before, after Submenu) {
	if before != after && m.onChange != nil {
		m.onChange(after)
	}
}
