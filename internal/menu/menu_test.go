package menu

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMenu(t *testing.T) (*Menu, *clock.Mock) {
	t.Helper()

	clk := clock.NewMock()
	m := New(clk, DefaultHideDelay, nil)
	t.Cleanup(m.Close)
	return m, clk
}

func eventuallyVisible(t *testing.T, m *Menu, want Submenu) {
	t.Helper()
	require.Eventually(t, func() bool {
		return m.Visible() == want
	}, time.Second, time.Millisecond)
}

func TestInitialStateIsHidden(t *testing.T) {
	m, _ := newTestMenu(t)

	assert.Equal(t, None, m.Visible())
	assert.False(t, m.Pending(Category))
	assert.False(t, m.Pending(Sweetener))
}

func TestEnterShowsSubmenu(t *testing.T) {
	m, _ := newTestMenu(t)

	m.Enter(Category)

	assert.Equal(t, Category, m.Visible())
}

func TestEnterHidesOtherImmediately(t *testing.T) {
	m, clk := newTestMenu(t)

	m.Enter(Category)
	m.Leave(Category)
	require.True(t, m.Pending(Category))

	m.Enter(Sweetener)

	assert.Equal(t, Sweetener, m.Visible())
	assert.False(t, m.Pending(Category), "hide timer of the other submenu must be cancelled")

	clk.Add(time.Second)
	assert.Equal(t, Sweetener, m.Visible())
}

func TestLeaveHidesAfterDelay(t *testing.T) {
	m, clk := newTestMenu(t)

	m.Enter(Category)
	m.Leave(Category)

	clk.Add(DefaultHideDelay - time.Millisecond)
	assert.Equal(t, Category, m.Visible())

	clk.Add(time.Millisecond)
	eventuallyVisible(t, m, None)
	assert.False(t, m.Pending(Category))
}

func TestReenterBeforeDelayCancelsHide(t *testing.T) {
	m, clk := newTestMenu(t)

	m.Enter(Sweetener)
	m.Leave(Sweetener)
	clk.Add(100 * time.Millisecond)

	// pointer crossed the gap into the dropdown
	m.Enter(Sweetener)
	assert.False(t, m.Pending(Sweetener))

	clk.Add(time.Second)
	assert.Equal(t, Sweetener, m.Visible())
}

func TestNewHideSupersedesPrevious(t *testing.T) {
	m, clk := newTestMenu(t)

	m.Enter(Category)
	m.Leave(Category) // trigger left at t=0
	clk.Add(80 * time.Millisecond)
	m.Leave(Category) // dropdown left at t=80ms

	clk.Add(60 * time.Millisecond) // t=140ms, first hide would have fired
	assert.Equal(t, Category, m.Visible())

	clk.Add(60 * time.Millisecond) // t=200ms
	eventuallyVisible(t, m, None)
}

func TestOnChangeReportsTransitions(t *testing.T) {
	clk := clock.NewMock()

	var mu sync.Mutex
	var seen []Submenu
	m := New(clk, DefaultHideDelay, func(v Submenu) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, v)
	})
	defer m.Close()

	m.Enter(Category)
	m.Enter(Category)
	m.Enter(Sweetener)
	m.Leave(Sweetener)
	clk.Add(DefaultHideDelay)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 3
	}, time.Second, time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Submenu{Category, Sweetener, None}, seen)
}

func TestCloseIgnoresPendingAndFutureEvents(t *testing.T) {
	m, clk := newTestMenu(t)

	m.Enter(Category)
	m.Leave(Category)
	m.Close()

	clk.Add(time.Second)
	assert.Equal(t, Category, m.Visible())

	m.Enter(Sweetener)
	assert.Equal(t, Category, m.Visible())
}

func TestAtMostOneVisibleUnderRandomEvents(t *testing.T) {
	m, clk := newTestMenu(t)
	rnd := rand.New(rand.NewSource(42))
	menus := []Submenu{Category, Sweetener}

	for i := 0; i < 500; i++ {
		s := menus[rnd.Intn(len(menus))]
		switch rnd.Intn(3) {
		case 0:
			m.Enter(s)
		case 1:
			m.Leave(s)
		case 2:
			clk.Add(time.Duration(rnd.Intn(200)) * time.Millisecond)
		}

		m.mu.Lock()
		visible := 0
		for _, p := range m.panels {
			if p.visible {
				visible++
			}
		}
		m.mu.Unlock()
		require.LessOrEqual(t, visible, 1, "step %d", i)
	}
}

func TestParseSubmenu(t *testing.T) {
	s, err := ParseSubmenu("category")
	require.NoError(t, err)
	assert.Equal(t, Category, s)

	s, err = ParseSubmenu("sweetener")
	require.NoError(t, err)
	assert.Equal(t, Sweetener, s)

	_, err = ParseSubmenu("products")
	assert.Error(t, err)
}

func TestRealClockHides(t *testing.T) {
	m := New(clock.New(), 10*time.Millisecond, nil)
	defer m.Close()

	m.Enter(Category)
	m.Leave(Category)

	eventuallyVisible(t, m, None)
}
