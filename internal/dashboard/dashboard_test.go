package dashboard

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/worktimer/internal/engine"
	"github.com/Tiliavir/worktimer/internal/model"
)

type memPanels map[string]bool

func (p memPanels) PanelCollapsed(id string) (bool, error) { return p[id], nil }

func (p memPanels) TogglePanel(id string) (bool, error) {
	p[id] = !p[id]
	return p[id], nil
}

type fixture struct {
	m     Model
	eng   *engine.Engine
	clock *clockwork.FakeClock
	bell  *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 2, 27, 9, 0, 0, 0, time.Local))
	bell := &bytes.Buffer{}
	hooks := &Hooks{Bell: bell}
	eng := engine.New(nil, engine.Options{
		Clock:     clock,
		Notifier:  hooks,
		Confirmer: hooks,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	m := New(eng, hooks, memPanels{}, Config{Category: "dev", CategoryLabel: "Development"})
	return &fixture{m: m, eng: eng, clock: clock, bell: bell}
}

func (f *fixture) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := f.m.Update(msg)
	f.m = next.(Model)
	return cmd
}

func (f *fixture) press(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		f.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	}
}

func TestKeysDriveEngine(t *testing.T) {
	f := newFixture(t)

	f.press(t, "w")
	assert.Equal(t, model.Work, f.eng.Current())
	rec, err := f.eng.Record(0)
	require.NoError(t, err)
	assert.Equal(t, "dev", rec.CategoryKey)

	f.clock.Advance(time.Minute)
	f.press(t, "l")
	assert.Equal(t, 2, f.eng.Len())

	f.press(t, "b")
	assert.Equal(t, model.Break, f.eng.Current())
	f.press(t, "l")
	assert.Equal(t, "Not working, nothing to checkpoint", f.m.status)

	f.press(t, "3")
	assert.Equal(t, model.Exercise, f.eng.Current())

	f.press(t, "p")
	assert.Equal(t, model.Paused, f.eng.Current())
	assert.Contains(t, f.m.View(), "Exercise")
}

func TestTickNotifiesWithBannerAndBell(t *testing.T) {
	f := newFixture(t)
	f.press(t, "w")

	f.clock.Advance(24 * time.Minute)
	cmd := f.send(t, tickMsg(f.clock.Now()))
	assert.NotNil(t, cmd)
	assert.NotContains(t, f.m.View(), "Time for a break")

	f.clock.Advance(time.Minute)
	f.send(t, tickMsg(f.clock.Now()))
	assert.Contains(t, f.m.View(), "Time for a break")
	assert.Equal(t, "\a", f.bell.String())

	f.clock.Advance(time.Minute)
	f.send(t, tickMsg(f.clock.Now()))
	assert.Equal(t, "\a", f.bell.String())

	f.send(t, tea.KeyMsg{Type: tea.KeyEsc})
	assert.NotContains(t, f.m.View(), "Time for a break")
}

func TestResetAsksFirst(t *testing.T) {
	f := newFixture(t)
	f.press(t, "w", "b")
	require.Equal(t, 2, f.eng.Len())

	f.press(t, "r", "n")
	assert.Equal(t, "Reset cancelled", f.m.status)
	assert.Equal(t, 2, f.eng.Len())

	f.press(t, "r")
	assert.Contains(t, f.m.View(), "Really reset all records?")
	f.press(t, "y")
	assert.Equal(t, 0, f.eng.Len())
	assert.Equal(t, model.Paused, f.eng.Current())
	assert.Contains(t, f.m.View(), "No records yet")
}

func TestPanelsCollapse(t *testing.T) {
	f := newFixture(t)
	assert.Contains(t, f.m.View(), "Outing")
	assert.Contains(t, f.m.View(), "No records yet")

	f.press(t, "d", "h")
	view := f.m.View()
	assert.NotContains(t, view, "Outing")
	assert.NotContains(t, view, "No records yet")
}

func TestQuitUnsubscribes(t *testing.T) {
	f := newFixture(t)
	cmd := f.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
