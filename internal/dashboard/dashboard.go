// Package dashboard is the live terminal view of the timer. It drives the
// engine's one-second tick and maps key presses onto engine handlers.
package dashboard

import (
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Tiliavir/worktimer/internal/engine"
	"github.com/Tiliavir/worktimer/internal/model"
	"github.com/Tiliavir/worktimer/internal/storage"
	"github.com/Tiliavir/worktimer/internal/timecalc"
)

// Hooks is the engine's notifier and confirmer while the dashboard runs.
// Notifications become a banner plus a terminal bell. Reset is confirmed by
// an explicit key press before the engine asks.
type Hooks struct {
	// Bell receives the BEL character on every notification; nil disables it.
	Bell io.Writer

	notice string
	armed  bool
}

var (
	_ engine.Notifier  = (*Hooks)(nil)
	_ engine.Confirmer = (*Hooks)(nil)
)

func (h *Hooks) Notify(title, body string) {
	h.notice = title + ": " + body
	if h.Bell != nil {
		fmt.Fprint(h.Bell, "\a")
	}
}

// Confirm approves exactly one request after the user pressed y.
func (h *Hooks) Confirm(string) bool {
	ok := h.armed
	h.armed = false
	return ok
}

// Panels persists which dashboard sections are collapsed.
type Panels interface {
	PanelCollapsed(id string) (bool, error)
	TogglePanel(id string) (bool, error)
}

// Config holds the dashboard defaults.
type Config struct {
	// Category and CategoryLabel are used by the w key.
	Category      string
	CategoryLabel string
	// Rows is the number of log rows shown; 0 means 8.
	Rows int
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the bubbletea model of the dashboard.
type Model struct {
	eng    *engine.Engine
	hooks  *Hooks
	panels Panels
	cfg    Config

	stats     engine.Stats
	logs      []model.Record
	collapsed map[string]bool
	changes   *engine.Change
	unsub     func()

	confirming bool
	status     string
	width      int
}

// New returns a dashboard over eng. hooks must be the notifier and
// confirmer eng was built with.
func New(eng *engine.Engine, hooks *Hooks, panels Panels, cfg Config) Model {
	if cfg.Rows <= 0 {
		cfg.Rows = 8
	}
	m := Model{
		eng:       eng,
		hooks:     hooks,
		panels:    panels,
		cfg:       cfg,
		collapsed: map[string]bool{},
		changes:   new(engine.Change),
	}
	changes := m.changes
	m.unsub = eng.Subscribe(func(c engine.Change) { *changes |= c })

	for _, id := range storage.CategoryPanels {
		m.collapsed[id], _ = panels.PanelCollapsed(id)
	}
	for _, id := range storage.Panels {
		m.collapsed[id], _ = panels.PanelCollapsed(id)
	}
	m.logs = eng.State().Logs
	m.stats = eng.Stats()
	return m
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tickMsg:
		m.stats = m.eng.Tick()
		cmd = tickCmd()
	case tea.KeyMsg:
		if m.confirming {
			m = m.confirmReset(msg.String() == "y")
			break
		}
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.unsub()
			return m, tea.Quit
		}
		m = m.handleKey(msg.String())
	}

	if m.changes.Has(engine.LogChanged) {
		m.logs = m.eng.State().Logs
		m.stats = m.eng.Stats()
	}
	*m.changes = 0
	return m, cmd
}

func (m Model) handleKey(key string) Model {
	var err error
	m.status = ""
	switch key {
	case "w":
		err = m.eng.StartCategoryWork(m.cfg.Category, m.cfg.CategoryLabel)
	case "b":
		err = m.eng.StartBreak()
	case "p":
		err = m.eng.PauseTimer()
	case "l":
		if !m.eng.LogWork() {
			m.status = "Not working, nothing to checkpoint"
		}
	case "1", "2", "3", "4", "5", "6":
		err = m.eng.StartDaily(model.DailyKeys[key[0]-'1'], "")
	case "r":
		m.confirming = true
		m.status = "Really reset all records? (y/N)"
	case "d":
		m = m.toggle("cat-daily")
	case "h":
		m = m.toggle("panel-basic")
	case "esc":
		m.hooks.notice = ""
	}
	if err != nil {
		m.status = err.Error()
	}
	return m
}

func (m Model) confirmReset(yes bool) Model {
	m.confirming = false
	if !yes {
		m.status = "Reset cancelled"
		return m
	}
	m.hooks.armed = true
	if m.eng.Reset() {
		m.status = "All records reset"
	}
	return m
}

func (m Model) toggle(id string) Model {
	collapsed, err := m.panels.TogglePanel(id)
	if err != nil {
		m.status = err.Error()
		return m
	}
	m.collapsed[id] = collapsed
	return m
}

func (m Model) View() string {
	st := m.stats
	var b strings.Builder

	b.WriteString(titleStyle.Render("Work Timer - " + st.At.Format("Mon Jan 2 15:04:05")))
	b.WriteString("\n\n")
	if m.hooks.notice != "" {
		b.WriteString(bannerStyle.Render(m.hooks.notice))
		b.WriteString("\n\n")
	}

	status := idleStyle.Render(st.Current.Label())
	if st.Current == model.Work {
		status = workingStyle.Render(st.Current.Label())
	}
	totals := []string{
		fmt.Sprintf("Status            %s", status),
		fmt.Sprintf("Work              %s", timecalc.FormatDuration(st.Total(model.Work))),
		fmt.Sprintf("Break             %s", timecalc.FormatDuration(st.Total(model.Break))),
		fmt.Sprintf("Paused            %s", timecalc.FormatDuration(st.Total(model.Paused))),
		fmt.Sprintf("Continuous work   %s", workingStyle.Render(timecalc.FormatDuration(st.ContinuousWork))),
		fmt.Sprintf("Rest entitlement  %s", timecalc.FormatDuration(st.RestEntitlement)),
		fmt.Sprintf("Remaining rest    %s", restStyle.Render(timecalc.FormatDuration(st.RemainingRest))),
	}
	boxes := []string{boxStyle.Render(strings.Join(totals, "\n"))}

	if !m.collapsed["cat-daily"] {
		daily := make([]string, len(model.DailyKeys))
		for i, a := range model.DailyKeys {
			line := fmt.Sprintf("%d %-9s %s", i+1, a.Label(), timecalc.FormatDuration(st.Total(a)))
			if st.Current == a {
				line = workingStyle.Render(line)
			}
			daily[i] = line
		}
		boxes = append(boxes, boxStyle.Render(strings.Join(daily, "\n")))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	b.WriteString("\n")

	if !m.collapsed["panel-basic"] {
		b.WriteString(boxStyle.Render(m.logView()))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render("w work  b break  p pause  l checkpoint  1-6 daily  r reset  d/h panels  esc dismiss  q quit"))
	return b.String()
}

func (m Model) logView() string {
	if len(m.logs) == 0 {
		return mutedStyle.Render("No records yet")
	}
	from := max(0, len(m.logs)-m.cfg.Rows)
	lines := make([]string, 0, len(m.logs)-from)
	for i := from; i < len(m.logs); i++ {
		r := m.logs[i]
		end, dur := r.End, int64(0)
		if r.Open() {
			end = "..."
			dur = timecalc.ElapsedSeconds(r.Start, r.StartDate, m.stats.At)
		} else {
			dur = timecalc.IntervalSeconds(r.Start, r.End, r.StartDate, r.EndDate, m.stats.At)
		}
		lines = append(lines, fmt.Sprintf("%3d  %s %s-%-8s  %-14s %s",
			i, r.StartDate, r.Start, end, r.TypeLabel(), timecalc.FormatDuration(dur)))
	}
	return strings.Join(lines, "\n")
}
