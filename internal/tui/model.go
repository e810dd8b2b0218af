// Package tui renders a live terminal dashboard over a running kernel,
// grounded on the same bubbletea/lipgloss pairing used elsewhere for
// terminal dashboards. It never mutates the kernel directly; all mutation goes through
// the Controller interface so the dashboard and the HTTP run surface stay
// behind the same seam.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/biotica/biotica/internal/civ"
	"github.com/biotica/biotica/internal/eventlog"
	"github.com/biotica/biotica/internal/genome"
	"github.com/biotica/biotica/internal/scheduler"
	"github.com/biotica/biotica/internal/snapshot"
	"github.com/biotica/biotica/internal/toolrouter"
)

// Controller is the mutating surface the dashboard drives: pause/resume
// and speed changes, mirrored by the HTTP run surface (§4.12's run
// routes) so neither one bypasses the other's view of scheduler state.
type Controller interface {
	Pause()
	Resume()
	IsPaused() bool
	SetSpeed(multiplier float64)
	TicksRun() int
}

// Views the dashboard cycles through with 'v': a flat string-keyed mode
// list rather than an enum.
var viewModes = []string{"grid", "species", "civ", "events"}

type tickMsg time.Time

var keys = struct {
	quit  key.Binding
	help  key.Binding
	space key.Binding
	view  key.Binding
	up    key.Binding
	down  key.Binding
}{
	quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	space: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause/resume")),
	view:  key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "cycle view")),
	up:    key.NewBinding(key.WithKeys("up", "+"), key.WithHelp("+", "speed up")),
	down:  key.NewBinding(key.WithKeys("down", "-"), key.WithHelp("-", "speed down")),
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	gridStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1)

	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var biomeStyles = map[string]lipgloss.Style{
	"DeepWater":    lipgloss.NewStyle().Foreground(lipgloss.Color("18")),
	"ShallowWater": lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	"Beach":        lipgloss.NewStyle().Foreground(lipgloss.Color("222")),
	"Grassland":    lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	"Forest":       lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
	"Jungle":       lipgloss.NewStyle().Foreground(lipgloss.Color("22")),
	"Desert":       lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	"Savanna":      lipgloss.NewStyle().Foreground(lipgloss.Color("179")),
	"Swamp":        lipgloss.NewStyle().Foreground(lipgloss.Color("65")),
	"Hills":        lipgloss.NewStyle().Foreground(lipgloss.Color("100")),
	"Mountain":     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	"Snow":         lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
	"Rock":         lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	"Lava":         lipgloss.NewStyle().Foreground(lipgloss.Color("202")),
	"Scorched":     lipgloss.NewStyle().Foreground(lipgloss.Color("88")),
}

// Model is the bubbletea model. It reads a *snapshot.Snapshot and a
// *toolrouter.Router taken at construction time and refreshed by the
// caller's own tick loop; the dashboard itself never steps the kernel.
type Model struct {
	rt         *toolrouter.Router
	ctrl       Controller
	width      int
	height     int
	selected   string
	showHelp   bool
	speedIdx   int
	lastSnap   snapshot.Snapshot
	refreshing func() snapshot.Snapshot
}

// New builds a dashboard model. refresh is called once per tick message
// to pull the latest snapshot; rt answers the read-only queries backing
// the species/civ/events views.
func New(rt *toolrouter.Router, ctrl Controller, refresh func() snapshot.Snapshot) Model {
	return Model{
		rt:         rt,
		ctrl:       ctrl,
		selected:   "grid",
		speedIdx:   defaultSpeedIndex(),
		refreshing: refresh,
	}
}

func defaultSpeedIndex() int {
	for i, v := range scheduler.AllowedSpeeds {
		if v == 1 {
			return i
		}
	}
	return 0
}

func doTick() tea.Cmd {
	return tea.Tick(scheduler.FixedStep, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return doTick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tickMsg:
		m.lastSnap = m.refreshing()
		return m, doTick()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.quit):
			return m, tea.Quit
		case key.Matches(msg, keys.help):
			m.showHelp = !m.showHelp
		case key.Matches(msg, keys.space):
			if m.ctrl.IsPaused() {
				m.ctrl.Resume()
			} else {
				m.ctrl.Pause()
			}
		case key.Matches(msg, keys.view):
			for i, mode := range viewModes {
				if mode == m.selected {
					m.selected = viewModes[(i+1)%len(viewModes)]
					break
				}
			}
		case key.Matches(msg, keys.up):
			if m.speedIdx < len(scheduler.AllowedSpeeds)-1 {
				m.speedIdx++
			}
			m.ctrl.SetSpeed(scheduler.AllowedSpeeds[m.speedIdx])
		case key.Matches(msg, keys.down):
			if m.speedIdx > 0 {
				m.speedIdx--
			}
			m.ctrl.SetSpeed(scheduler.AllowedSpeeds[m.speedIdx])
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.showHelp {
		return m.helpView()
	}

	var content string
	switch m.selected {
	case "species":
		content = m.speciesView()
	case "civ":
		content = m.civView()
	case "events":
		content = m.eventsView()
	default:
		content = m.gridView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.headerView(), content, m.footerView())
}

func (m Model) headerView() string {
	status := "RUNNING"
	if m.ctrl.IsPaused() {
		status = "PAUSED"
	}
	title := titleStyle.Render(fmt.Sprintf("biotica — tick %d", m.lastSnap.Tick))
	info := infoStyle.Render(fmt.Sprintf("%s | speed %.2fx | pop %d | species %d | factions %d | events %d | view %s",
		status, scheduler.AllowedSpeeds[m.speedIdx], m.lastSnap.Population, m.lastSnap.SpeciesCount,
		m.lastSnap.FactionCount, m.lastSnap.ActiveEvents, strings.ToUpper(m.selected)))
	return lipgloss.JoinHorizontal(lipgloss.Left, title, " ", info)
}

func (m Model) footerView() string {
	return footerStyle.Render("q quit · space pause/resume · v cycle view · ? help")
}

func (m Model) helpView() string {
	return gridStyle.Render(strings.Join([]string{
		"q / ctrl+c   quit",
		"space        pause or resume the scheduler",
		"v            cycle grid -> species -> civ -> events",
		"+ / -        raise or lower the speed multiplier",
		"?            toggle this help",
	}, "\n"))
}

func (m Model) gridView() string {
	if len(m.lastSnap.Biomes) == 0 {
		return gridStyle.Render("no snapshot yet")
	}
	w := m.lastSnap.WorldWidth
	h := m.lastSnap.WorldHeight

	maxRows := h
	if m.height > 6 && m.height-6 < maxRows {
		maxRows = m.height - 6
	}

	var b strings.Builder
	for y := 0; y < maxRows; y++ {
		for x := 0; x < w; x++ {
			biome := m.lastSnap.Biomes[y*w+x]
			name := biome.String()
			style, ok := biomeStyles[name]
			if !ok {
				style = lipgloss.NewStyle()
			}
			b.WriteString(style.Render("▓"))
		}
		b.WriteString("\n")
	}
	return gridStyle.Render(b.String())
}

func (m Model) speciesView() string {
	top := m.rt.GetTopSpecies(0, 15)
	var b strings.Builder
	b.WriteString("top species by population\n")
	for _, sp := range top {
		b.WriteString(formatSpeciesRow(sp))
	}
	return gridStyle.Render(b.String())
}

func formatSpeciesRow(sp *genome.Species) string {
	name := sp.CommonName
	if name == "" {
		name = sp.ID
	}
	return fmt.Sprintf("%-24s pop=%-5d diet=%-10s cognition=%.2f\n", name, sp.Population, sp.DietKind, sp.CognitionScore)
}

func (m Model) civView() string {
	civs := m.rt.ListCivs(15)
	var b strings.Builder
	b.WriteString("factions\n")
	for _, f := range civs {
		b.WriteString(formatFactionRow(f))
	}
	return gridStyle.Render(b.String())
}

func formatFactionRow(f *civ.Faction) string {
	name := f.Name
	if name == "" {
		name = f.ID
	}
	return fmt.Sprintf("%-16s pop=%-5d tech=%.2f home=(%d,%d)\n", name, f.Population, f.TechLevel, f.HomeX, f.HomeY)
}

func (m Model) eventsView() string {
	entries := m.rt.GetRecentLogs(eventlog.Filter{}, 1, 25)
	var b strings.Builder
	b.WriteString("recent log entries\n")
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("[%d] %s/%s %s\n", e.Tick, e.Severity, e.Category, e.Message))
	}
	return gridStyle.Render(b.String())
}
