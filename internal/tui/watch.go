package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/oscnet/internal/dynamo"
	"github.com/san-kum/oscnet/internal/logging"
	"github.com/san-kum/oscnet/internal/syncnet"
	"github.com/san-kum/oscnet/internal/viz"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

const (
	historyLen = 120
	maxSpeed   = 64
)

// WatchConfig describes a live view of one network.
type WatchConfig struct {
	Network syncnet.Config
	Solver  dynamo.Solver
	// Step is the simulated time advanced per macro step.
	Step float64
	// Target local order; reaching it pauses the view.
	Order float64
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is the bubbletea model that advances a network one macro step per
// speed unit on every tick and draws its phases on the unit circle.
type Model struct {
	cfg WatchConfig
	net *syncnet.Network
	err error

	simTime   float64
	steps     int
	speed     int
	paused    bool
	converged bool
	history   []float64

	width  int
	height int
}

func NewModel(cfg WatchConfig) (Model, error) {
	if !(cfg.Step > 0) {
		return Model{}, fmt.Errorf("%w: step must be positive, got %v", dynamo.ErrConfiguration, cfg.Step)
	}
	m := Model{cfg: cfg, speed: 1, width: 80, height: 24}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m *Model) reset() error {
	net, err := syncnet.New(m.cfg.Network, syncnet.WithLogger(logging.NoopLogger()))
	if err != nil {
		return err
	}
	m.net = net
	m.err = nil
	m.simTime = 0
	m.steps = 0
	m.converged = false
	m.history = append(m.history[:0], net.GlobalOrder())
	return nil
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if !m.paused && m.err == nil {
			for i := 0; i < m.speed && !m.paused; i++ {
				m.advance()
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ", "space", "p":
		m.paused = !m.paused
	case "+", "=":
		m.speed = min(m.speed*2, maxSpeed)
	case "-", "_":
		m.speed = max(m.speed/2, 1)
	case "r":
		if err := m.reset(); err != nil {
			m.err = err
		}
		m.paused = false
	}
	return m, nil
}

// advance integrates one macro step and pauses on convergence or failure.
func (m *Model) advance() {
	if _, err := m.net.SimulateStatic(1, m.cfg.Step, m.cfg.Solver, false); err != nil {
		m.err = err
		m.paused = true
		return
	}
	m.steps++
	m.simTime += m.cfg.Step

	m.history = append(m.history, m.net.GlobalOrder())
	if len(m.history) > historyLen {
		m.history = m.history[1:]
	}

	if m.cfg.Order > 0 && m.net.LocalOrder() >= m.cfg.Order {
		m.converged = true
		m.paused = true
	}
}

func (m Model) View() string {
	var b strings.Builder

	status := green.Render("● running")
	switch {
	case m.err != nil:
		status = yellow.Render("error: " + m.err.Error())
	case m.converged:
		status = viz.Status("converged")
	case m.paused:
		status = yellow.Render("○ paused")
	}

	nc := m.net.Config()
	fmt.Fprintf(&b, "\n   %s  %s\n", cyan.Render(fmt.Sprintf("%s · %d oscillators · %s", nc.Topology, nc.N, m.cfg.Solver)), status)
	fmt.Fprintf(&b, "   %s\n\n", dim.Render(fmt.Sprintf("t=%.2f  steps=%d  speed=%dx", m.simTime, m.steps, m.speed)))

	w := max(min((m.width-6)/2, 40), 10)
	h := max(min(m.height-12, 20), 5)
	for _, line := range strings.Split(viz.PhaseRing(m.net.Phases(), w, h), "\n") {
		if line != "" {
			b.WriteString("   " + line + "\n")
		}
	}

	b.WriteString("\n   " + viz.Metric("local", fmt.Sprintf("%.4f", m.net.LocalOrder())))
	b.WriteString("  " + viz.Metric("global", fmt.Sprintf("%.4f", m.net.GlobalOrder())) + "\n")
	b.WriteString("   " + viz.Sparkline(m.history, min(len(m.history), 60)) + "\n")

	b.WriteString("\n" + dim.Render("   space pause  ±speed  r reset  q quit") + "\n")
	return b.String()
}

// Run opens the live view in the alternate screen and blocks until quit.
func Run(cfg WatchConfig) error {
	m, err := NewModel(cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
