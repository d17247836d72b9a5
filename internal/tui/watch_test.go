package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/oscnet/internal/dynamo"
	"github.com/san-kum/oscnet/internal/syncnet"
	"github.com/san-kum/oscnet/internal/topology"
)

func watchConfig() WatchConfig {
	nc := syncnet.DefaultConfig()
	nc.N = 4
	nc.Topology = topology.AllToAll
	nc.InitialPhase = syncnet.Equipartition
	nc.CouplingWeight = 4
	return WatchConfig{Network: nc, Solver: dynamo.RK4, Step: 0.1, Order: 0.999}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelValidation(t *testing.T) {
	cfg := watchConfig()
	cfg.Step = 0
	_, err := NewModel(cfg)
	assert.ErrorIs(t, err, dynamo.ErrConfiguration)

	cfg = watchConfig()
	cfg.Network.N = 0
	_, err = NewModel(cfg)
	assert.Error(t, err)
}

func TestTickAdvances(t *testing.T) {
	m, err := NewModel(watchConfig())
	require.NoError(t, err)
	before := m.net.Phases()

	m, cmd := update(t, m, tickMsg(time.Now()))
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, m.steps)
	assert.InDelta(t, 0.1, m.simTime, 1e-12)
	assert.NotEqual(t, before, m.net.Phases())
	assert.Len(t, m.history, 2)
}

func TestPauseAndSpeed(t *testing.T) {
	m, err := NewModel(watchConfig())
	require.NoError(t, err)

	m, _ = update(t, m, runes("p"))
	assert.True(t, m.paused)
	m, _ = update(t, m, tickMsg(time.Now()))
	assert.Equal(t, 0, m.steps)

	m, _ = update(t, m, runes("p"))
	m, _ = update(t, m, runes("+"))
	m, _ = update(t, m, runes("+"))
	assert.Equal(t, 4, m.speed)
	m, _ = update(t, m, tickMsg(time.Now()))
	assert.Equal(t, 4, m.steps)

	for i := 0; i < 10; i++ {
		m, _ = update(t, m, runes("-"))
	}
	assert.Equal(t, 1, m.speed)
}

func TestConvergencePauses(t *testing.T) {
	m, err := NewModel(watchConfig())
	require.NoError(t, err)
	m.speed = maxSpeed

	for i := 0; i < 20 && !m.converged; i++ {
		m, _ = update(t, m, tickMsg(time.Now()))
	}
	assert.True(t, m.converged)
	assert.True(t, m.paused)
	assert.Contains(t, m.View(), "converged")
}

func TestResetAndQuit(t *testing.T) {
	m, err := NewModel(watchConfig())
	require.NoError(t, err)
	initial := m.net.Phases()

	m, _ = update(t, m, tickMsg(time.Now()))
	m, _ = update(t, m, runes("r"))
	assert.Equal(t, 0, m.steps)
	assert.Equal(t, initial, m.net.Phases())
	assert.Len(t, m.history, 1)

	_, cmd := update(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestViewShowsNetwork(t *testing.T) {
	m, err := NewModel(watchConfig())
	require.NoError(t, err)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()
	assert.Contains(t, view, "all_to_all")
	assert.Contains(t, view, "4 oscillators")
	assert.Contains(t, view, "local:")
}
