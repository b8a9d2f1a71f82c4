// Package viz provides a terminal live view of a running simulation:
// the spin lattice, its observables, and a magnetization trace.
package viz

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/isinglab/internal/ising"
	"github.com/san-kum/isinglab/internal/sim"
)

const (
	sweepsPerTick   = 2
	historyCapacity = 240

	// Terminal real estate caps; larger lattices render a cropped window.
	maxViewWidth  = 48
	maxViewHeight = 24
)

type TickMsg time.Time

// Model steps a simulation on a timer and renders it. The temperature is
// adjustable live; lattice geometry, coupling, and field are fixed at
// construction because the cached energy depends on them.
type Model struct {
	params      sim.Params
	lat         *ising.Lattice
	rng         *rand.Rand
	temperature float64

	sweep      int
	accepted   int
	trials     int
	magHistory []float64
	running    bool
}

func NewModel(p sim.Params) (Model, error) {
	m := Model{
		params:      p,
		temperature: p.Temperature,
		running:     true,
		magHistory:  make([]float64, 0, historyCapacity),
	}
	if err := m.rebuild(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m *Model) rebuild() error {
	m.rng = rand.New(rand.NewSource(m.params.Seed))
	var err error
	if m.params.RandomInit {
		m.lat, err = ising.NewRandom(m.params.Width, m.params.Height,
			m.params.Coupling, m.params.Field, m.params.UpProbability, m.rng)
	} else {
		m.lat, err = ising.New(m.params.Width, m.params.Height, m.params.Coupling, m.params.Field)
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "up", "k":
			m.temperature *= 1.05
		case "down", "j":
			m.temperature *= 0.95
		}
	case TickMsg:
		if m.running {
			for i := 0; i < sweepsPerTick; i++ {
				m.step()
			}
			m.magHistory = append(m.magHistory, m.lat.MagnetizationPerSite())
			if len(m.magHistory) > historyCapacity {
				m.magHistory = m.magHistory[1:]
			}
		}
		return m, tick()
	}
	return m, nil
}

// step runs one full sweep at the current temperature.
func (m *Model) step() {
	trials := m.lat.Sites()
	for i := 0; i < trials; i++ {
		row := m.rng.Intn(m.lat.Height())
		col := m.rng.Intn(m.lat.Width())
		if ising.TryFlip(m.lat, row, col, m.temperature, m.rng) {
			m.accepted++
		}
	}
	m.trials += trials
	m.sweep++
}

func (m *Model) reset() {
	m.rebuild()
	m.temperature = m.params.Temperature
	m.sweep = 0
	m.accepted = 0
	m.trials = 0
	m.magHistory = m.magHistory[:0]
}

// View renders the TUI interface.
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("ISING LATTICE") + "\n")
	if m.running {
		s.WriteString("RUNNING\n")
	} else {
		s.WriteString("PAUSED\n")
	}

	s.WriteString(labelStyle.Render("Sweep") + valueStyle.Render(fmt.Sprintf("%d", m.sweep)) + "\n")
	s.WriteString(labelStyle.Render("Temperature") + valueStyle.Render(fmt.Sprintf("%.3f", m.temperature)) + "\n")
	s.WriteString(labelStyle.Render("Field") + valueStyle.Render(fmt.Sprintf("%.3f", m.params.Field)) + "\n")
	s.WriteString(labelStyle.Render("m per site") + valueStyle.Render(fmt.Sprintf("%+.4f", m.lat.MagnetizationPerSite())) + "\n")
	s.WriteString(labelStyle.Render("e per site") + valueStyle.Render(fmt.Sprintf("%+.4f", m.lat.EnergyPerSite())) + "\n")
	if m.trials > 0 {
		rate := float64(m.accepted) / float64(m.trials)
		s.WriteString(labelStyle.Render("Acceptance") + valueStyle.Render(fmt.Sprintf("%.3f", rate)) + "\n")
	}

	if len(m.magHistory) > 1 {
		chart := asciigraph.Plot(m.magHistory,
			asciigraph.Height(5),
			asciigraph.Width(50),
			asciigraph.Caption("magnetization per site"),
		)
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	stats := statsStyle.Render(s.String())
	lattice := latticeStyle.Render(m.renderLattice())
	view := lipglossJoin(lattice, stats)

	return view + helpStyle.Render("\nSP:Pause  R:Reset  ↑↓:Temperature  Q:Quit") + "\n"
}

// renderLattice draws the spin grid, cropped to the view window for
// large lattices.
func (m Model) renderLattice() string {
	rows := m.lat.Height()
	cols := m.lat.Width()
	cropped := false
	if rows > maxViewHeight {
		rows = maxViewHeight
		cropped = true
	}
	if cols > maxViewWidth {
		cols = maxViewWidth
		cropped = true
	}

	var b strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if m.lat.At(row, col) > 0 {
				b.WriteString(upStyle.Render("██"))
			} else {
				b.WriteString(downStyle.Render("██"))
			}
		}
		b.WriteByte('\n')
	}
	if cropped {
		b.WriteString(fmt.Sprintf("(%dx%d window of %dx%d lattice)",
			cols, rows, m.lat.Width(), m.lat.Height()))
	}
	return b.String()
}

// RunLive starts the interactive viewer for the given parameters.
func RunLive(p sim.Params) error {
	m, err := NewModel(p)
	if err != nil {
		return err
	}
	prog := tea.NewProgram(m)
	_, err = prog.Run()
	return err
}
