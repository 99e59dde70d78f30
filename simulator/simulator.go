package main

import (
	"image"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rook-computer/minihost/internal/app"
	"github.com/rook-computer/minihost/internal/app/apps"
	"github.com/rook-computer/minihost/internal/input"
	"github.com/rook-computer/minihost/internal/logging"
	"github.com/rook-computer/minihost/internal/metrics"
	"github.com/rook-computer/minihost/internal/render"
	"github.com/rook-computer/minihost/internal/state"
)

const (
	screenWidth = 24
	// Half-block rows used for an app image; two pixels per cell vertically.
	imageRows = 8
)

var (
	screenStyle = lipgloss.NewStyle().
			Width(screenWidth).
			Border(lipgloss.RoundedBorder()).
			Foreground(lipgloss.Color("#11111b")).
			Background(lipgloss.Color("#eff1f5")).
			Align(lipgloss.Center)
	labelStyle  = lipgloss.NewStyle().Bold(true)
	statusStyle = lipgloss.NewStyle().Faint(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
)

type SimulatorConfig struct {
	Sync      apps.TimeDisplay
	Zone      string
	StatusURL string
	Store     *state.Store
	Metrics   *metrics.Metrics
	Logger    logging.Logger
	Interval  time.Duration
}

// Simulator runs the apps against a MemoryDisplay and keyboard-driven
// inputs inside a bubbletea program.
type Simulator struct {
	Host    *app.Host
	Display *render.MemoryDisplay

	button   input.Pulse
	escape   input.Pulse
	encoder  input.Counter
	interval time.Duration
}

type tickMsg time.Time

func NewSimulator(cfg SimulatorConfig) (*Simulator, error) {
	sim := &Simulator{Display: render.NewMemoryDisplay(), interval: cfg.Interval}
	if sim.interval <= 0 {
		sim.interval = 20 * time.Millisecond
	}

	registry := map[app.ID]app.App{
		app.Clock:  apps.NewClock(sim.Display, cfg.Sync, cfg.Zone),
		app.Rotary: apps.NewRotary(sim.Display, &sim.encoder),
		app.Info: apps.NewInfo(sim.Display, func() string { return "127.0.0.1" }, func(string) string {
			return cfg.StatusURL
		}),
	}
	menu := apps.NewMenu(sim.Display, &sim.encoder, apps.MenuEntries(registry))
	registry[app.Menu] = menu

	inputs := input.Reader{Button: &sim.button, Escape: &sim.escape, Encoder: &sim.encoder}
	host, err := app.NewHost(registry, inputs)
	if err != nil {
		return nil, err
	}
	menu.Host = host
	host.Display = sim.Display
	host.Store = cfg.Store
	host.Metrics = cfg.Metrics
	host.Clock = cfg.Sync
	if cfg.Logger != nil {
		host.Logger = cfg.Logger
		menu.Logger = cfg.Logger
	}
	sim.Host = host
	return sim, nil
}

// Start enters the first app.
func (s *Simulator) Start(id string) error {
	return s.Host.Run(app.ID(id))
}

func (s *Simulator) tick() tea.Cmd {
	return tea.Tick(s.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (s *Simulator) Init() tea.Cmd {
	return s.tick()
}

func (s *Simulator) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return s, tea.Quit
		case "enter", " ":
			s.button.Press()
		case "esc", "backspace":
			s.escape.Press()
		case "left", "h":
			s.encoder.Add(-1)
		case "right", "l":
			s.encoder.Add(1)
		}
		return s, nil
	case tickMsg:
		s.Host.Tick()
		return s, s.tick()
	}
	return s, nil
}

func (s *Simulator) View() string {
	frame := s.Display.Snapshot()

	var body []string
	if frame.Image != nil {
		body = append(body, halfBlocks(frame.Image, screenWidth-2, imageRows)...)
	}
	body = append(body, "", labelStyle.Render(frame.Label), "")
	if frame.Status != "" {
		body = append(body, statusStyle.Render(frame.Status))
	}

	screen := screenStyle.Render(strings.Join(body, "\n"))
	help := helpStyle.Render("←/→ turn  enter press  esc back  q quit")
	active := helpStyle.Render("active: " + string(s.Host.Active()))
	return lipgloss.JoinVertical(lipgloss.Left, screen, active, help)
}

// halfBlocks samples img into cols x rows terminal cells, two pixels per cell.
func halfBlocks(img image.Image, cols, rows int) []string {
	bounds := img.Bounds()
	if bounds.Empty() || cols <= 0 || rows <= 0 {
		return nil
	}
	dark := func(x, y int) bool {
		px := bounds.Min.X + x*bounds.Dx()/cols
		py := bounds.Min.Y + y*bounds.Dy()/(rows*2)
		r, g, b, _ := img.At(px, py).RGBA()
		return r+g+b < 3*0x8000
	}

	lines := make([]string, 0, rows)
	for row := 0; row < rows; row++ {
		var line strings.Builder
		for col := 0; col < cols; col++ {
			top, bottom := dark(col, row*2), dark(col, row*2+1)
			switch {
			case top && bottom:
				line.WriteRune('█')
			case top:
				line.WriteRune('▀')
			case bottom:
				line.WriteRune('▄')
			default:
				line.WriteRune(' ')
			}
		}
		lines = append(lines, line.String())
	}
	return lines
}
