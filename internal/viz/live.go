package viz

import (
	"fmt"
	"image"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/protodisk/internal/dynamo"
	"github.com/san-kum/protodisk/internal/export"
	"github.com/san-kum/protodisk/internal/integrators"
	"github.com/san-kum/protodisk/internal/metrics"
	"github.com/san-kum/protodisk/internal/physics"
	"github.com/san-kum/protodisk/internal/sampler"
	"github.com/san-kum/protodisk/internal/sim"
)

const (
	width           = 80
	height          = 24
	statsWidth      = 46
	historyCapacity = 600
	frameRate       = 30
	rotateStep      = 0.1
	// protostarRadius is the drawn size of the central body in scene units.
	protostarRadius = 5.0
)

// Options configure a live session.
type Options struct {
	Particles     int
	Params        dynamo.Params
	Seed          int64
	Integrator    string
	Workers       int
	StepsPerFrame int
	// SnapshotEvery and HistoryFrames size the replay buffer.
	SnapshotEvery int
	HistoryFrames int
	Theme         string
	Logger        zerolog.Logger
}

type TickMsg time.Time

// Model drives a Stepper from the bubbletea frame clock and renders the
// disk after every frame.
type Model struct {
	opts     Options
	stepper  *sim.Stepper
	energy   *metrics.EnergyDrift
	bound    *metrics.Bound
	recorder *sim.Recorder

	canvas   *Canvas
	camera   *Camera
	theme    int
	running  bool
	playHead int
	showHelp bool
	status   string

	energyHistory []float64
	recording     bool
	frames        []*image.Paletted
}

func NewModel(opts Options) (Model, error) {
	if opts.StepsPerFrame < 1 {
		opts.StepsPerFrame = 1
	}
	if opts.HistoryFrames < 1 {
		opts.HistoryFrames = 120
	}
	if opts.Integrator == "" {
		opts.Integrator = integrators.Default
	}

	m := Model{
		opts:          opts,
		canvas:        NewCanvas(width, height),
		camera:        NewCamera(),
		running:       true,
		playHead:      -1,
		energyHistory: make([]float64, 0, historyCapacity),
	}
	for i, t := range Themes {
		if t.Name == opts.Theme {
			m.theme = i
		}
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// Run starts an interactive session on the terminal.
func Run(opts Options) error {
	m, err := NewModel(opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			if err := m.reset(); err != nil {
				m.status = err.Error()
			}
		case "c":
			m.camera.Reset()
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "x":
			m.camera.RotateX(rotateStep)
		case "X":
			m.camera.RotateX(-rotateStep)
		case "y":
			m.camera.RotateY(rotateStep)
		case "Y":
			m.camera.RotateY(-rotateStep)
		case "z":
			m.camera.RotateZ(rotateStep)
		case "Z":
			m.camera.RotateZ(-rotateStep)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "t":
			m.theme = nextTheme(m.theme)
		case "s":
			m.saveSVG()
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.advance()
		m.draw()
		if m.recording {
			m.frames = append(m.frames, m.canvas.Image())
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) resize(w, h int) {
	cw := w - statsWidth - 6
	ch := h - 3
	if cw < 20 {
		cw = 20
	}
	if ch < 10 {
		ch = 10
	}
	m.canvas = NewCanvas(cw, ch)
}

// advance runs one frame worth of ticks, or moves the replay head.
func (m *Model) advance() {
	if !m.running {
		return
	}
	if m.playHead >= 0 {
		m.playHead++
		if m.playHead >= m.recorder.Len() {
			m.playHead = -1
		}
		return
	}

	for i := 0; i < m.opts.StepsPerFrame; i++ {
		m.stepper.Tick()
	}
	m.energyHistory = append(m.energyHistory, m.energy.Current())
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

// scrub changes the playback position in the recorded frames.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if m.recorder.Len() == 0 {
			return
		}
		m.playHead = m.recorder.Len() - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= m.recorder.Len() {
		m.playHead = -1
	}
}

// reset regenerates the disk from the configured seed.
func (m *Model) reset() error {
	state, err := physics.Generate(m.opts.Particles, m.opts.Params, sampler.NewSource(m.opts.Seed))
	if err != nil {
		return err
	}
	integ, err := integrators.New(m.opts.Integrator, m.opts.Workers)
	if err != nil {
		return err
	}

	m.energy = metrics.NewEnergyDrift(m.opts.Params.GM())
	m.bound = metrics.NewBound(2 * m.opts.Params.MaxRadius)
	m.recorder = sim.NewRecorder(state.Len(), max(1, m.opts.SnapshotEvery), m.opts.HistoryFrames)

	m.stepper, err = sim.New(state, m.opts.Params, integ,
		sim.WithLogger(m.opts.Logger),
		sim.WithMetrics(m.energy, m.bound),
		sim.WithObservers(m.recorder))
	if err != nil {
		return err
	}
	m.stepper.ResetMetrics()
	m.recorder.Capture(state.View(), 0, 0)

	m.energyHistory = m.energyHistory[:0]
	m.playHead = -1
	m.status = ""
	return nil
}

func (m *Model) saveSVG() {
	name := fmt.Sprintf("protodisk_step%06d.svg", m.stepper.Step())
	svg := export.SnapshotToSVG(m.stepper.View(), 800, 1.5*m.opts.Params.MaxRadius)
	if err := os.WriteFile(name, []byte(svg), 0644); err != nil {
		m.status = err.Error()
		return
	}
	m.status = "saved " + name
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.frames = m.frames[:0]
		m.status = ""
		return
	}
	m.recording = false
	if len(m.frames) == 0 {
		return
	}
	const name = "protodisk.gif"
	f, err := os.Create(name)
	if err != nil {
		m.status = err.Error()
		return
	}
	defer f.Close()
	if err := EncodeGIF(f, m.frames); err != nil {
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("saved %s (%d frames)", name, len(m.frames))
	m.frames = nil
}

// draw renders either the live state or the replay frame onto the canvas.
func (m *Model) draw() {
	m.canvas.Clear()
	sw, sh := m.canvas.SubWidth(), m.canvas.SubHeight()
	view := m.stepper.View()

	if m.playHead >= 0 {
		f := m.recorder.Frame(m.playHead)
		for i := view.ProtostarCount(); i < len(f.Positions)/3; i++ {
			p := r3.Vec{X: float64(f.Positions[3*i]), Y: float64(f.Positions[3*i+1]), Z: float64(f.Positions[3*i+2])}
			if x, y, ok := m.camera.Project(p, sw, sh); ok {
				m.canvas.Set(x, y)
			}
		}
	} else {
		for i := view.ProtostarCount(); i < view.Len(); i++ {
			if x, y, ok := m.camera.Project(view.Position(i), sw, sh); ok {
				m.canvas.Set(x, y)
			}
		}
	}

	if view.ProtostarCount() > 0 {
		m.drawProtostar(sw, sh)
	}
}

// drawProtostar marks every cell covered by the central body.
func (m *Model) drawProtostar(sw, sh int) {
	cx, cy, ok := m.camera.Project(r3.Vec{}, sw, sh)
	if !ok {
		return
	}
	r := m.camera.ProjectedRadius(protostarRadius, sh)
	ri := int(math.Ceil(r))
	for dy := -ri; dy <= ri; dy++ {
		for dx := -ri; dx <= ri; dx++ {
			if float64(dx*dx+dy*dy) <= r*r || (dx == 0 && dy == 0) {
				m.canvas.Mark(cx+dx, cy+dy, '●')
			}
		}
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	theme := Themes[m.theme]
	disk := lipgloss.NewStyle().Foreground(theme.Disk)
	star := lipgloss.NewStyle().Foreground(theme.Protostar).Bold(true)
	canvasView := canvasStyle.Render(m.canvas.Render(disk, star))

	var s strings.Builder
	s.WriteString(headerStyle.Foreground(theme.Accent).Render("PROTOPLANETARY DISK") + "\n")

	status := StatusRunning.Render("RUNNING")
	switch {
	case m.playHead >= 0:
		f := m.recorder.Frame(m.playHead)
		status = StatusPaused.Render(fmt.Sprintf("REPLAY step %d (%d/%d)", f.Step, m.playHead+1, m.recorder.Len()))
	case !m.running:
		status = StatusPaused.Render("PAUSED")
	}
	if m.recording {
		status += " " + StatusRecording.Render("● REC")
	}
	s.WriteString(status + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(5),
			asciigraph.Width(30),
			asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	view := m.stepper.View()
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Step", fmt.Sprintf("%d", m.stepper.Step()))
	row("Time", fmt.Sprintf("%.1f", m.stepper.Time()))
	row("Particles", fmt.Sprintf("%d (%d protostar)", view.Len(), view.ProtostarCount()))
	row("Energy", fmt.Sprintf("%.4g", m.energy.Current()))
	row("Drift", fmt.Sprintf("%.3e", m.energy.Value()))
	row("Bound", ProgressBar(m.bound.Value(), 16))
	row("Distance", fmt.Sprintf("%.0f (zoom %.2fx)", m.camera.Distance(), m.camera.Zoom))
	row("Integrator", m.opts.Integrator)
	row("Theme", theme.Name)
	if m.status != "" {
		s.WriteString("\n" + valueStyle.Render(m.status) + "\n")
	}

	s.WriteString(helpStyle.Render("─────────────────────\nSP:Pause R:Reset Q:Quit\nXYZ:Rotate +/-:Zoom C:Camera\n[ ]:Replay S:SVG G:GIF ?:Help"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Regenerate the disk      ║
║  Q        - Quit                     ║
║  x/X y/Y  - Rotate about X / Y       ║
║  z/Z      - Rotate about Z           ║
║  + / -    - Zoom in / out            ║
║  C        - Reset camera             ║
║  [ / ]    - Step through replay      ║
║  S        - Save SVG snapshot        ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`
