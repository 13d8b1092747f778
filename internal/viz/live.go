package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/dumbbellgas/internal/gas"
	"github.com/san-kum/dumbbellgas/internal/geom"
)

const (
	liveWidth       = 80
	liveHeight      = 24
	historyCapacity = 600
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).Width(45)
	headerStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	labelStyle  = MetricLabel.Width(14)
	graphStyle  = lipgloss.NewStyle().Padding(1, 0)
	helpStyle   = KeyHint.MarginTop(2)
)

// TickMsg drives one simulation step per frame.
type TickMsg time.Time

// Model renders a running Simulation: the dumbbell chamber via the
// Braille canvas, both gates' occupancy, and a mass-spread sparkline.
type Model struct {
	sim     *gas.Simulation
	writeDt float64
	running bool

	canvas *Canvas
	width  int
	height int

	massSpreadHistory []float64
	showHelp          bool
	err               error
}

// NewModel wraps an already-Start'ed Simulation for live rendering.
func NewModel(sim *gas.Simulation, writeDt float64) Model {
	return Model{
		sim:               sim,
		writeDt:           writeDt,
		running:           true,
		canvas:            NewCanvas(liveWidth, liveHeight),
		width:             liveWidth,
		height:            liveHeight,
		massSpreadHistory: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "t":
			names := ThemeNames()
			for i, name := range names {
				if name == CurrentTheme.Name {
					SetTheme(names[(i+1)%len(names)])
					break
				}
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			more, err := m.sim.Update(m.writeDt, nil)
			if err != nil {
				m.err = err
				m.running = false
			} else if !more {
				m.running = false
			}
		}
		m.massSpreadHistory = append(m.massSpreadHistory, m.sim.MassSpread())
		if len(m.massSpreadHistory) > historyCapacity {
			m.massSpreadHistory = m.massSpreadHistory[1:]
		}
		m.draw()
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// draw rebuilds the canvas from the simulation's current committed
// particle positions.
func (m *Model) draw() {
	drawSimulation(m.canvas, m.sim, m.width, m.height)
}

// RenderLayers draws the chamber walls and the particles onto two
// separate Braille canvases of the same dimensions, so an exporter can
// style boundary dots and particle dots differently. The live Model
// draws both onto one canvas instead, since a terminal cell has a
// single color.
func RenderLayers(sim *gas.Simulation, width, height int) (walls, particles *Canvas) {
	walls = NewCanvas(width, height)
	particles = NewCanvas(width, height)
	v := newChamberView(sim.Domain(), width, height)
	drawChamber(walls, sim, v)
	drawParticles(particles, sim, v)
	return walls, particles
}

func drawSimulation(c *Canvas, sim *gas.Simulation, width, height int) {
	c.Clear()
	v := newChamberView(sim.Domain(), width, height)
	drawChamber(c, sim, v)
	drawParticles(c, sim, v)
}

// chamberView maps domain coordinates onto the canvas's sub-pixel
// grid, fitting the whole dumbbell with a little margin.
type chamberView struct {
	scale  float64
	cx, cy int
}

func newChamberView(d *geom.Domain, width, height int) chamberView {
	cw, ch := width*2, height*4
	scale := float64(ch) / (2.2 * (d.CircleDistance/2 + 2*d.CircleRadius))
	return chamberView{scale: scale, cx: cw / 2, cy: ch / 2}
}

func (v chamberView) toScreen(x, y float64) (int, int) {
	return v.cx + int(x*v.scale), v.cy - int(y*v.scale)
}

// drawChamber renders the static boundary: both reservoir arcs and the
// two bridge rails.
func drawChamber(c *Canvas, sim *gas.Simulation, v chamberView) {
	d := sim.Domain()

	lcx, lcy := v.toScreen(d.CenterX(geom.Left), 0)
	rcx, rcy := v.toScreen(d.CenterX(geom.Right), 0)
	c.DrawCircle(lcx, lcy, int(d.CircleRadius*v.scale))
	c.DrawCircle(rcx, rcy, int(d.CircleRadius*v.scale))

	bx0, by0 := v.toScreen(-d.BridgeLength/2, d.BridgeHeight/2)
	bx1, by1 := v.toScreen(d.BridgeLength/2, d.BridgeHeight/2)
	bx2, by2 := v.toScreen(d.BridgeLength/2, -d.BridgeHeight/2)
	bx3, by3 := v.toScreen(-d.BridgeLength/2, -d.BridgeHeight/2)
	c.DrawLine(bx0, by0, bx1, by1)
	c.DrawLine(bx2, by2, bx3, by3)
}

// drawParticles renders every particle's last committed position.
func drawParticles(c *Canvas, sim *gas.Simulation, v chamberView) {
	for i := 0; i < sim.NumParticles(); i++ {
		p := sim.Particle(i)
		px, py := v.toScreen(p.X, p.Y)
		c.Set(px, py)
	}
}

// gateReadout shows a gate's occupancy as count plus a capacity bar.
func gateReadout(occupants, capacity int) string {
	frac := 0.0
	if capacity > 0 {
		frac = float64(occupants) / float64(capacity)
	}
	return MetricValue.Render(fmt.Sprintf("%d/%d ", occupants, capacity)) + ProgressBar(frac, 10)
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Foreground(CurrentTheme.Primary).Render("DUMBBELL GAS") + "\n")

	status := StatusRunning.Render("RUNNING")
	if !m.running {
		status = StatusPaused.Render("STOPPED")
	}
	if m.err != nil {
		status = StatusError.Render("ERROR: " + m.err.Error())
	}
	s.WriteString(status + "\n\n")

	if len(m.massSpreadHistory) > 1 {
		chart := asciigraph.Plot(m.massSpreadHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("mass spread"))
		s.WriteString(graphStyle.Foreground(CurrentTheme.Secondary).Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + MetricValue.Render(fmt.Sprintf("%.4f", m.sim.Time())) + "\n")
	s.WriteString(labelStyle.Render("Collisions") + MetricValue.Render(fmt.Sprintf("%d", m.sim.NumCollisions())) + "\n")
	s.WriteString(labelStyle.Render("In-left") + MetricValue.Render(fmt.Sprintf("%d/%d", m.sim.InLeft(), m.sim.NumParticles())) + "\n")
	s.WriteString(labelStyle.Render("Mass spread") + MetricValue.Render(fmt.Sprintf("%.4f", m.sim.MassSpread())) + "\n")
	s.WriteString(labelStyle.Render("Resets") + MetricValue.Render(fmt.Sprintf("%d", m.sim.ResetCount())) + "\n\n")

	leftOcc, leftCap := m.sim.GateOccupancy(geom.Left)
	rightOcc, rightCap := m.sim.GateOccupancy(geom.Right)
	s.WriteString("GATES\n")
	s.WriteString(labelStyle.Render("Left gate") + gateReadout(leftOcc, leftCap) + "\n")
	s.WriteString(labelStyle.Render("Right gate") + gateReadout(rightOcc, rightCap) + "\n")

	s.WriteString(helpStyle.Render("\n" + Separator(21) + "\nSpace:Pause  T:Theme  Q:Quit  ?:Help"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}
