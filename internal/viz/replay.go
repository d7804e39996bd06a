package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/rocketsim/internal/analysis"
	"github.com/san-kum/rocketsim/internal/dynamo"
)

const (
	frameRate    = 30
	canvasWidth  = 60
	canvasHeight = 20
)

var (
	statsStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 2).
			Width(42)
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Replay plays a recorded trajectory back in simulated time. The full path
// is drawn faintly from the start; the head marks the current sample.
type Replay struct {
	title    string
	traj     *dynamo.Trajectory
	variant  dynamo.Variant
	events   analysis.Events
	xs, ys   []float64
	view     Viewport
	dt       float64
	head     int
	speed    float64
	paused   bool
	finished bool
}

func NewReplay(title string, traj *dynamo.Trajectory, variant dynamo.Variant, events analysis.Events) Replay {
	xs := traj.Times()
	if variant.HasRotation() {
		xs = traj.Column(func(s dynamo.Sample) float64 { return s.Pos.X() })
	}
	ys := traj.Altitudes()

	dt := 0.01
	if traj.Len() > 1 {
		dt = traj.At(1).T - traj.At(0).T
	}

	return Replay{
		title:   title,
		traj:    traj,
		variant: variant,
		events:  events,
		xs:      xs,
		ys:      ys,
		view:    Fit(xs, ys),
		dt:      dt,
		speed:   1,
	}
}

func (m Replay) Init() tea.Cmd { return tick() }

func (m Replay) Head() int { return m.head }

func (m Replay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "r":
			m.head, m.finished = 0, false
		case "[":
			m.seek(-1)
		case "]":
			m.seek(1)
		case "+", "=":
			m.speed = math.Min(m.speed*2, 64)
		case "-", "_":
			m.speed = math.Max(m.speed/2, 0.125)
		}
	case TickMsg:
		if !m.paused && !m.finished {
			m.advance(m.speed / frameRate)
		}
		return m, tick()
	}
	return m, nil
}

// advance moves the head by the given amount of simulated seconds.
func (m *Replay) advance(seconds float64) {
	n := int(math.Max(1, math.Round(seconds/m.dt)))
	m.head += n
	if last := m.traj.Len() - 1; m.head >= last {
		m.head = last
		m.finished = true
	}
}

// seek jumps one simulated second and pauses.
func (m *Replay) seek(dir int) {
	m.paused = true
	m.head += dir * int(math.Round(1/m.dt))
	m.head = max(0, min(m.head, m.traj.Len()-1))
	m.finished = m.head == m.traj.Len()-1
}

func (m Replay) View() string {
	if m.traj.Len() == 0 {
		return "empty trajectory\n"
	}
	s := m.traj.At(m.head)

	c := NewCanvas(canvasWidth, canvasHeight)
	c.DrawPath(m.view, m.xs[:m.head+1], m.ys[:m.head+1])
	c.Mark(m.view, m.xs[m.head], m.ys[m.head])

	status := "PLAYING"
	switch {
	case m.finished:
		status = "LANDED"
	case m.paused:
		status = "PAUSED"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title) + "  " + dimStyle.Render(fmt.Sprintf("%s x%g", status, m.speed)) + "\n\n")
	b.WriteString(line("time", "%.2f s", s.T))
	b.WriteString(line("altitude", "%.2f m", s.Pos.Y()))
	if m.variant.HasRotation() {
		b.WriteString(line("downrange", "%.2f m", s.Pos.X()))
		b.WriteString(line("speed", "%.2f m/s", s.Vel.Len()))
		b.WriteString(line("attitude", "%.2f°", s.Theta*180/math.Pi))
		b.WriteString(line("angle of attack", "%.2f°", s.AngleOfAttack*180/math.Pi))
	} else {
		b.WriteString(line("velocity", "%.2f m/s", s.Vel.Y()))
	}
	b.WriteString(line("thrust", "%.2f N", s.Thrust))
	b.WriteString(line("mass", "%.4f kg", s.Mass))
	b.WriteString(line("phase", "%s", m.phaseAt(s.T)))

	if m.head > 1 {
		b.WriteString("\n" + Plot(m.ys[:m.head+1], "altitude", 30, 4) + "\n")
	}
	b.WriteString(helpStyle.Render("SP:Pause [ ]:Seek +/-:Speed R:Restart Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, c.String(), statsStyle.Render(b.String())) + "\n"
}

func (m Replay) phaseAt(t float64) string {
	switch {
	case t < m.events.Burnout.Time:
		return "powered"
	case t <= m.events.Apogee.Time:
		return "coasting up"
	case m.head == m.traj.Len()-1:
		return "ground contact"
	}
	return "descending"
}
