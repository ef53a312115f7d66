package gear

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	timerdto "gear/internal/modules/timer/dto"
	"gear/internal/ui/theme"
)

// Terminal cells are roughly twice as tall as they are wide; dial geometry
// works in square units by doubling row distances.
const cellAspect = 2.0

const (
	secondsPerTurn = 1800.0
	minRadius      = 3
	maxRadius      = 9
	marks          = 12
)

// Model draws the dial and the timer readout. It holds no timer logic: the
// app pushes each new state in with SetState.
type Model struct {
	state   timerdto.StateOutput
	width   int
	height  int
	originY int
}

func New() Model { return Model{} }

func (m *Model) SetState(state timerdto.StateOutput) { m.state = state }

func (m Model) State() timerdto.StateOutput { return m.state }

// SetSize sets the content area; originY is the screen row where it starts.
func (m *Model) SetSize(width, height, originY int) {
	m.width = width
	m.height = height
	m.originY = originY
}

// Radius is the dial radius in rows.
func (m Model) Radius() int {
	r := (m.height - 6) / 2
	if byWidth := int(float64(m.width-2) / (2 * cellAspect)); byWidth < r {
		r = byWidth
	}
	if r < minRadius {
		r = minRadius
	}
	if r > maxRadius {
		r = maxRadius
	}
	return r
}

// center is the dial centre in screen cells.
func (m Model) center() (int, int) {
	r := m.Radius()
	canvasW := int(2*cellAspect*float64(r)) + 1
	left := (m.width - canvasW) / 2
	if left < 0 {
		left = 0
	}
	return left + canvasW/2, m.originY + r
}

// Pivot is the dial centre in the square units DialPoint returns.
func (m Model) Pivot() (float64, float64) {
	cx, cy := m.center()
	return float64(cx), float64(cy) * cellAspect
}

// DialPoint maps a mouse cell to square units so drag angles are true angles.
func (m Model) DialPoint(x, y int) (float64, float64) {
	return float64(x), float64(y) * cellAspect
}

// OnDial reports whether a screen cell lies within the dial's outer ring.
func (m Model) OnDial(x, y int) bool {
	px, py := m.DialPoint(x, y)
	cx, cy := m.Pivot()
	limit := float64(m.Radius()+1) * cellAspect
	return math.Hypot(px-cx, py-cy) <= limit
}

// HandAngle is the hand position in degrees clockwise from twelve o'clock.
// One turn is thirty minutes.
func HandAngle(seconds float64) float64 {
	if seconds <= 0 {
		return 0
	}
	return math.Mod(seconds, secondsPerTurn) / secondsPerTurn * 360
}

func (m Model) View() string {
	dial := m.renderDial()
	readout := theme.Readout.Render(m.state.Display)
	if m.state.Display == "" {
		readout = theme.Readout.Render("0:00:00")
	}
	lines := []string{dial, "", readout, m.renderRange(), m.renderMode()}
	body := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Top, body)
}

func (m Model) renderDial() string {
	r := m.Radius()
	w := int(2*cellAspect*float64(r)) + 1
	h := 2*r + 1
	cx, cy := w/2, r
	grid := make([][]string, h)
	for y := range grid {
		grid[y] = make([]string, w)
		for x := range grid[y] {
			grid[y][x] = " "
		}
	}
	put := func(deg float64, radius float64, s string) {
		rad := deg * math.Pi / 180
		x := cx + int(math.Round(math.Sin(rad)*radius*cellAspect))
		y := cy - int(math.Round(math.Cos(rad)*radius))
		if y >= 0 && y < h && x >= 0 && x < w {
			grid[y][x] = s
		}
	}
	steps := 8 * r
	for i := 0; i < steps; i++ {
		put(float64(i)*360/float64(steps), float64(r), theme.Ring.Render("·"))
	}
	for i := 0; i < marks; i++ {
		put(float64(i)*360/marks, float64(r), theme.RingMark.Render("•"))
	}

	hand := theme.HandIdle
	if m.state.Running {
		hand = theme.Hand
	}
	angle := HandAngle(m.state.Seconds)
	for d := 1.0; d < float64(r); d += 0.5 {
		put(angle, d, hand.Render("∙"))
	}
	put(angle, float64(r)-0.5, hand.Render("●"))
	grid[cy][cx] = hand.Render("◉")

	rows := make([]string, h)
	for y := range grid {
		rows[y] = strings.Join(grid[y], "")
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderRange() string {
	if m.state.RangeStart == "" && m.state.RangeEnd == "" {
		return theme.Muted.Render("--:--:-- -> --:--:--")
	}
	end := m.state.RangeEnd
	if end == "" {
		end = "…"
	}
	return theme.Muted.Render(m.state.RangeStart + " -> " + end)
}

func (m Model) renderMode() string {
	mode := theme.Muted.Render("stopwatch")
	if m.state.Countdown {
		mode = theme.Countdown.Render("countdown")
	}
	switch {
	case m.state.Running:
		return mode + "  " + theme.Running.Render("running")
	case m.state.Started:
		return mode + "  " + theme.Paused.Render("paused")
	default:
		return mode + "  " + theme.Muted.Render("idle")
	}
}
