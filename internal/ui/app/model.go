package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	notifierdto "gear/internal/modules/notifier/dto"
	timerdto "gear/internal/modules/timer/dto"
	"gear/internal/ui/components"
	"gear/internal/ui/theme"
	gearview "gear/internal/ui/views/gear"
	historyview "gear/internal/ui/views/history"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type timerPort interface {
	Tap(ctx context.Context) (timerdto.EventOutput, error)
	DoubleTap(ctx context.Context) (timerdto.EventOutput, error)
	Rotate(ctx context.Context, degrees float64) (timerdto.EventOutput, error)
	Wind(ctx context.Context, minutes float64) (timerdto.EventOutput, error)
	DragBegin(ctx context.Context, x, y, pivotX, pivotY float64) (timerdto.EventOutput, error)
	DragMove(ctx context.Context, x, y float64) (timerdto.EventOutput, error)
	DragEnd(ctx context.Context) (timerdto.EventOutput, error)
	State(ctx context.Context) (timerdto.StateOutput, error)
	History(ctx context.Context) ([]timerdto.HistoryEntryOutput, error)
	Export(ctx context.Context, dir string) (timerdto.ExportOutput, error)
}

type tickPort interface {
	Tick(ctx context.Context) (timerdto.EventOutput, error)
}

// lifecyclePort is satisfied by platform/lifecycle.Handler.
type lifecyclePort interface {
	DidEnterBackground()
	WillEnterForeground()
}

type notifyPort interface {
	Test(ctx context.Context, after time.Duration) error
}

// Deps wires the model to the application. Notify and Alerts are optional.
type Deps struct {
	Timer        timerPort
	Ticker       tickPort
	Lifecycle    lifecyclePort
	Notify       notifyPort
	Alerts       <-chan notifierdto.Alert
	TickInterval time.Duration
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabGear tabID = iota
	tabHistory
	tabCount
)

var tabLabels = [tabCount]string{"Gear", "History"}

const (
	// One key press winds a minute; page keys wind ten.
	stepDegrees     = 12.0
	pageDegrees     = 120.0
	doubleClickWait = 400 * time.Millisecond
	tabBarHeight    = 2
	statusBarHeight = 2
	notifyTestDelay = 5 * time.Second
)

var paletteHints = []string{
	"timer:tap",
	"timer:reset",
	"timer:wind <minutes>",
	"history:export <dir>",
	"notify:test [seconds]",
}

// ─── async messages ──────────────────────────────────────────────────────────

type tickMsg time.Time

type backgroundedMsg struct{}

type clickTimeoutMsg struct{ seq int }

type alertMsg notifierdto.Alert

type exportedMsg struct {
	out timerdto.ExportOutput
	err error
}

type notifyTestMsg struct {
	after time.Duration
	err   error
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tap      key.Binding
	Reset    key.Binding
	WindUp   key.Binding
	WindDown key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Suspend  key.Binding
	Tab      key.Binding
	Help     key.Binding
	Palette  key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tap:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/stop")),
		Reset:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "finish & reset")),
		WindUp:   key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "+1 min")),
		WindDown: key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "-1 min")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "+10 min")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "-10 min")),
		Suspend:  key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "suspend")),
		Tab:      key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next tab")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:  key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tap, k.Reset, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tap, k.Reset, k.Suspend},
		{k.WindUp, k.WindDown, k.PageUp, k.PageDown},
		{k.Tab, k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. Timer events run inline in Update so
// they reach the engine in input order; exports and notifier calls run as
// commands.
type Model struct {
	deps Deps

	gearView    gearview.Model
	historyView historyview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	alert     string
	width     int
	height    int

	// mouse gesture state
	pressed      bool
	dragging     bool
	pressX       int
	pressY       int
	pendingClick bool
	clickSeq     int
}

func NewModel(deps Deps) Model {
	if deps.TickInterval <= 0 {
		deps.TickInterval = time.Second
	}
	return Model{
		deps:        deps,
		gearView:    gearview.New(),
		historyView: historyview.New(deps.Timer),
		activeTab:   tabGear,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(paletteHints),
		status:      "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.historyView.Init(),
		m.tickCmd(),
		m.waitAlertCmd(),
		func() tea.Msg { return tea.ResumeMsg{} },
	)
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Ticks and alerts keep flowing while the palette is open.
	switch msg := msg.(type) {
	case tickMsg:
		out, err := m.deps.Ticker.Tick(context.Background())
		return m, tea.Batch(m.applyEvent("", out, err), m.tickCmd())
	case alertMsg:
		m.alert = "🔔 " + msg.Title + ": " + msg.Body
		return m, m.waitAlertCmd()
	}

	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	case tea.ResumeMsg:
		// Also sent once at start-up to restore a snapshot left by a
		// previous run.
		if m.deps.Lifecycle != nil {
			m.deps.Lifecycle.WillEnterForeground()
		}
		m.refreshState()
		return m, m.historyView.Reload()

	case backgroundedMsg:
		m.status = "suspended"
		return m, tea.Suspend

	case clickTimeoutMsg:
		if m.pendingClick && msg.seq == m.clickSeq {
			m.pendingClick = false
			out, err := m.deps.Timer.Tap(context.Background())
			return m, m.applyEvent("tap", out, err)
		}
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.status = "export failed: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("exported %d new sessions to %s", msg.out.Written, msg.out.IndexPath)
		}

	case notifyTestMsg:
		if msg.err != nil {
			m.status = "notification test: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("test notification in %s", msg.after)
		}

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case historyview.LoadedMsg:
		var cmd tea.Cmd
		m.historyView, cmd = m.historyView.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		if m.activeTab == tabGear {
			return m.handleMouse(msg)
		}

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.activeTab == tabHistory && m.historyView.Filtering() {
			break
		}
		m.alert = ""

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Suspend):
			return m, m.backgroundCmd()
		case msg.String() == "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case msg.String() == "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, m.keys.Palette):
			return m, m.palette.Open()
		}
		if m.activeTab == tabGear {
			return m.handleGearKey(msg)
		}
	}

	if m.activeTab == tabHistory {
		var cmd tea.Cmd
		m.historyView, cmd = m.historyView.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleGearKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	switch {
	case key.Matches(msg, m.keys.Tap):
		out, err := m.deps.Timer.Tap(ctx)
		return m, m.applyEvent("tap", out, err)
	case key.Matches(msg, m.keys.Reset):
		out, err := m.deps.Timer.DoubleTap(ctx)
		return m, m.applyEvent("reset", out, err)
	case key.Matches(msg, m.keys.WindUp):
		out, err := m.deps.Timer.Rotate(ctx, stepDegrees)
		return m, m.applyEvent("", out, err)
	case key.Matches(msg, m.keys.WindDown):
		out, err := m.deps.Timer.Rotate(ctx, -stepDegrees)
		return m, m.applyEvent("", out, err)
	case key.Matches(msg, m.keys.PageUp):
		out, err := m.deps.Timer.Rotate(ctx, pageDegrees)
		return m, m.applyEvent("", out, err)
	case key.Matches(msg, m.keys.PageDown):
		out, err := m.deps.Timer.Rotate(ctx, -pageDegrees)
		return m, m.applyEvent("", out, err)
	}
	return m, nil
}

// handleMouse turns a press-drag-release on the dial into drag events and a
// press-release without movement into a click. A second click inside
// doubleClickWait is a double tap; a lone click taps once the wait expires.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !m.gearView.OnDial(msg.X, msg.Y) {
			return m, nil
		}
		m.pressed = true
		m.dragging = false
		m.pressX, m.pressY = msg.X, msg.Y

	case tea.MouseActionMotion:
		if !m.pressed || (msg.X == m.pressX && msg.Y == m.pressY && !m.dragging) {
			return m, nil
		}
		if !m.dragging {
			m.dragging = true
			m.pendingClick = false
			x, y := m.gearView.DialPoint(m.pressX, m.pressY)
			px, py := m.gearView.Pivot()
			if _, err := m.deps.Timer.DragBegin(ctx, x, y, px, py); err != nil {
				return m, m.applyEvent("", timerdto.EventOutput{}, err)
			}
		}
		x, y := m.gearView.DialPoint(msg.X, msg.Y)
		out, err := m.deps.Timer.DragMove(ctx, x, y)
		return m, m.applyEvent("", out, err)

	case tea.MouseActionRelease:
		if !m.pressed {
			return m, nil
		}
		m.pressed = false
		if m.dragging {
			m.dragging = false
			out, err := m.deps.Timer.DragEnd(ctx)
			return m, m.applyEvent("", out, err)
		}
		if m.pendingClick {
			m.pendingClick = false
			out, err := m.deps.Timer.DoubleTap(ctx)
			return m, m.applyEvent("reset", out, err)
		}
		m.pendingClick = true
		m.clickSeq++
		seq := m.clickSeq
		return m, tea.Tick(doubleClickWait, func(time.Time) tea.Msg { return clickTimeoutMsg{seq: seq} })
	}
	return m, nil
}

// applyEvent shows the new state. label names user actions for the status
// line; ticks and rotations pass "" to leave it alone.
func (m *Model) applyEvent(label string, out timerdto.EventOutput, err error) tea.Cmd {
	if err != nil {
		m.status = "timer: " + err.Error()
		return nil
	}
	m.gearView.SetState(out.State)
	if out.Recorded != nil {
		m.status = "session recorded: " + formatDuration(out.Recorded.Duration)
		return m.historyView.Reload()
	}
	if label != "" {
		switch {
		case out.State.Running:
			m.status = "running"
		case out.State.Started:
			m.status = "paused"
		default:
			m.status = "ready"
		}
	}
	return nil
}

func (m *Model) refreshState() {
	state, err := m.deps.Timer.State(context.Background())
	if err != nil {
		m.status = "timer: " + err.Error()
		return
	}
	m.gearView.SetState(state)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.activeTab == tabHistory:
		content = m.historyView.View()
	default:
		content = m.gearView.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == tabHistory && m.historyView.Len() > 0 {
			label = fmt.Sprintf("%s (%d)", label, m.historyView.Len())
		}
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "gear  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.alert != "" {
		left = theme.Alert.Render(m.alert) + "  " + left
	}
	right := theme.Muted.Render("space:tap  d:reset  ←/→:wind  ?:help  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ───────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)
	ctx := context.Background()

	switch parts[0] {
	case "timer:tap":
		m.activeTab = tabGear
		out, err := m.deps.Timer.Tap(ctx)
		return m, m.applyEvent("tap", out, err)

	case "timer:reset":
		m.activeTab = tabGear
		out, err := m.deps.Timer.DoubleTap(ctx)
		return m, m.applyEvent("reset", out, err)

	case "timer:wind":
		if len(parts) < 2 {
			m.status = "usage: timer:wind <minutes>"
			return m, nil
		}
		minutes, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			m.status = "invalid minutes: " + parts[1]
			return m, nil
		}
		m.activeTab = tabGear
		out, err := m.deps.Timer.Wind(ctx, minutes)
		return m, m.applyEvent("", out, err)

	case "history:export":
		if len(parts) < 2 {
			m.status = "usage: history:export <dir>"
			return m, nil
		}
		m.status = "exporting…"
		return m, m.exportCmd(parts[1])

	case "notify:test":
		after := notifyTestDelay
		if len(parts) >= 2 {
			seconds, err := strconv.ParseFloat(parts[1], 64)
			if err != nil || seconds <= 0 {
				m.status = "invalid seconds: " + parts[1]
				return m, nil
			}
			after = time.Duration(seconds * float64(time.Second))
		}
		return m, m.notifyTestCmd(after)

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	contentH := m.height - tabBarHeight - statusBarHeight
	m.gearView.SetSize(m.width, contentH, tabBarHeight)
	m.historyView, _ = m.historyView.Update(tea.WindowSizeMsg{Width: m.width, Height: contentH})
}

func formatDuration(d time.Duration) string {
	total := int64(d.Seconds())
	return fmt.Sprintf("%d:%02d:%02d", total/3600, total%3600/60, total%60)
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) tickCmd() tea.Cmd {
	if m.deps.Ticker == nil {
		return nil
	}
	return tea.Tick(m.deps.TickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) waitAlertCmd() tea.Cmd {
	if m.deps.Alerts == nil {
		return nil
	}
	alerts := m.deps.Alerts
	return func() tea.Msg {
		alert, ok := <-alerts
		if !ok {
			return nil
		}
		return alertMsg(alert)
	}
}

func (m Model) backgroundCmd() tea.Cmd {
	return func() tea.Msg {
		if m.deps.Lifecycle != nil {
			m.deps.Lifecycle.DidEnterBackground()
		}
		return backgroundedMsg{}
	}
}

func (m Model) exportCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.deps.Timer.Export(context.Background(), dir)
		return exportedMsg{out: out, err: err}
	}
}

func (m Model) notifyTestCmd(after time.Duration) tea.Cmd {
	return func() tea.Msg {
		if m.deps.Notify == nil {
			return notifyTestMsg{after: after, err: fmt.Errorf("notifier not configured")}
		}
		return notifyTestMsg{after: after, err: m.deps.Notify.Test(context.Background(), after)}
	}
}
