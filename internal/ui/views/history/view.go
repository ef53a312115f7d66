package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	timerdto "gear/internal/modules/timer/dto"
	"gear/internal/ui/theme"
)

const clockLayout = "15:04:05"

type HistoryPort interface {
	History(ctx context.Context) ([]timerdto.HistoryEntryOutput, error)
}

type LoadedMsg struct {
	Entries []timerdto.HistoryEntryOutput
	Err     error
}

type entryItem struct {
	entry timerdto.HistoryEntryOutput
}

func (i entryItem) Title() string {
	start := "--:--:--"
	if i.entry.StartTime != nil {
		start = i.entry.StartTime.Local().Format(clockLayout)
	}
	return start + " -> " + i.entry.EndTime.Local().Format(clockLayout)
}

func (i entryItem) Description() string {
	return fmt.Sprintf("%s  %s", i.entry.EndTime.Local().Format("Mon 02 Jan"), formatDuration(i.entry.Duration.Seconds()))
}

func (i entryItem) FilterValue() string { return i.Title() }

// Model lists completed sessions, newest first, with a detail pane.
type Model struct {
	port    HistoryPort
	list    list.Model
	detail  viewport.Model
	entries []timerdto.HistoryEntryOutput
	err     error
	width   int
	height  int
}

func New(port HistoryPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "History"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	return Model{port: port, list: l, detail: vp}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// Reload fetches the history again, e.g. after a session was recorded.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{}
		}
		entries, err := m.port.History(context.Background())
		return LoadedMsg{Entries: entries, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case LoadedMsg:
		m.err = msg.Err
		if msg.Err != nil {
			m.list.Title = "History: " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "History"
		m.entries = msg.Entries
		items := make([]list.Item, 0, len(msg.Entries))
		for i := len(msg.Entries) - 1; i >= 0; i-- {
			items = append(items, entryItem{entry: msg.Entries[i]})
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.detail.SetContent(m.renderDetail())
	}

	prevIdx := m.list.Index()
	var lCmd tea.Cmd
	m.list, lCmd = m.list.Update(msg)
	cmds = append(cmds, lCmd)
	if m.list.Index() != prevIdx {
		m.detail.SetContent(m.renderDetail())
	}
	var vCmd tea.Cmd
	m.detail, vCmd = m.detail.Update(msg)
	cmds = append(cmds, vCmd)

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	listW := m.width * 5 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(max(detailW-2, 1)).
		Height(max(m.height-2, 1)).
		Render(m.detail.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Filtering reports whether the list's search filter is active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Len() int { return len(m.entries) }

func (m *Model) resize() {
	listW := m.width * 5 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.detail.Width = detailW - 4
	m.detail.Height = m.height - 4
}

func (m Model) renderDetail() string {
	if len(m.entries) == 0 {
		return theme.Muted.Render("No sessions yet. Tap the gear to start one.")
	}
	item, ok := m.list.SelectedItem().(entryItem)
	if !ok {
		return ""
	}
	e := item.entry
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(item.Title()) + "\n\n")
	sb.WriteString(theme.Muted.Render("id:       ") + e.ID + "\n")
	if e.StartTime != nil {
		sb.WriteString(theme.Muted.Render("started:  ") + e.StartTime.Local().Format("2006-01-02 15:04:05") + "\n")
	}
	sb.WriteString(theme.Muted.Render("ended:    ") + e.EndTime.Local().Format("2006-01-02 15:04:05") + "\n")
	sb.WriteString(theme.Muted.Render("duration: ") + formatDuration(e.Duration.Seconds()) + "\n")

	var total float64
	for _, entry := range m.entries {
		total += entry.Duration.Seconds()
	}
	sb.WriteString("\n" + theme.Muted.Render(fmt.Sprintf("%d sessions, %s in total", len(m.entries), formatDuration(total))))
	return sb.String()
}

func formatDuration(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int64(seconds)
	return fmt.Sprintf("%d:%02d:%02d", total/3600, total%3600/60, total%60)
}
