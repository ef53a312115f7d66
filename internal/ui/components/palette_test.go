package components_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"gear/internal/ui/components"
)

var hints = []string{"timer:tap", "timer:reset", "timer:wind <minutes>", "history:export <dir>", "notify:test"}

func typeText(p components.Palette, text string) components.Palette {
	for _, r := range text {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return p
}

func TestPaletteFuzzyMatchesCommandWord(t *testing.T) {
	t.Parallel()
	p := components.NewPalette(hints)
	p.Open()
	require.Len(t, p.Matches(), 5)

	p = typeText(p, "wnd")
	require.Equal(t, "timer:wind <minutes>", p.Matches()[0])

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyTab})
	p = typeText(p, "5")
	require.Equal(t, []string{"timer:wind <minutes>"}, p.Matches())

	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, p.Visible())
	require.Equal(t, components.PaletteSubmitMsg{Input: "timer:wind 5"}, cmd())
}

func TestPaletteEscCancels(t *testing.T) {
	t.Parallel()
	p := components.NewPalette(hints)
	p.Open()
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, p.Visible())
	require.Equal(t, components.PaletteCancelMsg{}, cmd())
}
