package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agenthands/stepmath/pkg/parse"
)

var (
	playTitleStyle   = lipgloss.NewStyle().Bold(true)
	playStateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	playCommentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	playHelpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// playModel steps through the animation and comment trails one frame at a
// time.
type playModel struct {
	states   []string
	comments [][]string
	idx      int
}

func (m playModel) Init() tea.Cmd { return nil }

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "left", "h":
			if m.idx > 0 {
				m.idx--
			}
		case "right", "l", " ", "enter":
			if m.idx < len(m.states)-1 {
				m.idx++
			}
		}
	}
	return m, nil
}

func (m playModel) View() string {
	var b strings.Builder
	b.WriteString(playTitleStyle.Render(fmt.Sprintf("Step %d/%d", m.idx+1, len(m.states))))
	b.WriteString("\n\n")
	for _, c := range m.comments[m.idx] {
		b.WriteString(playCommentStyle.Render("# " + c))
		b.WriteByte('\n')
	}
	b.WriteString(playStateStyle.Render(m.states[m.idx]))
	b.WriteString("\n\n")
	b.WriteString(playHelpStyle.Render("←/→ step · q quit"))
	b.WriteByte('\n')
	return b.String()
}

func cmdPlay(args []string) int {
	input := strings.TrimSpace(strings.Join(args, " "))
	if input == "" {
		fmt.Println("Usage: stepmath play <input>")
		return 2
	}
	_, frames, comments, err := run(input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	states := make([]string, len(frames))
	for i, f := range frames {
		states[i] = parse.Render(f)
	}
	p := tea.NewProgram(playModel{states: states, comments: comments})
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
