package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/indexforge/pkg/registry"
)

// List styles
var (
	pickSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	pickNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	pickDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	pickMarkStyle     = lipgloss.NewStyle().Foreground(colorGreen)
)

// targetPickerModel is the bubbletea model for interactive target selection.
// Artifacts are listed in registration order; space toggles, enter confirms.
type targetPickerModel struct {
	identifiers []string
	statuses    []string
	cursor      int
	marked      map[int]bool
	confirmed   bool
}

func newTargetPickerModel(reg *registry.Registry, preselected []string) targetPickerModel {
	pre := make(map[string]bool, len(preselected))
	for _, id := range preselected {
		pre[id] = true
	}

	m := targetPickerModel{marked: make(map[int]bool)}
	for i, a := range reg.Artifacts() {
		m.identifiers = append(m.identifiers, a.Identifier())
		status := ""
		if a.IsFinished() {
			status = iconProvided
		}
		m.statuses = append(m.statuses, status)
		if pre[a.Identifier()] {
			m.marked[i] = true
		}
	}
	return m
}

func (m targetPickerModel) Init() tea.Cmd {
	return nil
}

func (m targetPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.identifiers)-1 {
				m.cursor++
			}
		case " ":
			m.marked[m.cursor] = !m.marked[m.cursor]
		case "enter":
			m.confirmed = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m targetPickerModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Select target indexes") + "\n")
	b.WriteString(pickDimStyle.Render("space: toggle · enter: build · q: cancel") + "\n\n")

	for i, id := range m.identifiers {
		mark := "[ ]"
		if m.marked[i] {
			mark = pickMarkStyle.Render("[x]")
		}
		line := fmt.Sprintf("%s %s", mark, id)
		if m.statuses[i] != "" {
			line += "  " + pickDimStyle.Render(m.statuses[i])
		}
		if i == m.cursor {
			b.WriteString(pickSelectedStyle.Render("› "+line) + "\n")
			continue
		}
		b.WriteString(pickNormalStyle.Render("  "+line) + "\n")
	}
	return b.String()
}

// selection returns the marked identifiers in registration order.
func (m targetPickerModel) selection() []string {
	var targets []string
	for i, id := range m.identifiers {
		if m.marked[i] {
			targets = append(targets, id)
		}
	}
	return targets
}

// pickTargets runs the interactive target picker and returns the selection.
// Cancelling the picker or confirming an empty selection is an error.
func pickTargets(reg *registry.Registry, preselected []string) ([]string, error) {
	program := tea.NewProgram(newTargetPickerModel(reg, preselected))
	result, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("target picker: %w", err)
	}
	model := result.(targetPickerModel)
	if !model.confirmed {
		return nil, fmt.Errorf("target selection cancelled")
	}
	targets := model.selection()
	if len(targets) == 0 {
		return nil, fmt.Errorf("no targets selected")
	}
	return targets, nil
}
