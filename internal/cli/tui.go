package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/corral/pkg/topology"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// TopologyPickerModel is the bubbletea model for choosing a catalogue
// topology and its size. After the program quits, Selected holds the full
// spec (e.g. "grid:3x4"), or is empty if the user cancelled.
type TopologyPickerModel struct {
	Topologies []topology.Info
	Cursor     int
	Selected   string

	sizing bool
	size   string
	err    error
}

// NewTopologyPickerModel creates a picker over the given catalogue entries.
func NewTopologyPickerModel(infos []topology.Info) TopologyPickerModel {
	return TopologyPickerModel{Topologies: infos}
}

func (m TopologyPickerModel) Init() tea.Cmd {
	return nil
}

func (m TopologyPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.sizing {
		return m.updateSize(key)
	}

	switch key.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Topologies)-1 {
			m.Cursor++
		}
	case "enter":
		if len(m.Topologies) > 0 {
			m.sizing = true
			m.size = ""
			m.err = nil
		}
	}
	return m, nil
}

// updateSize handles keys while the size prompt is open.
func (m TopologyPickerModel) updateSize(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.sizing = false
		m.err = nil
	case tea.KeyBackspace:
		if m.size != "" {
			m.size = m.size[:len(m.size)-1]
		}
	case tea.KeyEnter:
		spec := m.Topologies[m.Cursor].Name + ":" + m.size
		if _, err := topology.Parse(spec); err != nil {
			m.err = err
			return m, nil
		}
		m.Selected = spec
		return m, tea.Quit
	case tea.KeyRunes:
		for _, r := range key.Runes {
			if (r >= '0' && r <= '9') || r == 'x' {
				m.size += string(r)
			}
		}
		m.err = nil
	}
	return m, nil
}

func (m TopologyPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Topology"))
	b.WriteString("\n")
	if m.sizing {
		b.WriteString(listDimStyle.Render("type a size  ⏎ confirm  esc back"))
	} else {
		b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	}
	b.WriteString("\n\n")

	rows := make([][]string, len(m.Topologies))
	for i, info := range m.Topologies {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows[i] = []string{cursor, info.Usage, info.Description}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Topology", "Pattern").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == m.Cursor:
				return listSelectedStyle
			default:
				return listDimStyle
			}
		})
	b.WriteString(t.Render())
	b.WriteString("\n\n")

	if m.sizing && m.Cursor < len(m.Topologies) {
		name := m.Topologies[m.Cursor].Name
		b.WriteString(fmt.Sprintf("  %s:%s%s\n", StyleHighlight.Render(name), StyleValue.Render(m.size), listDimStyle.Render("_")))
		if m.err != nil {
			b.WriteString("  " + styleIconError.Render(m.err.Error()) + "\n")
		}
	} else {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Topologies))))
	}

	return b.String()
}
