package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justapithecus/pathbench/cli/reader"
	"github.com/justapithecus/pathbench/types"
)

// keyMap defines key bindings.
type keyMap struct {
	Quit   key.Binding
	Switch key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Switch: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "solvers/mismatches"),
	),
}

// InspectModel shows one report: run header, stat boxes, and a table of
// solver summaries that can be switched to the mismatch list.
type InspectModel struct {
	data       *reader.InspectResponse
	solvers    table.Model
	mismatches table.Model
	showMis    bool
	width      int
	quitting   bool
}

// NewInspectModel creates a new inspect model.
func NewInspectModel(data *reader.InspectResponse) InspectModel {
	return InspectModel{
		data:       data,
		solvers:    solverTable(data.Solvers),
		mismatches: mismatchTable(data.Mismatches),
	}
}

func solverTable(rows []types.SolverSummary) table.Model {
	cols := []table.Column{
		{Title: "Solver", Width: 16},
		{Title: "Role", Width: 10},
		{Title: "OK", Width: 6},
		{Title: "Timeout", Width: 8},
		{Title: "Failed", Width: 7},
		{Title: "Match", Width: 6},
		{Title: "Mismatch", Width: 9},
		{Title: "Total (s)", Width: 10},
	}
	out := make([]table.Row, 0, len(rows))
	for _, s := range rows {
		match, mismatch := "-", "-"
		if s.Role == types.RoleCandidate {
			match, mismatch = strconv.Itoa(s.Matches), strconv.Itoa(s.Mismatches)
		}
		out = append(out, table.Row{
			s.SolverID, s.Role,
			strconv.Itoa(s.OK), strconv.Itoa(s.Timeouts), strconv.Itoa(s.Failures),
			match, mismatch,
			strconv.FormatFloat(s.TotalElapsedSeconds, 'f', 3, 64),
		})
	}
	return table.New(table.WithColumns(cols), table.WithRows(out), table.WithFocused(true), table.WithStyles(tableStyles()), table.WithHeight(min(len(out)+1, 12)))
}

func mismatchTable(rows []reader.MismatchRow) table.Model {
	cols := []table.Column{
		{Title: "Query", Width: 20},
		{Title: "Solver", Width: 16},
		{Title: "Reference", Width: 12},
		{Title: "Distance", Width: 12},
		{Title: "Status", Width: 8},
	}
	out := make([]table.Row, 0, len(rows))
	for _, m := range rows {
		out = append(out, table.Row{m.Query, m.SolverID, m.ReferenceDistance, m.Distance, m.Status})
	}
	return table.New(table.WithColumns(cols), table.WithRows(out), table.WithFocused(true), table.WithStyles(tableStyles()), table.WithHeight(min(len(out)+1, 12)))
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.Inherit(TableHeaderStyle).BorderForeground(dimColor)
	s.Selected = TableSelectedStyle
	return s
}

// Init implements tea.Model.
func (m InspectModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Switch):
			if len(m.data.Mismatches) > 0 {
				m.showMis = !m.showMis
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.showMis {
		m.mismatches, cmd = m.mismatches.Update(msg)
	} else {
		m.solvers, cmd = m.solvers.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m InspectModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Run " + m.data.Report.RunID))
	b.WriteString("\n")
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderStats())
	b.WriteString("\n\n")

	if m.showMis {
		b.WriteString(m.mismatches.View())
	} else {
		b.WriteString(m.solvers.View())
	}

	help := "Press q or Ctrl+C to quit"
	if len(m.data.Mismatches) > 0 {
		help = "tab: solvers/mismatches • " + help
	}
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render(help))
	return b.String()
}

func (m InspectModel) renderHeader() string {
	h := m.data.Report
	rows := [][2]string{
		{"Mode", h.Mode},
		{"Graph", fmt.Sprintf("%s (%d nodes, %d edges)", h.GraphPath, h.NodeCount, h.EdgeCount)},
	}
	if h.SubgraphNodes > 0 {
		rows = append(rows, [2]string{"Subgraph", fmt.Sprintf("%d nodes, %d edges", h.SubgraphNodes, h.SubgraphEdges)})
	}
	rows = append(rows,
		[2]string{"Seed", strconv.FormatUint(h.Seed, 10)},
		[2]string{"Started", h.StartedAt.UTC().Format("2006-01-02 15:04:05")},
		[2]string{"Source", h.Source},
	)

	var b strings.Builder
	for _, r := range rows {
		label := LabelStyle.Render(r[0] + ":")
		value := ValueStyle.Render(r[1])
		if r[0] == "Mode" {
			value = lipgloss.NewStyle().Foreground(StatusColor(r[1])).Render(r[1])
		}
		fmt.Fprintf(&b, "%s %s\n", label, value)
	}
	return BoxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m InspectModel) renderStats() string {
	var ok, timeouts, failures int
	for _, s := range m.data.Solvers {
		ok += s.OK
		timeouts += s.Timeouts
		failures += s.Failures
	}

	boxes := []string{
		renderStatBox("Queries", strconv.Itoa(m.data.Report.Queries), neutralColor),
		renderStatBox("OK", strconv.Itoa(ok), okColor),
		renderStatBox("Timeouts", strconv.Itoa(timeouts), timeoutColor),
		renderStatBox("Failures", strconv.Itoa(failures), failureColor),
	}
	if m.data.Report.Mode == string(types.ModeValidation) {
		color := okColor
		if m.data.Report.Mismatches > 0 {
			color = failureColor
		}
		boxes = append(boxes, renderStatBox("Mismatches", strconv.FormatInt(m.data.Report.Mismatches, 10), color))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func renderStatBox(label, value string, color lipgloss.Color) string {
	valueStr := StatValueStyle.Foreground(color).Render(value)
	labelStr := StatLabelStyle.Render(label)
	content := lipgloss.JoinVertical(lipgloss.Center, valueStr, labelStr)
	return StatBoxStyle.BorderForeground(color).Render(content)
}

// RunInspectTUI runs the inspect TUI.
func RunInspectTUI(data any) error {
	resp, ok := data.(*reader.InspectResponse)
	if !ok {
		return fmt.Errorf("inspect TUI: unexpected data type %T", data)
	}
	p := tea.NewProgram(NewInspectModel(resp), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RenderInspectStatic renders the inspect view once, without a terminal.
func RenderInspectStatic(data *reader.InspectResponse) string {
	model := NewInspectModel(data)
	model.width = 100
	return lipgloss.NewStyle().Padding(1, 2).Render(model.View())
}
