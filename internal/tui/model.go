// Package tui provides a Bubble Tea catalog browser for vstscan.
// model.go implements the catalog browser with three panels:
// effect list, selected effect detail, and scan statistics.
package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/insajin/vstscan/internal/metrics"
	"github.com/insajin/vstscan/internal/vst"
)

// Panel represents which browser panel is currently focused.
type Panel int

const (
	// PanelEffects is the effect list panel (top).
	PanelEffects Panel = iota
	// PanelDetail is the selected effect panel (middle).
	PanelDetail
	// PanelStats is the scan statistics panel (bottom).
	PanelStats

	panelCount = 3
)

// defaultVisibleRows is used until the terminal reports its size.
const defaultVisibleRows = 10

// Source provides the catalog snapshot and scan statistics to the browser.
// *catalog.Catalog satisfies it.
type Source interface {
	All() []vst.EffectDescriptor
	Metrics() *metrics.Metrics
}

// tickMsg signals a periodic data refresh.
type tickMsg time.Time

// Model is the Bubble Tea model for the catalog browser.
type Model struct {
	source Source
	// effects is the full snapshot; visible is the filtered view into it.
	effects []vst.EffectDescriptor
	visible []vst.EffectDescriptor
	stats   metrics.MetricsSnapshot

	activePanel  Panel
	selected     int
	scrollOffset int

	filter    string
	filtering bool
	shellOnly bool

	width  int
	height int

	chosen   *vst.EffectDescriptor
	quitting bool
}

// NewModel creates a browser Model over the given Source.
func NewModel(source Source) Model {
	m := Model{source: source}
	m.refresh()
	return m
}

// Chosen returns the effect picked with enter, if any.
func (m Model) Chosen() (vst.EffectDescriptor, bool) {
	if m.chosen == nil {
		return vst.EffectDescriptor{}, false
	}
	return *m.chosen, true
}

// Init implements tea.Model. It starts the auto-refresh ticker.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tickMsg every 2 seconds.
func tickCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model. It processes messages and updates state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		if m.filtering {
			return m.handleFilterKey(msg)
		}
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampSelection()
		return m, nil

	case tickMsg:
		m.refresh()
		return m, tickCmd()
	}

	return m, nil
}

// handleKeyPress processes keyboard input outside filter mode.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "enter":
		if len(m.visible) > 0 {
			d := m.visible[m.selected]
			m.chosen = &d
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case "/":
		m.filtering = true
		return m, nil

	case "s":
		m.shellOnly = !m.shellOnly
		m.applyFilter()
		return m, nil

	case "r":
		m.refresh()
		return m, nil

	case "tab":
		m.activePanel = (m.activePanel + 1) % panelCount
		return m, nil

	case "shift+tab":
		m.activePanel = (m.activePanel - 1 + panelCount) % panelCount
		return m, nil

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
		m.clampSelection()
		return m, nil

	case "down", "j":
		if m.selected < len(m.visible)-1 {
			m.selected++
		}
		m.clampSelection()
		return m, nil

	case "home", "g":
		m.selected = 0
		m.clampSelection()
		return m, nil

	case "end", "G":
		m.selected = len(m.visible) - 1
		m.clampSelection()
		return m, nil
	}

	return m, nil
}

// handleFilterKey edits the filter text while in filter mode.
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyEnter:
		m.filtering = false

	case tea.KeyEsc:
		m.filtering = false
		m.filter = ""
		m.applyFilter()

	case tea.KeyBackspace:
		if r := []rune(m.filter); len(r) > 0 {
			m.filter = string(r[:len(r)-1])
			m.applyFilter()
		}

	case tea.KeySpace:
		m.filter += " "
		m.applyFilter()

	case tea.KeyRunes:
		m.filter += string(msg.Runes)
		m.applyFilter()
	}

	return m, nil
}

// refresh reloads the snapshot and statistics from the source.
func (m *Model) refresh() {
	m.effects = m.source.All()
	m.stats = m.source.Metrics().Snapshot()
	m.applyFilter()
}

// applyFilter rebuilds the visible list and keeps the selection in range.
func (m *Model) applyFilter() {
	needle := strings.ToLower(strings.TrimSpace(m.filter))
	m.visible = m.visible[:0:0]
	for _, d := range m.effects {
		if m.shellOnly && !d.Shell {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(d.EffectName), needle) &&
			!strings.Contains(strings.ToLower(d.VendorString), needle) {
			continue
		}
		m.visible = append(m.visible, d)
	}
	m.clampSelection()
}

// visibleRows returns how many list rows fit in the effect panel.
func (m Model) visibleRows() int {
	if m.height == 0 {
		return defaultVisibleRows
	}
	// header, footer, detail and stats panels take roughly 18 lines.
	rows := m.height - 18
	if rows < 3 {
		rows = 3
	}
	return rows
}

// clampSelection keeps selected and scrollOffset inside the visible list.
func (m *Model) clampSelection() {
	if m.selected >= len(m.visible) {
		m.selected = len(m.visible) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}

	rows := m.visibleRows()
	if m.selected < m.scrollOffset {
		m.scrollOffset = m.selected
	}
	if m.selected >= m.scrollOffset+rows {
		m.scrollOffset = m.selected - rows + 1
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

// View implements tea.Model. It renders the browser.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	w := m.width
	if w == 0 {
		w = 80
	}
	contentWidth := w - 2
	if contentWidth < 40 {
		contentWidth = 40
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(contentWidth),
		m.renderEffectPanel(contentWidth),
		m.renderDetailPanel(contentWidth),
		m.renderStatsPanel(contentWidth),
		m.renderFooter(contentWidth),
	)
}

// renderHeader returns the browser title bar.
func (m Model) renderHeader(width int) string {
	title := fmt.Sprintf("vstscan: %d effects", len(m.effects))
	if len(m.visible) != len(m.effects) {
		title = fmt.Sprintf("vstscan: %d of %d effects", len(m.visible), len(m.effects))
	}
	return titleStyle.Width(width).Render(title)
}

// renderFooter returns the filter prompt or the keyboard shortcut help bar.
func (m Model) renderFooter(width int) string {
	if m.filtering {
		return filterStyle.Width(width).Render("/" + m.filter + "█")
	}

	keys := []struct {
		key  string
		desc string
	}{
		{"enter", "choose"},
		{"/", "filter"},
		{"s", "shell only"},
		{"r", "refresh"},
		{"tab", "switch panel"},
		{"q", "quit"},
	}

	var parts []string
	for _, k := range keys {
		parts = append(parts,
			helpKeyStyle.Render(k.key)+" "+helpStyle.Render(k.desc),
		)
	}

	help := strings.Join(parts, helpStyle.Render("  |  "))
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(help)
}

// renderEffectPanel renders the scrolling effect list.
func (m Model) renderEffectPanel(width int) string {
	colName := 28
	colVendor := 20
	colFile := 20

	header := headerStyle.Render(
		fmt.Sprintf("  %-*s %-*s %-*s",
			colName, "Effect",
			colVendor, "Vendor",
			colFile, "File",
		),
	)

	rows := []string{header}

	if len(m.visible) == 0 {
		if m.filter != "" || m.shellOnly {
			rows = append(rows, normalRowStyle.Render("  No effects match the filter"))
		} else {
			rows = append(rows, normalRowStyle.Render("  No effects found, run vstscan scan"))
		}
	} else {
		end := m.scrollOffset + m.visibleRows()
		if end > len(m.visible) {
			end = len(m.visible)
		}

		for i := m.scrollOffset; i < end; i++ {
			d := m.visible[i]
			marker := "  "
			if d.Shell {
				marker = shellStyle.Render("◆ ")
			}
			row := fmt.Sprintf("%-*s %-*s %-*s",
				colName, truncate(d.EffectName, colName),
				colVendor, truncate(d.VendorString, colVendor),
				colFile, truncate(d.FileName, colFile),
			)

			if i == m.selected {
				rows = append(rows, marker+selectedRowStyle.Render(row))
			} else {
				rows = append(rows, marker+normalRowStyle.Render(row))
			}
		}

		if len(m.visible) > m.visibleRows() {
			indicator := fmt.Sprintf("  [%d/%d]", m.selected+1, len(m.visible))
			rows = append(rows, helpStyle.Render(indicator))
		}
	}

	style := m.getPanelStyle(PanelEffects, width)
	return titleStyle.Render(" Effects ") + "\n" + style.Render(strings.Join(rows, "\n"))
}

// renderDetailPanel renders every field of the selected effect.
func (m Model) renderDetailPanel(width int) string {
	var lines []string
	if len(m.visible) == 0 {
		lines = []string{helpStyle.Render("Nothing selected")}
	} else {
		d := m.visible[m.selected]
		shell := "no"
		if d.Shell {
			shell = shellStyle.Render(fmt.Sprintf("yes (plugin id %d)", d.PluginID))
		}
		lines = []string{
			labelStyle.Render("ID:") + " " + valueStyle.Render(d.ID),
			labelStyle.Render("Effect:") + " " + valueStyle.Render(d.EffectName),
			labelStyle.Render("Vendor:") + " " + valueStyle.Render(d.VendorString),
			labelStyle.Render("Path:") + " " + valueStyle.Render(d.FilePath),
			labelStyle.Render("Shell:") + " " + shell,
		}
	}

	style := m.getPanelStyle(PanelDetail, width)
	return titleStyle.Render(" Detail ") + "\n" + style.Render(strings.Join(lines, "\n"))
}

// renderStatsPanel renders scan statistics.
func (m Model) renderStatsPanel(width int) string {
	lastScan := "--"
	if m.stats.LastScan != "" {
		lastScan = fmt.Sprintf("%s (%s)", m.stats.LastScan, formatDuration(time.Duration(m.stats.LastScanMs*float64(time.Millisecond))))
	}

	failures := valueStyle.Render("0")
	if m.stats.ProbesFailed > 0 {
		failures = failureStyle.Render(fmt.Sprintf("%d %s", m.stats.ProbesFailed, formatKinds(m.stats.FailuresByKind)))
	}

	lines := []string{
		labelStyle.Render("Last Scan:") + " " + valueStyle.Render(lastScan),
		labelStyle.Render("Candidates:") + " " + valueStyle.Render(fmt.Sprintf("%d", m.stats.CandidatesFound)),
		labelStyle.Render("Probed OK:") + " " + valueStyle.Render(fmt.Sprintf("%d", m.stats.ProbesSucceeded)),
		labelStyle.Render("Failed:") + " " + failures,
		labelStyle.Render("Shell Effects:") + " " + valueStyle.Render(fmt.Sprintf("%d", m.stats.ShellEffects)),
	}

	style := m.getPanelStyle(PanelStats, width)
	return titleStyle.Render(" Scan ") + "\n" + style.Render(strings.Join(lines, "\n"))
}

// getPanelStyle returns the appropriate panel style based on focus state.
func (m Model) getPanelStyle(panel Panel, width int) lipgloss.Style {
	if m.activePanel == panel {
		return activePanelStyle.Width(width - 2)
	}
	return panelStyle.Width(width - 2)
}

// formatKinds renders failure counts as "(arch 2, load 1)" in key order.
func formatKinds(kinds map[string]int64) string {
	if len(kinds) == 0 {
		return ""
	}
	keys := make([]string, 0, len(kinds))
	for k := range kinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %d", k, kinds[k]))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}

	totalSeconds := int(d.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// truncate shortens a string to maxLen runes, adding an ellipsis if needed.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
