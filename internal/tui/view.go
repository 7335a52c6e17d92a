package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/aidaily/internal/view"
)

func (m *model) View() string {
	switch m.stage {
	case stageKeyEntry:
		return m.viewKeyEntry()
	default:
		return m.viewBrowse()
	}
}

func (m *model) viewBrowse() string {
	m.refreshViewportIfDirty()
	parts := []string{m.heroView(), m.sessionMeterView(), m.viewport.View()}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		parts = append(parts, helperStyle.Render(m.infoMessage))
	}
	if m.helpVisible {
		parts = append(parts, m.helpView())
	}
	return joinNonEmpty(parts)
}

func (m *model) viewKeyEntry() string {
	b := strings.Builder{}
	b.WriteString(sectionHeaderStyle.Render("API Key"))
	b.WriteRune('\n')
	b.WriteString(m.keyInput.View())
	b.WriteRune('\n')
	b.WriteString(helperStyle.Render("Press Enter to save, Esc to cancel. The key is stored locally and only sent with summarize requests."))
	if m.infoMessage != "" {
		b.WriteRune('\n')
		b.WriteString(helperStyle.Render(m.infoMessage))
	}
	if m.errorMessage != "" {
		b.WriteRune('\n')
		b.WriteString(errorStyle.Render(m.errorMessage))
	}
	return joinNonEmpty([]string{m.heroView(), b.String()})
}

func (m *model) heroView() string {
	logo := logoStyle.Render("AI DAILY")
	return lipgloss.JoinVertical(
		lipgloss.Left,
		logo,
		taglineStyle.Render(heroTagline),
	)
}

func (m *model) sessionMeterView() string {
	keyState := "API key missing"
	if strings.TrimSpace(m.config.Credentials.Get()) != "" {
		keyState = "API key set"
	}
	stats := []string{
		keyState,
		fmt.Sprintf("History %s", m.historyRange.Label()),
		fmt.Sprintf("Entries %d", m.historyView.Len()),
	}
	if m.serverInfo != "" {
		stats = append(stats, m.serverInfo)
	}
	if m.summarizing {
		stats = append(stats, "Summarizing…")
	}
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

func (m *model) helpView() string {
	lines := []string{
		sectionHeaderStyle.Render("Keys"),
		helperStyle.Render("• ↑/↓ move the cursor, Enter opens the history entry under it."),
		helperStyle.Render("• s requests an AI summary for the open paper, o opens its PDF."),
		helperStyle.Render("• 1/2/3 pick the 7-day, 30-day, or full history window; f cycles them."),
		helperStyle.Render("• a saves an API key, c clears it, r reloads everything."),
		helperStyle.Render("• [ and ] jump between sections, g / G go to top or bottom."),
		helperStyle.Render("• ? hides this overlay, q or Ctrl+C quits."),
	}
	return helpBoxStyle.Render(strings.Join(lines, "\n"))
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

// buildDisplayContent assembles the viewport: the active paper with its
// derived affordances, then the date-grouped history.
func (m *model) buildDisplayContent() displayView {
	cb := &contentBuilder{}
	anchors := map[string]int{}
	entryLines := map[int]string{}
	baseWrap := m.wrapWidth(0)
	indentWrap := m.wrapWidth(4)

	anchors[anchorPaper] = cb.Line()
	switch {
	case m.todayLoading && m.paper == nil:
		cb.WriteString(helperStyle.Render(fmt.Sprintf("%s Loading today's paper…", m.spinner.View())))
		cb.WriteRune('\n')
	case m.todayErr != "" && m.paper == nil:
		cb.WriteString(errorStyle.Render("Could not load today's paper: " + m.todayErr))
		cb.WriteRune('\n')
		cb.WriteString(helperStyle.Render("Press r to retry."))
		cb.WriteRune('\n')
	case m.todayEmpty && m.paper == nil:
		cb.WriteString(helperStyle.Render("No paper has been recorded today. Pick one from history below."))
		cb.WriteRune('\n')
	case m.paper == nil:
		cb.WriteString(helperStyle.Render("No paper open. Pick one from history below."))
		cb.WriteRune('\n')
	default:
		m.writePaperSection(cb, anchors, baseWrap)
	}

	cb.WriteRune('\n')
	anchors[anchorHistory] = cb.Line()
	header := fmt.Sprintf("History (%s)", m.historyRange.Label())
	cb.WriteString(sectionHeaderStyle.Render(header))
	cb.WriteRune('\n')
	switch {
	case m.historyLoading:
		cb.WriteString(helperStyle.Render(fmt.Sprintf("%s Loading history…", m.spinner.View())))
		cb.WriteRune('\n')
	case m.historyErr != "":
		cb.WriteString(errorStyle.Render("Could not load history: " + m.historyErr))
		cb.WriteRune('\n')
		cb.WriteString(helperStyle.Render("Press r to retry."))
		cb.WriteRune('\n')
	case m.historyView.Empty():
		cb.WriteString(helperStyle.Render("No papers in this window. Try a wider range with f."))
		cb.WriteRune('\n')
	default:
		m.writeHistoryGroups(cb, entryLines, indentWrap)
	}

	return displayView{
		content:    cb.String(),
		entryLines: entryLines,
		anchors:    anchors,
	}
}

func (m *model) writePaperSection(cb *contentBuilder, anchors map[string]int, baseWrap int) {
	state := m.paperState

	cb.WriteString(titleStyle.Render(wordwrap.String(state.DisplayTitle, baseWrap)))
	cb.WriteRune('\n')
	cb.WriteString(subtitleStyle.Render(state.DisplayAuthors))
	cb.WriteRune('\n')
	if state.Published != "" {
		cb.WriteString(helperStyle.Render("Published " + state.Published))
		cb.WriteRune('\n')
	}

	cb.WriteRune('\n')
	cb.WriteString(sectionHeaderStyle.Render("Abstract"))
	cb.WriteRune('\n')
	cb.WriteString(wordwrap.String(state.Abstract, baseWrap))
	cb.WriteRune('\n')

	cb.WriteRune('\n')
	anchors[anchorSummary] = cb.Line()
	cb.WriteString(sectionHeaderStyle.Render("AI Summary"))
	cb.WriteRune('\n')
	switch {
	case m.summarizing:
		cb.WriteString(helperStyle.Render(fmt.Sprintf("%s Summarizing via the AI Daily service…", m.spinner.View())))
		cb.WriteRune('\n')
	case state.HasCachedSummary:
		cb.WriteString(state.SummaryBody)
		cb.WriteRune('\n')
	default:
		cb.WriteString(helperStyle.Render(state.SummaryBody))
		cb.WriteRune('\n')
	}

	cb.WriteRune('\n')
	cb.WriteString(m.affordanceLine(state))
	cb.WriteRune('\n')
}

// affordanceLine renders the two action buttons with their derived
// enablement and labels.
func (m *model) affordanceLine(state view.State) string {
	read := "[o] Read Full Text"
	if !state.CanReadFullText {
		read = disabledStyle.Render("[o] Read Full Text (no PDF)")
	} else {
		read = actionStyle.Render(read)
	}

	label := state.SummarizeLabel
	if m.summarizing {
		label = view.LabelInFlight
	}
	summarize := fmt.Sprintf("[s] %s", label)
	if state.CanSummarize && !m.summarizing {
		summarize = actionStyle.Render(summarize)
	} else {
		summarize = disabledStyle.Render(summarize)
	}
	return read + "   " + summarize
}

func (m *model) writeHistoryGroups(cb *contentBuilder, entryLines map[int]string, indentWrap int) {
	for _, group := range m.historyView.Groups {
		cb.WriteString(dateStyle.Render(group.Date.Format("Mon, 02 Jan 2006")))
		cb.WriteRune('\n')
		for _, paper := range group.Papers {
			lineNumber := cb.Line()
			cursor := " "
			if m.cursorLine == lineNumber {
				cursor = ">"
			}
			active := " "
			if m.paper != nil && m.paper.ID == paper.ID {
				active = "●"
			}
			entryLines[lineNumber] = paper.ID
			title := strings.TrimSpace(paper.Title)
			if title == "" {
				title = view.UntitledPlaceholder
			}
			row := fmt.Sprintf(" %s %s %s", cursor, active, truncate(title, indentWrap))
			if m.cursorLine == lineNumber {
				row = currentLineStyle.Render(row)
			}
			cb.WriteString(row)
			cb.WriteRune('\n')
			cb.WriteString(helperStyle.Render("     " + view.FormatAuthors(paper.Authors)))
			cb.WriteRune('\n')
		}
		cb.WriteRune('\n')
	}
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if limit < 8 {
		limit = 8
	}
	if len(runes) <= limit {
		return value
	}
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}

type displayView struct {
	content    string
	entryLines map[int]string
	anchors    map[string]int
}

type contentBuilder struct {
	builder strings.Builder
	lines   int
}

func (cb *contentBuilder) WriteString(s string) {
	cb.builder.WriteString(s)
	cb.lines += strings.Count(s, "\n")
}

func (cb *contentBuilder) WriteRune(r rune) {
	cb.builder.WriteRune(r)
	if r == '\n' {
		cb.lines++
	}
}

func (cb *contentBuilder) String() string {
	return cb.builder.String()
}

func (cb *contentBuilder) Line() int {
	return cb.lines
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}

func (m *model) refreshViewportIfDirty() {
	if m.viewportDirty {
		m.refreshViewport()
	}
}

func (m *model) refreshViewport() {
	m.viewportDirty = false
	prevYOffset := m.viewport.YOffset

	built := m.buildDisplayContent()
	m.viewportContent = built.content
	m.entryLines = built.entryLines
	m.sectionAnchors = built.anchors
	m.viewportLines = splitLinesPreserve(built.content)
	m.lineCount = len(m.viewportLines)
	if m.cursorLine >= m.lineCount {
		m.cursorLine = m.lineCount - 1
	}
	if m.cursorLine < 0 {
		m.cursorLine = 0
	}

	forcedYOffset := -1
	if m.pendingFocusAnchor != "" {
		if line, ok := built.anchors[m.pendingFocusAnchor]; ok {
			if line < 0 {
				line = 0
			} else if line >= m.lineCount {
				line = m.lineCount - 1
			}
			m.cursorLine = line
			forcedYOffset = line
			m.pendingFocusAnchor = ""
		}
	}

	m.viewport.SetContent(built.content)
	targetYOffset := prevYOffset
	if forcedYOffset >= 0 {
		targetYOffset = forcedYOffset
	}
	m.viewport.SetYOffset(m.clampYOffset(targetYOffset))
}

func (m *model) ensureCursorVisible() {
	if m.lineCount == 0 {
		return
	}
	line := m.cursorLine
	if line < 0 {
		line = 0
	}
	if line < m.viewport.YOffset {
		m.viewport.SetYOffset(line)
		return
	}
	lowerBound := m.viewport.YOffset + m.viewport.Height - 1
	if line > lowerBound {
		target := line - m.viewport.Height + 1
		if target < 0 {
			target = 0
		}
		m.viewport.SetYOffset(target)
	}
}

func (m *model) moveCursor(delta int) {
	if m.lineCount == 0 {
		m.refreshViewportIfDirty()
	}
	target := m.cursorLine + delta
	if target < 0 {
		target = 0
	}
	if target >= m.lineCount {
		target = m.lineCount - 1
	}
	if target == m.cursorLine {
		return
	}
	m.cursorLine = target
	m.markViewportDirty()
	m.refreshViewportIfDirty()
	m.ensureCursorVisible()
}

func (m *model) entryAtCursor() (string, bool) {
	m.refreshViewportIfDirty()
	id, ok := m.entryLines[m.cursorLine]
	return id, ok
}

func (m *model) scrollToTop() {
	m.viewport.SetYOffset(0)
	m.cursorLine = 0
	m.markViewportDirty()
	m.refreshViewportIfDirty()
}

func (m *model) scrollToBottom() {
	totalLines := strings.Count(m.viewportContent, "\n")
	target := totalLines - m.viewport.Height + 1
	if target < 0 {
		target = 0
	}
	m.viewport.SetYOffset(target)
	if m.lineCount > 0 {
		m.cursorLine = m.lineCount - 1
		m.markViewportDirty()
		m.refreshViewportIfDirty()
	}
}

func (m *model) jumpToRelativeSection(delta int) {
	m.refreshViewportIfDirty()
	var ordered []string
	for _, anchor := range sectionSequence {
		if _, ok := m.sectionAnchors[anchor]; ok {
			ordered = append(ordered, anchor)
		}
	}
	if len(ordered) == 0 {
		return
	}
	currentLine := m.cursorLine
	if delta > 0 {
		for _, anchor := range ordered {
			if m.sectionAnchors[anchor] > currentLine {
				m.jumpToLine(m.sectionAnchors[anchor])
				return
			}
		}
		m.infoMessage = "Already at the last section."
		return
	}
	for i := len(ordered) - 1; i >= 0; i-- {
		if m.sectionAnchors[ordered[i]] < currentLine {
			m.jumpToLine(m.sectionAnchors[ordered[i]])
			return
		}
	}
	m.infoMessage = "Already at the first section."
}

func (m *model) jumpToLine(line int) {
	if line < 0 {
		line = 0
	}
	m.viewport.SetYOffset(line)
	m.cursorLine = line
	m.markViewportDirty()
	m.refreshViewportIfDirty()
}

func (m *model) wrapWidth(padding int) int {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	if padding < 0 {
		padding = 0
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}

func (m *model) clampYOffset(offset int) int {
	maxOffset := m.lineCount - m.viewport.Height
	if m.viewport.Height <= 0 {
		maxOffset = m.lineCount - 1
	}
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset < 0 {
		return 0
	}
	if offset > maxOffset {
		return maxOffset
	}
	return offset
}

func splitLinesPreserve(content string) []string {
	if content == "" {
		return []string{""}
	}
	return strings.Split(content, "\n")
}

var (
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	subtitleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("147"))
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	dateStyle          = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("110"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	actionStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	disabledStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(0, 1)
	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	currentLineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6"))
	helpBoxStyle       = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#7f5af0")).Padding(1, 2)
	logoStyle          = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff8c00")).Padding(0, 1)
	taglineStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffb347")).Italic(true)
)
