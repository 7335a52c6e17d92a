package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/aidaily/internal/credential"
	"github.com/csheth/aidaily/internal/daily"
	"github.com/csheth/aidaily/internal/history"
	"github.com/csheth/aidaily/internal/markdown"
	"github.com/csheth/aidaily/internal/view"
)

// PaperService is the remote AI Daily API surface the controller needs.
// *daily.Client satisfies it.
type PaperService interface {
	FetchToday(ctx context.Context) ([]daily.Paper, error)
	FetchHistory(ctx context.Context, r daily.Range) (map[string][]daily.Paper, error)
	FetchPaper(ctx context.Context, id string) (daily.Paper, error)
	Summarize(ctx context.Context, apiKey, paperID string) (daily.Paper, error)
	Ping(ctx context.Context) (int, error)
}

// CredentialStore holds the user's API key. *credential.Store satisfies it.
type CredentialStore interface {
	Get() string
	Set(key string) error
	Clear() error
}

// Config wires runtime collaborators into the TUI program.
type Config struct {
	Service      PaperService
	Credentials  CredentialStore
	HistoryRange daily.Range
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	keyInput := textinput.New()
	keyInput.Placeholder = "Paste your API key…"
	keyInput.EchoMode = textinput.EchoPassword
	keyInput.CharLimit = 200
	keyInput.Width = 60

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	rng := config.HistoryRange
	if !rng.Valid() {
		rng = daily.RangeAll
	}

	return &model{
		config:         config,
		stage:          stageBrowse,
		keyInput:       keyInput,
		spinner:        spin,
		viewport:       vp,
		historyRange:   rng,
		historySeq:     1,
		todayLoading:   true,
		historyLoading: true,
		entryLines:     map[int]string{},
		sectionAnchors: map[string]int{},
		viewportDirty:  true,
		infoMessage:    "Loading today's paper…",
	}
}

type stage int

const (
	stageBrowse stage = iota
	stageKeyEntry
)

const (
	anchorPaper   = "paper"
	anchorSummary = "summary"
	anchorHistory = "history"
)

var sectionSequence = []string{
	anchorPaper,
	anchorSummary,
	anchorHistory,
}

const heroTagline = "A new AI research paper every day."

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
)

type model struct {
	config Config
	stage  stage

	keyInput textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	// active paper and its derived view state
	paper      *daily.Paper
	paperState view.State
	todayEmpty bool

	todayLoading bool
	todayErr     string

	historyView    history.View
	historyRange   daily.Range
	historyLoading bool
	historyErr     string
	historySeq     int

	selectSeq     int
	selectLoading bool

	summarizing bool
	summarizeID string

	serverInfo string

	cursorLine         int
	lineCount          int
	viewportLines      []string
	viewportContent    string
	viewportDirty      bool
	entryLines         map[int]string
	sectionAnchors     map[string]int
	pendingFocusAnchor string
	infoMessage        string
	errorMessage       string
	helpVisible        bool
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		pingCmd(m.config.Service),
		loadTodayCmd(m.config.Service),
		loadHistoryCmd(m.config.Service, m.historyRange, m.historySeq),
	)
}

func (m *model) anyLoading() bool {
	return m.todayLoading || m.historyLoading || m.selectLoading || m.summarizing
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.anyLoading() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			m.markViewportDirty()
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEsc:
			if m.stage == stageKeyEntry {
				m.stage = stageBrowse
				m.keyInput.SetValue("")
				m.keyInput.Blur()
				m.infoMessage = "API key entry canceled."
				return m, nil
			}
			return m, tea.Quit
		}
		return m.handleKey(msg)
	case tea.MouseMsg:
		if m.stage == stageBrowse {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	case todayResultMsg:
		return m.handleTodayResult(msg)
	case historyResultMsg:
		return m.handleHistoryResult(msg)
	case paperResultMsg:
		return m.handlePaperResult(msg)
	case summarizeResultMsg:
		return m.handleSummarizeResult(msg)
	case healthResultMsg:
		if msg.err != nil {
			m.serverInfo = "server unreachable"
		} else {
			m.serverInfo = fmt.Sprintf("%d papers cached", msg.cached)
		}
		m.markViewportDirty()
		return m, nil
	case openedURLMsg:
		if msg.err != nil {
			m.errorMessage = fmt.Sprintf("could not open %s: %v", msg.url, msg.err)
		} else {
			m.infoMessage = fmt.Sprintf("Opened %s in your viewer.", msg.url)
		}
		return m, nil
	case tea.WindowSizeMsg:
		newWidth := msg.Width - viewportHorizontalPadding
		if newWidth < minViewportWidth {
			newWidth = minViewportWidth
		}
		m.viewport.Width = newWidth
		height := msg.Height - 8
		if height < 5 {
			height = 5
		}
		m.viewport.Height = height
		// the markdown wrap width changed, so the summary body must be
		// derived again rather than patched
		m.deriveActiveState()
		m.markViewportDirty()
		return m, nil
	}
	return m, nil
}

// handleTodayResult populates the active paper from the daily load. A
// paper the user already selected from history is never overwritten by
// a late-arriving today response.
func (m *model) handleTodayResult(msg todayResultMsg) (tea.Model, tea.Cmd) {
	m.todayLoading = false
	if msg.err != nil {
		m.todayErr = msg.err.Error()
		m.markViewportDirty()
		return m, nil
	}
	m.todayErr = ""
	if len(msg.papers) == 0 {
		m.todayEmpty = true
		m.markViewportDirty()
		return m, nil
	}
	m.todayEmpty = false
	if m.selectSeq > 0 && m.paper != nil {
		// a selection already landed; keep it
		m.markViewportDirty()
		return m, nil
	}
	m.setActivePaper(msg.papers[0])
	m.infoMessage = fmt.Sprintf("Loaded %s.", m.paperState.DisplayTitle)
	return m, nil
}

// handleHistoryResult rebuilds the history view wholesale. Responses
// from superseded requests are discarded by sequence number so a slow
// older window can never clobber a newer one.
func (m *model) handleHistoryResult(msg historyResultMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.historySeq {
		return m, nil
	}
	m.historyLoading = false
	if msg.err != nil {
		m.historyErr = msg.err.Error()
		m.markViewportDirty()
		return m, nil
	}
	m.historyErr = ""
	m.historyView = msg.view
	m.markViewportDirty()
	return m, nil
}

// handlePaperResult replaces the active paper after a history selection.
// Only the latest issued selection is honored.
func (m *model) handlePaperResult(msg paperResultMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.selectSeq {
		return m, nil
	}
	m.selectLoading = false
	if msg.err != nil {
		m.errorMessage = msg.err.Error()
		m.infoMessage = "Could not load that paper. Pick another entry."
		m.markViewportDirty()
		return m, nil
	}
	m.errorMessage = ""
	m.setActivePaper(msg.paper)
	m.infoMessage = fmt.Sprintf("Loaded %s.", m.paperState.DisplayTitle)
	return m, nil
}

// handleSummarizeResult closes the singleton summarization workflow.
// The returned summary is merged only when the active paper still is
// the one the request was issued for; a result for a paper the user
// navigated away from is discarded without touching state.
func (m *model) handleSummarizeResult(msg summarizeResultMsg) (tea.Model, tea.Cmd) {
	m.summarizing = false
	m.summarizeID = ""
	if msg.err != nil {
		m.errorMessage = msg.err.Error()
		m.infoMessage = "Summarization failed."
		m.deriveActiveState()
		m.markViewportDirty()
		return m, nil
	}
	if m.paper == nil || m.paper.ID != msg.paperID {
		m.markViewportDirty()
		return m, nil
	}
	m.paper.SummarizedText = msg.paper.SummarizedText
	m.deriveActiveState()
	m.errorMessage = ""
	m.infoMessage = "AI summary ready."
	m.pendingFocusAnchor = anchorSummary
	m.markViewportDirty()
	return m, nil
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.stage {
	case stageKeyEntry:
		var cmd tea.Cmd
		m.keyInput, cmd = m.keyInput.Update(key)
		if key.Type == tea.KeyEnter {
			return m.saveAPIKey(m.keyInput.Value(), cmd)
		}
		return m, cmd
	case stageBrowse:
		return m.handleBrowseKey(key)
	default:
		return m, nil
	}
}

func (m *model) handleBrowseKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	handled := true
	switch key.String() {
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "enter":
		if id, ok := m.entryAtCursor(); ok {
			return m, m.selectPaper(id)
		}
		m.infoMessage = "Move to a history entry to open it."
	case "s":
		return m, m.triggerSummarize()
	case "o":
		return m, m.openFullText()
	case "a":
		m.startKeyEntry("Paste your API key and press Enter.")
	case "c":
		if m.config.Credentials.Get() == "" {
			m.infoMessage = "No API key stored."
			return m, nil
		}
		if err := m.config.Credentials.Clear(); err != nil {
			m.errorMessage = fmt.Sprintf("could not clear API key: %v", err)
			return m, nil
		}
		m.deriveActiveState()
		m.infoMessage = "API key cleared."
		m.markViewportDirty()
	case "f":
		return m, m.changeHistoryFilter(nextRange(m.historyRange))
	case "1":
		return m, m.changeHistoryFilter(daily.RangeWeek)
	case "2":
		return m, m.changeHistoryFilter(daily.RangeMonth)
	case "3":
		return m, m.changeHistoryFilter(daily.RangeAll)
	case "r":
		return m, m.reload()
	case "g":
		m.scrollToTop()
	case "G":
		m.scrollToBottom()
	case "]":
		m.jumpToRelativeSection(1)
	case "[":
		m.jumpToRelativeSection(-1)
	case "?":
		m.helpVisible = !m.helpVisible
		m.markViewportDirty()
	case "q":
		return m, tea.Quit
	default:
		handled = false
	}
	if handled {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(key)
	return m, cmd
}

// selectPaper routes a history selection: fetch the full record, then
// replace the active paper when the response is still the latest one.
func (m *model) selectPaper(id string) tea.Cmd {
	if m.paper != nil && m.paper.ID == id {
		m.infoMessage = "That paper is already open."
		m.pendingFocusAnchor = anchorPaper
		m.markViewportDirty()
		return nil
	}
	m.selectSeq++
	m.selectLoading = true
	m.errorMessage = ""
	m.infoMessage = "Loading paper…"
	m.markViewportDirty()
	return tea.Batch(m.spinner.Tick, fetchPaperCmd(m.config.Service, id, m.selectSeq))
}

// triggerSummarize starts the summarization workflow. The guard runs
// against the freshly derived view state: with no credential the user
// is routed to key entry, with no PDF the request is refused, and a
// request already in flight makes this a no-op. The remote service is
// contacted only when the guard passes.
func (m *model) triggerSummarize() tea.Cmd {
	if m.paper == nil {
		m.infoMessage = "No paper is open yet."
		return nil
	}
	if m.summarizing {
		m.infoMessage = "A summarization is already running."
		return nil
	}
	m.deriveActiveState()
	if !m.paperState.CanSummarize {
		if strings.TrimSpace(m.config.Credentials.Get()) == "" {
			m.startKeyEntry("An API key is required to summarize. Paste one and press Enter.")
			return nil
		}
		m.infoMessage = "This paper has no PDF to summarize."
		return nil
	}
	m.summarizing = true
	m.summarizeID = m.paper.ID
	m.errorMessage = ""
	m.infoMessage = "Requesting AI summary…"
	m.markViewportDirty()
	return tea.Batch(m.spinner.Tick, summarizeCmd(m.config.Service, m.config.Credentials.Get(), m.paper.ID))
}

// changeHistoryFilter re-runs the history fetch for the new window. The
// view is rebuilt from scratch when the response lands; nothing merges
// with the previous window.
func (m *model) changeHistoryFilter(rng daily.Range) tea.Cmd {
	if !rng.Valid() || rng == m.historyRange {
		return nil
	}
	m.historyRange = rng
	m.historySeq++
	m.historyLoading = true
	m.historyErr = ""
	m.infoMessage = fmt.Sprintf("Loading history for %s…", rng.Label())
	m.markViewportDirty()
	return tea.Batch(m.spinner.Tick, loadHistoryCmd(m.config.Service, rng, m.historySeq))
}

func (m *model) openFullText() tea.Cmd {
	if m.paper == nil {
		m.infoMessage = "No paper is open yet."
		return nil
	}
	if !m.paperState.CanReadFullText {
		m.infoMessage = "No PDF is available for this paper."
		return nil
	}
	m.infoMessage = "Opening PDF…"
	return openURLCmd(m.paper.PDFURL)
}

func (m *model) reload() tea.Cmd {
	m.todayLoading = true
	m.todayErr = ""
	m.historySeq++
	m.historyLoading = true
	m.historyErr = ""
	m.infoMessage = "Reloading…"
	m.markViewportDirty()
	return tea.Batch(
		m.spinner.Tick,
		pingCmd(m.config.Service),
		loadTodayCmd(m.config.Service),
		loadHistoryCmd(m.config.Service, m.historyRange, m.historySeq),
	)
}

func (m *model) startKeyEntry(prompt string) {
	m.stage = stageKeyEntry
	m.keyInput.SetValue("")
	m.keyInput.Focus()
	m.infoMessage = prompt
	m.errorMessage = ""
}

// saveAPIKey persists the entered key. Blank input is a validation
// failure: the message blocks in the entry stage and nothing is stored.
func (m *model) saveAPIKey(value string, pending tea.Cmd) (tea.Model, tea.Cmd) {
	if err := m.config.Credentials.Set(value); err != nil {
		if err == credential.ErrEmptyKey {
			m.errorMessage = credential.ErrEmptyKey.Error()
			return m, pending
		}
		m.errorMessage = fmt.Sprintf("could not save API key: %v", err)
		return m, pending
	}
	m.stage = stageBrowse
	m.keyInput.SetValue("")
	m.keyInput.Blur()
	m.errorMessage = ""
	m.infoMessage = "API key saved."
	m.deriveActiveState()
	m.markViewportDirty()
	return m, pending
}

// setActivePaper replaces the single active paper and re-derives its
// view state. Selection always lands the reader back at the top of the
// detail section.
func (m *model) setActivePaper(p daily.Paper) {
	paper := p
	m.paper = &paper
	m.deriveActiveState()
	m.pendingFocusAnchor = anchorPaper
	m.markViewportDirty()
}

// deriveActiveState recomputes the full paper view state from scratch.
func (m *model) deriveActiveState() {
	if m.paper == nil {
		m.paperState = view.State{}
		return
	}
	renderer := markdown.NewRenderer(m.wrapWidth(0))
	m.paperState = view.Derive(*m.paper, m.config.Credentials.Get(), renderer.Render)
}

func nextRange(r daily.Range) daily.Range {
	switch r {
	case daily.RangeWeek:
		return daily.RangeMonth
	case daily.RangeMonth:
		return daily.RangeAll
	default:
		return daily.RangeWeek
	}
}
