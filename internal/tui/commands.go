package tui

import (
	"context"
	"log"
	"os/exec"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/aidaily/internal/daily"
	"github.com/csheth/aidaily/internal/history"
)

type todayResultMsg struct {
	papers []daily.Paper
	err    error
}

type historyResultMsg struct {
	seq  int
	rng  daily.Range
	view history.View
	err  error
}

type paperResultMsg struct {
	seq   int
	paper daily.Paper
	err   error
}

type summarizeResultMsg struct {
	paperID string
	paper   daily.Paper
	err     error
}

type healthResultMsg struct {
	cached int
	err    error
}

type openedURLMsg struct {
	url string
	err error
}

// The service bounds every call with its own per-operation budget, so
// commands pass a plain background context.

func loadTodayCmd(service PaperService) tea.Cmd {
	return func() tea.Msg {
		papers, err := service.FetchToday(context.Background())
		return todayResultMsg{papers: papers, err: err}
	}
}

func loadHistoryCmd(service PaperService, rng daily.Range, seq int) tea.Cmd {
	return func() tea.Msg {
		raw, err := service.FetchHistory(context.Background(), rng)
		if err != nil {
			return historyResultMsg{seq: seq, rng: rng, err: err}
		}
		return historyResultMsg{seq: seq, rng: rng, view: history.BuildView(raw)}
	}
}

func fetchPaperCmd(service PaperService, id string, seq int) tea.Cmd {
	return func() tea.Msg {
		paper, err := service.FetchPaper(context.Background(), id)
		return paperResultMsg{seq: seq, paper: paper, err: err}
	}
}

func summarizeCmd(service PaperService, apiKey, paperID string) tea.Cmd {
	return func() tea.Msg {
		started := time.Now()
		paper, err := service.Summarize(context.Background(), apiKey, paperID)
		log.Printf("[summarize] paper=%s duration=%s err=%v", paperID, time.Since(started).Round(time.Millisecond), err)
		return summarizeResultMsg{paperID: paperID, paper: paper, err: err}
	}
}

func pingCmd(service PaperService) tea.Cmd {
	return func() tea.Msg {
		cached, err := service.Ping(context.Background())
		return healthResultMsg{cached: cached, err: err}
	}
}

// openURLCmd hands the URL to the platform opener. The document itself
// is never downloaded or parsed here.
func openURLCmd(url string) tea.Cmd {
	return func() tea.Msg {
		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", url)
		case "windows":
			cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
		default:
			cmd = exec.Command("xdg-open", url)
		}
		return openedURLMsg{url: url, err: cmd.Start()}
	}
}
