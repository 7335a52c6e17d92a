package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/csheth/aidaily/internal/config"
	"github.com/csheth/aidaily/internal/credential"
	"github.com/csheth/aidaily/internal/daily"
	"github.com/csheth/aidaily/internal/tui"
)

func defaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(base, "aidaily", "config.yaml")
}

func main() {
	// Load .env if present (for AIDAILY_BASE_URL and friends)
	_ = godotenv.Load()

	configPath := flag.String("config", defaultConfigPath(), "path to config file")
	baseURL := flag.String("base-url", "", "override the AI Daily service base URL")
	historyRange := flag.String("history-range", "", "initial history window: 7, 30 or all")
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Println("failed to load config:", err)
		os.Exit(1)
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *historyRange != "" {
		if !daily.Range(*historyRange).Valid() {
			fmt.Printf("invalid history range %q (use 7, 30 or all)\n", *historyRange)
			os.Exit(1)
		}
		cfg.HistoryRange = *historyRange
	}

	store, err := credential.NewStore(cfg.CredentialPath)
	if err != nil {
		fmt.Println("failed to open credential store:", err)
		os.Exit(1)
	}

	client := daily.NewClient(
		daily.WithBaseURL(cfg.BaseURL),
		daily.WithTimeout(cfg.RequestTimeout()),
	)

	opts := []tea.ProgramOption{}
	if !*noAltScreen && (cfg.AltScreen == nil || *cfg.AltScreen) {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Service:      client,
			Credentials:  store,
			HistoryRange: daily.Range(cfg.HistoryRange),
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		fmt.Println("program error:", err)
		os.Exit(1)
	}
}
