package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/macgen/macgen/internal/tui"
)

func main() {
	configPath := ""
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	} else {
		fmt.Println("Usage: macgen-tui <config-file>")
		os.Exit(1)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Printf("Error: Config file not found: %s\n", configPath)
		os.Exit(1)
	}

	// zap output would corrupt the alternate screen, so logs go to a
	// file when MACGEN_TUI_LOG is set and are dropped otherwise.
	logger := zap.NewNop()
	if logPath := os.Getenv("MACGEN_TUI_LOG"); logPath != "" {
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{logPath}
		cfg.ErrorOutputPaths = []string{logPath}
		if built, err := cfg.Build(); err == nil {
			logger = built
			defer built.Sync()
		}
	}

	model := tui.NewModel(configPath, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
