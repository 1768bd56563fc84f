package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tunebox/internal/shared"
	"github.com/desertthunder/tunebox/internal/ui"
	"github.com/urfave/cli/v3"
)

// DefaultTUILogFile receives logs while the TUI owns the terminal.
const DefaultTUILogFile = "./tmp/tunebox-tui.log"

// TUI launches the interactive terminal UI for browsing the library.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.lib()
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	path := r.config.Log.File
	if path == "" {
		path = DefaultTUILogFile
	}
	fileLogger, closer := shared.NewFileLogger(path)
	defer closer.Close()
	shared.SetLogLevel(fileLogger, r.logger.GetLevel())
	r.SetLogger(fileLogger)

	var seeder ui.Seeder
	if r.seeder != nil {
		seeder = r.seeder
	}

	model := ui.NewModel(ctx, lib, seeder)
	p := tea.NewProgram(model, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
