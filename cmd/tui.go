package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/coursebook/internal/repositories"
	"github.com/desertthunder/coursebook/internal/shared"
	"github.com/desertthunder/coursebook/internal/tasks"
	"github.com/desertthunder/coursebook/internal/ui"
	"github.com/urfave/cli/v3"
)

const defaultTUILog = "./tmp/coursebook-tui.log"

// TUI launches the interactive terminal UI for booking a slot.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.service == nil {
		return fmt.Errorf("%w: booking service not initialized", shared.ErrServiceUnavailable)
	}

	logPath := r.config.Log.File
	if logPath == "" {
		logPath = defaultTUILog
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	var recorder tasks.Recorder
	if repo, db, err := r.openReceipts(); err != nil {
		r.logger.Warn("receipt journal unavailable, bookings will not be recorded", "err", err)
	} else {
		defer db.Close()
		recorder = repositories.NewReceiptRecorder(repo, r.service.Name())
	}

	model := ui.NewModel(ctx, r.newSession(recorder))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
