package main

import (
	"fmt"
	"io"

	"imglab/internal/log"
	"imglab/internal/picker"
	"imglab/internal/session"
	"imglab/internal/tui"
	"imglab/internal/tui/styles"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// NewTUICmd creates the tui command
func NewTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the terminal interface",
		Long:  `Start the interactive terminal interface. This is also what imglab runs without a subcommand.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}
}

func runTUI() error {
	// Log lines would tear the alt screen
	if cfg.Logging.File == "" {
		log.SetOutput(io.Discard)
	}

	styles.Apply(cfg)

	p, err := picker.New(cfg)
	if err != nil {
		return err
	}
	w, err := newWatcher(p)
	if err != nil {
		return fmt.Errorf("failed to start watch mode: %w", err)
	}

	opts := []tui.Option{tui.WithStartDir(pickerDir())}
	if w != nil {
		opts = append(opts, tui.WithWatcher(w, cfg.Watch.AutoSelect))
	}
	model := tui.New(session.NewFromConfig(cfg), p, opts...)
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("error running terminal interface: %w", err)
	}
	return nil
}
