package main

import (
	"fmt"

	"imglab/internal/gui"
	"imglab/internal/picker"
	"imglab/internal/session"

	"github.com/spf13/cobra"
)

// NewGUICmd creates the GUI command for the CLI
func NewGUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Launch the graphical user interface",
		Long:  `Launch the desktop window for choosing, classifying and denoising images.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !gui.IsGUIAvailable() {
				return fmt.Errorf("this build of imglab has no GUI support")
			}

			p, err := picker.New(cfg)
			if err != nil {
				return err
			}
			w, err := newWatcher(p)
			if err != nil {
				return fmt.Errorf("failed to start watch mode: %w", err)
			}

			return gui.StartGUI(cfg, gui.Options{
				Session:    session.NewFromConfig(cfg),
				Picker:     p,
				Watcher:    w,
				AutoSelect: cfg.Watch.AutoSelect,
			})
		},
	}
}
