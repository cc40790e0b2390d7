//go:build nogui

package gui

import (
	"fmt"

	"imglab/internal/config"
)

// Create reports that the GUI is disabled in this build
func (f *Factory) Create() (Interface, error) {
	return nil, fmt.Errorf("GUI not available in this build")
}

// StartGUI is a stub implementation for builds with GUI disabled
func StartGUI(cfg *config.Config, opts Options) error {
	fmt.Println("GUI is disabled in this build. Please use the terminal interface.")
	return fmt.Errorf("GUI not available in this build")
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return false
}
