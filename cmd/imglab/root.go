package main

import (
	"io"
	"os"

	"imglab/internal/config"
	"imglab/internal/log"
	"imglab/internal/picker"
	"imglab/internal/watch"

	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	cfg        *config.Config
	debug      bool
	logFile    string
	serviceURL string
)

// NewRootCmd creates the root command. Without a subcommand it starts the
// terminal interface.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "imglab",
		Short: "Classify and denoise images with a remote inference service",
		Long: `imglab sends an image to an inference service and shows the result.

Pick an image, then either classify it (label and confidence) or
denoise it (a cleaned copy of the image). Runs as a terminal UI, a
desktop GUI, or one-shot commands.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/imglab/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")
	rootCmd.PersistentFlags().StringVar(&serviceURL, "service", "", "inference service base URL (overrides config)")

	rootCmd.AddCommand(NewTUICmd())
	rootCmd.AddCommand(NewGUICmd())
	rootCmd.AddCommand(NewClassifyCmd())
	rootCmd.AddCommand(NewDenoiseCmd())
	rootCmd.AddCommand(NewConfigCmd())

	return rootCmd
}

// loadConfig reads the config file and applies flag overrides
func loadConfig(cmd *cobra.Command) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadConfigFile(cfgFile)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return err
	}

	if serviceURL != "" {
		cfg.Service.BaseURL = serviceURL
	}
	if logFile != "" {
		cfg.Logging.File = logFile
	}
	if debug {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	configureLogging(cmd.ErrOrStderr())
	return nil
}

// configureLogging sends logs to the configured file, or to out
func configureLogging(out io.Writer) {
	opts := []log.Option{log.WithOutput(out), log.WithLevel(cfg.Logging.Level)}
	if cfg.Logging.File != "" {
		opts = append(opts, log.WithFile(cfg.Logging.File))
	}
	if cfg.Logging.JSON {
		opts = append(opts, log.WithJSON())
	}
	log.Configure(opts...)
	if debug {
		log.SetDebug(true)
	}
}

// newWatcher starts watching the configured directory, or returns nil
// when watch mode is off
func newWatcher(p *picker.Picker) (*watch.Watcher, error) {
	if !cfg.Watch.Enabled {
		return nil, nil
	}
	w, err := watch.New(p.Accepts)
	if err != nil {
		return nil, err
	}
	if err := w.AddDirectory(cfg.Watch.Directory); err != nil {
		w.Stop()
		return nil, err
	}
	if err := w.Start(); err != nil {
		return nil, err
	}
	return w, nil
}

func pickerDir() string {
	if cfg.Picker.Directory != "" {
		return cfg.Picker.Directory
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}
