package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"imglab/internal/errors"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration structure.
// It defines the inference service, the file picker, watch mode, logging
// and the UI theme.
type Config struct {
	Service struct {
		BaseURL        string `yaml:"base_url"`        // Inference service address
		ClassifyPath   string `yaml:"classify_path"`   // Endpoint for classification
		DenoisePath    string `yaml:"denoise_path"`    // Endpoint for denoising
		TimeoutSeconds int    `yaml:"timeout_seconds"` // Per request timeout
	} `yaml:"service"`
	Picker struct {
		Directory  string   `yaml:"directory"`   // Directory the picker opens in
		Accept     []string `yaml:"accept"`      // Glob patterns of selectable files
		ShowHidden bool     `yaml:"show_hidden"` // List dot files
	} `yaml:"picker"`
	Watch struct {
		Enabled    bool   `yaml:"enabled"`     // Watch a directory for new images
		Directory  string `yaml:"directory"`   // Directory to watch
		AutoSelect bool   `yaml:"auto_select"` // Select new images as they appear
	} `yaml:"watch"`
	Logging struct {
		Level string `yaml:"level"` // debug, info, warn, error
		File  string `yaml:"file"`  // Log file; the TUI discards logs when empty
		JSON  bool   `yaml:"json"`  // Use the JSON formatter
	} `yaml:"logging"`
	Theme struct {
		Name     string `yaml:"name"`     // Theme name (default, dark, light, etc.)
		Primary  string `yaml:"primary"`  // Primary color for branding
		Success  string `yaml:"success"`  // Success message color
		Warning  string `yaml:"warning"`  // Warning message color
		Error    string `yaml:"error"`    // Error message color
		Info     string `yaml:"info"`     // Informational message color
		Emphasis string `yaml:"emphasis"` // Emphasis color for text that should stand out
		Border   string `yaml:"border"`   // Border color for frames
	} `yaml:"theme"`
}

// DefaultAccept matches the image types the inference service can decode.
var DefaultAccept = []string{"*.{jpg,jpeg,png,gif,bmp,webp,tif,tiff,JPG,JPEG,PNG}"}

// DefaultPath returns ~/.config/imglab/config.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "imglab", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location
// (~/.config/imglab/config.yaml).
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Unmarshal into a temporary config to preserve defaults for unset fields
	var tempCfg Config
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
	}

	if tempCfg.Service.BaseURL != "" {
		cfg.Service.BaseURL = tempCfg.Service.BaseURL
	}
	if tempCfg.Service.ClassifyPath != "" {
		cfg.Service.ClassifyPath = tempCfg.Service.ClassifyPath
	}
	if tempCfg.Service.DenoisePath != "" {
		cfg.Service.DenoisePath = tempCfg.Service.DenoisePath
	}
	if tempCfg.Service.TimeoutSeconds != 0 {
		cfg.Service.TimeoutSeconds = tempCfg.Service.TimeoutSeconds
	}

	if tempCfg.Picker.Directory != "" {
		cfg.Picker.Directory = tempCfg.Picker.Directory
	}
	if len(tempCfg.Picker.Accept) > 0 {
		cfg.Picker.Accept = tempCfg.Picker.Accept
	}
	cfg.Picker.ShowHidden = tempCfg.Picker.ShowHidden

	cfg.Watch.Enabled = tempCfg.Watch.Enabled
	cfg.Watch.AutoSelect = tempCfg.Watch.AutoSelect
	if tempCfg.Watch.Directory != "" {
		cfg.Watch.Directory = tempCfg.Watch.Directory
	}

	if tempCfg.Logging.Level != "" {
		cfg.Logging.Level = tempCfg.Logging.Level
	}
	cfg.Logging.File = tempCfg.Logging.File
	cfg.Logging.JSON = tempCfg.Logging.JSON

	if tempCfg.Theme.Name != "" {
		cfg.ApplyTheme(tempCfg.Theme.Name)
	}
	mergeColor(&cfg.Theme.Primary, tempCfg.Theme.Primary)
	mergeColor(&cfg.Theme.Success, tempCfg.Theme.Success)
	mergeColor(&cfg.Theme.Warning, tempCfg.Theme.Warning)
	mergeColor(&cfg.Theme.Error, tempCfg.Theme.Error)
	mergeColor(&cfg.Theme.Info, tempCfg.Theme.Info)
	mergeColor(&cfg.Theme.Emphasis, tempCfg.Theme.Emphasis)
	mergeColor(&cfg.Theme.Border, tempCfg.Theme.Border)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func mergeColor(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	// The inference service listens on Flask's development port
	cfg.Service.BaseURL = "http://localhost:5000"
	cfg.Service.ClassifyPath = "/predict"
	cfg.Service.DenoisePath = "/denoise"
	cfg.Service.TimeoutSeconds = 60

	cfg.Picker.Directory = "."
	cfg.Picker.Accept = append([]string(nil), DefaultAccept...)
	cfg.Picker.ShowHidden = false

	cfg.Watch.Enabled = false
	cfg.Watch.Directory = ""
	cfg.Watch.AutoSelect = false

	cfg.Logging.Level = "info"

	cfg.ApplyTheme("default")

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
// Returns error if any settings are invalid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrInvalidConfig
	}

	u, err := url.Parse(c.Service.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.NewConfigError("base_url must be an http(s) URL", "service.base_url", errors.InvalidConfig, err)
	}
	if !strings.HasPrefix(c.Service.ClassifyPath, "/") {
		return errors.NewConfigError("path must start with /", "service.classify_path", errors.InvalidConfig, nil)
	}
	if !strings.HasPrefix(c.Service.DenoisePath, "/") {
		return errors.NewConfigError("path must start with /", "service.denoise_path", errors.InvalidConfig, nil)
	}
	if c.Service.TimeoutSeconds < 1 {
		return errors.NewConfigError("timeout must be >= 1 second", "service.timeout_seconds", errors.InvalidConfig, nil)
	}

	if len(c.Picker.Accept) == 0 {
		return errors.NewConfigError("at least one accept pattern is required", "picker.accept", errors.InvalidConfig, nil)
	}
	for i, pattern := range c.Picker.Accept {
		if _, err := glob.Compile(pattern); err != nil {
			return errors.NewConfigError(fmt.Sprintf("accept pattern %d is invalid", i), "picker.accept", errors.InvalidConfig, err)
		}
	}

	if c.Watch.Enabled && c.Watch.Directory == "" {
		return errors.NewConfigError("watch directory is required when watch is enabled", "watch.directory", errors.InvalidConfig, nil)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errors.NewConfigError("unknown log level "+c.Logging.Level, "logging.level", errors.InvalidConfig, nil)
	}

	return nil
}

// Timeout returns the per request timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Service.TimeoutSeconds) * time.Second
}

// NewTestConfig creates a configuration instance for testing purposes.
func NewTestConfig(baseURL string) *Config {
	cfg := defaultConfig()
	cfg.Service.BaseURL = baseURL
	cfg.Service.TimeoutSeconds = 5
	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// GetTheme returns a predefined theme configuration by name.
// If the theme doesn't exist, returns the default theme.
func GetTheme(name string) map[string]string {
	themes := map[string]map[string]string{
		"default": {
			"primary":  "213", // Purple
			"success":  "114", // Green
			"warning":  "220", // Yellow
			"error":    "196", // Red
			"info":     "39",  // Blue
			"emphasis": "212", // Light Pink
			"border":   "213", // Purple
		},
		"dark": {
			"primary":  "105",
			"success":  "78",
			"warning":  "214",
			"error":    "160",
			"info":     "33",
			"emphasis": "147",
			"border":   "105",
		},
		"light": {
			"primary":  "135",
			"success":  "150",
			"warning":  "222",
			"error":    "210",
			"info":     "117",
			"emphasis": "219",
			"border":   "135",
		},
		"monochrome": {
			"primary":  "245",
			"success":  "252",
			"warning":  "241",
			"error":    "232",
			"info":     "248",
			"emphasis": "255",
			"border":   "245",
		},
	}

	if theme, exists := themes[name]; exists {
		return theme
	}

	return themes["default"]
}

// ApplyTheme sets the theme in the configuration.
// It updates the theme colors based on the theme name.
func (c *Config) ApplyTheme(name string) {
	theme := GetTheme(name)

	c.Theme.Name = name
	c.Theme.Primary = theme["primary"]
	c.Theme.Success = theme["success"]
	c.Theme.Warning = theme["warning"]
	c.Theme.Error = theme["error"]
	c.Theme.Info = theme["info"]
	c.Theme.Emphasis = theme["emphasis"]
	c.Theme.Border = theme["border"]
}

// ListThemes returns a list of available theme names.
func ListThemes() []string {
	return []string{"default", "dark", "light", "monochrome"}
}
