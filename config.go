package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	RefreshInterval  time.Duration `mapstructure:"refresh_interval" yaml:"refresh_interval"`
	Modules          []string      `mapstructure:"modules" yaml:"modules"`
	Colors           Colors        `mapstructure:"colors" yaml:"colors"`
	Alignment        string        `mapstructure:"alignment" yaml:"alignment"`
	Font             string        `mapstructure:"font" yaml:"font"`
	Height           int           `mapstructure:"height" yaml:"height"`
	IconDir          string        `mapstructure:"icon_dir" yaml:"icon_dir"`
	Theme            Theme         `mapstructure:"theme" yaml:"theme"`
	ClockFormat      string        `mapstructure:"clock_format" yaml:"clock_format"`
	Renderer         string        `mapstructure:"renderer" yaml:"renderer"`
	WorkspaceBackend string        `mapstructure:"workspace_backend" yaml:"workspace_backend"`
	BatteryBackend   string        `mapstructure:"battery_backend" yaml:"battery_backend"`
	BatteryDevice    string        `mapstructure:"battery_device" yaml:"battery_device"`
	WifiInterface    string        `mapstructure:"wifi_interface" yaml:"wifi_interface"`
	VolumeBar        int           `mapstructure:"volume_bar" yaml:"volume_bar"`
	CommandTimeout   time.Duration `mapstructure:"command_timeout" yaml:"command_timeout"`
	Strict           bool          `mapstructure:"strict" yaml:"strict"`
	HyprlandEvents   bool          `mapstructure:"hyprland_events" yaml:"hyprland_events"`
}

type Colors struct {
	Background  string `mapstructure:"background" yaml:"background"`
	Foreground  string `mapstructure:"foreground" yaml:"foreground"`
	Icon        string `mapstructure:"icon" yaml:"icon"`
	BarActive   string `mapstructure:"bar_active" yaml:"bar_active"`
	BarInactive string `mapstructure:"bar_inactive" yaml:"bar_inactive"`
}

const (
	accentClockFormat = "Mon, 02/Jan 15:04"
	plainClockFormat  = "Mon, 02/01/2006 15:04"
)

func defaultConfigPath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "futuredash", "config.yaml")
}

func defaultConfig() *Config {
	return &Config{
		RefreshInterval: time.Second,
		Modules: []string{
			"workspaces", "right:220", "wifi", "sep", "network", "sep",
			"volume", "sep", "battery", "sep", "clock",
		},
		Colors: Colors{
			Background:  "#191F27",
			Foreground:  "#D8043F",
			Icon:        "#D8043F",
			BarActive:   "#ECF1F3",
			BarInactive: "#ADADC7",
		},
		Alignment:        "r",
		Font:             "-*-Source Code Pro-medium-r-*-*-12-*-*-*-*-*-iso10646-*",
		Height:           20,
		IconDir:          "/etc/futuredash/icons",
		Theme:            ThemeAccent,
		Renderer:         "dzen2",
		WorkspaceBackend: "i3",
		BatteryBackend:   "upower",
		BatteryDevice:    "/org/freedesktop/UPower/devices/battery_BAT0",
		VolumeBar:        10,
		CommandTimeout:   2 * time.Second,
	}
}

// loadConfig reads path (or the default location) over the built-in defaults.
// A missing file is not an error.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}

	def := defaultConfig()
	v := viper.New()
	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("yaml")
	}
	v.SetDefault("refresh_interval", def.RefreshInterval)
	v.SetDefault("modules", def.Modules)
	v.SetDefault("colors.background", def.Colors.Background)
	v.SetDefault("colors.foreground", def.Colors.Foreground)
	v.SetDefault("colors.icon", def.Colors.Icon)
	v.SetDefault("colors.bar_active", def.Colors.BarActive)
	v.SetDefault("colors.bar_inactive", def.Colors.BarInactive)
	v.SetDefault("alignment", def.Alignment)
	v.SetDefault("font", def.Font)
	v.SetDefault("height", def.Height)
	v.SetDefault("icon_dir", def.IconDir)
	v.SetDefault("theme", string(def.Theme))
	v.SetDefault("clock_format", "")
	v.SetDefault("renderer", def.Renderer)
	v.SetDefault("workspace_backend", def.WorkspaceBackend)
	v.SetDefault("battery_backend", def.BatteryBackend)
	v.SetDefault("battery_device", def.BatteryDevice)
	v.SetDefault("wifi_interface", "")
	v.SetDefault("volume_bar", def.VolumeBar)
	v.SetDefault("command_timeout", def.CommandTimeout)
	v.SetDefault("strict", false)
	v.SetDefault("hyprland_events", false)
	v.SetEnvPrefix("FUTUREDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		if !missing || explicit {
			return nil, fmt.Errorf("%w: read %s: %w", ErrConfigInvalid, path, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrConfigInvalid, path, err)
	}
	if config.ClockFormat == "" {
		config.ClockFormat = accentClockFormat
		if config.Theme == ThemePlain {
			config.ClockFormat = plainClockFormat
		}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: "+format, append([]any{ErrConfigInvalid}, args...)...)
	}

	switch c.Alignment {
	case "l", "c", "r":
	default:
		return invalid("alignment must be l, c or r, got %q", c.Alignment)
	}
	if c.Height <= 0 {
		return invalid("height must be positive, got %d", c.Height)
	}
	if c.RefreshInterval <= 0 {
		return invalid("refresh_interval must be positive, got %s", c.RefreshInterval)
	}
	if c.CommandTimeout <= 0 {
		return invalid("command_timeout must be positive, got %s", c.CommandTimeout)
	}
	if c.VolumeBar < 0 {
		return invalid("volume_bar must not be negative, got %d", c.VolumeBar)
	}
	switch c.Theme {
	case ThemeAccent, ThemePlain:
	default:
		return invalid("unknown theme %q", c.Theme)
	}
	switch c.WorkspaceBackend {
	case "i3", "hyprland":
	default:
		return invalid("unknown workspace_backend %q", c.WorkspaceBackend)
	}
	switch c.BatteryBackend {
	case "upower", "sysfs":
	default:
		return invalid("unknown battery_backend %q", c.BatteryBackend)
	}
	if c.Renderer == "" {
		return invalid("renderer must be set")
	}
	if len(c.Modules) == 0 {
		return invalid("no modules configured")
	}
	for _, name := range c.Modules {
		if _, err := parseModuleSpec(name); err != nil {
			return invalid("%v", err)
		}
	}

	info, err := os.Stat(c.IconDir)
	if err != nil {
		return invalid("icon_dir: %v", err)
	}
	if !info.IsDir() {
		return invalid("icon_dir %s is not a directory", c.IconDir)
	}
	return nil
}

// missingIcons reports bitmaps the widgets expect that are absent from IconDir.
func (c *Config) missingIcons() []string {
	var missing []string
	for _, name := range iconFiles() {
		if _, err := os.Stat(filepath.Join(c.IconDir, name)); err != nil {
			missing = append(missing, name)
		}
	}
	return missing
}
