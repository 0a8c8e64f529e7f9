// Package config resolves the settings of a check run. Values come, in
// increasing order of precedence, from built-in defaults, an optional YAML
// config file, a .env file, UICHECK_* environment variables and command-line
// flags bound by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"uicheck/pkg/checklist"
	"uicheck/pkg/driver"
)

// EnvPrefix prefixes every environment variable read by uicheck
const EnvPrefix = "UICHECK"

// Settings is the resolved configuration of a run
type Settings struct {
	Checklist      string        `mapstructure:"checklist"`
	URL            string        `mapstructure:"url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	Driver         string        `mapstructure:"driver"`
	Headless       bool          `mapstructure:"headless"`
	StartMaximized bool          `mapstructure:"start_maximized"`
	WindowWidth    int           `mapstructure:"window_width"`
	WindowHeight   int           `mapstructure:"window_height"`
	UserAgent      string        `mapstructure:"user_agent"`
	RemoteURL      string        `mapstructure:"remote_url"`
	NavTimeout     time.Duration `mapstructure:"nav_timeout"`
	BrowserArgs    []string      `mapstructure:"browser_args"`
	ScreenshotDir  string        `mapstructure:"screenshot_dir"`
	Report         string        `mapstructure:"report"`
	ReportFile     string        `mapstructure:"report_file"`
	JUnitFile      string        `mapstructure:"junit_file"`
	MetricsFile    string        `mapstructure:"metrics_file"`
	Verbose        bool          `mapstructure:"verbose"`
	LogLevel       string        `mapstructure:"log_level"`
	LogFormat      string        `mapstructure:"log_format"`
}

// New returns a viper instance with defaults and environment lookup set up
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers the default of every setting. Every key needs a
// default so that environment variables are seen by Unmarshal.
func SetDefaults(v *viper.Viper) {
	opts := driver.DefaultOptions()

	v.SetDefault("checklist", "")
	v.SetDefault("url", "")
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("poll_interval", time.Duration(0))
	v.SetDefault("driver", "chromedp")
	v.SetDefault("headless", opts.Headless)
	v.SetDefault("start_maximized", opts.StartMaximized)
	v.SetDefault("window_width", opts.WindowWidth)
	v.SetDefault("window_height", opts.WindowHeight)
	v.SetDefault("user_agent", "")
	v.SetDefault("remote_url", "")
	v.SetDefault("nav_timeout", opts.NavTimeout)
	v.SetDefault("browser_args", []string{})
	v.SetDefault("screenshot_dir", "")
	v.SetDefault("report", "console")
	v.SetDefault("report_file", "")
	v.SetDefault("junit_file", "")
	v.SetDefault("metrics_file", "")
	v.SetDefault("verbose", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// LoadDotEnv loads .env files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load env file '%s': %w", p, err)
		}
	}
	return nil
}

// Load reads the config file, if any, and unmarshals the settings.
// An explicit configFile must exist; otherwise uicheck.yaml is looked up in
// the working directory and $HOME/.config/uicheck and may be absent.
func Load(v *viper.Viper, configFile string) (*Settings, error) {
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("uicheck")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/uicheck")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the settings that cannot be checked by the consumers themselves
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.Driver) == "" {
		return fmt.Errorf("driver is required")
	}
	if s.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", s.Timeout)
	}
	if s.PollInterval < 0 {
		return fmt.Errorf("poll_interval must not be negative, got %s", s.PollInterval)
	}
	switch strings.ToLower(s.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format '%s' (want text or json)", s.LogFormat)
	}
	return nil
}

// DriverOptions builds the options handed to the driver factory
func (s *Settings) DriverOptions() driver.Options {
	return driver.Options{
		Headless:       s.Headless,
		StartMaximized: s.StartMaximized,
		WindowWidth:    s.WindowWidth,
		WindowHeight:   s.WindowHeight,
		UserAgent:      s.UserAgent,
		RemoteURL:      s.RemoteURL,
		NavTimeout:     s.NavTimeout,
		ExtraArgs:      append([]string(nil), s.BrowserArgs...),
	}
}

// Apply overrides the checklist's target with the settings that were given,
// then revalidates it
func (s *Settings) Apply(cl *checklist.Checklist) error {
	if s.URL != "" {
		cl.Target.URL = s.URL
	}
	if s.Timeout > 0 {
		cl.Target.Timeout = s.Timeout.String()
		// A run-wide timeout replaces the per-step budgets too.
		for i := range cl.Steps {
			cl.Steps[i].Timeout = ""
		}
	}
	if s.PollInterval > 0 {
		cl.Target.PollInterval = s.PollInterval.String()
	}
	return checklist.Validate(cl)
}
