package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"uicheck/pkg/config"
	"uicheck/pkg/driver"
)

// app holds the state shared by the subcommands of one invocation
type app struct {
	v        *viper.Viper
	settings *config.Settings

	configFile string
	envFiles   []string

	stdout io.Writer
	stderr io.Writer
}

// exitError ends the process with code. A nil err means the outcome was
// already reported and nothing more is printed.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// flagKeys maps flags whose name differs from their settings key
var flagKeys = map[string]string{
	"browser-arg": "browser_args",
}

// Execute runs the CLI with args and returns the process exit code
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", exitErr.err)
		}
		return exitErr.code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		v:      config.New(),
		stdout: stdout,
		stderr: stderr,
	}

	cmd := &cobra.Command{
		Use:   "uicheck",
		Short: "Smoke-check a dashboard page in a real browser",
		Long: `uicheck opens a page and checks, in order, that the navbar is visible,
the navigation links are present, and the dashboard tiles and material
inventory are shown. The first unmet condition fails the run.

Without arguments it runs the built-in recycler dashboard checklist.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runCheck,
	}

	defaults := driver.DefaultOptions()
	fs := cmd.PersistentFlags()
	fs.StringVar(&a.configFile, "config", "", "config file (default: ./uicheck.yaml or $HOME/.config/uicheck/uicheck.yaml)")
	fs.StringSliceVar(&a.envFiles, "env-file", nil, "dotenv files to load (default: .env)")

	fs.String("checklist", "", "checklist YAML file (default: built-in dashboard checklist)")
	fs.String("url", "", "override the checklist target URL")
	fs.Duration("timeout", 0, "per-step timeout, replacing the checklist timeouts")
	fs.Duration("poll-interval", 0, "period between two element queries")
	fs.String("driver", "chromedp", "browser driver (see 'uicheck drivers')")
	fs.Bool("headless", defaults.Headless, "run the browser without a window")
	fs.Bool("start-maximized", defaults.StartMaximized, "start the browser window maximized")
	fs.Int("window-width", defaults.WindowWidth, "window width when not maximized")
	fs.Int("window-height", defaults.WindowHeight, "window height when not maximized")
	fs.String("user-agent", "", "user agent override")
	fs.String("remote-url", "", "WebDriver endpoint or DevTools URL of a running browser")
	fs.Duration("nav-timeout", defaults.NavTimeout, "upper bound for loading the page")
	fs.StringArray("browser-arg", nil, "extra browser command-line argument (repeatable)")
	fs.String("screenshot-dir", "", "save a screenshot of the page here when a check fails")
	fs.String("report", "console", "report format: console, json or junit")
	fs.String("report-file", "", "also write the report to this file")
	fs.String("junit-file", "", "write a JUnit XML report to this file")
	fs.String("metrics-file", "", "write Prometheus textfile metrics to this file")
	fs.BoolP("verbose", "v", false, "print the per-step breakdown")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("log-format", "text", "log format (text, json)")

	bindFlags(a.v, fs, "config", "env-file")

	cmd.AddCommand(
		newRunCmd(a),
		newValidateCmd(a),
		newShowCmd(a),
		newDriversCmd(a),
	)
	return cmd
}

// bindFlags binds every flag but the skipped ones to its settings key
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, skip ...string) {
	fs.VisitAll(func(f *pflag.Flag) {
		for _, name := range skip {
			if f.Name == name {
				return
			}
		}
		key, ok := flagKeys[f.Name]
		if !ok {
			key = strings.ReplaceAll(f.Name, "-", "_")
		}
		// BindPFlag only fails for a nil flag.
		_ = v.BindPFlag(key, f)
	})
}

// setup resolves the settings and installs the logger before any subcommand runs
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(a.envFiles...); err != nil {
		return err
	}

	settings, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	a.settings = settings

	slog.SetDefault(newLogger(a.stderr, settings.LogLevel, settings.LogFormat))
	slog.Debug("Settings resolved",
		"config", a.v.ConfigFileUsed(),
		"driver", settings.Driver,
		"checklist", settings.Checklist)
	return nil
}
