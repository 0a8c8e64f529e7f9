package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"uicheck/pkg/checker"
	"uicheck/pkg/checklist"
	"uicheck/pkg/config"
	"uicheck/pkg/metrics"
	"uicheck/pkg/reporter"
	"uicheck/pkg/session"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the page check (default command)",
		Args:  cobra.NoArgs,
		RunE:  a.runCheck,
	}
}

// runCheck executes the checklist in a fresh browser session and reports it.
// A failed check exits with status 1 after the report is written.
func (a *app) runCheck(cmd *cobra.Command, _ []string) error {
	s := a.settings

	format, err := reporter.ParseFormat(s.Report)
	if err != nil {
		return err
	}

	cl, err := loadChecklist(s)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var result *checker.RunResult
	err = session.With(ctx, s.Driver, s.DriverOptions(), func(sess *session.Session) error {
		drv, err := sess.Driver()
		if err != nil {
			return err
		}

		c := checker.New(drv, checker.Options{ScreenshotDir: s.ScreenshotDir})
		result, err = c.Run(ctx, cl)
		result.Driver = sess.DriverName()
		result.SessionID = sess.ID()
		return err
	})
	if result == nil {
		return fmt.Errorf("failed to start browser session: %w", err)
	}
	if err != nil && result.Success {
		// The page passed; only the teardown went wrong.
		slog.Warn("Browser session teardown failed after a passing check", "error", err)
	}

	if err := a.writeReports(format, result); err != nil {
		return err
	}

	if !result.Success {
		return &exitError{code: 1}
	}
	return nil
}

// loadChecklist reads the configured checklist and applies the overrides
func loadChecklist(s *config.Settings) (*checklist.Checklist, error) {
	cl, err := checklist.Load(s.Checklist)
	if err != nil {
		return nil, fmt.Errorf("failed to load checklist: %w", err)
	}
	if err := s.Apply(cl); err != nil {
		return nil, fmt.Errorf("invalid checklist overrides: %w", err)
	}
	return cl, nil
}

// writeReports prints the report and writes every configured report file
func (a *app) writeReports(format reporter.Format, result *checker.RunResult) error {
	s := a.settings
	var errs []error

	if err := reporter.Write(a.stdout, format, result, s.Verbose); err != nil {
		errs = append(errs, err)
	}
	if s.ReportFile != "" {
		if err := reporter.WriteFile(s.ReportFile, format, result); err != nil {
			errs = append(errs, err)
		}
	}
	if s.JUnitFile != "" {
		if err := reporter.WriteFile(s.JUnitFile, reporter.FormatJUnit, result); err != nil {
			errs = append(errs, err)
		}
	}
	if s.MetricsFile != "" {
		if err := metrics.WriteRun(s.MetricsFile, result); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
