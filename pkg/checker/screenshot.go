package checker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"uicheck/pkg/driver"
)

// screenshotTimeout bounds the capture taken after a failure
const screenshotTimeout = 10 * time.Second

// captureFailure saves a PNG of the page when a screenshot directory is
// configured and the driver can take one. Capture problems are logged only.
func (c *Checker) captureFailure(ctx context.Context, result *RunResult) {
	if c.opts.ScreenshotDir == "" {
		return
	}
	shooter, ok := c.drv.(driver.Screenshotter)
	if !ok {
		slog.Debug("Driver cannot take screenshots")
		return
	}

	// The run context may already be cancelled; the capture still gets its own budget.
	shotCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), screenshotTimeout)
	defer cancel()

	png, err := shooter.Screenshot(shotCtx)
	if err != nil {
		slog.Warn("Failed to take screenshot", "error", err)
		return
	}

	if err := os.MkdirAll(c.opts.ScreenshotDir, 0755); err != nil {
		slog.Warn("Failed to create screenshot directory", "dir", c.opts.ScreenshotDir, "error", err)
		return
	}

	name := fmt.Sprintf("%s-step%d-%s.png", screenshotPrefix(result.ID), result.FailedStep, time.Now().Format("20060102-150405"))
	path := filepath.Join(c.opts.ScreenshotDir, name)
	if err := os.WriteFile(path, png, 0644); err != nil {
		slog.Warn("Failed to save screenshot", "path", path, "error", err)
		return
	}

	result.Screenshot = path
	slog.Info("Saved failure screenshot", "path", path)
}

func screenshotPrefix(id string) string {
	if id == "" {
		return "uicheck"
	}
	return filepath.Base(filepath.Clean("/" + id))
}
