// Package main implements the uicheck command-line interface. It resolves the
// run settings, loads the checklist, drives a browser session through the page
// checker and reports the outcome through the exit code.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	// Import driver backends to trigger init() registration
	_ "uicheck/pkg/driver/cdp"
	_ "uicheck/pkg/driver/gorod"
	_ "uicheck/pkg/driver/pw"
	_ "uicheck/pkg/driver/static"
	_ "uicheck/pkg/driver/webdriver"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
