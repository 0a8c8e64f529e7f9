package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/antchfx/xmlquery"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"uicheck/pkg/fixture"
	"uicheck/pkg/reporter"
)

func init() {
	color.NoColor = true
}

// execute runs the CLI from an empty working directory so no stray
// uicheck.yaml or .env is picked up
func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func fixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(fixture.Router(false))
	t.Cleanup(srv.Close)
	return srv
}

func staticArgs(url string, extra ...string) []string {
	args := []string{
		"--driver", "static",
		"--url", url,
		"--timeout", "300ms",
		"--poll-interval", "20ms",
		"--log-level", "error",
	}
	return append(args, extra...)
}

func TestRunPasses(t *testing.T) {
	srv := fixtureServer(t)
	dir := t.TempDir()
	junitPath := filepath.Join(dir, "junit.xml")
	metricsPath := filepath.Join(dir, "uicheck.prom")

	code, stdout, _ := execute(t, staticArgs(srv.URL+"/",
		"--junit-file", junitPath,
		"--metrics-file", metricsPath)...)

	assert.Equal(t, 0, code)
	assert.Equal(t, "✓ "+reporter.SuccessMessage+"\n", stdout)

	f, err := os.Open(junitPath)
	require.NoError(t, err)
	defer f.Close()
	doc, err := xmlquery.Parse(f)
	require.NoError(t, err)
	suite := xmlquery.FindOne(doc, "//testsuite")
	require.NotNil(t, suite)
	assert.Equal(t, "0", suite.SelectAttr("failures"))

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `uicheck_run_success{checklist="recycler-dashboard"} 1`)
}

func TestRunSubcommand(t *testing.T) {
	srv := fixtureServer(t)

	code, stdout, _ := execute(t, append([]string{"run"}, staticArgs(srv.URL+"/")...)...)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, reporter.SuccessMessage)
}

func TestRunFailsAtMissingTile(t *testing.T) {
	srv := fixtureServer(t)

	code, stdout, _ := execute(t, staticArgs(srv.URL+"/missing/Pending%20Orders")...)

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "UI check failed at step 3 (dashboard tiles)")
	assert.Contains(t, stdout, "Pending Orders")
	assert.NotContains(t, stdout, reporter.SuccessMessage)
}

func TestRunVerboseListsRemainingSteps(t *testing.T) {
	srv := fixtureServer(t)

	code, stdout, _ := execute(t, staticArgs(srv.URL+"/missing/Stock", "--verbose")...)

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "step 2 (nav links)")
	assert.Contains(t, stdout, "dashboard tiles")
	assert.Contains(t, stdout, "not executed")
}

func TestRunJSONReportFile(t *testing.T) {
	srv := fixtureServer(t)
	reportPath := filepath.Join(t.TempDir(), "out", "report.json")

	code, stdout, _ := execute(t, staticArgs(srv.URL+"/broken",
		"--report", "json",
		"--report-file", reportPath)...)
	assert.Equal(t, 1, code)

	var fromStdout, fromFile reporter.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &fromStdout))
	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &fromFile))

	assert.False(t, fromFile.Success)
	assert.Equal(t, "navigation", fromFile.Kind)
	assert.Equal(t, fromStdout.Kind, fromFile.Kind)
}

func TestRunUnknownDriver(t *testing.T) {
	code, stdout, stderr := execute(t, "--driver", "netscape")

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "no driver registered with name 'netscape'")
}

func TestRunRejectsBadReportFormat(t *testing.T) {
	code, _, stderr := execute(t, "--driver", "static", "--report", "html")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown report format 'html'")
}

func TestRunReadsEnvironment(t *testing.T) {
	srv := fixtureServer(t)
	t.Setenv("UICHECK_DRIVER", "static")
	t.Setenv("UICHECK_URL", srv.URL+"/")
	t.Setenv("UICHECK_TIMEOUT", "300ms")
	t.Setenv("UICHECK_LOG_LEVEL", "error")

	code, stdout, _ := execute(t)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, reporter.SuccessMessage)
}

func TestRunReadsConfigFile(t *testing.T) {
	srv := fixtureServer(t)
	cfg := filepath.Join(t.TempDir(), "ci.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(
		"driver: static\nurl: "+srv.URL+"/hidden/Copper\ntimeout: 200ms\nlog_level: error\n"), 0644))

	code, stdout, _ := execute(t, "--config", cfg)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "step 4 (material inventory)")
}

func TestValidateFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`
metadata: {id: stock}
target: {url: "http://localhost:8080"}
steps:
  - {name: table, type: visible, locator: {by: css, value: table}}
`), 0644))
	require.NoError(t, os.WriteFile(bad, []byte(`
metadata: {id: broken}
target: {url: "http://localhost:8080"}
steps:
  - {name: table, type: click}
`), 0644))

	code, stdout, _ := execute(t, "validate", good)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "✓ "+good)
	assert.Contains(t, stdout, "1. table [visible] css=table within 10s")

	code, stdout, stderr := execute(t, "validate", good, bad)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "✗ "+bad)
	assert.Contains(t, stdout, "unknown step type 'click'")
	assert.Contains(t, stderr, "1 of 2 checklists are invalid")
}

func TestValidateBuiltIn(t *testing.T) {
	code, stdout, _ := execute(t, "validate", "--timeout", "2s")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "✓ built-in checklist")
	assert.Contains(t, stdout, "4. material inventory [text_presence] 5 labels within 2s")
}

func TestShowAppliesOverrides(t *testing.T) {
	code, stdout, _ := execute(t, "show", "--url", "http://localhost:9000/dash")
	require.Equal(t, 0, code)

	var doc struct {
		Checklist struct {
			Metadata struct {
				ID string `yaml:"id"`
			} `yaml:"metadata"`
			Target struct {
				URL string `yaml:"url"`
			} `yaml:"target"`
		} `yaml:"checklist"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "recycler-dashboard", doc.Checklist.Metadata.ID)
	assert.Equal(t, "http://localhost:9000/dash", doc.Checklist.Target.URL)
}

func TestShowWritesLoadableChecklist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mine.yaml")

	code, stdout, _ := execute(t, "show", "--bare", "--output", path, "--timeout", "3s")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Checklist 'recycler-dashboard' written to "+path)

	code, stdout, _ = execute(t, "validate", path)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "1. navbar [visible] tag=nav within 3s")
}

func TestDrivers(t *testing.T) {
	code, stdout, _ := execute(t, "drivers", "--driver", "static")

	assert.Equal(t, 0, code)
	for _, name := range []string{"chromedp", "playwright", "rod", "webdriver"} {
		assert.Contains(t, stdout, "  "+name+"\n")
	}
	assert.Contains(t, stdout, "* static\n")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn", "json")
	logger.Info("hidden")
	logger.Warn("shown", "step", 2)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["msg"])
	assert.Equal(t, float64(2), line["step"])
}

func TestExampleChecklist(t *testing.T) {
	path, err := filepath.Abs(filepath.Join("..", "..", "examples", "local-dashboard.yaml"))
	require.NoError(t, err)
	srv := fixtureServer(t)

	code, stdout, _ := execute(t, staticArgs(srv.URL+"/", "--checklist", path)...)
	assert.Equal(t, 0, code, stdout)

	code, stdout, _ = execute(t, staticArgs(srv.URL+"/loading", "--checklist", path, "--verbose")...)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "step 2 (data loaded)")
}
