package reporter

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/antchfx/xmlquery"

	"uicheck/pkg/checker"
)

// BuildJUnit renders the run as a JUnit XML document: one testsuite for the
// page, one testcase per expected label (or per step for steps without
// labels), and a skipped testcase for every step a failure kept from running.
func BuildJUnit(result *checker.RunResult) *xmlquery.Node {
	doc := &xmlquery.Node{Type: xmlquery.DocumentNode}
	decl := &xmlquery.Node{Type: xmlquery.DeclarationNode, Data: "xml"}
	xmlquery.AddAttr(decl, "version", "1.0")
	xmlquery.AddAttr(decl, "encoding", "UTF-8")
	xmlquery.AddChild(doc, decl)

	suites := element("testsuites")
	xmlquery.AddChild(doc, suites)

	suite := element("testsuite")
	xmlquery.AddChild(suites, suite)

	props := element("properties")
	xmlquery.AddChild(suite, props)
	addProperty(props, "url", result.URL)
	if result.Driver != "" {
		addProperty(props, "driver", result.Driver)
	}
	if result.SessionID != "" {
		addProperty(props, "session", result.SessionID)
	}
	if result.Screenshot != "" {
		addProperty(props, "screenshot", result.Screenshot)
	}

	tests, failures, skipped := 0, 0, 0
	className := "uicheck." + result.ID

	if result.Error != nil && result.FailedStep == 0 {
		// The page never loaded, so nothing else was evaluated.
		tc := testcase(className, "open "+result.URL, result.Duration)
		addFailure(tc, result.Error)
		xmlquery.AddChild(suite, tc)
		tests++
		failures++
	}

	for _, step := range result.Steps {
		stepClass := className + "." + step.Name

		if len(step.Items) == 0 {
			tc := testcase(stepClass, step.Name, step.Duration)
			if step.Error != nil {
				addFailure(tc, step.Error)
				failures++
			}
			xmlquery.AddChild(suite, tc)
			tests++
			continue
		}

		for _, item := range step.Items {
			tc := testcase(stepClass, item.Label, item.Duration)
			if item.Error != nil {
				addFailure(tc, item.Error)
				failures++
			}
			xmlquery.AddChild(suite, tc)
			tests++
		}
	}

	for _, name := range result.Remaining {
		tc := testcase(className+"."+name, name, 0)
		xmlquery.AddChild(tc, element("skipped"))
		xmlquery.AddChild(suite, tc)
		tests++
		skipped++
	}

	xmlquery.AddAttr(suite, "name", result.ID)
	xmlquery.AddAttr(suite, "tests", strconv.Itoa(tests))
	xmlquery.AddAttr(suite, "failures", strconv.Itoa(failures))
	xmlquery.AddAttr(suite, "errors", "0")
	xmlquery.AddAttr(suite, "skipped", strconv.Itoa(skipped))
	xmlquery.AddAttr(suite, "time", formatSeconds(result.Duration))
	xmlquery.AddAttr(suite, "timestamp", result.StartTime.UTC().Format(time.RFC3339))

	xmlquery.AddAttr(suites, "tests", strconv.Itoa(tests))
	xmlquery.AddAttr(suites, "failures", strconv.Itoa(failures))
	return doc
}

// WriteJUnit writes the JUnit XML document for the run
func WriteJUnit(w io.Writer, result *checker.RunResult) error {
	_, err := io.WriteString(w, BuildJUnit(result).OutputXML(false)+"\n")
	return err
}

func element(name string) *xmlquery.Node {
	return &xmlquery.Node{Type: xmlquery.ElementNode, Data: name}
}

func testcase(className, name string, duration float64) *xmlquery.Node {
	tc := element("testcase")
	xmlquery.AddAttr(tc, "classname", className)
	xmlquery.AddAttr(tc, "name", name)
	xmlquery.AddAttr(tc, "time", formatSeconds(duration))
	return tc
}

func addFailure(tc *xmlquery.Node, err error) {
	f := element("failure")
	xmlquery.AddAttr(f, "type", KindName(err))
	xmlquery.AddAttr(f, "message", err.Error())
	xmlquery.AddChild(f, &xmlquery.Node{Type: xmlquery.TextNode, Data: fmt.Sprintf("%+v", err)})
	xmlquery.AddChild(tc, f)
}

func addProperty(props *xmlquery.Node, name, value string) {
	p := element("property")
	xmlquery.AddAttr(p, "name", name)
	xmlquery.AddAttr(p, "value", value)
	xmlquery.AddChild(props, p)
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}
