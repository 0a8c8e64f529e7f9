package fixture

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, d Dashboard) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(d.HTML()))
	require.NoError(t, err)
	return doc
}

func TestDefaultRender(t *testing.T) {
	doc := parse(t, Default())

	assert.Equal(t, 1, doc.Find("nav").Length())
	assert.Equal(t, []string{"Dashboard", "Revenue Page", "Stock", "Phones", "Logs", "Trace History"},
		doc.Find("a.nav-link").Map(func(_ int, s *goquery.Selection) string { return s.Text() }))
	assert.Equal(t, 4, doc.Find(".card").Length())
	assert.Equal(t, 5, doc.Find(".material").Length())
	assert.Equal(t, 0, doc.Find(".is-hidden").Length())
	assert.Contains(t, doc.Find(".card").Last().Text(), "1450kg")
}

func TestWithout(t *testing.T) {
	base := Default()
	d := base.Without("Logs").Without("Sand").Without("Pending Orders")

	doc := parse(t, d)
	assert.Equal(t, 5, doc.Find("a.nav-link").Length())
	assert.Equal(t, 3, doc.Find(".card").Length())
	assert.Equal(t, 4, doc.Find(".material").Length())

	// The receiver is left untouched.
	assert.Len(t, base.Links, 6)
	assert.Len(t, base.Materials, 5)
}

func TestHiding(t *testing.T) {
	doc := parse(t, Default().Hiding("Copper").Hiding("Stock"))

	hidden := doc.Find(".is-hidden")
	require.Equal(t, 2, hidden.Length())
	assert.Equal(t, "Stock", hidden.First().Text())
	assert.Contains(t, hidden.Last().Text(), "Copper")
}

func TestLoadingAndErrorStates(t *testing.T) {
	doc := parse(t, Dashboard{Loading: true})
	assert.Contains(t, doc.Find("p.loading").Text(), "Loading dashboard data...")
	assert.Equal(t, 0, doc.Find(".card").Length())

	doc = parse(t, Dashboard{Error: "boom"})
	assert.Equal(t, "Error: boom", doc.Find("[role=alert]").Text())
}

func TestRenderEscapes(t *testing.T) {
	html := Dashboard{Links: []string{"<b>Logs</b>"}}.HTML()
	assert.Contains(t, html, "&lt;b&gt;Logs&lt;/b&gt;")
}

func TestRouter(t *testing.T) {
	srv := httptest.NewServer(Router(false))
	defer srv.Close()

	get := func(path string) (int, string) {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	code, body := get("/")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Materials Ready")

	_, body = get("/missing/Materials%20Ready")
	assert.NotContains(t, body, "Materials Ready")

	_, body = get("/hidden/Copper")
	assert.Contains(t, body, `class="material is-hidden"`)

	_, body = get("/loading")
	assert.Contains(t, body, "Loading dashboard data...")

	_, body = get("/error")
	assert.Contains(t, body, `role="alert"`)

	code, _ = get("/broken")
	assert.Equal(t, http.StatusInternalServerError, code)

	code, _ = get("/nope")
	assert.Equal(t, http.StatusNotFound, code)
}
