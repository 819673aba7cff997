package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/kavach"
	"github.com/fwojciec/kavach/console"
	"github.com/fwojciec/kavach/goldmark"
	kavachhttp "github.com/fwojciec/kavach/http"
	"github.com/fwojciec/kavach/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(analyzer kavach.Analyzer) *kavachhttp.Server {
	s := kavachhttp.NewServer()
	s.Console = console.NewConsole(analyzer)
	s.Renderer = goldmark.NewRenderer()
	return s
}

func submit(t *testing.T, s http.Handler, form url.Values) (*httptest.ResponseRecorder, *goquery.Document) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)
	return rec, doc
}

func sectionTitles(doc *goquery.Document) []string {
	var titles []string
	doc.Find("section.result h3").Each(func(_ int, sel *goquery.Selection) {
		titles = append(titles, sel.Text())
	})
	return titles
}

func TestServer_Index(t *testing.T) {
	t.Parallel()

	s := newTestServer(&mock.Analyzer{})
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)

	assert.Equal(t, "Kavach-Vani", doc.Find("h1").Text())
	assert.Equal(t, "Explainable Legal AI for Indian Judgments", doc.Find(".caption").Text())

	general := doc.Find(`input[name=scope][value=general]`)
	_, checked := general.Attr("checked")
	assert.True(t, checked, "general scope is selected by default")

	_, hidden := doc.Find("#case-picker").Attr("hidden")
	assert.True(t, hidden, "case picker is hidden for general scope")

	var options []string
	doc.Find("#case_file option").Each(func(_ int, sel *goquery.Selection) {
		options = append(options, sel.AttrOr("value", ""))
	})
	assert.Equal(t, kavach.KnownCases, options)

	assert.Equal(t, "Why was the employee dismissed?", doc.Find("#question").AttrOr("placeholder", ""))
	assert.Equal(t, "Analyze", doc.Find("#analyze").Text())
	assert.Equal(t, "Analyzing with legal context...", doc.Find("#busy").Text())
	assert.Empty(t, sectionTitles(doc))
}

func TestServer_Analyze(t *testing.T) {
	t.Parallel()

	t.Run("renders sections for specific case", func(t *testing.T) {
		t.Parallel()

		var got *kavach.AnalysisRequest
		analyzer := &mock.Analyzer{
			AnalyzeFn: func(_ context.Context, req *kavach.AnalysisRequest) (*kavach.AnalysisResponse, error) {
				got = req
				return &kavach.AnalysisResponse{
					InterpretedIntent: "Reason for dismissal",
					Answer:            "The employee was dismissed for **misconduct**.",
					Evidence: []kavach.EvidenceItem{
						{File: "A", Year: "2020", Source: "X"},
						{File: "B", Year: "2018", Source: "W"},
						{File: "A", Year: "1999", Source: "Y"},
					},
				}, nil
			},
		}
		s := newTestServer(analyzer)

		rec, doc := submit(t, s, url.Values{
			"scope":     {"case"},
			"case_file": {"2020_3_514_524_EN.pdf"},
			"question":  {"Why was the employee dismissed?"},
		})

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		assert.Equal(t, "Why was the employee dismissed?", got.UserQuery)
		require.NotNil(t, got.CaseFile)
		assert.Equal(t, "2020_3_514_524_EN.pdf", *got.CaseFile)

		assert.Equal(t, []string{"Interpreted Intent", "Answer", "Evidence"}, sectionTitles(doc))
		assert.Equal(t, "misconduct", doc.Find("section.result strong").First().Text())

		var evidence []string
		doc.Find("section.result li").Each(func(_ int, sel *goquery.Selection) {
			evidence = append(evidence, sel.Text())
		})
		assert.Equal(t, []string{"A (2020, X)", "B (2018, W)"}, evidence)

		assert.Equal(t, "Why was the employee dismissed?", doc.Find("#question").AttrOr("value", ""))
		_, hidden := doc.Find("#case-picker").Attr("hidden")
		assert.False(t, hidden, "case picker stays visible for specific scope")
		assert.Equal(t, "2020_3_514_524_EN.pdf", doc.Find("#case_file option[selected]").AttrOr("value", ""))
	})

	t.Run("general scope sends nil case file", func(t *testing.T) {
		t.Parallel()

		var got *kavach.AnalysisRequest
		analyzer := &mock.Analyzer{
			AnalyzeFn: func(_ context.Context, req *kavach.AnalysisRequest) (*kavach.AnalysisResponse, error) {
				got = req
				return &kavach.AnalysisResponse{
					InterpretedIntent: kavach.DefaultInterpretedIntent,
					Answer:            kavach.DefaultAnswer,
				}, nil
			},
		}
		s := newTestServer(analyzer)

		_, doc := submit(t, s, url.Values{
			"scope":     {"general"},
			"case_file": {"2020_3_514_524_EN.pdf"},
			"question":  {"What is natural justice?"},
		})

		require.NotNil(t, got)
		assert.Nil(t, got.CaseFile)
		assert.Contains(t, doc.Find("section.result").Eq(1).Text(), "No answer returned.")
		assert.Contains(t, doc.Find("section.result").Eq(2).Text(), "No evidence returned.")
	})

	t.Run("blank question shows warning without request", func(t *testing.T) {
		t.Parallel()

		analyzer := &mock.Analyzer{
			AnalyzeFn: func(context.Context, *kavach.AnalysisRequest) (*kavach.AnalysisResponse, error) {
				t.Fatal("analyzer must not be called")
				return nil, nil
			},
		}
		s := newTestServer(analyzer)

		rec, doc := submit(t, s, url.Values{"scope": {"general"}, "question": {"   "}})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Please enter a question.", doc.Find(".warning").Text())
		assert.Empty(t, sectionTitles(doc))
	})

	t.Run("unknown case shows warning without request", func(t *testing.T) {
		t.Parallel()

		analyzer := &mock.Analyzer{
			AnalyzeFn: func(context.Context, *kavach.AnalysisRequest) (*kavach.AnalysisResponse, error) {
				t.Fatal("analyzer must not be called")
				return nil, nil
			},
		}
		s := newTestServer(analyzer)

		_, doc := submit(t, s, url.Values{
			"scope":     {"case"},
			"case_file": {"../etc/passwd"},
			"question":  {"q"},
		})

		assert.Contains(t, doc.Find(".warning").Text(), "Unknown case")
		assert.Empty(t, sectionTitles(doc))
	})

	t.Run("backend error shows message and no sections", func(t *testing.T) {
		t.Parallel()

		analyzer := &mock.Analyzer{
			AnalyzeFn: func(context.Context, *kavach.AnalysisRequest) (*kavach.AnalysisResponse, error) {
				return nil, kavach.Errorf(kavach.EUNAVAILABLE, "HTTP 503 Service Unavailable for https://backend/analyze")
			},
		}
		s := newTestServer(analyzer)

		_, doc := submit(t, s, url.Values{"scope": {"general"}, "question": {"q"}})

		assert.Equal(t, "Backend error: HTTP 503 Service Unavailable for https://backend/analyze", doc.Find(".error").Text())
		assert.Empty(t, sectionTitles(doc))
		assert.Equal(t, "q", doc.Find("#question").AttrOr("value", ""))
	})

	t.Run("escapes backend text", func(t *testing.T) {
		t.Parallel()

		analyzer := &mock.Analyzer{
			AnalyzeFn: func(context.Context, *kavach.AnalysisRequest) (*kavach.AnalysisResponse, error) {
				return &kavach.AnalysisResponse{
					InterpretedIntent: "<img src=x onerror=alert(1)>",
					Answer:            "ok",
				}, nil
			},
		}
		s := newTestServer(analyzer)

		rec, doc := submit(t, s, url.Values{"question": {"q"}})

		assert.Zero(t, doc.Find("section.result img").Length())
		assert.NotContains(t, rec.Body.String(), "<img src=x")
	})

	t.Run("returns 500 when rendering fails", func(t *testing.T) {
		t.Parallel()

		analyzer := &mock.Analyzer{
			AnalyzeFn: func(context.Context, *kavach.AnalysisRequest) (*kavach.AnalysisResponse, error) {
				return &kavach.AnalysisResponse{}, nil
			},
		}
		s := newTestServer(analyzer)
		s.Renderer = &mock.MarkdownRenderer{
			RenderFn: func(string) (string, error) {
				return "", kavach.Errorf(kavach.EINTERNAL, "renderer broken")
			},
		}

		rec, _ := submit(t, s, url.Values{"question": {"q"}})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	s := newTestServer(&mock.Analyzer{})
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestServer_Metrics(t *testing.T) {
	t.Parallel()

	t.Run("returns 404 without metrics handler", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(&mock.Analyzer{})
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("serves configured metrics handler", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(&mock.Analyzer{})
		s.Metrics = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("kavach_analyze_requests_total 1"))
		})
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "kavach_analyze_requests_total")
	})
}

func TestServer_OpenClose(t *testing.T) {
	t.Parallel()

	s := newTestServer(&mock.Analyzer{})
	s.Addr = "127.0.0.1:0"

	require.NoError(t, s.Open())
	defer s.Close()

	resp, err := http.Get(s.URL() + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, s.Close())
}
