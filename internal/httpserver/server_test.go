package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shapingai/shaping-ai-dashboard/internal/corpus"
	"github.com/shapingai/shaping-ai-dashboard/internal/dashboard"
	"github.com/shapingai/shaping-ai-dashboard/internal/duckdb"
	"github.com/shapingai/shaping-ai-dashboard/internal/model"
	"github.com/shapingai/shaping-ai-dashboard/internal/network"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testCorpus(t *testing.T) *corpus.Corpus {
	t.Helper()
	c, err := corpus.New(
		[]model.ArticleRecord{
			{Date: day(2011, 2, 1), Count: 3},
			{Date: day(2018, 5, 4), Count: 9},
		},
		[]model.BigramRecord{
			{Year: day(2011, 1, 1), Bigram: "big data", Count: 4},
			{Year: day(2018, 1, 1), Bigram: "intelligence artificielle", Count: 12},
		},
		[]model.JournalRecord{
			{Date: day(2011, 2, 1), Journal: "Libération"},
			{Date: day(2018, 5, 4), Journal: "Le Monde"},
			{Date: day(2018, 5, 4), Journal: "Le Monde"},
		},
		[]model.TopicPoint{{Year: day(2018, 1, 1), Topic: 0, Norm: 1}},
		model.TopicModel{Components: [][]float64{{0.3, 0.6}}},
		model.Vocabulary{"algorithme", "emploi"},
	)
	if err != nil {
		t.Fatalf("corpus.New: %v", err)
	}
	return c
}

func newTestServer(t *testing.T, bundle *network.Bundle) (*Server, *gin.Engine) {
	t.Helper()
	c := testCorpus(t)

	store, err := duckdb.NewStore("")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.LoadCorpus(context.Background(), c); err != nil {
		t.Fatalf("LoadCorpus: %v", err)
	}

	svc := dashboard.NewService(c, store, bundle, dashboard.Config{})
	srv := NewServer("", svc, store)
	return srv, srv.Handler()
}

func do(t *testing.T, r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("unmarshal %s: %v", w.Body.String(), err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	_, r := newTestServer(t, nil)

	w := do(t, r, http.MethodGet, "/api/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]interface{}
	decode(t, w, &body)
	if body["status"] != "ok" {
		t.Errorf("health status = %v, want ok", body["status"])
	}
	if body["total_articles"] != float64(12) {
		t.Errorf("total_articles = %v, want 12", body["total_articles"])
	}
}

func TestHealthEndpoint_WrongMethod(t *testing.T) {
	_, r := newTestServer(t, nil)

	w := do(t, r, http.MethodPost, "/api/health", "")
	if w.Code != http.StatusMethodNotAllowed && w.Code != http.StatusNotFound {
		t.Errorf("health POST status = %d, want 405 or 404", w.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	_, r := newTestServer(t, nil)

	first := do(t, r, http.MethodGet, "/api/range", "").Header().Get(RequestIDHeader)
	second := do(t, r, http.MethodGet, "/api/range", "").Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(first); err != nil {
		t.Fatalf("request id %q is not a uuid: %v", first, err)
	}
	if first == second {
		t.Error("request ids should differ between requests")
	}
}

func TestRangeEndpoint(t *testing.T) {
	_, r := newTestServer(t, nil)

	w := do(t, r, http.MethodGet, "/api/range", "")
	var span model.DateRange
	decode(t, w, &span)
	if !span.Start.Equal(day(2011, 2, 1)) || !span.End.Equal(day(2018, 5, 4)) {
		t.Errorf("span = %s", span)
	}
}

func TestAnalysisEndpoint(t *testing.T) {
	_, r := newTestServer(t, nil)

	w := do(t, r, http.MethodGet, "/api/analysis?start=2018-01-01&end=2018-12-31&limit=5", "")
	if w.Code != http.StatusOK {
		t.Fatalf("analysis status = %d; body: %s", w.Code, w.Body.String())
	}
	var view dashboard.AnalysisView
	decode(t, w, &view)
	if view.Limit != 5 {
		t.Errorf("limit = %d, want 5", view.Limit)
	}
	if len(view.Bigrams.Data.Rows) != 1 || len(view.Media.Data.Rows) != 1 {
		t.Errorf("bigram/media rows = %d/%d, want 1/1", len(view.Bigrams.Data.Rows), len(view.Media.Data.Rows))
	}
	if got := view.Media.Data.Float(0, view.Media.Data.Col("count")); got != 2 {
		t.Errorf("Le Monde count = %v, want 2", got)
	}
}

func TestAnalysisEndpoint_BadInput(t *testing.T) {
	_, r := newTestServer(t, nil)

	for _, target := range []string{
		"/api/analysis?start=yesterday",
		"/api/analysis?end=2018-13-45",
		"/api/analysis?limit=ten",
		"/api/bigrams?start=x",
		"/api/media?limit=1.5",
		"/api/bigrams?limit=-5",
		"/api/analysis?limit=-1",
		"/api/topics/1/terms?limit=-2",
	} {
		if w := do(t, r, http.MethodGet, target, ""); w.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", target, w.Code)
		}
	}
}

func TestBigramsEndpoint_ZeroLimit(t *testing.T) {
	_, r := newTestServer(t, nil)

	w := do(t, r, http.MethodGet, "/api/bigrams?limit=0", "")
	if w.Code != http.StatusOK {
		t.Fatalf("limit=0 status = %d, want 200", w.Code)
	}
	var body struct {
		Bigrams []model.BigramRecord `json:"bigrams"`
	}
	decode(t, w, &body)
	if len(body.Bigrams) != 0 {
		t.Errorf("limit=0 bigrams = %+v, want none", body.Bigrams)
	}
}

func TestBigramsAndMediaEndpoints(t *testing.T) {
	_, r := newTestServer(t, nil)

	var bigrams struct {
		Bigrams []model.BigramRecord `json:"bigrams"`
	}
	decode(t, do(t, r, http.MethodGet, "/api/bigrams?limit=1", ""), &bigrams)
	if len(bigrams.Bigrams) != 1 || bigrams.Bigrams[0].Bigram != "intelligence artificielle" {
		t.Errorf("bigrams = %+v", bigrams.Bigrams)
	}

	var media struct {
		Media []model.MediaCount `json:"media"`
	}
	decode(t, do(t, r, http.MethodGet, "/api/media?start=2011&end=2011-12-31", ""), &media)
	if len(media.Media) != 1 || media.Media[0].Media != "Libération" {
		t.Errorf("media = %+v", media.Media)
	}
}

func TestTopicEndpoints(t *testing.T) {
	_, r := newTestServer(t, nil)

	w := do(t, r, http.MethodGet, "/api/topics/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("topic status = %d; body: %s", w.Code, w.Body.String())
	}

	var terms struct {
		Terms []model.TermWeight `json:"terms"`
	}
	decode(t, do(t, r, http.MethodGet, "/api/topics/1/terms?limit=1", ""), &terms)
	if len(terms.Terms) != 1 || terms.Terms[0].Term != "emploi" {
		t.Errorf("terms = %+v", terms.Terms)
	}

	var series struct {
		Series []model.TopicPoint `json:"series"`
	}
	decode(t, do(t, r, http.MethodGet, "/api/topics/1/series", ""), &series)
	if len(series.Series) != 1 {
		t.Errorf("series = %+v", series.Series)
	}

	for _, target := range []string{"/api/topics/0", "/api/topics/2/terms", "/api/topics/abc/series"} {
		if w := do(t, r, http.MethodGet, target, ""); w.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", target, w.Code)
		}
	}
}

func TestNetworkBundleEndpoint(t *testing.T) {
	_, r := newTestServer(t, nil)
	if w := do(t, r, http.MethodGet, "/api/network/bundle", ""); w.Code != http.StatusNotFound {
		t.Errorf("bundle without file status = %d, want 404", w.Code)
	}

	bundle, err := network.ParseBundle([]byte(`{"nodes":[],"edges":[]}`))
	if err != nil {
		t.Fatalf("ParseBundle: %v", err)
	}
	_, r = newTestServer(t, bundle)
	w := do(t, r, http.MethodGet, "/api/network/bundle", "")
	if w.Code != http.StatusOK || w.Body.String() != `{"nodes":[],"edges":[]}` {
		t.Errorf("bundle = %d %s", w.Code, w.Body.String())
	}

	var view dashboard.NetworkView
	decode(t, do(t, r, http.MethodGet, "/api/network", ""), &view)
	if !view.BundleLoaded || view.EmbedURL == "" {
		t.Errorf("network view = %+v", view)
	}
}

func TestQueryEndpoint_ValidSelect(t *testing.T) {
	_, r := newTestServer(t, nil)

	w := do(t, r, http.MethodPost, "/api/query", `{"sql": "SELECT journal, COUNT(*) AS n FROM journals GROUP BY journal ORDER BY n DESC"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("query status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}
	var body struct {
		Columns  []string `json:"columns"`
		RowCount int      `json:"row_count"`
	}
	decode(t, w, &body)
	if body.RowCount != 2 || len(body.Columns) != 2 || body.Columns[0] != "journal" {
		t.Errorf("query result = %+v", body)
	}
}

func TestQueryEndpoint_Rejected(t *testing.T) {
	_, r := newTestServer(t, nil)

	for _, body := range []string{
		`{"sql": "DELETE FROM articles"}`,
		`{"sql": "SELECT 1; DROP TABLE articles"}`,
		`{}`,
		`not json`,
	} {
		if w := do(t, r, http.MethodPost, "/api/query", body); w.Code != http.StatusBadRequest {
			t.Errorf("query %s status = %d, want 400", body, w.Code)
		}
	}
}

func TestSchemaEndpoint(t *testing.T) {
	_, r := newTestServer(t, nil)

	w := do(t, r, http.MethodGet, "/api/schema", "")
	if w.Code != http.StatusOK {
		t.Fatalf("schema status = %d, want %d", w.Code, http.StatusOK)
	}
	var body struct {
		Tables    map[string][]map[string]string `json:"tables"`
		RowCounts map[string]int64               `json:"row_counts"`
	}
	decode(t, w, &body)
	if len(body.Tables["articles"]) != 3 {
		t.Errorf("articles columns = %v", body.Tables["articles"])
	}
	if body.RowCounts["journals"] != 3 {
		t.Errorf("journals row count = %d, want 3", body.RowCounts["journals"])
	}
}

func TestSQLEndpoints_WithoutMirror(t *testing.T) {
	svc := dashboard.NewService(testCorpus(t), nil, nil, dashboard.Config{})
	r := NewServer("", svc, nil).Handler()

	if w := do(t, r, http.MethodGet, "/api/schema", ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("schema status = %d, want 503", w.Code)
	}
	if w := do(t, r, http.MethodGet, "/api/overview", ""); w.Code != http.StatusOK {
		t.Errorf("overview status = %d, want 200", w.Code)
	}
}
