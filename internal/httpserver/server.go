package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shapingai/shaping-ai-dashboard/internal/analysis"
	"github.com/shapingai/shaping-ai-dashboard/internal/dashboard"
	"github.com/shapingai/shaping-ai-dashboard/internal/model"
	"github.com/shapingai/shaping-ai-dashboard/internal/network"
)

// RequestIDHeader carries the id assigned to every request.
const RequestIDHeader = "X-Request-ID"

// Dashboard is the narrow service contract required by the HTTP API.
type Dashboard interface {
	dashboard.Reader
	Span() model.DateRange
	Range(start, end time.Time) model.DateRange
	Summary() (model.CorpusSummary, error)
	NumTopics() int
	RankedBigrams(r model.DateRange, limit int) []model.BigramRecord
	RankedMedia(r model.DateRange, limit int) []model.MediaCount
	TopicTerms(selector, limit int) ([]model.TermWeight, error)
	TopicSeries(selector int) ([]model.TopicPoint, error)
	Bundle() (*network.Bundle, bool)
}

// Server provides the HTTP API of the dashboard.
type Server struct {
	addr      string
	dash      Dashboard
	store     model.SchemaQuerier
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new HTTP API server. store may be nil, in which case
// the SQL endpoints answer 503.
func NewServer(addr string, dash Dashboard, store model.SchemaQuerier) *Server {
	if addr == "" {
		addr = "0.0.0.0:3000"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:      addr,
		dash:      dash,
		store:     store,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}
}

// Handler builds the gin engine with every route registered.
func (s *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID())

	api := r.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/range", s.handleRange)
	api.GET("/overview", s.handleOverview)
	api.GET("/analysis", s.handleAnalysis)
	api.GET("/bigrams", s.handleBigrams)
	api.GET("/media", s.handleMedia)
	api.GET("/topics/:selector", s.handleTopic)
	api.GET("/topics/:selector/terms", s.handleTopicTerms)
	api.GET("/topics/:selector/series", s.handleTopicSeries)
	api.GET("/network", s.handleNetwork)
	api.GET("/network/bundle", s.handleNetworkBundle)
	api.GET("/schema", s.handleSchema)
	api.POST("/query", s.handleQuery)
	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.startTime = time.Now()

	go s.server.Serve(listener)
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// requestID tags every response with a fresh request id.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set(RequestIDHeader, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// queryRange reads optional start and end query parameters.
func (s *Server) queryRange(c *gin.Context) (model.DateRange, error) {
	var start, end time.Time
	if v := c.Query("start"); v != "" {
		t, err := model.ParseDate(v)
		if err != nil {
			return model.DateRange{}, fmt.Errorf("start: %w", err)
		}
		start = t
	}
	if v := c.Query("end"); v != "" {
		t, err := model.ParseDate(v)
		if err != nil {
			return model.DateRange{}, fmt.Errorf("end: %w", err)
		}
		end = t
	}
	return s.dash.Range(start, end), nil
}

// queryLimit reads the optional limit query parameter. Negative values are
// rejected; zero is passed through.
func queryLimit(c *gin.Context, def int) (int, error) {
	v := c.Query("limit")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("limit: %q is not an integer", v)
	}
	if n < 0 {
		return 0, fmt.Errorf("limit: %d is negative", n)
	}
	return n, nil
}

func pathSelector(c *gin.Context) (int, error) {
	v := c.Param("selector")
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("topic selector: %q is not an integer", v)
	}
	return n, nil
}

// writeResult maps topic bounds errors to 400 and everything else to 500.
func writeResult(c *gin.Context, v any, err error) {
	switch {
	case errors.Is(err, analysis.ErrTopicIndex):
		badRequest(c, err)
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, v)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	sum, err := s.dash.Summary()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read corpus summary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"uptime":         time.Since(s.startTime).String(),
		"total_articles": sum.TotalArticles,
		"topics":         s.dash.NumTopics(),
	})
}

func (s *Server) handleRange(c *gin.Context) {
	c.JSON(http.StatusOK, s.dash.Span())
}

func (s *Server) handleOverview(c *gin.Context) {
	ov, err := s.dash.Overview()
	writeResult(c, ov, err)
}

func (s *Server) handleAnalysis(c *gin.Context) {
	r, err := s.queryRange(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	limit, err := queryLimit(c, 0)
	if err != nil {
		badRequest(c, err)
		return
	}
	view, err := s.dash.Analysis(dashboard.AnalysisRequest{Start: r.Start, End: r.End, Limit: limit})
	writeResult(c, view, err)
}

func (s *Server) handleBigrams(c *gin.Context) {
	r, err := s.queryRange(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	limit, err := queryLimit(c, model.DefaultBigramLimit)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"range": r, "bigrams": s.dash.RankedBigrams(r, limit)})
}

func (s *Server) handleMedia(c *gin.Context) {
	r, err := s.queryRange(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	limit, err := queryLimit(c, model.DefaultMediaLimit)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"range": r, "media": s.dash.RankedMedia(r, limit)})
}

func (s *Server) handleTopic(c *gin.Context) {
	sel, err := pathSelector(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	view, err := s.dash.Topic(sel)
	writeResult(c, view, err)
}

func (s *Server) handleTopicTerms(c *gin.Context) {
	sel, err := pathSelector(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	limit, err := queryLimit(c, model.DefaultTermLimit)
	if err != nil {
		badRequest(c, err)
		return
	}
	terms, err := s.dash.TopicTerms(sel, limit)
	writeResult(c, gin.H{"selector": sel, "terms": terms}, err)
}

func (s *Server) handleTopicSeries(c *gin.Context) {
	sel, err := pathSelector(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	series, err := s.dash.TopicSeries(sel)
	writeResult(c, gin.H{"selector": sel, "series": series}, err)
}

func (s *Server) handleNetwork(c *gin.Context) {
	view, err := s.dash.Network()
	writeResult(c, view, err)
}

func (s *Server) handleNetworkBundle(c *gin.Context) {
	b, ok := s.dash.Bundle()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no network bundle loaded"})
		return
	}
	c.Data(http.StatusOK, "application/json", b.Raw)
}

func (s *Server) handleSchema(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sql mirror disabled"})
		return
	}
	description := s.store.GetSchemaDescription()

	tables, err := s.store.ExecuteQuery(
		"SELECT table_name, column_name, data_type FROM information_schema.columns WHERE table_schema = 'main' ORDER BY table_name, ordinal_position",
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read schema metadata"})
		return
	}

	schema := make(map[string][]map[string]string)
	for _, row := range tables {
		tableName := fmt.Sprintf("%v", row["table_name"])
		schema[tableName] = append(schema[tableName], map[string]string{
			"column": fmt.Sprintf("%v", row["column_name"]),
			"type":   fmt.Sprintf("%v", row["data_type"]),
		})
	}

	counts, err := s.store.TableRowCounts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read table row counts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"description": description,
		"tables":      schema,
		"row_counts":  counts,
	})
}

func (s *Server) handleQuery(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sql mirror disabled"})
		return
	}
	var req struct {
		SQL string `json:"sql" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body or missing sql field"})
		return
	}

	results, err := s.store.ExecuteQuery(req.SQL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	columns := []string{}
	if len(results) > 0 {
		for col := range results[0] {
			columns = append(columns, col)
		}
		sort.Strings(columns)
	}

	c.JSON(http.StatusOK, gin.H{
		"columns":   columns,
		"rows":      results,
		"row_count": len(results),
	})
}
