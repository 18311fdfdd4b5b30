package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/sitesearch/ai/mock"
	"github.com/poiesic/sitesearch/catalog"
	"github.com/poiesic/sitesearch/core"
	"github.com/poiesic/sitesearch/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testItems = []core.ContentItem{
	{ID: "/blog/sciatica", Title: "Sciatica Pain Relief", Description: "Leg pain treatment", Category: "Spine", Kind: core.KindArticle},
	{ID: "/services/spine", Title: "Spine Surgery", Description: "Minimally invasive spine care", Category: "Services", Kind: core.KindSection},
	{ID: "/contact", Title: "Contact", Description: "Book an appointment", Category: "Contact", Kind: core.KindSection},
}

type fixedBuilder struct{}

func (fixedBuilder) Build(context.Context) *catalog.Snapshot {
	return catalog.NewSnapshot(testItems...)
}

func newTestRouter(t *testing.T, opts ...search.Option) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	searcher, err := search.NewSearcher(fixedBuilder{}, opts...)
	require.NoError(t, err)
	handler, err := NewHandler(searcher, nil)
	require.NoError(t, err)

	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics\n"))
	})
	return NewRouter(handler, metrics, nil)
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestNewHandler_NilSearcher(t *testing.T) {
	_, err := NewHandler(nil, nil)
	assert.ErrorIs(t, err, ErrSearcherRequired)
}

func TestSearch_GET(t *testing.T) {
	router := newTestRouter(t)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/search?q=spine&limit=5", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Query    string              `json:"query"`
		Strategy string              `json:"strategy"`
		Count    int                 `json:"count"`
		Results  []core.SearchResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "spine", resp.Query)
	assert.Equal(t, string(search.StrategyKeyword), resp.Strategy)
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "/services/spine", resp.Results[0].Item.ID)
	assert.Equal(t, core.KindSection, resp.Results[0].Type)
}

func TestSearch_GETInvalidLimit(t *testing.T) {
	router := newTestRouter(t)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/search?q=spine&limit=ten", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_LIMIT", resp.Code)
	assert.False(t, resp.Timestamp.IsZero())
}

func TestSearch_POST(t *testing.T) {
	ranker := mock.NewMockRanker().WithIDs("/contact", "/blog/sciatica")
	router := newTestRouter(t, search.WithRanker(ranker))

	body := strings.NewReader(`{"query":"appointment for back pain","limit":3,"format":"compact"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", body)
	req.Header.Set("Content-Type", "application/json")

	w := serve(router, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Strategy string          `json:"strategy"`
		Count    int             `json:"count"`
		Results  []CompactResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(search.StrategySemantic), resp.Strategy)
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, CompactResult{
		Title:       "Contact",
		Description: "Book an appointment",
		URL:         "/contact",
		Category:    "Contact",
	}, resp.Results[0])
	assert.Equal(t, "/blog/sciatica", resp.Results[1].URL)
	assert.Equal(t, 1, ranker.CallCount())
}

func TestSearch_POSTInvalidBody(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader(`{"query":"spine","limit":"many"}`))
	req.Header.Set("Content-Type", "application/json")

	w := serve(router, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_REQUEST", resp.Code)
}

func TestSearch_EmptyQuery(t *testing.T) {
	router := newTestRouter(t)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/search", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(search.StrategyNone), resp.Strategy)
	assert.Equal(t, 0, resp.Count)
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health", "/api/v1/health"} {
		w := serve(router, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code, path)

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Status)
		assert.False(t, resp.Semantic)
	}
}

func TestMetricsRoute(t *testing.T) {
	router := newTestRouter(t)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "# metrics")
}

func TestNewServer(t *testing.T) {
	srv := NewServer(":0", http.NewServeMux())
	assert.Equal(t, ":0", srv.Addr)
	assert.Equal(t, defaultReadTimeout, srv.ReadTimeout)
	assert.Equal(t, defaultWriteTimeout, srv.WriteTimeout)
	assert.Equal(t, defaultIdleTimeout, srv.IdleTimeout)
}
