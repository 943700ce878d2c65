// ABOUTME: Tests for the analytics ingestion and trending endpoints
// ABOUTME: Covers the disabled path and the sqlite-backed happy path

package server

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluginbay/gallery-gateway/internal/analytics"
)

func newAnalyticsServer(t *testing.T) *testServer {
	t.Helper()

	store, err := analytics.NewSQLiteStore(filepath.Join(t.TempDir(), "analytics.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return newTestServerWithStore(t, store)
}

func (ts *testServer) postEvent(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/analytics/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	ts.withSession(t, req, "octocat")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func TestAnalyticsDisabled(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.postEvent(t, `{"eventType":"copy_repo","pluginId":"astrbot_plugin_demo"}`)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = ts.authedGet(t, "/api/analytics/trending")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAnalyticsEventAccepted(t *testing.T) {
	ts := newAnalyticsServer(t)

	rec := ts.postEvent(t, `{"eventType":"copy_repo","pluginId":"astrbot_plugin_demo","pluginName":"Demo"}`)

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["ok"])
}

func TestAnalyticsEventRejectsUnknownType(t *testing.T) {
	ts := newAnalyticsServer(t)

	rec := ts.postEvent(t, `{"eventType":"drop_tables"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyticsEventRejectsMalformedBody(t *testing.T) {
	ts := newAnalyticsServer(t)

	rec := ts.postEvent(t, `{not json`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyticsTrending(t *testing.T) {
	ts := newAnalyticsServer(t)

	for i := 0; i < 3; i++ {
		rec := ts.postEvent(t, `{"eventType":"copy_repo","pluginId":"astrbot_plugin_demo","pluginName":"Demo"}`)
		require.Equal(t, http.StatusAccepted, rec.Code)
	}
	rec := ts.postEvent(t, `{"eventType":"visit_repo","pluginId":"astrbot_plugin_other"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = ts.authedGet(t, "/api/analytics/trending?periodDays=7&limit=5")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(7), body["periodDays"])
	items, ok := body["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 2)

	top, ok := items[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "astrbot_plugin_demo", top["pluginId"])
	assert.Equal(t, float64(3), top["total"])
}

func TestAnalyticsTrendingClampsBounds(t *testing.T) {
	ts := newAnalyticsServer(t)

	rec := ts.authedGet(t, "/api/analytics/trending?periodDays=9999&limit=-3")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(maxTrendingPeriodDays), body["periodDays"])
	assert.Equal(t, float64(1), body["limit"])
	assert.Equal(t, []any{}, body["items"])
}
