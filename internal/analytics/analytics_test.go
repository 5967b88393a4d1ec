package analytics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTracker(t *testing.T) *Tracker {
	t.Helper()
	tr, err := Open(filepath.Join(t.TempDir(), "data", "analytics.db"), NewHasher("salt"), 365*24*time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Close() })
	return tr
}

func TestHashIP(t *testing.T) {
	h := NewHasher("salt")
	a := h.HashIP("203.0.113.7")
	assert.Len(t, a, 16)
	assert.Equal(t, a, h.HashIP("203.0.113.7"))
	assert.NotEqual(t, a, h.HashIP("203.0.113.8"))
	assert.NotEqual(t, a, NewHasher("pepper").HashIP("203.0.113.7"))
}

func TestRecordAndStats(t *testing.T) {
	tr := newTracker(t)
	ctx := context.Background()

	fixed := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return fixed.Add(-10 * 24 * time.Hour) }
	require.NoError(t, tr.Record(ctx, "10.0.0.1", "ua", "/blog"))

	tr.now = func() time.Time { return fixed.Add(-3 * 24 * time.Hour) }
	require.NoError(t, tr.Record(ctx, "10.0.0.2", "ua", "/projects"))

	tr.now = func() time.Time { return fixed }
	require.NoError(t, tr.Record(ctx, "10.0.0.1", "ua", "/"))
	require.NoError(t, tr.Record(ctx, "10.0.0.3", "ua", "/"))

	stats, err := tr.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalVisitors)
	assert.Equal(t, int64(3), stats.UniqueVisitors)
	assert.Equal(t, int64(2), stats.VisitorsToday)
	assert.Equal(t, int64(3), stats.VisitorsThisWeek)
	require.NotEmpty(t, stats.TopPaths)
	assert.Equal(t, PathStat{Path: "/", Views: 2}, stats.TopPaths[0])
	require.Len(t, stats.RecentVisitors, 4)
	assert.Equal(t, fixed, stats.RecentVisitors[0].Timestamp)
	assert.NotContains(t, stats.RecentVisitors[0].HashedIP, "10.0.0")
}

func TestCleanup(t *testing.T) {
	tr := newTracker(t)
	ctx := context.Background()

	fixed := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return fixed.AddDate(-2, 0, 0) }
	require.NoError(t, tr.Record(ctx, "10.0.0.1", "ua", "/old"))
	tr.now = func() time.Time { return fixed }
	require.NoError(t, tr.Record(ctx, "10.0.0.1", "ua", "/new"))

	removed, err := tr.Cleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	visits, err := tr.Visitors(ctx, 10)
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Equal(t, "/new", visits[0].Path)
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tr := newTracker(t)

	r := gin.New()
	r.Use(tr.Middleware())
	r.GET("/*path", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, tc := range []struct {
		path string
		dnt  bool
	}{
		{"/", false},
		{"/blog/rep-001", false},
		{"/admin/login", false},
		{"/static/app.css", false},
		{"/projects", true},
	} {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if tc.dnt {
			req.Header.Set("DNT", "1")
		}
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
	tr.Wait()

	visits, err := tr.Visitors(context.Background(), 10)
	require.NoError(t, err)
	paths := []string{}
	for _, v := range visits {
		paths = append(paths, v.Path)
	}
	assert.ElementsMatch(t, []string{"/", "/blog/rep-001"}, paths)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(" ", NewHasher("x"), time.Hour)
	assert.Error(t, err)
}
