package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/v1/markers/:id", func(c *gin.Context) {
		c.Status(200)
	})
	r.DELETE("/api/v1/markers/:id", func(c *gin.Context) {
		c.Status(403)
	})
	return r
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := newRouter()

	for _, id := range []string{"a1", "b2", "c3"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/markers/"+id, nil))
		require.Equal(t, 200, w.Code)
	}

	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/v1/markers/:id", "200"))
	require.GreaterOrEqual(t, val, float64(3))
	require.NotZero(t, testutil.CollectAndCount(httpRequestDuration))
}

func TestMiddleware_RecordsStatus(t *testing.T) {
	r := newRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("DELETE", "/api/v1/markers/x", nil))

	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("DELETE", "/api/v1/markers/:id", "403"))
	require.GreaterOrEqual(t, val, float64(1))
}

func TestMiddleware_UnmatchedRoute(t *testing.T) {
	r := newRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/nope", nil))

	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unmatched", "404"))
	require.GreaterOrEqual(t, val, float64(1))
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(LikesTotal.WithLabelValues("like"))
	LikesTotal.WithLabelValues("like").Inc()
	require.Equal(t, before+1, testutil.ToFloat64(LikesTotal.WithLabelValues("like")))
}
