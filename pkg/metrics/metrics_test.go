package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomain_NilIsNoop(t *testing.T) {
	var d *Domain
	assert.NotPanics(t, func() {
		d.RecordReconcile("created")
		d.RecordBulk("employee", 1, 0, 2)
		d.RecordDropped("department", 3)
		d.TrackDBOperation("list_employees")()
	})
}

func TestDomain_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	d := NewDomain(reg, "hrms")

	d.RecordReconcile("created")
	d.RecordReconcile("updated")
	d.RecordReconcile("updated")
	d.RecordBulk("attendance", 1, 2, 3)
	d.RecordDropped("employee", 0)
	d.RecordDropped("employee", 4)
	d.TrackDBOperation("create_employee")()

	assert.Equal(t, 2.0, testutil.ToFloat64(d.reconcile.WithLabelValues("updated")))
	assert.Equal(t, 3.0, testutil.ToFloat64(d.bulkItems.WithLabelValues("attendance", "failed")))
	assert.Equal(t, 4.0, testutil.ToFloat64(d.droppedRows.WithLabelValues("employee")))
	assert.Equal(t, 1, testutil.CollectAndCount(d.dbDuration, "hrms_db_operation_duration_seconds"))
}

func TestHTTPMetrics_Middleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg, "hrms")

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/employees/:id", func(c echo.Context) error {
		if c.Param("id") == "missing" {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
		}
		return c.NoContent(http.StatusOK)
	})
	e.GET("/metrics", echo.WrapHandler(Handler(reg)))

	for _, id := range []string{"1", "2", "missing"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/employees/"+id, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("hrms", http.MethodGet, "/api/employees/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.statusCategory.WithLabelValues("hrms", "4xx", http.MethodGet, "/api/employees/:id")))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `http_requests_total{method="GET",path="/api/employees/:id",service="hrms",status="404"} 1`))
}

func TestStatusCategory(t *testing.T) {
	assert.Equal(t, "2xx", statusCategory(204))
	assert.Equal(t, "4xx", statusCategory(422))
	assert.Equal(t, "5xx", statusCategory(500))
	assert.Equal(t, "", statusCategory(302))
}
