package router

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lab-cost-estimator/app/controller"
	"lab-cost-estimator/metrics"
	"lab-cost-estimator/utils"
)

type Controllers struct {
	Item           *controller.ItemController
	Category       *controller.CategoryController
	Experiment     *controller.ExperimentController
	ExperimentItem *controller.ExperimentItemController
	Calculate      *controller.CalculateController
	Report         *controller.ReportController
}

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestID returns the id assigned to the request by the router
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// instrument records request count and latency under the route pattern
func instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	}
}

// withRequestID reuses the caller's X-Request-ID or assigns a new one
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		utils.Log.Debugf("➡️  %s %s request_id=%s", r.Method, r.URL.Path, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// NewRouter builds the HTTP handler. Method-qualified patterns make the mux
// answer 405 for known paths with the wrong verb.
func NewRouter(controllers *Controllers) http.Handler {
	mux := http.NewServeMux()
	handle := func(method, path string, h http.HandlerFunc) {
		mux.HandleFunc(method+" "+path, instrument(path, h))
	}

	// Health and metrics
	mux.HandleFunc("GET /ping", pingHandler)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Items routes
	handle(http.MethodGet, "/api/items", controllers.Item.ListItems)
	handle(http.MethodPut, "/api/items/{id}/price", controllers.Item.UpdatePrice)

	// Categories routes
	handle(http.MethodGet, "/api/categories", controllers.Category.ListCategories)
	handle(http.MethodPost, "/api/categories", controllers.Category.CreateCategory)

	// Experiments routes
	handle(http.MethodGet, "/api/experiments", controllers.Experiment.ListExperiments)
	handle(http.MethodPost, "/api/experiments", controllers.Experiment.CreateExperiment)
	handle(http.MethodGet, "/api/experiments/{id}", controllers.Experiment.GetExperiment)
	handle(http.MethodPut, "/api/experiments/{id}", controllers.Experiment.UpdateExperiment)
	handle(http.MethodDelete, "/api/experiments/{id}", controllers.Experiment.DeleteExperiment)

	// Experiment items routes
	handle(http.MethodPost, "/api/experiments/{id}/items", controllers.ExperimentItem.AddItem)
	handle(http.MethodPut, "/api/experiments/{id}/items/{itemId}", controllers.ExperimentItem.UpdateItem)
	handle(http.MethodDelete, "/api/experiments/{id}/items/{itemId}", controllers.ExperimentItem.RemoveItem)

	// Calculation routes
	handle(http.MethodPost, "/api/calculate", controllers.Calculate.Calculate)
	handle(http.MethodPost, "/api/calculate/procurement", controllers.Report.Procurement)
	handle(http.MethodPost, "/api/calculate/export", controllers.Report.Export)

	return withRequestID(mux)
}
