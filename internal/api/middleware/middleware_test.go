package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func hostRouter(seen *int64) *mux.Router {
	r := mux.NewRouter()
	host := r.PathPrefix("/api/v1/hosts/{hostId}").Subrouter()
	host.Use(Auth, RequireHost)
	host.HandleFunc("/weekly-rules", func(w http.ResponseWriter, r *http.Request) {
		*seen, _ = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
	return r
}

func TestAuthAndRequireHost(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"owner", "/api/v1/hosts/7/weekly-rules", "7", http.StatusOK},
		{"no header", "/api/v1/hosts/7/weekly-rules", "", http.StatusUnauthorized},
		{"garbage header", "/api/v1/hosts/7/weekly-rules", "abc", http.StatusUnauthorized},
		{"other host", "/api/v1/hosts/8/weekly-rules", "7", http.StatusForbidden},
		{"bad host id", "/api/v1/hosts/x/weekly-rules", "7", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen int64
			router := hostRouter(&seen)
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(UserIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, int64(7), seen)
			}
		})
	}
}

type httpObservation struct {
	method, route string
	status        int
}

type recordingMetrics struct {
	mu  sync.Mutex
	obs []httpObservation
}

func (m *recordingMetrics) ObserveHTTP(method, route string, status int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.obs = append(m.obs, httpObservation{method, route, status})
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := &recordingMetrics{}
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/api/v1/bookings/{bookingId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings/123", nil))

	assert.Equal(t, []httpObservation{{http.MethodGet, "/api/v1/bookings/{bookingId}", http.StatusNotFound}}, m.obs)
}
