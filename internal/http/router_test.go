package httpapi

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "livegate/pkg/domain"
	"livegate/pkg/testutil"
)

type stubRegistrar struct{ path string }

func (s stubRegistrar) Register(r chi.Router) {
	r.Get(s.path, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

type stubValidator struct{}

func (stubValidator) ValidateToken(string) (id.UserID, error) {
	return id.UserID{}, errors.New("invalid token")
}

type stubChecker struct{ err error }

func (c stubChecker) Health(context.Context) error { return c.err }

func newRouter(checkers map[string]HealthChecker) http.Handler {
	return NewRouter(Deps{
		Logger:    slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
		Validator: stubValidator{},
		Sessions:  stubRegistrar{path: "/sessions-probe"},
		Admission: stubRegistrar{path: "/admission-probe"},
		Checkers:  checkers,
	})
}

func TestRouter(t *testing.T) {
	testutil.Given(t, "the assembled route tree", func(t *testing.T) {
		router := newRouter(nil)

		testutil.When(t, "probing /healthz", func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			testutil.Then(t, "it reports ok", func(t *testing.T) {
				require.Equal(t, http.StatusOK, rec.Code)
				assert.Contains(t, rec.Body.String(), `"ok"`)
			})
		})

		testutil.When(t, "scraping /metrics", func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			testutil.Then(t, "the exposition endpoint answers", func(t *testing.T) {
				assert.Equal(t, http.StatusOK, rec.Code)
			})
		})

		testutil.When(t, "calling a session route anonymously", func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions-probe", nil))

			testutil.Then(t, "authentication is required", func(t *testing.T) {
				assert.Equal(t, http.StatusUnauthorized, rec.Code)
			})
		})

		testutil.When(t, "calling the admission route anonymously", func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admission-probe", nil))

			testutil.Then(t, "anonymous callers pass through", func(t *testing.T) {
				assert.Equal(t, http.StatusNoContent, rec.Code)
			})
		})
	})
}

func TestRouter_HealthDegraded(t *testing.T) {
	router := newRouter(map[string]HealthChecker{
		"postgres": stubChecker{},
		"redis":    stubChecker{err: errors.New("connection refused")},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"degraded"`)
	assert.Contains(t, rec.Body.String(), "connection refused")
}
