package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Observe(t *testing.T) {
	r := NewRegistry()

	r.ObserveRequest("GET", "/health", 200, 5*time.Millisecond)
	r.ObserveRequest("GET", "/health", 200, 7*time.Millisecond)
	r.ObserveRequest("POST", "/test/jwt", 500, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.RequestsTotal.WithLabelValues("GET", "/health", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.RequestsTotal.WithLabelValues("POST", "/test/jwt", "500")))

	r.ObservePassword("hash", nil, 50*time.Millisecond)
	r.ObservePassword("verify", errors.New("bad hash"), time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(r.PasswordHashes.WithLabelValues("hash", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.PasswordHashes.WithLabelValues("verify", "error")))

	r.ObserveIssue(nil)
	r.ObserveValidation("expired")
	r.ObserveValidation("expired")
	assert.Equal(t, 1.0, testutil.ToFloat64(r.TokensIssued.WithLabelValues("ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.TokenValidations.WithLabelValues("expired")))
}

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry()
	r.ObserveValidation("ok")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	out := string(body)
	assert.True(t, strings.Contains(out, `clouddb_token_validations_total{outcome="ok"} 1`), out)
	assert.True(t, strings.Contains(out, "go_goroutines"), "runtime collector missing")
}

func TestNewRegistry_Independent(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()

	a.ObserveIssue(nil)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.TokensIssued.WithLabelValues("ok")))
}
