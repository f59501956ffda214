package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmitrijs2005/clouddb/internal/logging"
	"github.com/dmitrijs2005/clouddb/internal/server/auth"
	"github.com/dmitrijs2005/clouddb/internal/server/config"
	"github.com/dmitrijs2005/clouddb/internal/server/metrics"
	"github.com/dmitrijs2005/clouddb/internal/server/password"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHandler(t *testing.T, mutate func(*config.Config)) (*Handler, http.Handler) {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.JWTSecret = "test_secret_key"
	if mutate != nil {
		mutate(cfg)
	}

	h := NewHandler(cfg, password.NewLimiter(password.NewBcrypt(), 2), metrics.NewRegistry(), logging.Nop{})
	return h, h.Routes()
}

func do(t *testing.T, srv http.Handler, method, path, body string, header http.Header) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func TestRoot(t *testing.T) {
	_, srv := newTestHandler(t, nil)

	rec, out := do(t, srv, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{
		"message": "Welcome to the CloudDB Manager API",
		"version": "1.0.0",
		"status":  "running",
	}, out)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestHealth(t *testing.T) {
	_, srv := newTestHandler(t, nil)

	rec, out := do(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"status": "ok", "service": "backend"}, out)
}

func TestConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		secret  string
		wantSet bool
	}{
		{name: "secret set", env: "production", secret: "s3cr3t", wantSet: true},
		{name: "secret empty", env: "development", secret: "", wantSet: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, srv := newTestHandler(t, func(c *config.Config) {
				c.Env = tt.env
				c.JWTSecret = tt.secret
			})

			rec, out := do(t, srv, http.MethodGet, "/config", "", nil)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, map[string]any{"env": tt.env, "jwt_secret_set": tt.wantSet}, out)
			if tt.secret != "" {
				assert.NotContains(t, rec.Body.String(), tt.secret)
			}
		})
	}
}

func TestTestPassword(t *testing.T) {
	_, srv := newTestHandler(t, nil)

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "explicit", body: `{"password":"hunter2"}`, want: "hunter2"},
		{name: "missing field", body: `{}`, want: "default_password"},
		{name: "no body", body: "", want: "default_password"},
		{name: "not json", body: "garbage", want: "default_password"},
		{name: "empty string", body: `{"password":""}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, out := do(t, srv, http.MethodPost, "/test/password", tt.body, nil)
			require.Equal(t, http.StatusOK, rec.Code)

			assert.Equal(t, true, out["success"])
			assert.Equal(t, tt.want, out["password"])
			assert.Equal(t, true, out["verified"])

			hashed, _ := out["hashed"].(string)
			assert.True(t, strings.HasPrefix(hashed, "$2"), hashed)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashed), []byte(tt.want)))
		})
	}
}

func TestTestPassword_HashFailure(t *testing.T) {
	_, srv := newTestHandler(t, nil)

	body := `{"password":"` + strings.Repeat("x", 73) + `"}`
	rec, out := do(t, srv, http.MethodPost, "/test/password", body, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, out["success"])
	msg, _ := out["error"].(string)
	assert.True(t, strings.HasPrefix(msg, "Failed to hash password: "), msg)
}

func TestTestJWT(t *testing.T) {
	_, srv := newTestHandler(t, nil)

	rec, out := do(t, srv, http.MethodPost, "/test/jwt", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["success"])

	token, _ := out["token"].(string)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, ok := out["claims"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1.0, claims["user_id"])
	assert.Equal(t, 1.0, claims["tenant_id"])
	assert.Equal(t, "Viewer", claims["role"])
	assert.Equal(t, 43200.0, claims["exp"].(float64)-claims["iat"].(float64))

	decoded, err := auth.VerifyToken(token, []byte("test_secret_key"))
	require.NoError(t, err)
	assert.Equal(t, auth.RoleViewer, decoded.Role)
}

func TestTestJWT_SigningFailure(t *testing.T) {
	_, srv := newTestHandler(t, func(c *config.Config) { c.JWTSecret = "" })

	rec, out := do(t, srv, http.MethodPost, "/test/jwt", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, out["success"])
	msg, _ := out["error"].(string)
	assert.True(t, strings.HasPrefix(msg, "Failed to create token: "), msg)
}

func TestVerifyJWT(t *testing.T) {
	_, srv := newTestHandler(t, nil)

	good, err := auth.CreateToken(auth.NewClaims(5, 6, auth.RoleDeveloper, 1), []byte("test_secret_key"))
	require.NoError(t, err)
	expired, err := auth.CreateToken(auth.Claims{UserID: 5, TenantID: 6, Role: auth.RoleDeveloper, IssuedAt: 1000, ExpiresAt: 2000}, []byte("test_secret_key"))
	require.NoError(t, err)
	foreign, err := auth.CreateToken(auth.NewClaims(5, 6, auth.RoleDeveloper, 1), []byte("other"))
	require.NoError(t, err)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantReason string
	}{
		{name: "valid", body: `{"token":"` + good + `"}`, wantStatus: http.StatusOK},
		{name: "expired", body: `{"token":"` + expired + `"}`, wantStatus: http.StatusUnauthorized, wantReason: "expired"},
		{name: "wrong secret", body: `{"token":"` + foreign + `"}`, wantStatus: http.StatusUnauthorized, wantReason: "signature_invalid"},
		{name: "garbage", body: `{"token":"abc"}`, wantStatus: http.StatusUnauthorized, wantReason: "malformed"},
		{name: "bad body", body: `nope`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, out := do(t, srv, http.MethodPost, "/test/jwt/verify", tt.body, nil)
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, true, out["success"])
				claims := out["claims"].(map[string]any)
				assert.Equal(t, 5.0, claims["user_id"])
				assert.Equal(t, "Developer", claims["role"])
				return
			}
			assert.Equal(t, false, out["success"])
			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, out["reason"])
			}
		})
	}
}

func TestMe(t *testing.T) {
	_, srv := newTestHandler(t, nil)

	secret := []byte("test_secret_key")
	good, err := auth.CreateToken(auth.NewClaims(9, 4, auth.RoleTenantAdmin, 1), secret)
	require.NoError(t, err)
	expired, err := auth.CreateToken(auth.Claims{UserID: 9, TenantID: 4, Role: auth.RoleTenantAdmin, IssuedAt: 1000, ExpiresAt: 2000}, secret)
	require.NoError(t, err)

	tests := []struct {
		name        string
		header      string
		wantStatus  int
		wantMessage string
	}{
		{name: "no header", wantStatus: http.StatusUnauthorized, wantMessage: "Authorization token required."},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantMessage: "Authorization token required."},
		{name: "expired", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized, wantMessage: "Token expired."},
		{name: "invalid", header: "Bearer not.a.token", wantStatus: http.StatusUnauthorized, wantMessage: "Invalid token."},
		{name: "valid", header: "Bearer " + good, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.header != "" {
				header.Set("Authorization", tt.header)
			}

			rec, out := do(t, srv, http.MethodGet, "/test/me", "", header)
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusOK {
				claims := out["claims"].(map[string]any)
				assert.Equal(t, 9.0, claims["user_id"])
				assert.Equal(t, 4.0, claims["tenant_id"])
				assert.Equal(t, "Tenant Admin", claims["role"])
				return
			}
			assert.Equal(t, tt.wantMessage, out["message"])
			assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestIssuedTokenOpensProtectedRoute(t *testing.T) {
	_, srv := newTestHandler(t, nil)

	_, issued := do(t, srv, http.MethodPost, "/test/jwt", "", nil)
	token, _ := issued["token"].(string)
	require.NotEmpty(t, token)

	rec, out := do(t, srv, http.MethodGet, "/test/me", "", http.Header{"Authorization": {"Bearer " + token}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, issued["claims"], out["claims"])
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	_, srv := newTestHandler(t, nil)

	rec, out := do(t, srv, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found.", out["message"])

	rec, _ = do(t, srv, http.MethodGet, "/test/jwt", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	_, srv := newTestHandler(t, nil)

	do(t, srv, http.MethodGet, "/health", "", nil)
	do(t, srv, http.MethodPost, "/test/jwt", "", nil)

	rec, _ := do(t, srv, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `clouddb_http_requests_total{method="GET",route="/health",status="200"} 1`)
	assert.Contains(t, body, `clouddb_tokens_issued_total{result="ok"} 1`)
}
