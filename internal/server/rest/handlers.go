package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/clouddb/internal/logging"
	"github.com/dmitrijs2005/clouddb/internal/server/auth"
	"github.com/dmitrijs2005/clouddb/internal/server/config"
	"github.com/dmitrijs2005/clouddb/internal/server/metrics"
	"github.com/dmitrijs2005/clouddb/internal/server/password"
)

// defaultPassword is hashed when /test/password gets no password.
const defaultPassword = "default_password"

// Handler serves the backend routes. It only reads from cfg.
type Handler struct {
	cfg     *config.Config
	secret  []byte
	hasher  *password.Limiter
	metrics *metrics.Registry
	logger  logging.Logger
}

func NewHandler(cfg *config.Config, hasher *password.Limiter, m *metrics.Registry, l logging.Logger) *Handler {
	return &Handler{
		cfg:     cfg,
		secret:  []byte(cfg.JWTSecret),
		hasher:  hasher,
		metrics: m,
		logger:  l,
	}
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to the CloudDB Manager API",
		"version": h.cfg.Version,
		"status":  "running",
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": h.cfg.ServiceName,
	})
}

// config never reveals the secret itself.
func (h *Handler) config(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"env":            h.cfg.Env,
		"jwt_secret_set": h.cfg.SecretSet(),
	})
}

type passwordRequest struct {
	Password *string `json:"password"`
}

type passwordResponse struct {
	Success  bool   `json:"success"`
	Password string `json:"password"`
	Hashed   string `json:"hashed"`
	Verified bool   `json:"verified"`
}

func (h *Handler) testPassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	// A missing or unreadable body falls back to the default password.
	_ = decodeJSON(w, r, &req)

	plain := defaultPassword
	if req.Password != nil {
		plain = *req.Password
	}

	start := time.Now()
	hashed, err := h.hasher.Hash(r.Context(), plain)
	h.metrics.ObservePassword("hash", err, time.Since(start))
	if err != nil {
		h.logger.Error(r.Context(), "hash password", "error", err, "request_id", RequestIDFromContext(r.Context()))
		writeJSON(w, http.StatusOK, fail("Failed to hash password: "+err.Error()))
		return
	}

	start = time.Now()
	verified, err := h.hasher.Verify(r.Context(), plain, hashed)
	h.metrics.ObservePassword("verify", err, time.Since(start))
	if err != nil {
		h.logger.Warn(r.Context(), "verify fresh hash", "error", err)
		verified = false
	}

	writeJSON(w, http.StatusOK, passwordResponse{
		Success:  true,
		Password: plain,
		Hashed:   hashed,
		Verified: verified,
	})
}

type tokenResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	Claims  auth.Claims `json:"claims"`
}

// testJWT issues a token for a fixed demonstration identity and verifies it
// straight back.
func (h *Handler) testJWT(w http.ResponseWriter, r *http.Request) {
	claims := auth.NewClaims(1, 1, auth.RoleViewer, 12)

	token, err := auth.CreateToken(claims, h.secret)
	h.metrics.ObserveIssue(err)
	if err != nil {
		h.logger.Error(r.Context(), "create token", "error", err)
		writeJSON(w, http.StatusOK, fail("Failed to create token: "+err.Error()))
		return
	}

	decoded, err := auth.VerifyToken(token, h.secret)
	if err != nil {
		h.metrics.ObserveValidation(auth.Reason(err))
		h.logger.Error(r.Context(), "verify token", "error", err)
		writeJSON(w, http.StatusOK, fail("Failed to verify token: "+err.Error()))
		return
	}
	h.metrics.ObserveValidation("ok")

	writeJSON(w, http.StatusOK, tokenResponse{Success: true, Token: token, Claims: decoded})
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	Success bool        `json:"success"`
	Claims  auth.Claims `json:"claims"`
}

func (h *Handler) verifyJWT(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, fail("invalid request body"))
		return
	}

	claims, err := auth.VerifyToken(req.Token, h.secret)
	if err != nil {
		reason := auth.Reason(err)
		h.metrics.ObserveValidation(reason)
		writeJSON(w, http.StatusUnauthorized, failure{
			Success: false,
			Error:   "Failed to verify token: " + err.Error(),
			Reason:  reason,
		})
		return
	}
	h.metrics.ObserveValidation("ok")

	writeJSON(w, http.StatusOK, verifyResponse{Success: true, Claims: claims})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, message{Message: "Authorization token required."})
		return
	}
	writeJSON(w, http.StatusOK, verifyResponse{Success: true, Claims: claims})
}
