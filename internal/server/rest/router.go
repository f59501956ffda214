package rest

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Routes builds the full HTTP handler: global middleware around a gorilla/mux
// router whose matched routes are instrumented.
func (h *Handler) Routes() http.Handler {
	r := mux.NewRouter()
	r.Use(Instrument(h.metrics))

	r.HandleFunc("/", h.root).Methods(http.MethodGet)
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	r.HandleFunc("/config", h.config).Methods(http.MethodGet)
	r.Handle("/metrics", h.metrics.Handler()).Methods(http.MethodGet)

	demo := r.PathPrefix("/test").Subrouter()
	demo.HandleFunc("/password", h.testPassword).Methods(http.MethodPost)
	demo.HandleFunc("/jwt", h.testJWT).Methods(http.MethodPost)
	demo.HandleFunc("/jwt/verify", h.verifyJWT).Methods(http.MethodPost)
	demo.Handle("/me", RequireAuth(h.secret, h.metrics)(http.HandlerFunc(h.me))).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, message{Message: "Not found."})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, message{Message: "Method not allowed."})
	})

	return Chain(r,
		Recover(h.logger),
		RequestID(),
		AccessLog(h.logger),
	)
}
