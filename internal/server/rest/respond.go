package rest

import (
	"encoding/json"
	"net/http"
)

const maxBodyBytes = 1 << 20

// writeJSON sets the content type, writes status and encodes v.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads at most maxBodyBytes of r's body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// failure is the error envelope of the demonstration routes.
type failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Reason  string `json:"reason,omitempty"`
}

func fail(msg string) failure {
	return failure{Success: false, Error: msg}
}

// message is the envelope of the auth middleware and the recovery handler.
type message struct {
	Message string `json:"message"`
}
