package handler

import (
	"encoding/json"
	"net/http"
)

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes a JSON error payload with ok=false and a detail message.
func Error(w http.ResponseWriter, status int, detail string) {
	JSON(w, status, map[string]interface{}{
		"ok":     false,
		"detail": detail,
	})
}

// Decode reads the request body as JSON into v.
func Decode(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
