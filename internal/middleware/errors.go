package middleware

import (
	"encoding/json"
	"net/http"
)

// errorBody is the JSON error envelope shared with the handlers.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// writeError writes {"error": ..., "message": ...} with the given status.
func writeError(w http.ResponseWriter, status int, errMsg, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: errMsg, Message: message})
}
