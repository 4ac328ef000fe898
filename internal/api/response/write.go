package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteAccepted writes a 202 for a request the game will act on, or ignore, asynchronously
func WriteAccepted(w http.ResponseWriter) {
	JSON(w, http.StatusAccepted, AcceptedResponse())
}
