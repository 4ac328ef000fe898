package realtime

import (
	"net/http"
	"strings"
	"time"
)

// Time between keepalive comments
const pingPeriod = 30 * time.Second

// StreamSSE writes a subscribed client's frames as server-sent events until
// the client is closed or the request goes away. Each frame becomes one event
// named after its message type.
func StreamSSE(w http.ResponseWriter, r *http.Request, session Session, client *Client) {
	defer func() {
		client.Close()
		session.Unsubscribe(client)
	}()

	// Check if SSE is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// Create ticker for keepalive
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case frame := <-client.Send():
			if _, err := w.Write(formatSSEMessage(string(frame.Type), string(frame.Data))); err != nil {
				return
			}
			flusher.Flush()

		case <-client.Done():
			for _, frame := range client.Drain() {
				if _, err := w.Write(formatSSEMessage(string(frame.Type), string(frame.Data))); err != nil {
					return
				}
			}
			flusher.Flush()
			return

		case <-ticker.C:
			// Send keepalive comment
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			// Client disconnected
			return
		}
	}
}

// formatSSEMessage formats an SSE message with event name and data
// Multi-line data is properly formatted with "data: " prefix on each line
func formatSSEMessage(eventName, data string) []byte {
	var msg strings.Builder
	msg.WriteString("event: " + eventName + "\n")
	// SSE requires each line of data to be prefixed with "data: "
	for _, line := range splitLines(data) {
		msg.WriteString("data: " + line + "\n")
	}
	msg.WriteString("\n")
	return []byte(msg.String())
}

// splitLines splits a string into lines, handling various line endings
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
