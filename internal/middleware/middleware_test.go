package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/playmoney/internal/testutil"
)

func TestOriginAllowed(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"empty list allows all", nil, "http://anything.example", true},
		{"exact match", []string{"http://localhost:3000"}, "http://localhost:3000", true},
		{"case insensitive", []string{"http://LocalHost:3000"}, "http://localhost:3000", true},
		{"different port", []string{"http://localhost:3000"}, "http://localhost:4000", false},
		{"wildcard subdomain", []string{"https://*.example.com"}, "https://bank.example.com", true},
		{"wildcard does not cross scheme", []string{"https://*.example.com"}, "http://bank.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OriginAllowed(tt.allowed)(tt.origin))
		})
	}
}

func TestLoggingCapturesStatus(t *testing.T) {
	var wrapped *ResponseWriter
	handler := Logging(testutil.NopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped = w.(*ResponseWriter)
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, http.StatusTeapot, wrapped.Status())
	assert.Equal(t, len("short and stout"), wrapped.Size())
}

func TestHijackRequiresHijacker(t *testing.T) {
	rw := &ResponseWriter{ResponseWriter: httptest.NewRecorder()}
	_, _, err := rw.Hijack()
	assert.Error(t, err)
}

func TestRecovery(t *testing.T) {
	handler := Recovery(testutil.NopLogger(), PlainPanicHandler)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestLoggingServerErrorsWithGameID(t *testing.T) {
	logger, buf := testutil.BufferLogger()

	r := mux.NewRouter()
	r.Use(Logging(logger))
	r.HandleFunc("/game/{gameId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/game/123456", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "http request", entry["msg"])
	assert.Equal(t, "123456", entry["game_id"])
	assert.InDelta(t, http.StatusServiceUnavailable, entry["status"], 0)
}
