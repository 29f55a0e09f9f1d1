package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
)

//go:embed static/index.html
var indexPage []byte

//go:embed static/live.html
var livePage []byte

// ingest stores payload in the slot and hands it to the publisher.
// Only a failed write is returned. When publishing fails the reading
// still goes to this process's WebSocket clients.
func (s *server) ingest(ctx context.Context, source string, payload []byte) error {
	if err := s.slot.Write(payload); err != nil {
		ingestTotal.WithLabelValues(source, resultError).Inc()
		return err
	}
	ingestTotal.WithLabelValues(source, resultSuccess).Inc()
	ingestBytes.Observe(float64(len(payload)))
	debugLog("Stored %d bytes from %s", len(payload), source)

	if err := s.pub.Publish(ctx, payload); err != nil {
		errorLog("Error publishing reading: %v", err)
		s.hub.enqueue(payload)
	}
	return nil
}

// handleRoot ingests POSTed readings and serves the viewer page otherwise.
func (s *server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.handlePage(w, r)
		return
	}

	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		ingestTotal.WithLabelValues(sourceHTTP, resultInvalidContentType).Inc()
		debugLog("Rejected POST with Content-Type %q", r.Header.Get("Content-Type"))
		writeJSON(w, ingestResponse{Status: "error", Message: "Invalid Content-Type"})
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		ingestTotal.WithLabelValues(sourceHTTP, resultError).Inc()
		errorLog("Error reading request body: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if err := s.ingest(r.Context(), sourceHTTP, body); err != nil {
		errorLog("Error storing reading: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSON(w, ingestResponse{Status: "success"})
}

// handlePage returns the polling viewer page.
func (s *server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexPage)
}

// handleLive returns the WebSocket viewer page.
func (s *server) handleLive(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(livePage)
}

// handleData returns the slot verbatim. The cache query parameter is ignored.
func (s *server) handleData(w http.ResponseWriter, r *http.Request) {
	data, err := s.slot.Read()
	if errors.Is(err, os.ErrNotExist) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		errorLog("Error reading slot: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(data)
}

// writeJSON writes v as a compact JSON body with no trailing newline.
func writeJSON(w http.ResponseWriter, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// newRouter registers every endpoint on a fresh mux.
func newRouter(s *server, metrics http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("GET /data.json", s.handleData)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /live", s.handleLive)
	mux.Handle("GET /metrics", metrics)
	return mux
}
