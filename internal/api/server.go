// Package api serves the transcriber sidecar REST API for the UI host,
// over a Unix socket by default.
//
// Every request runs on its own goroutine, so vault and disk I/O never
// block the UI's event loop; the store itself takes no locks.
package api

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/martinbockt/transcriber/internal/audio"
	"github.com/martinbockt/transcriber/internal/daemon"
	"github.com/martinbockt/transcriber/internal/logbuf"
	"github.com/martinbockt/transcriber/internal/masterkey"
	"github.com/martinbockt/transcriber/internal/securestore"
)

// maxChunkBytes caps a single pushed sample chunk (2M float32 samples).
const maxChunkBytes = 8 << 20

// maxFileBytes caps the body of a save-file request.
const maxFileBytes = 64 << 20

// Server serves the sidecar REST API.
type Server struct {
	daemon  *daemon.Daemon
	logs    *logbuf.Buffer
	server  *http.Server
	logger  *slog.Logger
	limiter *rate.Limiter
}

// NewServer creates an API server backed by the given daemon. logs may be
// nil, in which case /v1/logs serves an empty list.
func NewServer(d *daemon.Daemon, logs *logbuf.Buffer) *Server {
	s := &Server{
		daemon: d,
		logs:   logs,
		logger: slog.With("component", "api"),
		// Secret operations hit the credential vault and disk; a UI has no
		// business exceeding this.
		limiter: rate.NewLimiter(rate.Limit(50), 100),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/secrets/{key}", s.limited(s.getSecret))
	mux.HandleFunc("PUT /v1/secrets/{key}", s.limited(s.setSecret))
	mux.HandleFunc("DELETE /v1/secrets/{key}", s.limited(s.deleteSecret))
	mux.HandleFunc("POST /v1/recording/start", s.startRecording)
	mux.HandleFunc("POST /v1/recording/data", s.pushSamples)
	mux.HandleFunc("POST /v1/recording/stop", s.stopRecording)
	mux.HandleFunc("POST /v1/files", s.saveFile)
	mux.HandleFunc("GET /v1/logs", s.recentLogs)
	mux.HandleFunc("GET /v1/health", s.health)

	s.server = &http.Server{Handler: mux}
	return s
}

// ListenUnix starts the server on a Unix socket.
func (s *Server) ListenUnix(path string) error {
	ln, err := net.Listen("unix", path)
	if err != nil {
		return err
	}
	s.logger.Info("API listening", "socket", path)
	return s.server.Serve(ln)
}

// ListenTCP starts the server on a TCP address.
func (s *Server) ListenTCP(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.logger.Info("API listening", "addr", addr)
	return s.server.Serve(ln)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) limited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			return
		}
		next(w, r)
	}
}

func (s *Server) getSecret(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	val, err := s.daemon.Store().Get(key)
	if err != nil {
		writeJSON(w, secretStatus(err), map[string]string{"error": err.Error()})
		return
	}
	// "" means never set — that is a successful read, not a 404.
	writeJSON(w, http.StatusOK, map[string]string{"value": val})
}

func (s *Server) setSecret(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var body struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	if err := s.daemon.Store().Set(key, body.Value); err != nil {
		writeJSON(w, secretStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "stored"})
}

func (s *Server) deleteSecret(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if err := s.daemon.Store().Delete(key); err != nil {
		writeJSON(w, secretStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// secretStatus maps store failures to response codes. Key material being
// unreachable is a dependency problem, not a client mistake.
func secretStatus(err error) int {
	switch {
	case errors.Is(err, masterkey.ErrKeyAccess):
		return http.StatusServiceUnavailable
	case errors.Is(err, securestore.ErrNotText):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) startRecording(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SampleRate int `json:"sample_rate"`
	}
	// An empty body means default sample rate.
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	s.daemon.Recorder().Start(body.SampleRate)
	writeJSON(w, http.StatusOK, map[string]string{"status": "recording"})
}

// pushSamples accepts a chunk of little-endian float32 samples as a raw
// octet stream — the shape the capture callback hands over.
func (s *Server) pushSamples(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxChunkBytes+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reading body"})
		return
	}
	if len(body) > maxChunkBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "chunk too large"})
		return
	}
	if len(body)%4 != 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body is not a float32 stream"})
		return
	}

	samples := make([]float32, len(body)/4)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(body[i*4:]))
	}

	if err := s.daemon.Recorder().Push(samples); err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

func (s *Server) stopRecording(w http.ResponseWriter, r *http.Request) {
	wavData, err := s.daemon.Recorder().Stop()
	switch {
	case errors.Is(err, audio.ErrNotRecording):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	case errors.Is(err, audio.ErrNoSamples):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"wav": base64.StdEncoding.EncodeToString(wavData),
	})
}

func (s *Server) saveFile(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Path    string `json:"path"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxFileBytes)).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	if err := s.daemon.SaveFile(body.Path, []byte(body.Content)); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"path": body.Path})
}

func (s *Server) recentLogs(w http.ResponseWriter, r *http.Request) {
	n := 100
	if q := r.URL.Query().Get("n"); q != "" {
		if parsed, err := strconv.Atoi(q); err == nil && parsed > 0 {
			n = parsed
		}
	}

	lines := []string{}
	if s.logs != nil {
		lines = s.logs.Tail(n)
	}
	writeJSON(w, http.StatusOK, map[string][]string{"lines": lines})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.daemon.Health(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
