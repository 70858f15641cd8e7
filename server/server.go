// Package server exposes chart parsing, rescaling and MIDI export over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/QEStudios/ChartScaler/chart"
	"github.com/QEStudios/ChartScaler/config"
	"github.com/QEStudios/ChartScaler/parser/chartfile"
)

// RequestIDHeader carries the id assigned to every request.
const RequestIDHeader = "X-Request-Id"

const shutdownTimeout = 5 * time.Second

type requestIDKey struct{}

// RequestID returns the id assigned to the request carrying ctx, or "" outside a request.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Server serves the chartscale HTTP API.
type Server struct {
	cfg    config.Config
	logger *log.Logger
	router *mux.Router
}

// New creates a Server. A nil logger falls back to log.Default().
func New(cfg config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:    cfg,
		logger: logger,
		router: mux.NewRouter().StrictSlash(true),
	}
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/rescale", s.handleRescale).Methods(http.MethodPost)
	s.router.HandleFunc("/inspect", s.handleInspect).Methods(http.MethodPost)
	s.router.HandleFunc("/midi", s.handleMIDI).Methods(http.MethodPost)
	return s
}

// Handler returns the full middleware chain: CORS, Sentry panic reporting, request ids and routing.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{RequestIDHeader},
	})
	recoverer := sentryhttp.New(sentryhttp.Options{Repanic: false})
	return c.Handler(recoverer.Handle(s.withRequestID(s.router)))
}

// ListenAndServe serves on the configured address until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Printf("Listening on %s", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		s.logger.Printf("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withRequestID tags every request with an id, reusing a well-formed one sent by the client.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
			hub.Scope().SetTag("request_id", id)
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
		s.logger.Printf("%s %s %s -> %d (%s)", id, r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok\n")
}

// readChart parses the request body. On failure the response has already been written.
func (s *Server) readChart(w http.ResponseWriter, r *http.Request) (*chart.Chart, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, fmt.Sprintf("chart is larger than %d bytes", s.cfg.MaxBody), http.StatusRequestEntityTooLarge)
			return nil, false
		}
		s.internalError(w, r, fmt.Errorf("reading request body: %w", err))
		return nil, false
	}

	c, err := chartfile.Parse(string(body))
	if err != nil {
		s.logger.Printf("%s rejected chart: %v", RequestID(r.Context()), err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return c, true
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Printf("%s internal error: %v", RequestID(r.Context()), err)
	if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
		hub.CaptureException(err)
	} else {
		sentry.CaptureException(err)
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (s *Server) handleRescale(w http.ResponseWriter, r *http.Request) {
	transaction := sentry.StartTransaction(r.Context(), "chartscale.rescale")
	defer transaction.Finish()

	raw := r.URL.Query().Get("factor")
	factor, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || factor == 0 {
		transaction.SetTag("success", "false")
		http.Error(w, fmt.Sprintf("factor must be a positive 32-bit integer, got %q", raw), http.StatusBadRequest)
		return
	}
	transaction.SetTag("factor", raw)

	c, ok := s.readChart(w, r)
	if !ok {
		transaction.SetTag("success", "false")
		return
	}
	c.Rescale(uint32(factor))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := c.WriteTo(w); err != nil {
		s.logger.Printf("%s writing response: %v", RequestID(r.Context()), err)
	}
	transaction.SetTag("success", "true")
}

func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	c, ok := s.readChart(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(c.Summarize()); err != nil {
		s.logger.Printf("%s writing response: %v", RequestID(r.Context()), err)
	}
}

func (s *Server) handleMIDI(w http.ResponseWriter, r *http.Request) {
	track := r.URL.Query().Get("track")
	if track == "" {
		http.Error(w, "missing track parameter", http.StatusBadRequest)
		return
	}

	c, ok := s.readChart(w, r)
	if !ok {
		return
	}

	song, err := c.ToSMF(track)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "audio/midi")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", track+".mid"))
	if _, err := song.WriteTo(w); err != nil {
		s.logger.Printf("%s writing response: %v", RequestID(r.Context()), err)
	}
}
