// Package webform serves a small HTML form that triggers sound generation
// and density-of-states plots by running the sonify command line as a
// subprocess.
package webform

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/NU-CEM/singing-materials-online/pkg/dos"
	"github.com/NU-CEM/singing-materials-online/pkg/phonon"
	"github.com/NU-CEM/singing-materials-online/pkg/sonify"
)

//go:embed templates/*
var templateFS embed.FS

var tmpl = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Response bodies for /submit.
const (
	SuccessMessage = "Sound generated successfully!"
	ErrorPrefix    = "Error generating sound: "
)

// DefaultAddr binds to localhost only.
const DefaultAddr = "127.0.0.1:5000"

// Config configures a Server.
type Config struct {
	// Addr to listen on. Empty means DefaultAddr.
	Addr string

	// StaticDir is served under /static/ and receives plots. Empty
	// disables /static/ and /plot.
	StaticDir string

	// Runner executes the generated command lines. Required.
	Runner Runner

	// ExtraArgs are inserted after the subcommand name, e.g.
	// []string{"--context", "prod"}.
	ExtraArgs []string

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Server is the web form server. Submissions are run one at a time.
type Server struct {
	cfg    Config
	logger *slog.Logger
	mux    *http.ServeMux

	mu sync.Mutex
}

// New creates a server.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	s := &Server{cfg: cfg, logger: cfg.Logger}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.mux = http.NewServeMux()
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /submit", s.handleSubmit)
	if cfg.StaticDir != "" {
		s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))
		s.mux.HandleFunc("POST /plot", s.handlePlot)
	}
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("webform: listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("web form listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("webform: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type indexData struct {
	Temperature float64
	MinAudible  float64
	MaxAudible  float64
	Seconds     float64
	PlotFile    string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := indexData{
		Temperature: phonon.RoomTemperature,
		MinAudible:  phonon.MinAudible,
		MaxAudible:  phonon.MaxAudible,
		Seconds:     sonify.DefaultDuration.Seconds(),
		PlotFile:    dos.DefaultFilename,
	}
	if err := tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	log := s.logger.With("request_id", id)

	if err := r.ParseForm(); err != nil {
		fail(w, http.StatusBadRequest, err)
		return
	}
	form, err := ParseSubmission(r.PostForm)
	if err != nil {
		log.Warn("invalid submission", "error", err)
		fail(w, http.StatusBadRequest, err)
		return
	}

	args := form.Args(s.cfg.ExtraArgs...)
	log.Info("generating sound", "ids", form.IDs, "args", args)

	if err := s.run(r.Context(), args); err != nil {
		log.Error("sound generation failed", "error", err)
		fail(w, http.StatusInternalServerError, err)
		return
	}
	log.Info("sound generated")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(SuccessMessage))
}

func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	log := s.logger.With("request_id", id)

	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ids, err := parseIDs(r.PostForm["mp_id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	args := append([]string{"plot"}, s.cfg.ExtraArgs...)
	args = append(args, "--output", dos.DefaultFilename, "--output-dir", s.cfg.StaticDir, "--", ids[0])
	log.Info("plotting dos", "id", ids[0])

	if err := s.run(r.Context(), args); err != nil {
		log.Error("plot failed", "error", err)
		http.Error(w, "Error plotting density of states: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Plot generated successfully!"))
}

func (s *Server) run(ctx context.Context, args []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Runner.Run(ctx, args)
}

func fail(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(ErrorPrefix + err.Error()))
}

// Submission is a parsed sound form.
type Submission struct {
	IDs       []string
	MinPhonon string
	MaxPhonon string
	Seconds   string
}

// ParseSubmission validates the mp_id, min_phonon, max_phonon and
// time_length form fields. Numbers are checked but kept as entered.
func ParseSubmission(form map[string][]string) (*Submission, error) {
	ids, err := parseIDs(form["mp_id"])
	if err != nil {
		return nil, err
	}
	sub := &Submission{IDs: ids}
	fields := []struct {
		name string
		dst  *string
	}{
		{"min_phonon", &sub.MinPhonon},
		{"max_phonon", &sub.MaxPhonon},
		{"time_length", &sub.Seconds},
	}
	for _, f := range fields {
		v := strings.TrimSpace(first(form[f.name]))
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, fmt.Errorf("%s must be a valid float", f.name)
		}
		*f.dst = v
	}
	return sub, nil
}

// Args returns the play command line. Empty fields are omitted so the
// command's defaults apply.
func (s *Submission) Args(extra ...string) []string {
	args := append([]string{"play"}, extra...)
	if s.MinPhonon != "" {
		args = append(args, "--min-phonon", s.MinPhonon)
	}
	if s.MaxPhonon != "" {
		args = append(args, "--max-phonon", s.MaxPhonon)
	}
	if s.Seconds != "" {
		args = append(args, "--timelength", s.Seconds)
	}
	args = append(args, "--")
	return append(args, s.IDs...)
}

// parseIDs drops blank entries and splits entries on commas and spaces.
func parseIDs(values []string) ([]string, error) {
	var ids []string
	for _, v := range values {
		for _, id := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' }) {
			if strings.HasPrefix(id, "-") {
				return nil, fmt.Errorf("invalid mp_id %q", id)
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, errors.New("mp_id is required")
	}
	return ids, nil
}

func first(v []string) string {
	if len(v) == 0 {
		return ""
	}
	return v[0]
}
