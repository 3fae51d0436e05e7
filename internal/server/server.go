// Package server exposes the quiz wizard as a session-based JSON API.
// Rendering is split from transitions: handlers apply wizard events and
// then render a view-model from the resulting state.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/nagame-dev/aiready/internal/quizbank"
	"github.com/nagame-dev/aiready/internal/submit"
	"github.com/nagame-dev/aiready/internal/wizard"
)

type Server struct {
	questions []quizbank.Question
	sessions  *wizard.Store
	submitter *submit.Submitter
	mirror    submit.RowStore
	loc       *time.Location
	clock     func() time.Time
	logger    *log.Logger
	tracer    trace.Tracer
	sinkName  string
}

// Options wire the server. Mirror, when set, receives a best-effort copy
// of every row successfully written to the primary sink.
type Options struct {
	Questions []quizbank.Question
	Submitter *submit.Submitter
	Mirror    submit.RowStore
	Location  *time.Location
	Clock     func() time.Time
	Logger    *log.Logger
	SinkName  string
}

func New(opts Options) *Server {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stdout, "aiready ", log.LstdFlags)
	}
	return &Server{
		questions: opts.Questions,
		sessions:  wizard.NewStore(),
		submitter: opts.Submitter,
		mirror:    opts.Mirror,
		loc:       opts.Location,
		clock:     opts.Clock,
		logger:    opts.Logger,
		tracer:    otel.Tracer("aiready/server"),
		sinkName:  opts.SinkName,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/sessions", s.handleCreateSession)
	mux.HandleFunc("/api/sessions/", s.handleSession)
	mux.HandleFunc("/api/questions", s.handleQuestions)
	mux.HandleFunc("/healthz", s.handleHealthz)
	return s.logRequests(s.traceRequests(mux))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}

func (s *Server) traceRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := s.tracer.Start(r.Context(), r.Method+" "+r.URL.Path,
			trace.WithAttributes(attribute.String("http.method", r.Method)))
		defer span.End()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	referrer := strings.TrimSpace(r.URL.Query().Get("ref"))
	if referrer == "" {
		referrer = submit.DefaultReferrer
	}
	sess := s.sessions.Create(s.questions, referrer, r.Header.Get("User-Agent"))
	writeJSON(w, 200, s.renderView(sess.Snapshot(), ""))
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	path = strings.TrimSuffix(path, "/")
	token, rest, _ := strings.Cut(path, "/")
	if token == "" {
		writeError(w, 400, "session token is required")
		return
	}
	sess := s.sessions.Get(token)
	if sess == nil {
		writeError(w, 404, "session not found")
		return
	}

	switch {
	case rest == "" && r.Method == http.MethodGet:
		writeJSON(w, 200, s.renderView(sess.Snapshot(), ""))
	case rest == "events" && r.Method == http.MethodPost:
		s.handleEvent(w, r, sess)
	case rest == "results" && r.Method == http.MethodGet:
		s.handleResults(w, r, sess)
	case rest == "report" && r.Method == http.MethodGet:
		s.handleReport(w, r, sess)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// eventSubmitAndView triggers the submission pipeline before advancing.
// It is orchestrated here rather than inside the wizard because it is the
// one transition with a side effect.
const eventSubmitAndView = "submit_and_view"

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request, sess *wizard.Session) {
	var ev wizard.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, 400, "invalid event payload")
		return
	}

	var out wizard.Outcome
	if string(ev.Type) == eventSubmitAndView {
		out = s.submitAndView(r, sess)
	} else {
		out = sess.Apply(ev)
	}
	writeJSON(w, 200, s.renderView(sess.Snapshot(), out.Warning))
}

func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, 200, map[string]any{"questions": s.questions})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, 200, map[string]any{"status": "ok", "sink": s.sinkName})
}
