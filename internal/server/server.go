package server

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/Yulfic/uptime-status/internal/models"
	"github.com/Yulfic/uptime-status/internal/scheduler"
	"github.com/Yulfic/uptime-status/internal/uptime"
)

//go:embed static/*
var embeddedStatic embed.FS

// Server wraps HTTP serving of the API + static dashboard.
type Server struct {
	httpServer *http.Server
	sched      *scheduler.Scheduler
	reports    *uptime.Service
	staticFS   fs.FS
	targets    []models.Target
}

// New creates a configured HTTP server for the monitor.
func New(addr string, targets []models.Target, sched *scheduler.Scheduler, reports *uptime.Service) *Server {
	staticFS, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		panic("static assets missing: " + err.Error())
	}

	s := &Server{
		sched:    sched,
		reports:  reports,
		staticFS: staticFS,
		targets:  targets,
	}

	router := s.routes()
	handler := handlers.RecoveryHandler()(handlers.LoggingHandler(os.Stdout, router))
	s.httpServer = &http.Server{Addr: addr, Handler: handler}
	return s
}

// Run blocks and serves HTTP traffic.
func (s *Server) Run() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts the server down.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/uptime", s.handleUptime).Methods(http.MethodGet)
	r.HandleFunc("/api/force-check", s.handleForceCheck).Methods(http.MethodPost)
	r.HandleFunc("/api/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/targets", s.handleTargets).Methods(http.MethodGet)
	r.HandleFunc("/api/overview/ws", s.handleOverviewWS).Methods(http.MethodGet)

	fileServer := http.FileServer(http.FS(s.staticFS))
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", fileServer))
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data, err := fs.ReadFile(s.staticFS, "index.html")
	if err != nil {
		http.Error(w, "index missing", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}

func (s *Server) handleUptime(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "day"
	}
	window, err := uptime.ParseWindow(period)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	report, err := s.reports.Report(window, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read check history")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleForceCheck(w http.ResponseWriter, r *http.Request) {
	round := s.sched.RunOnce(r.Context())

	results := make([]map[string]any, 0, len(round.Checks))
	for _, check := range round.Checks {
		results = append(results, map[string]any{
			"server": check.Server,
			"ok":     check.OK,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"results": results,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	round, ok := s.sched.Latest()
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{
			"ts_utc": nil,
			"checks": []models.CheckResult{},
		})
		return
	}
	writeJSON(w, http.StatusOK, round)
}

func (s *Server) handleTargets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.targets)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
