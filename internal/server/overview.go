package server

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Yulfic/uptime-status/internal/models"
	"github.com/Yulfic/uptime-status/internal/uptime"
)

const (
	overviewPushInterval = 60 * time.Second
	overviewWriteTimeout = 5 * time.Second
)

var overviewUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		host := strings.ToLower(strings.TrimSpace(r.Host))
		originHost := strings.ToLower(strings.TrimSpace(u.Host))
		return host == originHost
	},
}

type overviewSnapshot struct {
	GeneratedAt time.Time                     `json:"generated_at"`
	Period      string                        `json:"period"`
	Targets     []models.Target               `json:"targets"`
	Uptime      map[string]uptime.Result      `json:"uptime"`
	Latest      map[string]models.CheckResult `json:"latest"`
}

// handleOverviewWS streams the day-window uptime snapshot: once on connect,
// then at a fixed interval until the client goes away.
func (s *Server) handleOverviewWS(w http.ResponseWriter, r *http.Request) {
	conn, err := overviewUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.serveOverviewConnection(conn)
}

func (s *Server) serveOverviewConnection(conn *websocket.Conn) {
	defer conn.Close()

	if err := s.writeOverviewPayload(conn); err != nil {
		return
	}

	ticker := time.NewTicker(overviewPushInterval)
	defer ticker.Stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ticker.C:
			if err := s.writeOverviewPayload(conn); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (s *Server) writeOverviewPayload(conn *websocket.Conn) error {
	snapshot, err := s.buildOverviewSnapshot()
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(overviewWriteTimeout))
	return conn.WriteJSON(snapshot)
}

func (s *Server) buildOverviewSnapshot() (overviewSnapshot, error) {
	report, err := s.reports.Report(uptime.Day, time.Now())
	if err != nil {
		return overviewSnapshot{}, err
	}

	latest := make(map[string]models.CheckResult)
	if round, ok := s.sched.Latest(); ok {
		for _, check := range round.Checks {
			latest[check.Server] = check
		}
	}

	return overviewSnapshot{
		GeneratedAt: time.Now().UTC(),
		Period:      uptime.Day.String(),
		Targets:     s.targets,
		Uptime:      report,
		Latest:      latest,
	}, nil
}
