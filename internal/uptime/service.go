package uptime

import (
	"fmt"
	"log"
	"time"

	"github.com/Yulfic/uptime-status/internal/models"
)

// EventReader provides the minimal event slice a report needs.
type EventReader interface {
	ReadSince(since int64) ([]models.ProbeEvent, error)
}

// Service computes uptime reports from a persisted event log.
type Service struct {
	store   EventReader
	targets []string
	loc     *time.Location
}

// NewService resolves the IANA timezone once. When the zone cannot be
// loaded the service degrades to UTC-window reports instead of failing.
func NewService(store EventReader, targets []string, timezone string) *Service {
	var loc *time.Location
	if timezone != "" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			log.Printf("timezone %q unavailable, falling back to UTC windows: %v", timezone, err)
		} else {
			loc = l
		}
	}
	return &Service{store: store, targets: targets, loc: loc}
}

// Report computes per-target hourly uptime over the window, reading the
// event log exactly once.
func (s *Service) Report(w Window, ref time.Time) (map[string]Result, error) {
	events, err := s.store.ReadSince(Cutoff(w, ref, s.loc))
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return Compute(s.targets, events, w, ref, s.loc), nil
}
