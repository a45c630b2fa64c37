package scheduler

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/Yulfic/uptime-status/internal/models"
	"github.com/Yulfic/uptime-status/internal/prober"
)

// EventAppender persists one probe event per call.
type EventAppender interface {
	Append(models.ProbeEvent) error
}

// Scheduler drives periodic probing rounds. Within a round all targets are
// probed concurrently and all results are written concurrently; rounds
// themselves never overlap.
type Scheduler struct {
	interval time.Duration
	timeout  time.Duration
	targets  []models.Target
	store    EventAppender
	client   *http.Client
	onRound  func(models.RoundResult)

	mu     sync.RWMutex
	latest *models.RoundResult

	stopCh chan struct{}
	doneCh chan struct{}
}

// New creates a scheduler for the given targets and interval.
func New(interval, timeout time.Duration, targets []models.Target, store EventAppender) *Scheduler {
	if interval < time.Second {
		interval = time.Second
	}
	return &Scheduler{
		interval: interval,
		timeout:  timeout,
		targets:  targets,
		store:    store,
		client:   &http.Client{},
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// OnRound registers a listener invoked after each completed round.
// It must be set before Start.
func (s *Scheduler) OnRound(fn func(models.RoundResult)) {
	s.onRound = fn
}

// Start launches the probing loop in a goroutine.
func (s *Scheduler) Start() {
	go s.run()
}

// Stop requests graceful loop termination and waits until it is done.
// In-flight probes are cancelled.
func (s *Scheduler) Stop() {
	select {
	case <-s.doneCh:
		return
	default:
	}
	close(s.stopCh)
	<-s.doneCh
}

// Latest returns the most recent round result, if any round has completed.
func (s *Scheduler) Latest() (models.RoundResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return models.RoundResult{}, false
	}
	return *s.latest, true
}

// RunOnce executes a single round of checks and persists one event per
// target, all stamped with the round's start time so results of one round
// stay mutually comparable regardless of write order.
func (s *Scheduler) RunOnce(ctx context.Context) models.RoundResult {
	roundStart := time.Now().UTC().Unix()

	results := make([]models.CheckResult, len(s.targets))
	var wg sync.WaitGroup
	for i, t := range s.targets {
		wg.Add(1)
		go func(i int, t models.Target) {
			defer wg.Done()
			results[i] = prober.Check(ctx, s.client, t, s.timeout)
		}(i, t)
	}
	wg.Wait()

	for _, r := range results {
		wg.Add(1)
		go func(r models.CheckResult) {
			defer wg.Done()
			ev := models.ProbeEvent{
				ServerName: r.Server,
				TSUTC:      roundStart,
				OK:         boolToInt(r.OK),
			}
			if err := s.store.Append(ev); err != nil {
				log.Printf("persist check for %s: %v", r.Server, err)
			}
		}(r)
	}
	wg.Wait()

	round := models.RoundResult{TSUTC: roundStart, Checks: results}

	s.mu.Lock()
	s.latest = &round
	s.mu.Unlock()

	if s.onRound != nil {
		s.onRound(round)
	}
	return round
}

func (s *Scheduler) run() {
	defer close(s.doneCh)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-s.stopCh
		cancel()
	}()

	for {
		started := time.Now()
		s.RunOnce(ctx)

		// Pace rounds against the round start, not round completion.
		wait := s.interval - time.Since(started)
		if wait < 0 {
			wait = 0
		}
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-s.stopCh:
			timer.Stop()
			return
		}
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
