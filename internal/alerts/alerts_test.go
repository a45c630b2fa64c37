package alerts

import (
	"testing"
	"time"

	"github.com/Yulfic/uptime-status/internal/config"
	"github.com/Yulfic/uptime-status/internal/models"
)

func newTestNotifier() *Notifier {
	return &Notifier{
		cooldown: 15 * time.Minute,
		lastOK:   make(map[string]bool),
		lastSent: make(map[string]time.Time),
	}
}

func round(ts int64, server string, ok bool) models.RoundResult {
	return models.RoundResult{
		TSUTC:  ts,
		Checks: []models.CheckResult{{Server: server, OK: ok}},
	}
}

func TestNew_DisabledReturnsNil(t *testing.T) {
	if New(config.Alerts{Enabled: false, APIKey: "k"}) != nil {
		t.Error("disabled alerts should yield nil notifier")
	}
	if New(config.Alerts{Enabled: true}) != nil {
		t.Error("missing api key should yield nil notifier")
	}
}

func TestObserveRound_NilNotifierIsSafe(t *testing.T) {
	var n *Notifier
	n.ObserveRound(round(1000, "api", true)) // must not panic
}

func TestDetect_FirstObservationNeverAlerts(t *testing.T) {
	n := newTestNotifier()
	now := time.Now()
	if got := n.detect(round(1000, "api", false), now); len(got) != 0 {
		t.Errorf("first observation produced %d transitions", len(got))
	}
}

func TestDetect_DownAndRecovery(t *testing.T) {
	n := newTestNotifier()
	base := time.Now()

	n.detect(round(1000, "api", true), base)

	got := n.detect(round(1060, "api", false), base.Add(time.Minute))
	if len(got) != 1 || got[0].Up || got[0].Server != "api" {
		t.Fatalf("down transition = %v", got)
	}
	if got[0].When.Unix() != 1060 {
		t.Errorf("transition time = %v, want round timestamp", got[0].When)
	}

	// Recovery after the cooldown alerts again.
	got = n.detect(round(2000, "api", true), base.Add(20*time.Minute))
	if len(got) != 1 || !got[0].Up {
		t.Fatalf("recovery transition = %v", got)
	}
}

func TestDetect_SteadyStateStaysQuiet(t *testing.T) {
	n := newTestNotifier()
	now := time.Now()
	n.detect(round(1000, "api", true), now)
	for i := 1; i <= 3; i++ {
		if got := n.detect(round(1000+int64(i*60), "api", true), now.Add(time.Duration(i)*time.Minute)); len(got) != 0 {
			t.Fatalf("steady state produced transitions: %v", got)
		}
	}
}

func TestDetect_CooldownSuppressesFlapping(t *testing.T) {
	n := newTestNotifier()
	base := time.Now()

	n.detect(round(1000, "api", true), base)
	if got := n.detect(round(1060, "api", false), base.Add(1*time.Minute)); len(got) != 1 {
		t.Fatalf("expected down alert, got %v", got)
	}
	// Flap back up two minutes later, still inside the cooldown.
	if got := n.detect(round(1120, "api", true), base.Add(3*time.Minute)); len(got) != 0 {
		t.Errorf("cooldown violated: %v", got)
	}
	// State tracking continued during the suppressed flap, so the next
	// down transition after the cooldown alerts normally.
	if got := n.detect(round(3000, "api", false), base.Add(30*time.Minute)); len(got) != 1 || got[0].Up {
		t.Errorf("post-cooldown transition = %v", got)
	}
}

func TestDetect_IndependentTargets(t *testing.T) {
	n := newTestNotifier()
	base := time.Now()

	both := models.RoundResult{
		TSUTC: 1000,
		Checks: []models.CheckResult{
			{Server: "a", OK: true},
			{Server: "b", OK: true},
		},
	}
	n.detect(both, base)

	aDown := models.RoundResult{
		TSUTC: 1060,
		Checks: []models.CheckResult{
			{Server: "a", OK: false},
			{Server: "b", OK: true},
		},
	}
	got := n.detect(aDown, base.Add(time.Minute))
	if len(got) != 1 || got[0].Server != "a" {
		t.Errorf("transitions = %v, want only a", got)
	}
}
