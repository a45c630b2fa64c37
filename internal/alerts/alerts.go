package alerts

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	brevo "github.com/getbrevo/brevo-go/lib"

	"github.com/Yulfic/uptime-status/internal/config"
	"github.com/Yulfic/uptime-status/internal/models"
)

// Notifier sends an email when a target transitions between up and down.
// A nil Notifier is valid and does nothing.
type Notifier struct {
	cfg      config.Alerts
	client   *brevo.APIClient
	cooldown time.Duration

	mu       sync.Mutex
	lastOK   map[string]bool
	lastSent map[string]time.Time
}

// transition describes one observed status change.
type transition struct {
	Server string
	Up     bool
	When   time.Time
}

// New returns a notifier, or nil when alerting is disabled or unconfigured.
func New(cfg config.Alerts) *Notifier {
	if !cfg.Enabled || cfg.APIKey == "" {
		return nil
	}
	bc := brevo.NewConfiguration()
	bc.AddDefaultHeader("api-key", cfg.APIKey)
	return &Notifier{
		cfg:      cfg,
		client:   brevo.NewAPIClient(bc),
		cooldown: time.Duration(cfg.CooldownMinutes) * time.Minute,
		lastOK:   make(map[string]bool),
		lastSent: make(map[string]time.Time),
	}
}

// ObserveRound records a completed probing round and dispatches emails for
// status transitions. Send failures are logged and never block the caller.
func (n *Notifier) ObserveRound(round models.RoundResult) {
	if n == nil {
		return
	}
	for _, tr := range n.detect(round, time.Now().UTC()) {
		go n.send(tr)
	}
}

// detect updates per-target state and returns the transitions that pass the
// cooldown. The first observation of a target never alerts.
func (n *Notifier) detect(round models.RoundResult, now time.Time) []transition {
	n.mu.Lock()
	defer n.mu.Unlock()

	var out []transition
	for _, check := range round.Checks {
		prev, seen := n.lastOK[check.Server]
		n.lastOK[check.Server] = check.OK
		if !seen || prev == check.OK {
			continue
		}
		if last, ok := n.lastSent[check.Server]; ok && now.Sub(last) < n.cooldown {
			continue
		}
		n.lastSent[check.Server] = now
		out = append(out, transition{
			Server: check.Server,
			Up:     check.OK,
			When:   time.Unix(round.TSUTC, 0).UTC(),
		})
	}
	return out
}

func (n *Notifier) send(tr transition) {
	state := "DOWN"
	if tr.Up {
		state = "UP"
	}
	subject := fmt.Sprintf("Uptime alert: %s is %s", tr.Server, state)
	body := fmt.Sprintf(`Uptime Status Alert

Server: %s
Status: %s
Time: %s
`, tr.Server, state, tr.When.Format("2006-01-02 15:04:05 MST"))

	email := brevo.SendSmtpEmail{
		Sender: &brevo.SendSmtpEmailSender{
			Name:  "Uptime Status",
			Email: n.cfg.From,
		},
		To: []brevo.SendSmtpEmailTo{
			{Email: n.cfg.To},
		},
		Subject:     subject,
		TextContent: body,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if _, _, err := n.client.TransactionalEmailsApi.SendTransacEmail(ctx, email); err != nil {
		log.Printf("send alert for %s: %v", tr.Server, err)
		return
	}
	log.Printf("alert sent: %s is %s", tr.Server, state)
}
