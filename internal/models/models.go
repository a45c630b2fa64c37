package models

// Target defines a monitored HTTP endpoint.
type Target struct {
	Name           string `yaml:"name" json:"name"`
	URL            string `yaml:"url" json:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty" json:"timeout_seconds,omitempty"`
}

// ProbeEvent is one persisted check outcome. It is the on-disk record
// format (one JSON object per line) and must stay backward compatible.
type ProbeEvent struct {
	ServerName string `json:"server_name"`
	TSUTC      int64  `json:"ts_utc"`
	OK         int    `json:"ok"`
}

// CheckResult captures the outcome of a single target check.
type CheckResult struct {
	Server     string   `json:"server"`
	OK         bool     `json:"ok"`
	StatusCode *int     `json:"status_code,omitempty"`
	LatencyMS  *float64 `json:"latency_ms,omitempty"`
	Error      *string  `json:"error,omitempty"`
}

// RoundResult stores the results of all checks performed in one round.
// Every check in a round shares the round's start timestamp.
type RoundResult struct {
	TSUTC  int64         `json:"ts_utc"`
	Checks []CheckResult `json:"checks"`
}
