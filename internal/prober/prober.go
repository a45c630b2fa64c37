package prober

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Yulfic/uptime-status/internal/models"
)

// Check performs one availability probe against a target. Any transport
// error, timeout or non-2xx status is reported as a failed check; errors
// never propagate past this boundary.
func Check(ctx context.Context, client *http.Client, target models.Target, defaultTimeout time.Duration) models.CheckResult {
	timeout := time.Duration(target.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	res := models.CheckResult{
		Server: target.Name,
		OK:     false,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.URL, nil)
	if err != nil {
		msg := err.Error()
		res.Error = &msg
		return res
	}

	response, err := client.Do(req)
	if err != nil {
		msg := err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			msg = "request timed out"
		}
		res.Error = &msg
		return res
	}
	defer response.Body.Close()

	latency := float64(time.Since(start).Milliseconds())
	res.LatencyMS = &latency
	res.StatusCode = &response.StatusCode
	res.OK = response.StatusCode >= 200 && response.StatusCode < 300
	if !res.OK {
		msg := http.StatusText(response.StatusCode)
		res.Error = &msg
	}
	return res
}
