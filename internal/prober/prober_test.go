package prober

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Yulfic/uptime-status/internal/models"
)

func TestCheck_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	res := Check(context.Background(), ts.Client(), models.Target{Name: "api", URL: ts.URL}, 5*time.Second)
	if !res.OK {
		t.Errorf("expected OK, got error %v", res.Error)
	}
	if res.StatusCode == nil || *res.StatusCode != http.StatusOK {
		t.Errorf("status code = %v, want 200", res.StatusCode)
	}
	if res.LatencyMS == nil {
		t.Error("latency should be recorded")
	}
}

func TestCheck_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	res := Check(context.Background(), ts.Client(), models.Target{Name: "api", URL: ts.URL}, 5*time.Second)
	if res.OK {
		t.Error("5xx must classify as failed")
	}
	if res.StatusCode == nil || *res.StatusCode != http.StatusInternalServerError {
		t.Errorf("status code = %v, want 500", res.StatusCode)
	}
	if res.Error == nil {
		t.Error("failed check should carry an error message")
	}
}

func TestCheck_Redirectish(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	res := Check(context.Background(), ts.Client(), models.Target{Name: "api", URL: ts.URL}, 5*time.Second)
	if res.OK {
		t.Error("non-2xx must classify as failed")
	}
}

func TestCheck_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()

	res := Check(context.Background(), ts.Client(), models.Target{Name: "api", URL: ts.URL}, 50*time.Millisecond)
	if res.OK {
		t.Error("timeout must classify as failed")
	}
	if res.Error == nil || *res.Error != "request timed out" {
		t.Errorf("error = %v, want normalized timeout message", res.Error)
	}
}

func TestCheck_ConnectionRefused(t *testing.T) {
	res := Check(context.Background(), &http.Client{}, models.Target{Name: "api", URL: "http://127.0.0.1:1"}, time.Second)
	if res.OK {
		t.Error("connection failure must classify as failed")
	}
	if res.Error == nil {
		t.Error("failed check should carry an error message")
	}
}

func TestCheck_PerTargetTimeoutOverride(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()

	// The generous default must lose to the target's own 1s timeout, which
	// fires before the 2s handler responds.
	target := models.Target{Name: "api", URL: ts.URL, TimeoutSeconds: 1}
	start := time.Now()
	res := Check(context.Background(), ts.Client(), target, 30*time.Second)
	if res.OK {
		t.Error("expected timeout failure")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("target timeout not honoured, took %v", elapsed)
	}
}
