package uptime

import (
	"time"

	"github.com/Yulfic/uptime-status/internal/models"
)

// Bucket is one hour-wide point of a report series. OkRatio is nil when no
// probes fell into the hour.
type Bucket struct {
	Hour    int64    `json:"hour"`
	OkRatio *float64 `json:"ok_ratio"`
}

// Result is the uptime report of one target over a window. UptimePercent is
// nil when the whole window has no probes for the target.
type Result struct {
	Series        []Bucket `json:"series"`
	UptimePercent *float64 `json:"uptime_percent"`
}

type tally struct {
	ok    int
	total int
}

// hourKey collapses an epoch timestamp onto its UTC hour. Grouping and
// boundary lookup share this single key space regardless of timezone.
func hourKey(ts int64) int64 {
	return ts / 3600 * 3600
}

// boundaries generates the window's local wall-clock hour boundaries in loc.
// The count is fixed (24 per day); across a DST transition two boundaries
// may resolve to the same UTC instant or a skipped wall hour is carried
// forward by time.Date normalization. The UTC instant is authoritative.
func boundaries(w Window, ref time.Time, loc *time.Location) []time.Time {
	local := ref.In(loc)
	base := local.AddDate(0, 0, -(w.Days() - 1))
	bs := make([]time.Time, 0, w.Hours())
	for i := 0; i < w.Hours(); i++ {
		bs = append(bs, time.Date(base.Year(), base.Month(), base.Day(), i, 0, 0, 0, loc))
	}
	return bs
}

// bucketKeys returns the ordered lookup keys of the window. With a timezone
// the window starts at a local midnight and follows wall-clock hours; without
// one it degrades to a fixed-length UTC window ending at ref. The two modes
// deliberately compute their start differently and must not be unified.
func bucketKeys(w Window, ref time.Time, loc *time.Location) []int64 {
	keys := make([]int64, 0, w.Hours())
	if loc != nil {
		for _, b := range boundaries(w, ref, loc) {
			keys = append(keys, hourKey(b.Unix()))
		}
		return keys
	}
	windowSec := int64(w.Hours()) * 3600
	start := hourKey(ref.Unix() - windowSec)
	for h := start; h < start+windowSec; h += 3600 {
		keys = append(keys, h)
	}
	return keys
}

// Cutoff returns the earliest event timestamp a report over the window can
// use, suitable for a single read-since query against the event log.
func Cutoff(w Window, ref time.Time, loc *time.Location) int64 {
	if loc != nil {
		bs := boundaries(w, ref, loc)
		return hourKey(bs[0].Unix())
	}
	return ref.Unix() - int64(w.Hours())*3600
}

// Compute buckets events into hourly uptime ratios per target. Every
// configured target appears in the output even with zero events; servers
// found in the log but absent from configuration are reported as well.
func Compute(targets []string, events []models.ProbeEvent, w Window, ref time.Time, loc *time.Location) map[string]Result {
	grouped := make(map[string]map[int64]*tally, len(targets))
	order := make([]string, 0, len(targets))
	for _, name := range targets {
		if _, ok := grouped[name]; ok {
			continue
		}
		grouped[name] = make(map[int64]*tally)
		order = append(order, name)
	}
	for _, ev := range events {
		perTarget, ok := grouped[ev.ServerName]
		if !ok {
			perTarget = make(map[int64]*tally)
			grouped[ev.ServerName] = perTarget
			order = append(order, ev.ServerName)
		}
		key := hourKey(ev.TSUTC)
		t := perTarget[key]
		if t == nil {
			t = &tally{}
			perTarget[key] = t
		}
		t.total++
		if ev.OK != 0 {
			t.ok++
		}
	}

	keys := bucketKeys(w, ref, loc)

	result := make(map[string]Result, len(order))
	for _, name := range order {
		perTarget := grouped[name]
		series := make([]Bucket, 0, len(keys))
		totalOK, total := 0, 0
		for _, h := range keys {
			b := Bucket{Hour: h}
			if t := perTarget[h]; t != nil && t.total > 0 {
				ratio := float64(t.ok) / float64(t.total)
				b.OkRatio = &ratio
				totalOK += t.ok
				total += t.total
			}
			series = append(series, b)
		}
		r := Result{Series: series}
		if total > 0 {
			pct := float64(totalOK) / float64(total) * 100.0
			r.UptimePercent = &pct
		}
		result[name] = r
	}
	return result
}
