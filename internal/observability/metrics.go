package observability

import (
	"sort"
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu           sync.Mutex
	started      time.Time
	requestCount map[metricKey]int64
	errorCount   map[metricKey]int64
	latencyTotal map[metricKey]time.Duration
}

// Counter is one row of a metrics snapshot.
type Counter struct {
	Path      string  `json:"path"`
	Method    string  `json:"method"`
	Label     string  `json:"label"`
	Count     int64   `json:"count"`
	AvgMillis float64 `json:"avg_ms,omitempty"`
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	UptimeSeconds int64     `json:"uptime_seconds"`
	Requests      []Counter `json:"requests"`
	Errors        []Counter `json:"errors"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		started:      time.Now(),
		requestCount: make(map[metricKey]int64),
		errorCount:   make(map[metricKey]int64),
		latencyTotal: make(map[metricKey]time.Duration),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := metricKey{path, method, strconv.Itoa(status)}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.latencyTotal[key] += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := metricKey{path, method, code}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// Snapshot copies the counters sorted by path, method and label.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{Requests: []Counter{}, Errors: []Counter{}}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		UptimeSeconds: int64(time.Since(m.started).Seconds()),
		Requests:      make([]Counter, 0, len(m.requestCount)),
		Errors:        make([]Counter, 0, len(m.errorCount)),
	}
	for k, n := range m.requestCount {
		c := k.counter(n)
		c.AvgMillis = float64(m.latencyTotal[k].Microseconds()) / 1000 / float64(n)
		snap.Requests = append(snap.Requests, c)
	}
	for k, n := range m.errorCount {
		snap.Errors = append(snap.Errors, k.counter(n))
	}
	sortCounters(snap.Requests)
	sortCounters(snap.Errors)
	return snap
}

type metricKey struct {
	path, method, label string
}

func (k metricKey) counter(n int64) Counter {
	return Counter{Path: k.path, Method: k.method, Label: k.label, Count: n}
}

func sortCounters(cs []Counter) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Path != cs[j].Path {
			return cs[i].Path < cs[j].Path
		}
		if cs[i].Method != cs[j].Method {
			return cs[i].Method < cs[j].Method
		}
		return cs[i].Label < cs[j].Label
	})
}
