package prompush

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"vendoretl/internal/metrics"
)

// readCounterValue reads the current value of a Counter for assertions in tests.
func readCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()

	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("Counter.Write() error = %v", err)
	}
	if m.GetCounter() == nil {
		t.Fatalf("metric did not contain Counter value")
	}
	return m.GetCounter().GetValue()
}

// TestNewBackend validates field initialization and defaults.
func TestNewBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		jobName     string
		gatewayURL  string
		wantErr     bool
		wantJobName string
	}{
		{name: "missing gateway URL returns error", jobName: "ingest", wantErr: true},
		{name: "empty job name uses default", gatewayURL: "http://pushgateway:9091", wantJobName: "vendoretl"},
		{name: "explicit job name is preserved", jobName: "vendor_summary", gatewayURL: "http://pushgateway:9091", wantJobName: "vendor_summary"},
	}

	for _, tt := range tests {
		tt := tt // capture
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, err := NewBackend(tt.jobName, tt.gatewayURL)
			if tt.wantErr {
				if err == nil || b != nil {
					t.Fatalf("NewBackend(%q, %q) = %v, %v; want nil, error", tt.jobName, tt.gatewayURL, b, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBackend(%q, %q) error = %v, want nil", tt.jobName, tt.gatewayURL, err)
			}
			if b.jobName != tt.wantJobName {
				t.Fatalf("backend.jobName = %q, want %q", b.jobName, tt.wantJobName)
			}
		})
	}
}

// TestIncCounter verifies routing of counters onto their collectors.
func TestIncCounter(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("ingest", "http://example.com")
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}

	b.IncCounter(metrics.StepTotal, 3, metrics.Labels{"step": "load:sales", "status": "success"})
	b.IncCounter(metrics.RowsTotal, 5, metrics.Labels{"table": "sales", "kind": "written"})
	b.IncCounter(metrics.BatchesTotal, 2, metrics.Labels{"table": "sales"})
	b.IncCounter(metrics.BatchesTotal, 1, metrics.Labels{"table": "sales"})
	b.IncCounter("unknown_metric", 10, metrics.Labels{"foo": "bar"})

	if got := readCounterValue(t, b.stepCounter.WithLabelValues("load:sales", "success")); got != 3 {
		t.Fatalf("stepCounter = %v, want 3", got)
	}
	if got := readCounterValue(t, b.rowCounter.WithLabelValues("sales", "written")); got != 5 {
		t.Fatalf("rowCounter = %v, want 5", got)
	}
	if got := readCounterValue(t, b.batchCounter.WithLabelValues("sales")); got != 3 {
		t.Fatalf("batchCounter = %v, want 3", got)
	}
}

// TestNilCollectors ensures a zero-value backend does not panic.
func TestNilCollectors(t *testing.T) {
	t.Parallel()

	b := &Backend{}
	b.IncCounter(metrics.StepTotal, 1, metrics.Labels{"step": "s", "status": "success"})
	b.IncCounter(metrics.RowsTotal, 1, metrics.Labels{"table": "t", "kind": "read"})
	b.IncCounter(metrics.BatchesTotal, 1, metrics.Labels{"table": "t"})
	b.ObserveHistogram(metrics.StepDuration, 1, metrics.Labels{})
}

// TestFlushPushesToGateway checks that Flush issues a PUT carrying our
// metric families to the configured job path.
func TestFlushPushesToGateway(t *testing.T) {
	t.Parallel()

	var (
		mu     sync.Mutex
		method string
		path   string
		body   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		method, path, body = r.Method, r.URL.Path, string(data)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b, err := NewBackend("ingest", srv.URL)
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}
	b.IncCounter(metrics.RowsTotal, 1, metrics.Labels{"table": "sales", "kind": "written"})
	b.ObserveHistogram(metrics.StepDuration, 0.25, metrics.Labels{"step": "load:sales", "status": "success"})

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if method != http.MethodPut {
		t.Fatalf("method = %s, want PUT", method)
	}
	if !strings.Contains(path, "/metrics/job/ingest") {
		t.Fatalf("path = %q, want job grouping", path)
	}
	if body == "" {
		t.Fatalf("expected a non-empty push body")
	}
}
