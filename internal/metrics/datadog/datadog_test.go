package datadog

import (
	"reflect"
	"testing"

	"vendoretl/internal/metrics"
)

func TestLabelsToTags(t *testing.T) {
	t.Parallel()

	if got := labelsToTags(nil); got != nil {
		t.Fatalf("labelsToTags(nil) = %#v, want nil", got)
	}
	got := labelsToTags(metrics.Labels{"table": "sales", "job": "ingest", "kind": "written"})
	want := []string{"job:ingest", "kind:written", "table:sales"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("labelsToTags = %#v, want %#v", got, want)
	}
}

func TestNewBackendRequiresAddr(t *testing.T) {
	t.Parallel()

	if _, err := NewBackend(Config{}); err == nil {
		t.Fatalf("expected error for empty Addr")
	}
}

func TestZeroBackendIsSafe(t *testing.T) {
	t.Parallel()

	b := &Backend{}
	b.IncCounter(metrics.RowsTotal, 1, metrics.Labels{"table": "t"})
	b.ObserveHistogram(metrics.StepDuration, 1, nil)
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush on zero backend: %v", err)
	}
}

// TestUDPBackendRoundTrip uses a UDP address; DogStatsD over UDP does not need
// a listening agent.
func TestUDPBackendRoundTrip(t *testing.T) {
	t.Parallel()

	b, err := NewBackend(Config{Addr: "127.0.0.1:8125", Namespace: "vendoretl.", GlobalTags: []string{"env:test"}})
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	b.IncCounter(metrics.BatchesTotal, 2, metrics.Labels{"table": "sales"})
	b.ObserveHistogram(metrics.StepDuration, 0.5, metrics.Labels{"step": "query"})
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}
