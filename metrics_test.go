package tangguh

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestMetricsCollectorRecordsWithoutPanic(t *testing.T) {
	registry := prometheus.NewRegistry()
	mc := NewMetricsCollectorWithRegistry(registry)

	mc.RecordRequestStart("GET", "/ping")
	mc.RecordRequest("GET", "/ping", 200, 42*time.Millisecond)
	mc.RecordRequestEnd("GET", "/ping")
	mc.RecordRetry("GET", "/ping", 1)
	mc.RecordCircuitState("default", true, 0)
	mc.RecordCircuitState("default", false, 3)
	mc.RecordError(ErrorTypeTransport, "GET", "/ping")

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather() returned error: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected registered metric families")
	}

	names := make(map[string]bool, len(families))
	for _, family := range families {
		names[family.GetName()] = true
	}
	for _, want := range []string{
		"tangguh_requests_total",
		"tangguh_retries_total",
		"tangguh_circuit_open",
		"tangguh_failure_streak",
		"tangguh_errors_total",
	} {
		if !names[want] {
			t.Errorf("expected metric %s to be registered", want)
		}
	}
}

func TestNilCollectorIsNoOp(t *testing.T) {
	var mc *MetricsCollector

	mc.RecordRequestStart("GET", "/ping")
	mc.RecordRequest("GET", "/ping", 200, time.Millisecond)
	mc.RecordRequestEnd("GET", "/ping")
	mc.RecordRetry("GET", "/ping", 1)
	mc.RecordCircuitState("default", false, 0)
	mc.RecordError(ErrorTypeServer, "GET", "/ping")
}

func TestClientWithMetricsCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	mc := NewMetricsCollectorWithRegistry(registry)

	client := New("https://api.test", WithMetricsCollector(mc))
	if client.metrics != mc {
		t.Error("expected collector to be wired into the client")
	}
}
