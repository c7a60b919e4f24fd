package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gatherNames(t *testing.T) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	out := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		out[f.GetName()] = f
	}
	return out
}

func TestXPMetrics(t *testing.T) {
	XPAwarded.WithLabelValues("ranked").Add(33)
	XPAwarded.WithLabelValues("legacy").Add(85)
	LevelUps.Inc()
	CurrentLevel.Set(2)
	SessionXP.WithLabelValues("ranked").Observe(33)

	names := gatherNames(t)
	expected := []string{
		"lingo_xp_awarded_total",
		"lingo_level_ups_total",
		"lingo_current_level",
		"lingo_session_xp",
	}
	for _, name := range expected {
		if names[name] == nil {
			t.Errorf("metric %q not found", name)
		}
	}

	if f := names["lingo_current_level"]; f != nil {
		if got := f.GetMetric()[0].GetGauge().GetValue(); got != 2 {
			t.Errorf("current_level = %v, want 2", got)
		}
	}
}

func TestResourceMetrics(t *testing.T) {
	ResourceConsumed.WithLabelValues("hearts", "ok").Inc()
	ResourceConsumed.WithLabelValues("hearts", "empty").Inc()
	ResourceCurrent.WithLabelValues("hearts").Set(2)
	ResourceCurrent.WithLabelValues("stars").Set(3)

	names := gatherNames(t)
	f := names["lingo_resource_consumed_total"]
	if f == nil {
		t.Fatal("lingo_resource_consumed_total not found")
	}
	if len(f.GetMetric()) < 2 {
		t.Errorf("expected ok and empty series, got %d", len(f.GetMetric()))
	}
	if names["lingo_resource_current"] == nil {
		t.Error("lingo_resource_current not found")
	}
}

func TestDrawAndAllocationMetrics(t *testing.T) {
	RankDraws.WithLabelValues("epic").Inc()
	SkillDraws.WithLabelValues("grammar").Inc()
	AllocationUpdates.WithLabelValues("rejected").Inc()
	SnapshotRestoreFallbacks.Inc()

	names := gatherNames(t)
	for _, name := range []string{
		"lingo_rank_draws_total",
		"lingo_skill_draws_total",
		"lingo_allocation_updates_total",
		"lingo_snapshot_restore_fallbacks_total",
	} {
		if names[name] == nil {
			t.Errorf("metric %q not found", name)
		}
	}
}

func TestHealthMetrics(t *testing.T) {
	HealthCheckStatus.WithLabelValues("sqlite").Set(1)
	HealthCheckStatus.WithLabelValues("profile_snapshot").Set(0)
	HealthRecoveries.WithLabelValues("sqlite").Inc()
	RequestLatency.WithLabelValues("GET", "/api/progression/level", "200").Observe(0.002)

	names := gatherNames(t)
	for _, name := range []string{
		"lingo_health_check_status",
		"lingo_health_recoveries_total",
		"lingo_http_request_duration_seconds",
	} {
		if names[name] == nil {
			t.Errorf("metric %q not found", name)
		}
	}
}

func TestAllMetricsGatherable(t *testing.T) {
	names := gatherNames(t)

	lingoMetrics := 0
	for name := range names {
		if strings.HasPrefix(name, "lingo_") {
			lingoMetrics++
		}
	}

	// Vec families only appear once a series exists; the tests above
	// touch every one of them.
	if lingoMetrics < 4 {
		t.Errorf("expected at least 4 lingo_ metrics, got %d", lingoMetrics)
	}
}
