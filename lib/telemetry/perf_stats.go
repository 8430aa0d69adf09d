package telemetry

import (
	"context"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
)

var meter = Meter("go.perf_stats")
var cpuGauge, _ = meter.Float64Gauge("cpu_usage")
var memoryGauge, _ = meter.Int64Gauge("allocated_mb")
var liveObjectsGauge, _ = meter.Int64Gauge("live_objects")

type PerfStats struct {
	CPUPercent  float64
	AllocatedMB int64
	LiveObjects int64
}

// RecordPerfStats takes a single sample of the process' resource usage and
// records it on the perf gauges.
func RecordPerfStats(ctx context.Context) PerfStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := PerfStats{
		AllocatedMB: int64(memStats.Alloc / 1_000_000),
		LiveObjects: int64(memStats.Mallocs) - int64(memStats.Frees),
	}

	// interval 0 compares against the previous sample, the first call
	// compares against the package's init time
	cpuUsage, err := cpu.PercentWithContext(ctx, 0, false)
	if err == nil && len(cpuUsage) > 0 {
		stats.CPUPercent = cpuUsage[0]
		cpuGauge.Record(ctx, stats.CPUPercent)
	}

	memoryGauge.Record(ctx, stats.AllocatedMB)
	liveObjectsGauge.Record(ctx, stats.LiveObjects)
	return stats
}
