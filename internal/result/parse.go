package result

import (
	"fmt"
	"time"

	"github.com/tidwall/gjson"
)

// missingIdentity replaces absent identity fields.
const missingIdentity = "?"

// Parse decodes a result document leniently: invalid JSON is rejected, but
// missing or null identity fields become "?", missing or null numbers become 0 and
// missing arrays become empty.
func Parse(data []byte) (*BenchmarkResult, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("result document must be a JSON object, got %s", doc.Type)
	}

	r := &BenchmarkResult{
		DB:             identity(doc.Get("db")),
		Mode:           identity(doc.Get("mode")),
		Variant:        identity(doc.Get("variant")),
		Language:       identity(doc.Get("language")),
		TotalRows:      int(doc.Get("total_rows").Int()),
		TotalTimeSec:   doc.Get("total_time_sec").Float(),
		RowsPerSec:     doc.Get("rows_per_sec").Float(),
		PeakMemoryMB:   doc.Get("peak_memory_mb").Float(),
		PeakCPUPercent: doc.Get("peak_cpu_percent").Float(),
		MemoryUsage:    floats(doc.Get("memory_usage")),
		MemorySpikes:   floats(doc.Get("memory_spikes")),
		CPUUsage:       floats(doc.Get("cpu_usage")),
		CPUSpikes:      floats(doc.Get("cpu_spikes")),
		RunID:          doc.Get("run_id").String(),
		BatchSize:      int(doc.Get("batch_size").Int()),
		Batches:        int(doc.Get("batches").Int()),
	}

	if ts := doc.Get("started_at"); ts.Exists() {
		if t, err := time.Parse(time.RFC3339Nano, ts.String()); err == nil {
			r.StartedAt = t
		}
	}

	if lat := doc.Get("batch_latency_ms"); lat.IsObject() {
		r.BatchLatencyMS = &Latency{
			P50:  lat.Get("p50").Float(),
			P90:  lat.Get("p90").Float(),
			P99:  lat.Get("p99").Float(),
			Max:  lat.Get("max").Float(),
			Mean: lat.Get("mean").Float(),
		}
	}

	return r, nil
}

func identity(v gjson.Result) string {
	if !v.Exists() || v.Type == gjson.Null {
		return missingIdentity
	}
	return v.String()
}

// floats keeps numeric array elements; null and non-numeric entries become 0.
func floats(v gjson.Result) []float64 {
	if !v.IsArray() {
		return []float64{}
	}
	items := v.Array()
	out := make([]float64, len(items))
	for i, item := range items {
		out[i] = item.Float()
	}
	return out
}
