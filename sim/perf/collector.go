// Package perf collects runtime performance metrics: object access
// frequency, cache behavior, operation latencies, and memory usage. The
// collector analyzes its windows on demand and persists timestamped JSON
// snapshots for post-run inspection.
package perf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/renameio/v2"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Window capacities. Accesses beyond capacity drop the oldest samples.
const (
	tokenWindowCap   = 1000
	latencyWindowCap = 100
	memoryWindowCap  = 1000
)

// Thresholds that drive optimization suggestions.
const (
	hotObjectThreshold  = 3
	targetHitRate       = 0.8
	tokenBudgetWarnAvg  = 150000
	memoryNearPeakRatio = 0.8
)

// window is a fixed-capacity FIFO of float64 samples.
type window struct {
	cap  int
	vals []float64
}

func (w *window) push(v float64) {
	if len(w.vals) == w.cap {
		w.vals = w.vals[1:]
	}
	w.vals = append(w.vals, v)
}

// Session tracks counters for the current collection session.
type Session struct {
	StartTime     time.Time `json:"start_time"`
	TotalObjects  int       `json:"total_objects"`
	ActiveObjects int       `json:"active_objects"`
	CachedObjects int       `json:"cached_objects"`
}

// LatencyStats summarizes one latency window in milliseconds.
type LatencyStats struct {
	Avg float64 `json:"avg"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// MemoryProfile summarizes the memory usage window in bytes.
type MemoryProfile struct {
	Avg     float64 `json:"avg"`
	Peak    float64 `json:"peak"`
	Current float64 `json:"current"`
}

// Analysis is the result of Collector.Analyze.
type Analysis struct {
	CacheHitRate            map[string]float64      `json:"cache_hit_rate"`
	AvgTokenUsage           float64                 `json:"avg_token_usage"`
	HotObjects              []string                `json:"hot_objects"`
	LatencyStats            map[string]LatencyStats `json:"latency_stats"`
	MemoryProfile           *MemoryProfile          `json:"memory_profile"`
	OptimizationSuggestions []string                `json:"optimization_suggestions"`
}

// Collector gathers metrics. Not safe for concurrent use; the engine is
// single-goroutine.
type Collector struct {
	objectAccess    map[string]int
	tokenUsage      window
	cacheHits       map[string]int
	cacheMisses     map[string]int
	queryLatencies  window // ms
	contextSwitches window // ms
	memoryUsage     window // bytes

	session Session
	now     func() time.Time
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	c := &Collector{
		objectAccess:    make(map[string]int),
		tokenUsage:      window{cap: tokenWindowCap},
		cacheHits:       make(map[string]int),
		cacheMisses:     make(map[string]int),
		queryLatencies:  window{cap: latencyWindowCap},
		contextSwitches: window{cap: latencyWindowCap},
		memoryUsage:     window{cap: memoryWindowCap},
		now:             time.Now,
	}
	c.session.StartTime = c.now()
	return c
}

// ObjectCreated bumps the session object counter.
func (c *Collector) ObjectCreated() {
	c.session.TotalObjects++
}

// RecordObjectAccess counts an access to an object in a given context.
func (c *Collector) RecordObjectAccess(objectID, contextLevel string) {
	c.objectAccess[objectID]++
	logrus.Debugf("object accessed: %s in %s", objectID, contextLevel)
}

// RecordTokenUsage appends a token count to the rolling window.
func (c *Collector) RecordTokenUsage(tokens int) {
	c.tokenUsage.push(float64(tokens))
}

// RecordCacheEvent counts a hit or miss for a cache tier.
func (c *Collector) RecordCacheEvent(tier string, hit bool) {
	if hit {
		c.cacheHits[tier]++
	} else {
		c.cacheMisses[tier]++
	}
}

// RecordQueryLatency appends a store query latency in milliseconds.
func (c *Collector) RecordQueryLatency(ms float64) {
	c.queryLatencies.push(ms)
}

// RecordContextSwitch appends a context-switch latency in milliseconds.
func (c *Collector) RecordContextSwitch(ms float64) {
	c.contextSwitches.push(ms)
}

// RecordMemoryUsage appends a memory sample in bytes.
func (c *Collector) RecordMemoryUsage(bytes int64) {
	c.memoryUsage.push(float64(bytes))
}

// AccessCount returns the recorded access count for one object.
func (c *Collector) AccessCount(objectID string) int {
	return c.objectAccess[objectID]
}

// TokenWindow returns a copy of the current token usage window.
func (c *Collector) TokenWindow() []float64 {
	return append([]float64(nil), c.tokenUsage.vals...)
}

// CacheCounts returns hit and miss counts for one tier.
func (c *Collector) CacheCounts(tier string) (hits, misses int) {
	return c.cacheHits[tier], c.cacheMisses[tier]
}

// Analyze computes insights over everything recorded so far.
func (c *Collector) Analyze() Analysis {
	a := Analysis{
		CacheHitRate:  c.hitRates(),
		AvgTokenUsage: meanOrZero(c.tokenUsage.vals),
		HotObjects:    c.hotObjects(hotObjectThreshold),
		LatencyStats:  c.latencyStats(),
		MemoryProfile: c.memoryProfile(),
	}
	a.OptimizationSuggestions = c.suggestions(a)
	return a
}

// Save writes the current metrics as a timestamped JSON file in dir,
// atomically via a rename.
func (c *Collector) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create metrics dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("metrics_%s.json", c.now().Format("20060102_150405")))

	payload := struct {
		SessionInfo Session        `json:"session_info"`
		Metrics     map[string]any `json:"metrics"`
	}{
		SessionInfo: c.session,
		Metrics: map[string]any{
			"object_access": c.objectAccess,
			"token_usage":   c.tokenUsage.vals,
			"cache_performance": map[string]any{
				"hits":   c.cacheHits,
				"misses": c.cacheMisses,
			},
			"latency": map[string]any{
				"store_queries":    c.queryLatencies.vals,
				"context_switches": c.contextSwitches.vals,
			},
			"memory_usage": c.memoryUsage.vals,
		},
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal metrics: %w", err)
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write metrics file: %w", err)
	}
	return path, nil
}

// hitRates computes hits/(hits+misses) per tier. Tiers with misses but no
// hits still appear, with rate 0.
func (c *Collector) hitRates() map[string]float64 {
	rates := make(map[string]float64)
	for tier := range c.cacheHits {
		hits := c.cacheHits[tier]
		total := hits + c.cacheMisses[tier]
		if total > 0 {
			rates[tier] = float64(hits) / float64(total)
		} else {
			rates[tier] = 0
		}
	}
	for tier := range c.cacheMisses {
		if _, ok := rates[tier]; !ok {
			rates[tier] = 0
		}
	}
	return rates
}

// hotObjects lists object IDs accessed at least threshold times, most
// accessed first, ID order breaking ties.
func (c *Collector) hotObjects(threshold int) []string {
	var hot []string
	for id, n := range c.objectAccess {
		if n >= threshold {
			hot = append(hot, id)
		}
	}
	sort.Slice(hot, func(i, j int) bool {
		if c.objectAccess[hot[i]] != c.objectAccess[hot[j]] {
			return c.objectAccess[hot[i]] > c.objectAccess[hot[j]]
		}
		return hot[i] < hot[j]
	})
	return hot
}

func (c *Collector) latencyStats() map[string]LatencyStats {
	stats := make(map[string]LatencyStats)
	for name, w := range map[string]window{
		"store_queries":    c.queryLatencies,
		"context_switches": c.contextSwitches,
	} {
		if len(w.vals) == 0 {
			continue
		}
		stats[name] = LatencyStats{
			Avg: stat.Mean(w.vals, nil),
			Min: floats.Min(w.vals),
			Max: floats.Max(w.vals),
		}
	}
	return stats
}

func (c *Collector) memoryProfile() *MemoryProfile {
	if len(c.memoryUsage.vals) == 0 {
		return nil
	}
	return &MemoryProfile{
		Avg:     stat.Mean(c.memoryUsage.vals, nil),
		Peak:    floats.Max(c.memoryUsage.vals),
		Current: c.memoryUsage.vals[len(c.memoryUsage.vals)-1],
	}
}

func (c *Collector) suggestions(a Analysis) []string {
	var out []string

	tiers := make([]string, 0, len(a.CacheHitRate))
	for tier := range a.CacheHitRate {
		tiers = append(tiers, tier)
	}
	sort.Strings(tiers)
	for _, tier := range tiers {
		if rate := a.CacheHitRate[tier]; rate < targetHitRate {
			out = append(out, fmt.Sprintf("consider increasing %s cache size (current hit rate: %.2f%%)", tier, rate*100))
		}
	}

	if a.AvgTokenUsage > tokenBudgetWarnAvg {
		out = append(out, "high token usage detected; consider more aggressive object summarization")
	}

	if a.MemoryProfile != nil && a.MemoryProfile.Peak > 0 &&
		a.MemoryProfile.Current > memoryNearPeakRatio*a.MemoryProfile.Peak {
		out = append(out, "memory usage approaching peak; consider trimming the working set")
	}
	return out
}

func meanOrZero(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	return stat.Mean(vals, nil)
}
