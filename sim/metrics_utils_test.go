package sim

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/babylon-sim/babylon/sim/internal/testutil"
)

func TestCalculatePercentile(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	tests := []struct {
		name string
		p    float64
		want float64
	}{
		{"median", 50, 5.5},
		{"p0 is minimum", 0, 1},
		{"p100 is maximum", 100, 10},
		{"p90 interpolates", 90, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculatePercentile(data, tt.p)
			testutil.AssertFloat64Equal(t, "percentile", tt.want, got, 1e-9)
		})
	}
}

func TestCalculatePercentile_Empty(t *testing.T) {
	if got := CalculatePercentile([]float64{}, 50); got != 0 {
		t.Errorf("percentile of empty data = %v, want 0", got)
	}
}

func TestCalculateMean(t *testing.T) {
	testutil.AssertFloat64Equal(t, "mean", 2.0, CalculateMean([]float64{1, 2, 3}), 1e-9)
	testutil.AssertFloat64Equal(t, "mean int64", 15.0, CalculateMean([]int64{10, 20}), 1e-9)
	if got := CalculateMean([]int{}); got != 0 {
		t.Errorf("mean of empty data = %v, want 0", got)
	}
}

func TestSaveSeries(t *testing.T) {
	m := NewMetrics()
	path := filepath.Join(t.TempDir(), "series.txt")

	m.SaveSeries([]float64{0.1, 0.2, 0.3}, path)

	buf, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read series file: %v", err)
	}
	if got := strings.Count(string(buf), ","); got != 3 {
		t.Errorf("series file has %d values, want 3: %q", got, buf)
	}
}
