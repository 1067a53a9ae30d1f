package report

import (
	"math"
	"testing"
)

func TestSummarizeKnownSeries(t *testing.T) {
	s, err := Summarize([]float64{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if s.Count != 5 {
		t.Errorf("Count = %d, want 5", s.Count)
	}
	if s.Mean != 3.0 {
		t.Errorf("Mean = %v, want 3.0", s.Mean)
	}
	if s.Median != 3.0 {
		t.Errorf("Median = %v, want 3.0", s.Median)
	}
	if s.Min != 1.0 {
		t.Errorf("Min = %v, want 1.0", s.Min)
	}
	if s.Max != 5.0 {
		t.Errorf("Max = %v, want 5.0", s.Max)
	}
	if math.Abs(s.StdDev-math.Sqrt2) > 1e-9 {
		t.Errorf("StdDev = %v, want %v", s.StdDev, math.Sqrt2)
	}
}

func TestSummarizeSingleValue(t *testing.T) {
	s, err := Summarize([]float64{7.5})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if s.Count != 1 {
		t.Errorf("Count = %d, want 1", s.Count)
	}
	if s.Mean != 7.5 || s.Median != 7.5 || s.Min != 7.5 || s.Max != 7.5 {
		t.Errorf("statistics of a single value should all equal it: %+v", s)
	}
	if s.StdDev != 0 {
		t.Errorf("StdDev = %v, want 0", s.StdDev)
	}
}

func TestSummarizeEmptySeries(t *testing.T) {
	if _, err := Summarize(nil); err == nil {
		t.Error("Summarize(nil) should return an error")
	}
	if _, err := Summarize([]float64{}); err == nil {
		t.Error("Summarize(empty) should return an error")
	}
}
