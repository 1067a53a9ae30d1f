package envelope

import (
	"errors"
	"math"
	"testing"
)

func TestQuantileBoundsAndInterpolation(t *testing.T) {
	tests := []struct {
		name      string
		xs        []float64
		q         float64
		want      float64
		tolerance float64
	}{
		// Extremes select min and max
		{
			name: "q=0 selects minimum",
			xs:   []float64{5, 1, 9, 3},
			q:    0.0,
			want: 1,
		},
		{
			name: "q=1 selects maximum",
			xs:   []float64{5, 1, 9, 3},
			q:    1.0,
			want: 9,
		},
		{
			name: "q=0 on sorted input",
			xs:   []float64{-2, 0, 4},
			q:    0.0,
			want: -2,
		},
		{
			name: "q=1 on sorted input",
			xs:   []float64{-2, 0, 4},
			q:    1.0,
			want: 4,
		},

		// Singleton returns the sole element regardless of q
		{
			name: "singleton q=0",
			xs:   []float64{7.5},
			q:    0.0,
			want: 7.5,
		},
		{
			name: "singleton q=0.37",
			xs:   []float64{7.5},
			q:    0.37,
			want: 7.5,
		},
		{
			name: "singleton q=1",
			xs:   []float64{7.5},
			q:    1.0,
			want: 7.5,
		},

		// Linear interpolation between order statistics
		{
			name: "median of four interpolates",
			xs:   []float64{1, 2, 3, 4},
			q:    0.5,
			want: 2.5, // pos = 1.5, halfway between 2 and 3
		},
		{
			name:      "first quartile of four",
			xs:        []float64{1, 2, 3, 4},
			q:         0.25,
			want:      1.75, // pos = 0.75
			tolerance: 1e-12,
		},
		{
			name:      "third quartile of four",
			xs:        []float64{1, 2, 3, 4},
			q:         0.75,
			want:      3.25, // pos = 2.25
			tolerance: 1e-12,
		},
		{
			name: "median of pair",
			xs:   []float64{10, 20},
			q:    0.5,
			want: 15,
		},
		{
			name: "unsorted input gives same result",
			xs:   []float64{3, 1, 4, 2},
			q:    0.5,
			want: 2.5,
		},
		{
			name: "exact order statistic, no interpolation",
			xs:   []float64{10, 20, 30, 40, 50},
			q:    0.25,
			want: 20, // pos = 1.0 lands on an element
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Quantile(tt.xs, tt.q)
			if err != nil {
				t.Fatalf("Quantile(%v, %g) returned error: %v", tt.xs, tt.q, err)
			}
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("Quantile(%v, %g) = %g, want %g", tt.xs, tt.q, got, tt.want)
			}
		})
	}
}

func TestQuantileEmptyInput(t *testing.T) {
	_, err := Quantile(nil, 0.5)
	if err == nil {
		t.Fatal("Quantile(nil, 0.5) returned nil error, want ErrInvalidInput")
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Quantile(nil, 0.5) error = %v, want ErrInvalidInput", err)
	}

	_, err = Quantile([]float64{}, 0.0)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Quantile([], 0.0) error = %v, want ErrInvalidInput", err)
	}
}

func TestQuantileDoesNotMutateInput(t *testing.T) {
	xs := []float64{9, 2, 7, 1, 5}
	want := []float64{9, 2, 7, 1, 5}

	if _, err := Quantile(xs, 0.5); err != nil {
		t.Fatalf("Quantile returned error: %v", err)
	}

	for i := range xs {
		if xs[i] != want[i] {
			t.Errorf("input slice mutated at index %d: got %g, want %g", i, xs[i], want[i])
		}
	}
}

func TestQuantileDeterministic(t *testing.T) {
	xs := []float64{0.3, 1.2, -4.5, 8.8, 2.2, 2.2}

	first, err := Quantile(xs, 0.66)
	if err != nil {
		t.Fatalf("Quantile returned error: %v", err)
	}
	for i := 0; i < 10; i++ {
		got, err := Quantile(xs, 0.66)
		if err != nil {
			t.Fatalf("Quantile returned error on repeat %d: %v", i, err)
		}
		if got != first {
			t.Errorf("Quantile repeat %d = %g, want %g (must be deterministic)", i, got, first)
		}
	}
}
