package report

import "github.com/montanaflynn/stats"

// SeriesSummary condenses one run trace into headline statistics.
type SeriesSummary struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Median float64
}

// Summarize computes headline statistics for a series. An empty
// series returns an error.
func Summarize(series []float64) (SeriesSummary, error) {
	summary := SeriesSummary{Count: len(series)}

	mean, err := stats.Mean(series)
	if err != nil {
		return summary, err
	}

	stdDev, err := stats.StandardDeviation(series)
	if err != nil {
		return summary, err
	}

	min, err := stats.Min(series)
	if err != nil {
		return summary, err
	}

	max, err := stats.Max(series)
	if err != nil {
		return summary, err
	}

	median, err := stats.Median(series)
	if err != nil {
		return summary, err
	}

	summary.Mean = mean
	summary.StdDev = stdDev
	summary.Min = min
	summary.Max = max
	summary.Median = median
	return summary, nil
}
