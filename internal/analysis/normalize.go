package analysis

// PercentChange rescales a metric series relative to its baseline
// element so that index 0 becomes exactly 1.0. If the first measured
// point is faster than the baseline sample, the baseline is assumed
// noisy and replaced by that point before dividing. The input series is
// not modified.
func PercentChange(series []float64) []float64 {
	if len(series) == 0 {
		return nil
	}

	out := make([]float64, len(series))
	copy(out, series)

	if len(out) > 1 && out[0] > out[1] {
		out[0] = out[1]
	}

	base := out[0]
	for i := 1; i < len(out); i++ {
		out[i] = out[i] / base
	}
	out[0] = 1

	return out
}

// Max returns the largest value in the series, or 0 for an empty one.
func Max(series []float64) float64 {
	max := 0.0
	for i, v := range series {
		if i == 0 || v > max {
			max = v
		}
	}
	return max
}
