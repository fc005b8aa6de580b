package elevation

// Smooth runs iterations passes of a clamped symmetric moving average over
// elevations. Element i of each pass is the mean of [i-window, i+window]
// clipped to the slice bounds, so edge points average fewer neighbours.
// The result always has the same length as the input.
func Smooth(elevations []float64, window, iterations int) []float64 {
	out := make([]float64, len(elevations))
	copy(out, elevations)
	if len(out) == 0 || window <= 0 {
		return out
	}

	n := len(out)
	next := make([]float64, n)
	for pass := 0; pass < iterations; pass++ {
		for i := range out {
			lo := max(0, i-window)
			hi := min(n-1, i+window)
			sum := 0.0
			for j := lo; j <= hi; j++ {
				sum += out[j]
			}
			next[i] = sum / float64(hi-lo+1)
		}
		out, next = next, out
	}
	return out
}
