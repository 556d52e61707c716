package report

// Downsample keeps every step-th sample when xs is longer than maxPoints,
// with step = floor(len/maxPoints). The result has ceil(len/step) samples,
// preserves order and never interpolates. Shorter inputs are returned as is.
func Downsample(xs []float64, maxPoints int) []float64 {
	n := len(xs)
	if maxPoints <= 0 || n <= maxPoints {
		return xs
	}

	step := n / maxPoints
	out := make([]float64, 0, (n+step-1)/step)
	for i := 0; i < n; i += step {
		out = append(out, xs[i])
	}
	return out
}
