// Package series records sample traces together with their running maximum.
package series

// Series holds raw samples and the spike trace derived from them.
// Spikes[i] is always max(Usage[0..i]).
type Series struct {
	Usage  []float64
	Spikes []float64
}

// Add appends a sample and extends the spike trace.
func (s *Series) Add(v float64) {
	s.Usage = append(s.Usage, v)
	if n := len(s.Spikes); n > 0 && s.Spikes[n-1] > v {
		v = s.Spikes[n-1]
	}
	s.Spikes = append(s.Spikes, v)
}

// Peak returns the highest sample, 0 when empty.
func (s *Series) Peak() float64 {
	if len(s.Spikes) == 0 {
		return 0
	}
	return s.Spikes[len(s.Spikes)-1]
}

// Len returns the number of samples.
func (s *Series) Len() int {
	return len(s.Usage)
}

// RunningMax derives a spike trace from xs.
func RunningMax(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		if i > 0 && out[i-1] > x {
			x = out[i-1]
		}
		out[i] = x
	}
	return out
}

// Max returns the largest element of xs, 0 when empty.
func Max(xs []float64) float64 {
	var m float64
	for i, x := range xs {
		if i == 0 || x > m {
			m = x
		}
	}
	return m
}
