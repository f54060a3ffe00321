package bench

import "gonum.org/v1/gonum/stat"

// IntStats summarizes an integer series (e.g. iteration counts) the same
// way FloatStats summarizes a cost/timing series.
type IntStats struct {
	N    int
	Best int
	Mean float64
	Std  float64
}

// CalcIntStats computes best/mean/std over values, delegating the moment
// computation to gonum/stat rather than hand-rolling variance.
func CalcIntStats(values []int) IntStats {
	s := IntStats{N: len(values)}
	if s.N == 0 {
		return s
	}

	best := values[0]
	floats := make([]float64, s.N)
	for i, v := range values {
		if v < best {
			best = v
		}
		floats[i] = float64(v)
	}

	s.Best = best
	s.Mean = stat.Mean(floats, nil)
	if s.N >= 2 {
		s.Std = stat.StdDev(floats, nil)
	}
	return s
}

// FloatStats summarizes a cost or timing series across a bench.RunSuite
// run: the best value observed, the mean, and the sample standard
// deviation.
type FloatStats struct {
	N    int
	Best float64
	Mean float64
	Std  float64
}

// CalcFloatStats computes best/mean/std over values via gonum/stat.
func CalcFloatStats(values []float64) FloatStats {
	s := FloatStats{N: len(values)}
	if s.N == 0 {
		return s
	}

	best := values[0]
	for _, v := range values {
		if v < best {
			best = v
		}
	}

	s.Best = best
	s.Mean = stat.Mean(values, nil)
	if s.N >= 2 {
		s.Std = stat.StdDev(values, nil)
	}
	return s
}
