package analysis

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

// DominantFrequency returns the strongest non-DC frequency in Hz of a
// series sampled every dt seconds.
func DominantFrequency(series []float64, dt float64) float64 {
	n := len(series)
	if n < 4 || dt <= 0 {
		return 0
	}

	mean := stat.Mean(series, nil)
	centered := make([]float64, n)
	for i, v := range series {
		centered[i] = v - mean
	}

	fft := fourier.NewFFT(n)
	coeff := fft.Coefficients(nil, centered)

	best, idx := 0.0, 0
	for k := 1; k < len(coeff); k++ {
		if p := cmplx.Abs(coeff[k]); p > best {
			best, idx = p, k
		}
	}
	return fft.Freq(idx) / dt
}
