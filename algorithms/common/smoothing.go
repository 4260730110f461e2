package common

import (
	"github.com/mjibson/go-dsp/fft"
)

// Smoothing prefilters for noisy absorption series. Peak detection runs the
// candidate search on the smoothed series but reads amplitudes from the raw
// one, so the filters here must preserve length and ordering.

// MovingAverage calculates a simple moving average with the given window
// size. The initial samples average over the partial window.
func MovingAverage(data []float64, windowSize int) []float64 {
	if len(data) == 0 || windowSize <= 1 || windowSize > len(data) {
		return data
	}

	result := make([]float64, len(data))

	for i := 0; i < windowSize; i++ {
		sum := 0.0
		for j := 0; j <= i; j++ {
			sum += data[j]
		}
		result[i] = sum / float64(i+1)
	}

	for i := windowSize; i < len(data); i++ {
		sum := 0.0
		for j := i - windowSize + 1; j <= i; j++ {
			sum += data[j]
		}
		result[i] = sum / float64(windowSize)
	}

	return result
}

// FFTLowPass smooths a series by zeroing spectral bins above the cutoff
// fraction of the Nyquist bin. cutoff is in (0, 1]; values outside that
// range return the input unchanged. Uses mjibson/go-dsp, which handles
// non-power-of-2 sizes.
func FFTLowPass(data []float64, cutoff float64) []float64 {
	if len(data) < 3 || cutoff <= 0 || cutoff >= 1 {
		return data
	}

	spectrum := fft.FFTReal(data)

	n := len(spectrum)
	keep := int(cutoff * float64(n/2))
	if keep < 1 {
		keep = 1
	}

	// Zero symmetric high-frequency bins; bin 0 is DC
	for i := keep + 1; i < n-keep; i++ {
		spectrum[i] = 0
	}

	inverse := fft.IFFT(spectrum)
	result := make([]float64, len(data))
	for i, v := range inverse {
		result[i] = real(v)
	}

	return result
}
