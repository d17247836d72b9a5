package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/oscnet/internal/dynamo"
)

// minSpectrumSnapshots is the shortest series a spectrum is computed for.
const minSpectrumSnapshots = 4

// Spectrum returns the one-sided magnitude spectrum of sin(θ_i) over the
// whole recorded dynamic, together with the frequency of every bin in
// cycles per unit time. Snapshots must be evenly spaced.
func (a *Analyzer) Spectrum(oscillator int) (freqs, mags []float64, err error) {
	n := a.dyn.Len()
	if n < minSpectrumSnapshots {
		return nil, nil, fmt.Errorf("%w: spectrum needs at least %d snapshots, have %d", dynamo.ErrConfiguration, minSpectrumSnapshots, n)
	}
	if oscillator < 0 || oscillator >= a.dyn.Oscillators() {
		return nil, nil, fmt.Errorf("%w: oscillator %d of %d", dynamo.ErrConfiguration, oscillator, a.dyn.Oscillators())
	}
	dt := a.dyn.Times[1] - a.dyn.Times[0]
	if !(dt > 0) {
		return nil, nil, fmt.Errorf("%w: snapshots are not evenly spaced in time", dynamo.ErrConfiguration)
	}

	signal := make([]float64, n)
	mean := 0.0
	for k, phases := range a.dyn.Phases {
		signal[k] = math.Sin(phases[oscillator])
		mean += signal[k]
	}
	mean /= float64(n)
	for k := range signal {
		// Hann window
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(k)/float64(n-1)))
		signal[k] = (signal[k] - mean) * w
	}

	spectrum := fft.FFTReal(signal)
	half := n/2 + 1
	freqs = make([]float64, half)
	mags = make([]float64, half)
	for k := 0; k < half; k++ {
		freqs[k] = float64(k) / (float64(n) * dt)
		mags[k] = cmplx.Abs(spectrum[k])
	}
	return freqs, mags, nil
}

// DominantFrequency returns the strongest non-zero frequency of oscillator
// in cycles per unit time. A locked cluster shares one dominant frequency.
func (a *Analyzer) DominantFrequency(oscillator int) (float64, error) {
	freqs, mags, err := a.Spectrum(oscillator)
	if err != nil {
		return 0, err
	}
	best := 1
	for k := 2; k < len(mags); k++ {
		if mags[k] > mags[best] {
			best = k
		}
	}
	return freqs[best], nil
}

// DominantFrequencies is DominantFrequency for every oscillator.
func (a *Analyzer) DominantFrequencies() ([]float64, error) {
	out := make([]float64, a.dyn.Oscillators())
	for i := range out {
		f, err := a.DominantFrequency(i)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}
