package voice

import (
	"math"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// LpcFormantAnalyzer extracts vocal-tract formant frequencies from one
// audio chunk via an all-pole linear-prediction model: pre-emphasis,
// windowing, autocorrelation LPC, then the pole angles of the prediction
// polynomial's roots. Any conditioning failure yields an empty formant
// list, never an error.
type LpcFormantAnalyzer struct {
	sampleRate int
	window     []float64
}

// NewLpcFormantAnalyzer creates an analyzer for chunks of chunkSize
// samples at the given sample rate.
func NewLpcFormantAnalyzer(sampleRate, chunkSize int) *LpcFormantAnalyzer {
	return &LpcFormantAnalyzer{
		sampleRate: sampleRate,
		window:     hannWindow(chunkSize),
	}
}

const (
	formantMinHz = 90.0
	formantMaxHz = 5500.0
	maxFormants  = 4
)

// Formants returns up to four ascending formant frequencies in
// (90, 5500) Hz, or nil when the frame is too short or the polynomial
// cannot be factored.
func (a *LpcFormantAnalyzer) Formants(frame []float64) []float64 {
	if len(frame) == 0 {
		return nil
	}

	// Pre-emphasis boosts the upper spectrum so higher formants are not
	// swamped by the glottal rolloff.
	emphasized := make([]float64, len(frame))
	emphasized[0] = frame[0]
	for i := 1; i < len(frame); i++ {
		emphasized[i] = frame[i] - 0.97*frame[i-1]
	}

	windowed := make([]float64, len(emphasized))
	window := a.window
	if len(window) != len(emphasized) {
		window = hannWindow(len(emphasized))
	}
	for i := range emphasized {
		windowed[i] = emphasized[i] * window[i]
	}

	order := 2 + a.sampleRate/1000
	if order > len(windowed)-1 {
		order = len(windowed) - 1
	}
	if order < 4 {
		return nil
	}

	r := make([]float64, order+1)
	for lag := 0; lag <= order; lag++ {
		var sum float64
		for i := 0; i+lag < len(windowed); i++ {
			sum += windowed[i] * windowed[i+lag]
		}
		r[lag] = sum
	}
	if r[0] == 0 {
		return nil
	}

	coeffs := make([]float64, order+1)
	coeffs[0] = 1
	for i := 1; i <= order; i++ {
		coeffs[i] = -r[i] / (r[0] + 1e-10)
	}

	roots := polynomialRoots(coeffs)
	if roots == nil {
		return nil
	}

	var formants []float64
	for _, root := range roots {
		if imag(root) <= 0 {
			continue
		}
		freq := cmplx.Phase(root) * float64(a.sampleRate) / (2 * math.Pi)
		if freq > formantMinHz && freq < formantMaxHz {
			formants = append(formants, freq)
		}
	}
	sort.Float64s(formants)
	if len(formants) > maxFormants {
		formants = formants[:maxFormants]
	}
	return formants
}

// polynomialRoots finds the complex roots of the monic polynomial
// coeffs[0]*x^p + coeffs[1]*x^(p-1) + ... + coeffs[p] (coeffs[0] must be 1)
// as the eigenvalues of its companion matrix. Returns nil if the
// eigendecomposition does not converge.
func polynomialRoots(coeffs []float64) []complex128 {
	p := len(coeffs) - 1
	if p < 1 {
		return nil
	}

	companion := mat.NewDense(p, p, nil)
	for j := 0; j < p; j++ {
		companion.Set(0, j, -coeffs[j+1])
	}
	for i := 1; i < p; i++ {
		companion.Set(i, i-1, 1)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(companion, mat.EigenNone); !ok {
		return nil
	}
	return eig.Values(nil)
}
