package features

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/wav"
	sfcmath "github.com/iljakuklic/sfc-project/internal/math"
	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/mat"
)

const (
	// FrameMillis is the length of one analysis frame.
	FrameMillis = 30
	// Coefficients is the number of cepstral coefficients per frame.
	Coefficients = 15
	// Overlap is the fraction of a frame shared with the next one.
	Overlap = 0.66
	// Preemphasis is the first order high-pass filter factor.
	Preemphasis = 0.9375
	// Filters is the number of mel filters.
	Filters = 24

	// minEnergy keeps the logarithm of silent bands finite.
	minEnergy = 1e-12
)

var (
	// TooShortErr is returned for recordings with less than two frames.
	TooShortErr = errors.New("record is not long enough")
	// InvalidFileErr is returned for input that is not a wav file.
	InvalidFileErr = errors.New("invalid wav file")
)

// MFCC extracts mel-frequency cepstral coefficients and their first difference.
type MFCC struct {
	frameMillis  int
	coefficients int
	filters      int
	overlap      float64
	preemphasis  float64
}

// NewMFCC creates an extractor with the default parameters.
func NewMFCC() *MFCC {
	return &MFCC{
		frameMillis:  FrameMillis,
		coefficients: Coefficients,
		filters:      Filters,
		overlap:      Overlap,
		preemphasis:  Preemphasis,
	}
}

// WithCoefficients overrides the number of cepstral coefficients.
func (m *MFCC) WithCoefficients(n int) *MFCC {
	m.coefficients = n
	return m
}

// Dim returns the size of the extracted feature vectors.
func (m *MFCC) Dim() int {
	return 2 * m.coefficients
}

// Extract decodes the wav file and returns one feature vector per frame.
func (m *MFCC) Extract(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open '%s': %w", path, err)
	}
	defer f.Close()
	frames, err := m.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", path, err)
	}
	return frames, nil
}

// Decode reads a wav stream and returns one feature vector per frame.
func (m *MFCC) Decode(r io.ReadSeeker) ([][]float64, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, InvalidFileErr
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("could not decode pcm data: %w", err)
	}
	signal := Mono(buf.Data, buf.Format.NumChannels, buf.SourceBitDepth)
	raw := m.Frames(signal, buf.Format.SampleRate)
	return Differential(raw)
}

// Mono mixes the interleaved channels down and scales the samples into [-1, 1].
func Mono(data []int, channels, bitDepth int) []float64 {
	if channels < 1 {
		channels = 1
	}
	if bitDepth < 1 {
		bitDepth = 16
	}
	scale := float64(int(1)<<(bitDepth-1)) * float64(channels)
	signal := make([]float64, len(data)/channels)
	for i := range signal {
		var s int
		for c := 0; c < channels; c++ {
			s += data[i*channels+c]
		}
		signal[i] = float64(s) / scale
	}
	return signal
}

// Frames returns the raw cepstral coefficients of every frame of the signal.
func (m *MFCC) Frames(signal []float64, sampleRate int) [][]float64 {
	size := sampleRate * m.frameMillis / 1000
	step := size - int(float64(size)*m.overlap)
	if size < 1 || step < 1 || len(signal) < size {
		return [][]float64{}
	}
	padded := sfcmath.NextPow2(size)

	emphasized := make([]float64, len(signal))
	emphasized[0] = signal[0]
	for i := 1; i < len(signal); i++ {
		emphasized[i] = signal[i] - m.preemphasis*signal[i-1]
	}

	bank := melBank(m.filters, padded, sampleRate)
	dct := dctMatrix(m.coefficients, m.filters)

	frames := make([][]float64, 0, (len(signal)-size)/step+1)
	for start := 0; start+size <= len(signal); start += step {
		x := make([]float64, padded)
		copy(x, emphasized[start:start+size])
		window.Apply(x[:size], window.Hamming)

		ps := sfcmath.PowerSpectrum(x)
		var energy mat.VecDense
		energy.MulVec(bank, mat.NewVecDense(len(ps), ps))
		for i := 0; i < m.filters; i++ {
			energy.SetVec(i, math.Log(math.Max(energy.AtVec(i), minEnergy)))
		}
		var c mat.VecDense
		c.MulVec(dct, &energy)
		frames = append(frames, c.RawVector().Data)
	}
	return frames
}

// Differential appends to every frame its difference to the next one.
// The result has one frame less than the input.
func Differential(raw [][]float64) ([][]float64, error) {
	if len(raw) < 2 {
		return nil, fmt.Errorf("%d frames: %w", len(raw), TooShortErr)
	}
	frames := make([][]float64, len(raw)-1)
	for i := range frames {
		n := len(raw[i])
		v := make([]float64, 2*n)
		copy(v, raw[i])
		copy(v[n:], sfcmath.Sub(raw[i+1], raw[i]))
		frames[i] = v
	}
	return frames, nil
}

func hzToMel(f float64) float64 {
	return 2595 * math.Log10(1+f/700)
}

func melToHz(m float64) float64 {
	return 700 * (math.Pow(10, m/2595) - 1)
}

// melBank builds the triangular filters over the power spectrum bins of an n-point transform.
func melBank(filters, n, sampleRate int) *mat.Dense {
	bins := n/2 + 1
	top := hzToMel(float64(sampleRate) / 2)
	// filter edges in fractional bins
	edges := make([]float64, filters+2)
	for i := range edges {
		edges[i] = melToHz(top*float64(i)/float64(filters+1)) * float64(n) / float64(sampleRate)
	}
	bank := mat.NewDense(filters, bins, nil)
	for f := 0; f < filters; f++ {
		lo, mid, hi := edges[f], edges[f+1], edges[f+2]
		for k := 0; k < bins; k++ {
			x := float64(k)
			switch {
			case x > lo && x <= mid:
				bank.Set(f, k, (x-lo)/(mid-lo))
			case x > mid && x < hi:
				bank.Set(f, k, (hi-x)/(hi-mid))
			}
		}
	}
	return bank
}

// dctMatrix is the DCT-II basis mapping the filter log energies to the coefficients.
func dctMatrix(coefficients, filters int) *mat.Dense {
	d := mat.NewDense(coefficients, filters, nil)
	for k := 0; k < coefficients; k++ {
		for n := 0; n < filters; n++ {
			d.Set(k, n, math.Cos(math.Pi*float64(k)*(float64(n)+0.5)/float64(filters)))
		}
	}
	return d
}
