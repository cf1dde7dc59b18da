package audio

import (
	"math"
	"math/rand/v2"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"

	"github.com/shacgolf/shac-golf/constant"
	"github.com/shacgolf/shac-golf/vmath"
)

const twoPi = 2 * math.Pi

// Shape names a waveform generator family
type Shape int

const (
	ShapePureTone Shape = iota
	ShapeAnalog
	ShapePercussion
	ShapeBell
	ShapePluck
	ShapeBreath
	ShapeMetallic
	ShapePad
	ShapeNoise
	ShapeClick
	ShapeChime
	ShapeSimpleBell
	ShapePing
	ShapeWhistle
	ShapeGong
	ShapeHarp
	ShapeTestTone
	shapeCount
)

var shapeNames = [shapeCount]string{
	"pure", "analog", "percussion", "bell", "pluck", "breath", "metallic", "pad",
	"noise", "click", "chime", "simple_bell", "ping", "whistle", "gong", "harp", "test_tone",
}

func (s Shape) String() string {
	if s < 0 || s >= shapeCount {
		return "unknown"
	}
	return shapeNames[s]
}

// Deterministic reports whether repeated generation yields identical samples
func (s Shape) Deterministic() bool {
	return s != ShapeNoise && s != ShapeBreath
}

// Generate dispatches to the named shape; freq is ignored by fixed-pitch shapes
func Generate(s Shape, sampleRate int, freq, seconds float64) *Buffer {
	switch s {
	case ShapePureTone:
		return PureTone(sampleRate, freq, seconds)
	case ShapeAnalog:
		return AnalogTone(sampleRate, freq, seconds)
	case ShapePercussion:
		return PercussionTone(sampleRate, freq, seconds)
	case ShapeBell:
		return BellTone(sampleRate, freq, seconds)
	case ShapePluck:
		return PluckedString(sampleRate, freq, seconds)
	case ShapeBreath:
		return BreathTone(sampleRate, freq, seconds)
	case ShapeMetallic:
		return MetallicTone(sampleRate, freq, seconds)
	case ShapePad:
		return PadTone(sampleRate, freq, seconds)
	case ShapeNoise:
		return WhiteNoise(sampleRate, seconds)
	case ShapeClick:
		return Click(sampleRate)
	case ShapeChime:
		return Chime(sampleRate, seconds)
	case ShapeSimpleBell:
		return SimpleBell(sampleRate, seconds)
	case ShapePing:
		return Ping(sampleRate, seconds)
	case ShapeWhistle:
		return Whistle(sampleRate, seconds)
	case ShapeGong:
		return GongChord(sampleRate, seconds)
	case ShapeHarp:
		return Harp(sampleRate, seconds)
	case ShapeTestTone:
		return TestTone(sampleRate, freq, seconds)
	default:
		return PureTone(sampleRate, constant.FallbackToneFreq, seconds)
	}
}

// --- Rendering helpers ---

// clampSample enforces the [-1, 1] ceiling and scrubs non-finite values
func clampSample(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return vmath.Clamp(v, -1, 1)
}

// renderMono fills round(sampleRate*seconds) samples from fn(i, t)
func renderMono(sampleRate int, seconds float64, fn func(i int, t float64) float64) *Buffer {
	n := sampleCount(sampleRate, seconds)
	data := make([]float64, n)
	sr := float64(sampleRate)
	for i := range data {
		data[i] = clampSample(fn(i, float64(i)/sr))
	}
	return newBuffer(sampleRate, data)
}

// renderStereo is renderMono per channel
func renderStereo(sampleRate int, seconds float64, fn func(ch int, t float64) float64) *Buffer {
	n := sampleCount(sampleRate, seconds)
	sr := float64(sampleRate)
	out := make([][]float64, 2)
	for ch := range out {
		data := make([]float64, n)
		for i := range data {
			data[i] = clampSample(fn(ch, float64(i)/sr))
		}
		out[ch] = data
	}
	return newBuffer(sampleRate, out...)
}

// harmonicLimit caps a harmonic count below Nyquist
func harmonicLimit(sampleRate int, freq float64, max int) int {
	if freq <= 0 {
		return 0
	}
	n := int(math.Floor(float64(sampleRate) / (2 * freq)))
	if n > max {
		return max
	}
	return n
}

// --- Section: core shapes ---

// PureTone is a sinusoid with linear ramps at both ends to avoid clicks
func PureTone(sampleRate int, freq, seconds float64) *Buffer {
	ramp := math.Min(constant.PureToneRamp, seconds*constant.PureToneRampFraction)
	return renderMono(sampleRate, seconds, func(_ int, t float64) float64 {
		env := 1.0
		if ramp > 0 {
			env = math.Min(1, math.Min(t/ramp, (seconds-t)/ramp))
		}
		if env < 0 {
			env = 0
		}
		return math.Sin(twoPi*freq*t) * env * constant.PureToneAmplitude
	})
}

// AnalogTone stacks up to 8 harmonics at 1/h with vibrato and a closing brightness sweep
func AnalogTone(sampleRate int, freq, seconds float64) *Buffer {
	harmonics := harmonicLimit(sampleRate, freq, constant.AnalogMaxHarmonics)
	return renderMono(sampleRate, seconds, func(_ int, t float64) float64 {
		sample := 0.0
		for h := 1; h <= harmonics; h++ {
			fh := float64(h)
			sample += math.Sin(twoPi*freq*fh*t) / fh
		}
		sample *= constant.AnalogStackGain

		sample *= 1 + math.Sin(twoPi*constant.AnalogVibratoHz*t)*constant.AnalogVibratoDepth

		brightness := math.Exp(-t * constant.AnalogBrightnessRate)
		sample *= constant.AnalogBrightnessBase + brightness*(1-constant.AnalogBrightnessBase)

		attack := math.Min(1, t*constant.AnalogAttackRate)
		decay := math.Max(constant.AnalogDecayFloor, math.Exp(-t*constant.AnalogDecayRate))
		return sample * attack * decay * constant.AnalogAmplitude
	})
}

// PercussionTone drops pitch from 3x base to base with stacked 2x/3x punch
// Phase is accumulated so the pitch envelope bends frequency, not time
func PercussionTone(sampleRate int, baseFreq, seconds float64) *Buffer {
	sr := float64(sampleRate)
	phase := 0.0
	return renderMono(sampleRate, seconds, func(_ int, t float64) float64 {
		freq := baseFreq * (1 + (constant.PercussionPitchStart-1)*math.Exp(-constant.PercussionPitchRate*t))

		sample := math.Sin(phase)
		sample += math.Sin(2*phase) * constant.Percussion2xGain * math.Exp(-constant.Percussion2xRate*t)
		sample += math.Sin(3*phase) * constant.Percussion3xGain * math.Exp(-constant.Percussion3xRate*t)

		phase += twoPi * freq / sr
		if phase > twoPi*1e6 {
			phase = math.Mod(phase, twoPi)
		}

		return sample * math.Exp(-t*constant.PercussionAmpRate) * constant.PercussionAmplitude
	})
}

var (
	bellRatios     = [constant.BellPartialCnt]float64{1.0, 2.76, 5.18, 8.23, 11.34}
	bellAmplitudes = [constant.BellPartialCnt]float64{1.0, 0.6, 0.4, 0.25, 0.15}
)

// BellTone sums five inharmonic partials, higher partials decaying faster
func BellTone(sampleRate int, fundamental, seconds float64) *Buffer {
	return renderMono(sampleRate, seconds, func(_ int, t float64) float64 {
		sample := 0.0
		for p, ratio := range bellRatios {
			decay := math.Exp(-t * (constant.BellDecayBase + float64(p)*constant.BellDecayStep))
			sample += math.Sin(twoPi*fundamental*ratio*t) * bellAmplitudes[p] * decay
		}
		sample *= 1 + math.Sin(twoPi*constant.BellDetuneHz*t)*constant.BellDetune
		return sample * constant.BellAmplitude
	})
}

// PluckedString uses 1/h^2 harmonics with a pluck transient over a slow sustain
func PluckedString(sampleRate int, freq, seconds float64) *Buffer {
	harmonics := harmonicLimit(sampleRate, freq, constant.PluckMaxHarmonics)
	return renderMono(sampleRate, seconds, func(_ int, t float64) float64 {
		sample := 0.0
		for h := 1; h <= harmonics; h++ {
			fh := float64(h)
			sample += math.Sin(twoPi*freq*fh*t) / (fh * fh) * math.Exp(-t*fh*constant.PluckHarmonicRate)
		}
		attack := math.Exp(-t*constant.PluckAttackRate) * constant.PluckAttackGain
		sustain := math.Exp(-t*constant.PluckSustainRate) * constant.PluckSustainGain
		return sample * math.Max(attack, sustain) * constant.PluckAmplitude
	})
}

// BreathTone adds noise concentrated around the midpoint; non-deterministic
func BreathTone(sampleRate int, freq, seconds float64) *Buffer {
	mid := seconds / 2
	peak := seconds * constant.BreathPeakFraction
	return renderMono(sampleRate, seconds, func(_ int, t float64) float64 {
		sample := math.Sin(twoPi * freq * t)

		noise := (rand.Float64() - 0.5) * constant.BreathNoiseGain
		sample += noise * math.Exp(-math.Abs(t-mid)*constant.BreathNoiseFalloff)

		sample *= 1 + math.Sin(twoPi*constant.BreathVibratoHz*t)*constant.BreathVibratoDepth

		attack := math.Min(1, t*constant.BreathAttackRate)
		decay := math.Max(constant.BreathDecayFloor, math.Exp(-math.Pow(t-peak, 2)*constant.BreathPeakWidth))
		return sample * attack * decay * constant.BreathAmplitude
	})
}

type metallicPartial struct {
	ratio, amp, decay float64
}

var metallicPartials = [...]metallicPartial{
	{1.0, 1.0, 0.3},
	{1.61, 0.7, 0.5},
	{2.41, 0.4, 0.8},
	{3.83, 0.25, 1.2},
	{5.67, 0.15, 1.8},
}

// MetallicTone is a gong-like inharmonic stack with a fast high shimmer
func MetallicTone(sampleRate int, fundamental, seconds float64) *Buffer {
	return renderMono(sampleRate, seconds, func(_ int, t float64) float64 {
		sample := 0.0
		for _, p := range metallicPartials {
			sample += math.Sin(twoPi*fundamental*p.ratio*t) * p.amp * math.Exp(-t*p.decay)
		}
		sample += math.Sin(twoPi*fundamental*constant.MetallicShimmerRatio*t) *
			constant.MetallicShimmerGain * math.Exp(-t*constant.MetallicShimmerRate)
		return sample * constant.MetallicAmplitude
	})
}

var padDetunes = [...]float64{-0.05, 0, 0.03, 0.07}

// PadTone layers four detuned voices plus octaves under a slow filter sweep
func PadTone(sampleRate int, freq, seconds float64) *Buffer {
	return renderMono(sampleRate, seconds, func(_ int, t float64) float64 {
		sample := 0.0
		for _, d := range padDetunes {
			f := freq * (1 + d)
			sample += math.Sin(twoPi*f*t) * constant.PadVoiceGain
			sample += math.Sin(twoPi*f*2*t) * constant.PadOctaveGain
		}
		sample *= math.Sin(twoPi*constant.PadFilterHz*t)*constant.PadFilterDepth + constant.PadFilterBase

		attack := math.Min(1, t*constant.PadAttackRate)
		sustain := math.Max(constant.PadSustainFlr, math.Exp(-t*constant.PadSustainRate))
		return sample * attack * sustain * constant.PadAmplitude
	})
}

// WhiteNoise is uniform noise at low amplitude; non-deterministic
func WhiteNoise(sampleRate int, seconds float64) *Buffer {
	return renderMono(sampleRate, seconds, func(_ int, _ float64) float64 {
		return (rand.Float64()*2 - 1) * constant.WhiteNoiseAmplitude
	})
}

// Click is a 10ms 1kHz tick for non-spatial UI feedback
func Click(sampleRate int) *Buffer {
	n := float64(sampleCount(sampleRate, constant.ClickDuration))
	return renderMono(sampleRate, constant.ClickDuration, func(i int, t float64) float64 {
		return math.Sin(twoPi*constant.ClickFrequency*t) * math.Exp(-float64(i)/(n*constant.ClickDecayFraction))
	})
}

// --- Section: default pack shapes ---

var chimeFreqs = [...]float64{523.25, 659.25, 783.99} // C5 E5 G5

// Chime is a stereo C major triad with a slight per-channel phase spread
func Chime(sampleRate int, seconds float64) *Buffer {
	return renderStereo(sampleRate, seconds, func(ch int, t float64) float64 {
		sample := 0.0
		for idx, f := range chimeFreqs {
			offset := float64(ch) * 0.01 * float64(idx)
			sample += math.Sin(twoPi * f * (t + offset))
		}
		return sample * math.Exp(-t*2) * 0.25 / float64(len(chimeFreqs))
	})
}

var simpleBellPartials = [...]struct{ freq, amp float64 }{
	{261.63, 1.0},
	{524.32, 0.7},
	{786.48, 0.5},
	{1051.2, 0.3},
	{1574.8, 0.2},
}

// SimpleBell is a fixed-pitch bell around C4
func SimpleBell(sampleRate int, seconds float64) *Buffer {
	return renderMono(sampleRate, seconds, func(_ int, t float64) float64 {
		sample := 0.0
		for _, p := range simpleBellPartials {
			sample += math.Sin(twoPi*p.freq*t) * p.amp
		}
		return sample * math.Exp(-t*1.5) * 0.3 / float64(len(simpleBellPartials))
	})
}

// Ping is a 1kHz blip bending downward
func Ping(sampleRate int, seconds float64) *Buffer {
	return renderMono(sampleRate, seconds, func(_ int, t float64) float64 {
		freq := 1000 * math.Exp(-t*0.5)
		return math.Sin(twoPi*freq*t) * math.Exp(-t*8) * 0.4
	})
}

// Whistle is 800Hz with 5Hz vibrato and 200ms ramps
func Whistle(sampleRate int, seconds float64) *Buffer {
	return renderMono(sampleRate, seconds, func(_ int, t float64) float64 {
		env := math.Max(0, math.Min(1, math.Min(t*5, (seconds-t)*5))) * 0.25
		freq := 800 * (1 + math.Sin(twoPi*5*t)*0.02)
		return math.Sin(twoPi*freq*t) * env
	})
}

var gongPartials = [...]struct{ freq, amp float64 }{
	{82.41, 1.0},
	{123.47, 0.8},
	{164.81, 0.6},
	{207.65, 0.5},
	{246.94, 0.4},
	{293.66, 0.3},
	{329.63, 0.25},
	{392.00, 0.2},
}

// GongChord is a stereo low chord with slow shimmer
func GongChord(sampleRate int, seconds float64) *Buffer {
	return renderStereo(sampleRate, seconds, func(ch int, t float64) float64 {
		shimmer := 1 + math.Sin(twoPi*0.5*t)*0.1
		sample := 0.0
		for idx, p := range gongPartials {
			offset := float64(ch) * 0.05 * float64(idx)
			sample += math.Sin(twoPi*p.freq*shimmer*(t+offset)) * p.amp
		}
		return sample * math.Exp(-t*0.5) * 0.2 / float64(len(gongPartials))
	})
}

var harpRatios = [...]float64{1, 1.125, 1.25, 1.333, 1.5, 1.667, 1.875, 2}

// Harp steps up a major scale over C4 eight notes per second
func Harp(sampleRate int, seconds float64) *Buffer {
	const base = 261.63
	return renderStereo(sampleRate, seconds, func(_ int, t float64) float64 {
		note := int(math.Floor(t*8)) % len(harpRatios)
		env := math.Exp(-math.Mod(t, 0.25)*8) * 0.2
		return math.Sin(twoPi*base*harpRatios[note]*t) * env
	})
}

// TestTone is an unshaped calibration sine, streamed from beep's generator
func TestTone(sampleRate int, freq, seconds float64) *Buffer {
	n := sampleCount(sampleRate, seconds)
	data := make([]float64, n)

	sine, err := generators.SineTone(beep.SampleRate(sampleRate), freq)
	if err != nil {
		// Above Nyquist or invalid; fall back to direct synthesis
		sr := float64(sampleRate)
		for i := range data {
			data[i] = math.Sin(twoPi*freq*float64(i)/sr) * constant.TestToneAmplitude
		}
		return newBuffer(sampleRate, data)
	}

	chunk := make([][2]float64, 512)
	for pos := 0; pos < n; {
		want := n - pos
		if want > len(chunk) {
			want = len(chunk)
		}
		got, ok := sine.Stream(chunk[:want])
		for i := 0; i < got; i++ {
			data[pos+i] = clampSample(chunk[i][0] * constant.TestToneAmplitude)
		}
		pos += got
		if !ok || got == 0 {
			break
		}
	}
	return newBuffer(sampleRate, data)
}
