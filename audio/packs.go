package audio

import (
	"github.com/shacgolf/shac-golf/constant"
)

// DefaultPack builds the plain procedural pack (2s sounds)
func DefaultPack(sampleRate int) *Pack {
	d := constant.DefaultPackDuration
	return NewPack(constant.DefaultPackName, "Pure sine wave tones").
		Add("tone_low", PureTone(sampleRate, 220, d)).
		Add("tone_mid", PureTone(sampleRate, 440, d)).
		Add("tone_high", PureTone(sampleRate, 880, d)).
		Add("chime", Chime(sampleRate, d)).
		Add("bell", SimpleBell(sampleRate, d)).
		Add("ping", Ping(sampleRate, d)).
		Add("whistle", Whistle(sampleRate, d)).
		Add("gong", GongChord(sampleRate, d)).
		Add("harp", Harp(sampleRate, d))
}

// enhancedVoice describes one sound of the enhanced pack
type enhancedVoice struct {
	name  string
	shape Shape
	freq  float64
}

var enhancedVoices = []enhancedVoice{
	{"analog_bass", ShapeAnalog, 110},  // A2
	{"analog_mid", ShapeAnalog, 220},   // A3
	{"analog_high", ShapeAnalog, 440},  // A4
	{"percussion_low", ShapePercussion, 80},
	{"percussion_mid", ShapePercussion, 120},
	{"bell_warm", ShapeBell, 261.63},   // C4
	{"bell_bright", ShapeBell, 523.25}, // C5
	{"plucked_string", ShapePluck, 329.63},
	{"breath_tone", ShapeBreath, 392},
	{"metallic_shimmer", ShapeMetallic, 174.61},
	{"pad_warm", ShapePad, 196},
}

// EnhancedGenerator produces the richer navigation pack
// Registered into the same Catalog as the default pack
type EnhancedGenerator struct {
	SampleRate int
	Duration   float64
}

func NewEnhancedGenerator(sampleRate int) *EnhancedGenerator {
	return &EnhancedGenerator{SampleRate: sampleRate, Duration: constant.EnhancedPackDuration}
}

// Pack renders every enhanced voice
func (g *EnhancedGenerator) Pack() *Pack {
	p := NewPack(constant.EnhancedPackName, "Rich, multi-dimensional audio designed for spatial navigation")
	for _, v := range enhancedVoices {
		p.Add(v.name, Generate(v.shape, g.SampleRate, v.freq, g.Duration))
	}
	return p
}

// NewStandardCatalog registers default and enhanced packs and activates the enhanced one
func NewStandardCatalog(sampleRate int) *Catalog {
	c := NewCatalog(sampleRate, nil)
	c.RegisterPack(DefaultPack(sampleRate))
	c.RegisterPack(NewEnhancedGenerator(sampleRate).Pack())
	c.Activate(constant.EnhancedPackName)
	return c
}
