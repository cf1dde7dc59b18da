package constant

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate    = 44100
	AudioChannels      = 2
	AudioBitDepth      = 16
	AudioBytesPerFrame = AudioChannels * (AudioBitDepth / 8) // 4 bytes
)

// Audio Engine Timing
const (
	// AudioBufferDuration determines latency and pipe mixer tick rate
	AudioBufferDuration = 50 * time.Millisecond

	// SpeakerBufferDuration is the beep speaker buffer
	SpeakerBufferDuration = 100 * time.Millisecond

	// AudioPlayQueueSize bounds pending voices on the pipe mixer
	AudioPlayQueueSize = 32
)

// Panner: inverse distance model, omnidirectional cone
// Values are tuned for gameplay; beyond MaxDistance a source stays at its floor gain
const (
	PannerRefDistance    = 1.0
	PannerMaxDistance    = 100.0
	PannerRolloffFactor  = 1.0
	PannerConeInnerAngle = 360.0
	PannerConeOuterAngle = 0.0
	PannerConeOuterGain  = 0.0
)

// Gameplay defaults consumed by the playback layer
const (
	DefaultClipDuration = 2 * time.Second
	DefaultHoleRadius   = 1.0

	// Time trial repeating trigger
	RepeatClipDuration = 500 * time.Millisecond
	RepeatPeriod       = 600 * time.Millisecond
	RepeatSound        = "percussion_mid"

	// UI feedback
	ClickVolume = 0.3
	UIVolume    = 0.5
)

// Sound pack defaults
const (
	DefaultPackName      = "default"
	EnhancedPackName     = "enhanced"
	CustomPackName       = "custom"
	DefaultPackDuration  = 2.0 // seconds
	EnhancedPackDuration = 3.0 // seconds
	FallbackToneFreq     = 440.0
	FallbackToneDuration = 2.0
	CustomSoundDuration  = 2.0
)

// Pure tone: linear ramps at both ends, 100ms capped to 5% of duration
const (
	PureToneRamp         = 0.1
	PureToneRampFraction = 0.05
	PureToneAmplitude    = 0.3
)

// Analog: additive saw-like stack
const (
	AnalogMaxHarmonics   = 8
	AnalogStackGain      = 0.6
	AnalogVibratoHz      = 5.0
	AnalogVibratoDepth   = 0.02
	AnalogBrightnessRate = 1.5
	AnalogBrightnessBase = 0.3
	AnalogAttackRate     = 50.0
	AnalogDecayRate      = 0.8
	AnalogDecayFloor     = 0.3
	AnalogAmplitude      = 0.25
)

// Percussion: kick-style pitch drop
const (
	PercussionPitchStart = 3.0 // multiple of base at t=0
	PercussionPitchRate  = 15.0
	Percussion2xGain     = 0.3
	Percussion2xRate     = 10.0
	Percussion3xGain     = 0.15
	Percussion3xRate     = 20.0
	PercussionAmpRate    = 1.2
	PercussionAmplitude  = 0.3
)

// Bell: inharmonic partials
const (
	BellDecayBase  = 0.8
	BellDecayStep  = 0.3
	BellDetuneHz   = 3.1
	BellDetune     = 0.003
	BellAmplitude  = 0.2
	BellPartialCnt = 5
)

// Plucked string
const (
	PluckMaxHarmonics = 12
	PluckHarmonicRate = 0.5
	PluckAttackRate   = 25.0
	PluckAttackGain   = 0.7
	PluckSustainRate  = 0.7
	PluckSustainGain  = 0.3
	PluckAmplitude    = 0.2
)

// Breath
const (
	BreathNoiseGain    = 0.1
	BreathNoiseFalloff = 3.0
	BreathVibratoHz    = 4.5
	BreathVibratoDepth = 0.02
	BreathAttackRate   = 8.0
	BreathPeakFraction = 0.3
	BreathPeakWidth    = 2.0
	BreathDecayFloor   = 0.2
	BreathAmplitude    = 0.25
)

// Metallic
const (
	MetallicShimmerRatio = 8.0
	MetallicShimmerGain  = 0.1
	MetallicShimmerRate  = 5.0
	MetallicAmplitude    = 0.15
)

// Pad
const (
	PadVoiceGain   = 0.25
	PadOctaveGain  = 0.1
	PadFilterHz    = 0.3
	PadFilterDepth = 0.3
	PadFilterBase  = 0.7
	PadAttackRate  = 3.0
	PadSustainRate = 0.2
	PadSustainFlr  = 0.4
	PadAmplitude   = 0.2
)

// Noise and click
const (
	WhiteNoiseAmplitude = 0.1
	ClickDuration       = 0.01 // 10ms
	ClickFrequency      = 1000.0
	ClickDecayFraction  = 0.1
	TestToneAmplitude   = 0.3
)
