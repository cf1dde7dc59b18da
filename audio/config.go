package audio

import (
	"os"
	"strconv"
	"time"

	"github.com/shacgolf/shac-golf/constant"
)

// AudioConfig holds engine settings
type AudioConfig struct {
	Enabled      bool
	Backend      BackendType
	SampleRate   int
	MasterVolume float64 // 0.0-1.0
	SoundPack    string  // pack activated at startup, empty keeps enhanced
	PackFiles    []PackFile

	ClipDuration time.Duration
	HoleRadius   float64

	RepeatClip   time.Duration
	RepeatPeriod time.Duration
}

// DefaultAudioConfig returns the baseline configuration
func DefaultAudioConfig() *AudioConfig {
	return &AudioConfig{
		Enabled:      true,
		Backend:      BackendAuto,
		SampleRate:   constant.AudioSampleRate,
		MasterVolume: 1.0,
		ClipDuration: constant.DefaultClipDuration,
		HoleRadius:   constant.DefaultHoleRadius,
		RepeatClip:   constant.RepeatClipDuration,
		RepeatPeriod: constant.RepeatPeriod,
	}
}

// LoadAudioConfig loads audio configuration from environment variables
// Malformed values are ignored and the default is kept
func LoadAudioConfig() *AudioConfig {
	cfg := DefaultAudioConfig()

	if enabled := os.Getenv("SHAC_GOLF_AUDIO_ENABLED"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Enabled = val
		}
	}

	if backend := os.Getenv("SHAC_GOLF_BACKEND"); backend != "" {
		if val, err := ParseBackend(backend); err == nil {
			cfg.Backend = val
		}
	}

	if sampleRate := os.Getenv("SHAC_GOLF_SAMPLE_RATE"); sampleRate != "" {
		if val, err := strconv.Atoi(sampleRate); err == nil && val > 0 {
			cfg.SampleRate = val
		}
	}

	// Master volume 0-100 converted to 0.0-1.0
	if volume := os.Getenv("SHAC_GOLF_MASTER_VOLUME"); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			cfg.MasterVolume = clampVolume(float64(val) / 100.0)
		}
	}

	if pack := os.Getenv("SHAC_GOLF_SOUND_PACK"); pack != "" {
		cfg.SoundPack = pack
	}

	if clip := os.Getenv("SHAC_GOLF_CLIP_DURATION"); clip != "" {
		if val, err := strconv.ParseFloat(clip, 64); err == nil && val > 0 {
			cfg.ClipDuration = time.Duration(val * float64(time.Second))
		}
	}

	if radius := os.Getenv("SHAC_GOLF_HOLE_RADIUS"); radius != "" {
		if val, err := strconv.ParseFloat(radius, 64); err == nil && val > 0 {
			cfg.HoleRadius = val
		}
	}

	if files := os.Getenv("SHAC_GOLF_PACK_FILES"); files != "" {
		if val, err := ParsePackFiles(files); err == nil {
			cfg.PackFiles = val
		}
	}

	return cfg
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
