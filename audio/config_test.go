package audio

import (
	"testing"
	"time"
)

// TestDefaultAudioConfig verifies default configuration
func TestDefaultAudioConfig(t *testing.T) {
	cfg := DefaultAudioConfig()

	if cfg == nil {
		t.Fatal("Expected non-nil default config")
	}
	if !cfg.Enabled {
		t.Error("Expected default config to have Enabled=true")
	}
	if cfg.Backend != BackendAuto {
		t.Errorf("Expected backend auto, got %s", cfg.Backend)
	}
	if cfg.SampleRate != 44100 {
		t.Errorf("Expected default sample rate 44100, got %d", cfg.SampleRate)
	}
	if cfg.ClipDuration != 2*time.Second {
		t.Errorf("Expected clip duration 2s, got %v", cfg.ClipDuration)
	}
	if cfg.HoleRadius != 1.0 {
		t.Errorf("Expected hole radius 1.0, got %f", cfg.HoleRadius)
	}
	if cfg.RepeatClip != 500*time.Millisecond || cfg.RepeatPeriod != 600*time.Millisecond {
		t.Errorf("Expected repeat 500ms/600ms, got %v/%v", cfg.RepeatClip, cfg.RepeatPeriod)
	}
}

// TestLoadAudioConfigFromEnv verifies every environment override
func TestLoadAudioConfigFromEnv(t *testing.T) {
	t.Setenv("SHAC_GOLF_AUDIO_ENABLED", "false")
	t.Setenv("SHAC_GOLF_BACKEND", "pipe")
	t.Setenv("SHAC_GOLF_SAMPLE_RATE", "22050")
	t.Setenv("SHAC_GOLF_MASTER_VOLUME", "40")
	t.Setenv("SHAC_GOLF_SOUND_PACK", "default")
	t.Setenv("SHAC_GOLF_CLIP_DURATION", "1.5")
	t.Setenv("SHAC_GOLF_HOLE_RADIUS", "2.5")
	t.Setenv("SHAC_GOLF_PACK_FILES", `{"b":"/tmp/b.wav","a":"/tmp/a.wav"}`)

	cfg := LoadAudioConfig()

	if cfg.Enabled {
		t.Error("Expected Enabled=false from env")
	}
	if cfg.Backend != BackendPipe {
		t.Errorf("Expected backend pipe, got %s", cfg.Backend)
	}
	if cfg.SampleRate != 22050 {
		t.Errorf("Expected sample rate 22050, got %d", cfg.SampleRate)
	}
	if cfg.MasterVolume != 0.4 {
		t.Errorf("Expected master volume 0.4, got %f", cfg.MasterVolume)
	}
	if cfg.SoundPack != "default" {
		t.Errorf("Expected sound pack default, got %q", cfg.SoundPack)
	}
	if cfg.ClipDuration != 1500*time.Millisecond {
		t.Errorf("Expected clip 1.5s, got %v", cfg.ClipDuration)
	}
	if cfg.HoleRadius != 2.5 {
		t.Errorf("Expected hole radius 2.5, got %f", cfg.HoleRadius)
	}
	if len(cfg.PackFiles) != 2 || cfg.PackFiles[0].Name != "a" || cfg.PackFiles[1].Path != "/tmp/b.wav" {
		t.Errorf("Expected pack files sorted by name, got %+v", cfg.PackFiles)
	}
}

// TestLoadAudioConfigInvalidValues verifies malformed values keep defaults
func TestLoadAudioConfigInvalidValues(t *testing.T) {
	t.Setenv("SHAC_GOLF_AUDIO_ENABLED", "maybe")
	t.Setenv("SHAC_GOLF_BACKEND", "jack")
	t.Setenv("SHAC_GOLF_SAMPLE_RATE", "-1")
	t.Setenv("SHAC_GOLF_CLIP_DURATION", "0")
	t.Setenv("SHAC_GOLF_HOLE_RADIUS", "abc")
	t.Setenv("SHAC_GOLF_PACK_FILES", "not json")

	cfg := LoadAudioConfig()
	def := DefaultAudioConfig()

	if cfg.Enabled != def.Enabled {
		t.Error("Expected Enabled to keep default")
	}
	if cfg.Backend != def.Backend {
		t.Errorf("Expected backend to keep default, got %s", cfg.Backend)
	}
	if cfg.SampleRate != def.SampleRate {
		t.Errorf("Expected sample rate to keep default, got %d", cfg.SampleRate)
	}
	if cfg.ClipDuration != def.ClipDuration {
		t.Errorf("Expected clip duration to keep default, got %v", cfg.ClipDuration)
	}
	if cfg.HoleRadius != def.HoleRadius {
		t.Errorf("Expected hole radius to keep default, got %f", cfg.HoleRadius)
	}
	if cfg.PackFiles != nil {
		t.Errorf("Expected no pack files, got %+v", cfg.PackFiles)
	}
}

// TestMasterVolumeClamping verifies out-of-range volumes are clamped
func TestMasterVolumeClamping(t *testing.T) {
	tests := []struct {
		env  string
		want float64
	}{
		{"150", 1.0},
		{"-20", 0.0},
		{"0", 0.0},
		{"100", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("SHAC_GOLF_MASTER_VOLUME", tt.env)
			cfg := LoadAudioConfig()
			if cfg.MasterVolume != tt.want {
				t.Errorf("Expected volume %f, got %f", tt.want, cfg.MasterVolume)
			}
		})
	}
}

// TestParseBackend verifies backend names
func TestParseBackend(t *testing.T) {
	tests := []struct {
		in      string
		want    BackendType
		wantErr bool
	}{
		{"", BackendAuto, false},
		{"auto", BackendAuto, false},
		{"speaker", BackendSpeaker, false},
		{"pipe", BackendPipe, false},
		{"none", BackendNone, false},
		{"off", BackendNone, false},
		{"jack", BackendAuto, true},
	}

	for _, tt := range tests {
		got, err := ParseBackend(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBackend(%q) err=%v, wantErr=%v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseBackend(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
