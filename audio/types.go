package audio

import (
	"errors"
)

// BackendType identifies the platform renderer
type BackendType int

const (
	BackendAuto BackendType = iota
	BackendSpeaker
	BackendPipe
	BackendNone
)

func (b BackendType) String() string {
	switch b {
	case BackendAuto:
		return "auto"
	case BackendSpeaker:
		return "speaker"
	case BackendPipe:
		return "pipe"
	case BackendNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParseBackend maps a config name to BackendType
func ParseBackend(name string) (BackendType, error) {
	switch name {
	case "auto", "":
		return BackendAuto, nil
	case "speaker":
		return BackendSpeaker, nil
	case "pipe":
		return BackendPipe, nil
	case "none", "off":
		return BackendNone, nil
	default:
		return BackendAuto, ErrUnknownBackend
	}
}

// PipeBackendType identifies the CLI audio sink used by the pipe renderer
type PipeBackendType int

const (
	PipePulse PipeBackendType = iota
	PipePipeWire
	PipeALSA
	PipeSoX
	PipeFFplay
	PipeOSS
)

// PipeBackendConfig describes a CLI audio backend
type PipeBackendConfig struct {
	Type PipeBackendType
	Name string
	Path string
	Args []string
}

// PlaybackState of the golf-mode controller
type PlaybackState int

const (
	StateIdle PlaybackState = iota
	StatePlaying
)

func (s PlaybackState) String() string {
	if s == StatePlaying {
		return "playing"
	}
	return "idle"
}

// Sentinel errors
var (
	ErrPlatformUnavailable = errors.New("audio platform unavailable")
	ErrNoAudioBackend      = errors.New("no compatible audio backend found")
	ErrUnknownBackend      = errors.New("unknown audio backend")
	ErrPipeClosed          = errors.New("audio pipe closed")
	ErrDecodeFailure       = errors.New("sound decode failed")
	ErrVoiceStopped        = errors.New("voice already stopped")
	ErrRendererClosed      = errors.New("renderer not running")
)
