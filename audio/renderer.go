package audio

// GainSource supplies live left/right gains; read once per render chunk
type GainSource interface {
	Gains() (left, right float64)
}

// fixedGain is a non-spatial gain pair for UI sounds
type fixedGain struct {
	left, right float64
}

func (g fixedGain) Gains() (float64, float64) { return g.left, g.right }

// Voice is one sounding instance on a renderer
type Voice interface {
	// Stop halts rendering; returns ErrVoiceStopped if the voice already ended or was stopped
	Stop() error
	// Done reports whether the voice finished or was stopped
	Done() bool
}

// Renderer is the platform audio primitive
// onEnd passed to Render runs at most once, on its own goroutine, and only on natural end
type Renderer interface {
	Name() string
	Start(sampleRate int) error
	Render(buf *Buffer, frames int, gains GainSource, onEnd func()) (Voice, error)
	SetVolume(v float64)
	Close() error
}

// clampFrames limits frames to the buffer length; <= 0 means whole buffer
func clampFrames(buf *Buffer, frames int) int {
	if frames <= 0 || frames > buf.Len() {
		return buf.Len()
	}
	return frames
}
