package audio

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/pkg/errors"

	"github.com/shacgolf/shac-golf/constant"
)

// speakerDevice is the process-wide beep speaker; beep allows a single Init
type speakerDevice struct {
	once sync.Once
	err  error
	rate int
}

var (
	device = &speakerDevice{}

	// Replaced in tests
	speakerInit = speaker.Init
	speakerPlay = func(s beep.Streamer) { speaker.Play(s) }
)

// open initializes the device once; later callers must request the same rate
func (d *speakerDevice) open(sampleRate int) error {
	d.once.Do(func() {
		sr := beep.SampleRate(sampleRate)
		if err := speakerInit(sr, sr.N(constant.SpeakerBufferDuration)); err != nil {
			d.err = errors.Wrapf(ErrPlatformUnavailable, "speaker init: %v", err)
			return
		}
		d.rate = sampleRate
	})
	if d.err != nil {
		return d.err
	}
	if d.rate != sampleRate {
		return errors.Wrapf(ErrPlatformUnavailable, "speaker already open at %d Hz, requested %d Hz", d.rate, sampleRate)
	}
	return nil
}

// speakerRenderer owns one mixer attached to the shared speaker
// Close detaches it; the device itself stays open for later renderers
type speakerRenderer struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      *effects.Volume
	attach      *beep.Ctrl
	initialized bool
}

func newSpeakerRenderer() *speakerRenderer {
	return &speakerRenderer{}
}

func (r *speakerRenderer) Name() string { return "speaker" }

// Start opens the device if needed and attaches a fresh mixer
func (r *speakerRenderer) Start(sampleRate int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return nil
	}
	if err := device.open(sampleRate); err != nil {
		return err
	}

	r.mixer = &beep.Mixer{}
	r.volume = &effects.Volume{Streamer: r.mixer, Base: 2}
	r.attach = &beep.Ctrl{Streamer: r.volume}
	speakerPlay(r.attach)
	r.initialized = true
	return nil
}

// SetVolume maps linear 0-1 onto the log2 volume effect
func (r *speakerRenderer) SetVolume(v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized {
		return
	}

	speaker.Lock()
	if v <= 0 {
		r.volume.Silent = true
	} else {
		r.volume.Silent = false
		r.volume.Volume = math.Log2(clampVolume(v))
	}
	speaker.Unlock()
}

func (r *speakerRenderer) Render(buf *Buffer, frames int, gains GainSource, onEnd func()) (Voice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized {
		return nil, ErrRendererClosed
	}

	v := &speakerVoice{
		buf:    buf,
		frames: clampFrames(buf, frames),
		gains:  gains,
	}
	v.ctrl = &beep.Ctrl{
		Streamer: beep.Seq(v, beep.Callback(func() {
			// Runs under the speaker lock; hand off before touching callers
			if v.stopped.CompareAndSwap(false, true) && onEnd != nil {
				go onEnd()
			}
		})),
	}

	speaker.Lock()
	r.mixer.Add(v.ctrl)
	speaker.Unlock()
	return v, nil
}

// Close stops all voices and detaches the mixer
func (r *speakerRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized {
		return nil
	}

	speaker.Lock()
	r.mixer.Clear()
	r.attach.Streamer = nil // speaker mixer drops the drained ctrl
	speaker.Unlock()

	r.initialized = false
	return nil
}

// speakerVoice streams a buffer with live gains; pos is owned by the speaker goroutine
type speakerVoice struct {
	buf     *Buffer
	frames  int
	pos     int
	gains   GainSource
	ctrl    *beep.Ctrl
	stopped atomic.Bool
}

func (v *speakerVoice) Stream(samples [][2]float64) (n int, ok bool) {
	if v.pos >= v.frames {
		return 0, false
	}
	left, right := v.gains.Gains()
	for i := range samples {
		if v.pos >= v.frames {
			break
		}
		l, r := v.buf.Frame(v.pos)
		samples[i][0] = l * left
		samples[i][1] = r * right
		v.pos++
		n++
	}
	return n, true
}

func (v *speakerVoice) Err() error { return nil }

func (v *speakerVoice) Stop() error {
	if !v.stopped.CompareAndSwap(false, true) {
		return ErrVoiceStopped
	}
	speaker.Lock()
	v.ctrl.Streamer = nil
	speaker.Unlock()
	return nil
}

func (v *speakerVoice) Done() bool { return v.stopped.Load() }
