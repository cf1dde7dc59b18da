package audio

import (
	"encoding/binary"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/shacgolf/shac-golf/constant"
)

// pipeVoice tracks a playing buffer on the pipe mixer
type pipeVoice struct {
	buf     *Buffer
	frames  int
	pos     int // owned by the mix goroutine
	gains   GainSource
	onEnd   func()
	stopped atomic.Bool
}

func (v *pipeVoice) Stop() error {
	if !v.stopped.CompareAndSwap(false, true) {
		return ErrVoiceStopped
	}
	return nil
}

func (v *pipeVoice) Done() bool { return v.stopped.Load() }

// finish marks natural completion and fires onEnd once
func (v *pipeVoice) finish() {
	if v.stopped.CompareAndSwap(false, true) && v.onEnd != nil {
		go v.onEnd()
	}
}

// Mixer mixes voices into s16le stereo and writes to a pipe on a fixed tick
type Mixer struct {
	output     io.Writer
	tick       time.Duration
	frames     int
	volumeBits atomic.Uint64

	playQueue chan *pipeVoice
	stopChan  chan struct{}
	stopped   atomic.Bool
	silent    atomic.Bool

	// Accessed only by mix goroutine
	active []*pipeVoice

	// Stats
	statsMu sync.Mutex
	played  uint64
	dropped uint64

	// Error signaling
	errChan chan error
}

// NewMixer creates a mixer writing sampleRate stereo frames to out
func NewMixer(out io.Writer, sampleRate int) *Mixer {
	m := &Mixer{
		output:    out,
		tick:      constant.AudioBufferDuration,
		frames:    int(int64(sampleRate) * int64(constant.AudioBufferDuration) / int64(time.Second)),
		playQueue: make(chan *pipeVoice, constant.AudioPlayQueueSize),
		stopChan:  make(chan struct{}),
		active:    make([]*pipeVoice, 0, 8),
		errChan:   make(chan error, 1),
	}
	m.SetVolume(1)
	return m
}

// Start begins the mixing loop
func (m *Mixer) Start() {
	go m.loop()
}

// Stop signals the mixer to halt
func (m *Mixer) Stop() {
	if m.stopped.CompareAndSwap(false, true) {
		close(m.stopChan)
	}
}

func (m *Mixer) SetVolume(v float64) {
	m.volumeBits.Store(floatBits(clampVolume(v)))
}

func (m *Mixer) volume() float64 {
	return floatFromBits(m.volumeBits.Load())
}

// Play queues a voice; a full queue drops it and returns false
func (m *Mixer) Play(v *pipeVoice) bool {
	if m.stopped.Load() {
		return false
	}
	select {
	case m.playQueue <- v:
		return true
	default:
		m.statsMu.Lock()
		m.dropped++
		m.statsMu.Unlock()
		return false
	}
}

// Errors returns channel for pipe errors
func (m *Mixer) Errors() <-chan error {
	return m.errChan
}

// Done is closed once Stop is called
func (m *Mixer) Done() <-chan struct{} {
	return m.stopChan
}

// Silent reports whether writes have been abandoned after a pipe error
func (m *Mixer) Silent() bool {
	return m.silent.Load()
}

// loop is the main mixing goroutine
func (m *Mixer) loop() {
	ticker := time.NewTicker(m.tick)
	defer ticker.Stop()

	mixBuf := make([]float64, m.frames*2)
	outBytes := make([]byte, m.frames*constant.AudioBytesPerFrame)

	for {
		select {
		case <-m.stopChan:
			m.stopAll()
			return

		case v := <-m.playQueue:
			m.admit(v)
			m.drainQueue(4)

		case <-ticker.C:
			m.mixActive(mixBuf)
			if m.silent.Load() {
				// Voices keep advancing so completions still fire
				continue
			}
			floatToBytes(mixBuf, outBytes)
			if _, err := m.output.Write(outBytes); err != nil {
				m.silent.Store(true)
				select {
				case m.errChan <- errors.Wrap(ErrPipeClosed, err.Error()):
				default:
				}
			}
		}
	}
}

func (m *Mixer) admit(v *pipeVoice) {
	if v == nil || v.Done() {
		return
	}
	m.active = append(m.active, v)
	m.statsMu.Lock()
	m.played++
	m.statsMu.Unlock()
}

// drainQueue processes up to n additional queued requests
func (m *Mixer) drainQueue(n int) {
	for i := 0; i < n; i++ {
		select {
		case v := <-m.playQueue:
			m.admit(v)
		default:
			return
		}
	}
}

// mixActive mixes active voices into interleaved stereo buf and prunes finished ones
func (m *Mixer) mixActive(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
	frames := len(buf) / 2
	vol := m.volume()

	remaining := m.active[:0]
	for _, v := range m.active {
		if v.Done() {
			continue
		}
		left, right := v.gains.Gains()
		for j := 0; j < frames && v.pos < v.frames; j++ {
			l, r := v.buf.Frame(v.pos)
			buf[2*j] += l * left * vol
			buf[2*j+1] += r * right * vol
			v.pos++
		}
		if v.pos >= v.frames {
			v.finish()
			continue
		}
		remaining = append(remaining, v)
	}
	m.active = remaining
}

// stopAll drops active voices without completion callbacks
func (m *Mixer) stopAll() {
	for _, v := range m.active {
		v.stopped.Store(true)
	}
	m.active = m.active[:0]
}

// floatToBytes converts interleaved float64 stereo to int16 LE bytes
// Applies soft limiting before hard clip
func floatToBytes(in []float64, out []byte) {
	for i, v := range in {
		// Soft limiter (tanh-style)
		if v > 0.8 {
			v = 0.8 + 0.2*(1.0-1.0/(1.0+(v-0.8)*5.0))
		} else if v < -0.8 {
			v = -0.8 - 0.2*(1.0-1.0/(1.0+(-v-0.8)*5.0))
		}

		// Hard clip
		if v > 1.0 {
			v = 1.0
		} else if v < -1.0 {
			v = -1.0
		}

		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(v*32767)))
	}
}

// GetStats returns played and dropped counts
func (m *Mixer) GetStats() (played, dropped uint64) {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	return m.played, m.dropped
}
