package audio

import (
	"sync"
	"sync/atomic"
)

// fakeVoice records one Render call; tests drive completion with end
type fakeVoice struct {
	buf    *Buffer
	frames int
	gains  GainSource
	onEnd  func()

	// gains observed at Render time
	startLeft, startRight float64

	stopped atomic.Bool
}

func (v *fakeVoice) Stop() error {
	if !v.stopped.CompareAndSwap(false, true) {
		return ErrVoiceStopped
	}
	return nil
}

func (v *fakeVoice) Done() bool { return v.stopped.Load() }

// end simulates the renderer reaching the end of the buffer
func (v *fakeVoice) end() {
	if v.stopped.CompareAndSwap(false, true) && v.onEnd != nil {
		v.onEnd()
	}
}

// fakeRenderer is an in-memory Renderer for controller and engine tests
type fakeRenderer struct {
	mu        sync.Mutex
	startErr  error
	renderErr error
	started   bool
	closed    bool
	volume    float64
	voices    []*fakeVoice
}

func (r *fakeRenderer) Name() string { return "fake" }

func (r *fakeRenderer) Start(int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.startErr != nil {
		return r.startErr
	}
	r.started = true
	r.closed = false
	return nil
}

func (r *fakeRenderer) Render(buf *Buffer, frames int, gains GainSource, onEnd func()) (Voice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.renderErr != nil {
		return nil, r.renderErr
	}
	if !r.started || r.closed {
		return nil, ErrRendererClosed
	}
	v := &fakeVoice{
		buf:    buf,
		frames: clampFrames(buf, frames),
		gains:  gains,
		onEnd:  onEnd,
	}
	v.startLeft, v.startRight = gains.Gains()
	r.voices = append(r.voices, v)
	return v, nil
}

func (r *fakeRenderer) SetVolume(v float64) {
	r.mu.Lock()
	r.volume = v
	r.mu.Unlock()
}

func (r *fakeRenderer) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return nil
}

func (r *fakeRenderer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.voices)
}

func (r *fakeRenderer) voice(i int) *fakeVoice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.voices[i]
}

func (r *fakeRenderer) live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, v := range r.voices {
		if !v.Done() {
			n++
		}
	}
	return n
}

func newStartedFake() *fakeRenderer {
	r := &fakeRenderer{}
	_ = r.Start(testRate)
	return r
}

const testRate = 8000
