package audio

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/shacgolf/shac-golf/logger"
	"github.com/shacgolf/shac-golf/spatial"
)

// Playback is one run of a source through the controller
type Playback struct {
	source *Source
	panner *spatial.Panner

	voice Voice
	timer *time.Timer

	finished atomic.Bool
	natural  bool
	done     chan struct{}
}

func (p *Playback) Source() *Source { return p.source }

// Done is closed once the playback completes or is stopped
func (p *Playback) Done() <-chan struct{} { return p.done }

// Finished reports whether the playback ended naturally rather than by Stop
// Valid only after Done is closed
func (p *Playback) Finished() bool { return p.natural }

// Gains returns the current left/right panner gains
func (p *Playback) Gains() (left, right float64) { return p.panner.Gains() }

// Controller owns the single current source of golf mode
// States: Idle -> Playing -> Idle, via natural completion or Stop
type Controller struct {
	listener *spatial.Listener
	params   spatial.PannerParams
	log      *slog.Logger

	mu         sync.Mutex
	renderer   Renderer // nil plays silently on a timer
	current    *Playback
	onComplete func(*Source)
}

func NewController(r Renderer, listener *spatial.Listener, log *slog.Logger) *Controller {
	if log == nil {
		log = logger.Discard()
	}
	return &Controller{
		listener: listener,
		params:   spatial.DefaultPannerParams(),
		log:      log,
		renderer: r,
	}
}

// SetRenderer swaps the output primitive; nil selects silent playback
func (c *Controller) SetRenderer(r Renderer) {
	c.mu.Lock()
	c.renderer = r
	c.mu.Unlock()
}

// OnComplete registers fn for natural completions; runs on a background goroutine
func (c *Controller) OnComplete(fn func(*Source)) {
	c.mu.Lock()
	c.onComplete = fn
	c.mu.Unlock()
}

// Play stops any current playback and starts src
// limit > 0 truncates the render from the buffer start and ends the playback after limit
// A nil source or one without a buffer is ignored and returns nil
func (c *Controller) Play(src *Source, limit time.Duration) *Playback {
	if src == nil {
		return nil
	}
	buf := src.Buffer()
	if buf == nil {
		c.log.Debug("source has no buffer, ignoring play")
		return nil
	}

	pb := &Playback{
		source: src,
		panner: spatial.NewPanner(c.params),
		done:   make(chan struct{}),
	}
	// Position before the renderer sees the first chunk
	pb.panner.Update(src.Position(), c.listener.Snapshot())

	c.mu.Lock()
	prev := c.current
	c.current = pb
	r := c.renderer
	c.mu.Unlock()

	if prev != nil {
		c.halt(prev)
	}

	frames := 0
	if limit > 0 {
		frames = sampleCount(buf.SampleRate(), limit.Seconds())
	}

	if r != nil {
		voice, err := r.Render(buf, frames, pb.panner, func() { c.complete(pb) })
		if err != nil {
			c.log.Debug("render failed, playing silently", "renderer", r.Name(), "err", err)
		} else {
			c.mu.Lock()
			pb.voice = voice
			c.mu.Unlock()
			// Superseded while rendering
			if pb.finished.Load() {
				c.stopVoice(voice)
			}
		}
	}

	c.mu.Lock()
	hasVoice := pb.voice != nil
	c.mu.Unlock()

	// Timer covers the duration limit and voiceless playback; first to fire wins
	if limit > 0 || !hasVoice {
		d := limit
		if d <= 0 {
			d = buf.Duration()
		}
		t := time.AfterFunc(d, func() { c.complete(pb) })
		c.mu.Lock()
		pb.timer = t
		c.mu.Unlock()
		if pb.finished.Load() {
			t.Stop()
		}
	}

	return pb
}

// complete is the natural-end transition; safe from both timer and renderer
func (c *Controller) complete(pb *Playback) {
	if !pb.finished.CompareAndSwap(false, true) {
		return
	}
	pb.natural = true

	c.mu.Lock()
	if c.current == pb {
		c.current = nil
	}
	voice, timer, fn := pb.voice, pb.timer, c.onComplete
	c.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	if voice != nil {
		c.stopVoice(voice)
	}
	close(pb.done)

	if fn != nil {
		fn(pb.source)
	}
}

// halt is the explicit-stop transition
func (c *Controller) halt(pb *Playback) {
	if !pb.finished.CompareAndSwap(false, true) {
		return
	}

	c.mu.Lock()
	voice, timer := pb.voice, pb.timer
	c.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	if voice != nil {
		c.stopVoice(voice)
	}
	close(pb.done)
}

func (c *Controller) stopVoice(v Voice) {
	if err := v.Stop(); err != nil {
		if errors.Is(err, ErrVoiceStopped) {
			c.log.Debug("voice already stopped")
			return
		}
		c.log.Warn("voice stop failed", "err", err)
	}
}

// Stop ends the current playback; no-op when idle
func (c *Controller) Stop() {
	c.mu.Lock()
	pb := c.current
	c.current = nil
	c.mu.Unlock()

	if pb != nil {
		c.halt(pb)
	}
}

// Reposition refreshes the current playback's panner from source and listener
func (c *Controller) Reposition() {
	c.mu.Lock()
	pb := c.current
	c.mu.Unlock()

	if pb != nil {
		pb.panner.Update(pb.source.Position(), c.listener.Snapshot())
	}
}

func (c *Controller) State() PlaybackState {
	if c.IsPlaying() {
		return StatePlaying
	}
	return StateIdle
}

func (c *Controller) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}

// Current returns the current source, nil when idle
func (c *Controller) Current() *Source {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	return c.current.source
}

// CurrentPlayback returns the current playback, nil when idle
func (c *Controller) CurrentPlayback() *Playback {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}
