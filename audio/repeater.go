package audio

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shacgolf/shac-golf/logger"
	"github.com/shacgolf/shac-golf/spatial"
	"github.com/shacgolf/shac-golf/vmath"
)

// repeatVoice is one ephemeral trigger of the repeater
type repeatVoice struct {
	source *Source
	panner *spatial.Panner
	voice  Voice
	until  time.Time
}

// Repeater re-triggers a short clip at a target on a fixed cadence
// Each trigger is a fresh Source sharing one buffer; the golf-mode Controller is untouched
type Repeater struct {
	buf      *Buffer
	clip     time.Duration
	period   time.Duration
	listener *spatial.Listener
	params   spatial.PannerParams
	renderer Renderer
	log      *slog.Logger

	mu     sync.Mutex
	target vmath.Vec3F
	voices []*repeatVoice

	triggers atomic.Int64
	running  atomic.Bool
	closed   atomic.Bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewRepeater(r Renderer, listener *spatial.Listener, buf *Buffer, target vmath.Vec3F, clip, period time.Duration, log *slog.Logger) *Repeater {
	if log == nil {
		log = logger.Discard()
	}
	return &Repeater{
		buf:      buf,
		clip:     clip,
		period:   period,
		listener: listener,
		params:   spatial.DefaultPannerParams(),
		renderer: r,
		log:      log,
		target:   target,
		stopChan: make(chan struct{}),
	}
}

// Start triggers immediately and then once per period until Stop
// A stopped repeater does not restart
func (rp *Repeater) Start() {
	if rp.closed.Load() || !rp.running.CompareAndSwap(false, true) {
		return
	}
	rp.wg.Add(1)
	rp.trigger()
	go rp.loop()
}

func (rp *Repeater) loop() {
	defer rp.wg.Done()
	ticker := time.NewTicker(rp.period)
	defer ticker.Stop()

	for {
		select {
		case <-rp.stopChan:
			return
		case <-ticker.C:
			rp.trigger()
		}
	}
}

func (rp *Repeater) trigger() {
	rp.mu.Lock()
	target := rp.target
	rp.mu.Unlock()

	rv := &repeatVoice{
		source: NewSource(rp.buf, target),
		panner: spatial.NewPanner(rp.params),
		until:  time.Now().Add(rp.clip),
	}
	rv.panner.Update(target, rp.listener.Snapshot())

	if rp.renderer != nil {
		frames := sampleCount(rp.buf.SampleRate(), rp.clip.Seconds())
		v, err := rp.renderer.Render(rp.buf, frames, rv.panner, nil)
		if err != nil {
			rp.log.Debug("repeater render failed", "err", err)
		} else {
			rv.voice = v
		}
	}

	rp.mu.Lock()
	// Stop already collected the live voices
	if rp.closed.Load() {
		rp.mu.Unlock()
		if rv.voice != nil {
			_ = rv.voice.Stop()
		}
		return
	}
	rp.voices = append(rp.pruneLocked(time.Now()), rv)
	rp.mu.Unlock()
	rp.triggers.Add(1)
}

// pruneLocked drops triggers that have finished or outlived the clip
func (rp *Repeater) pruneLocked(now time.Time) []*repeatVoice {
	live := rp.voices[:0]
	for _, rv := range rp.voices {
		if rv.voice != nil && rv.voice.Done() {
			continue
		}
		if rv.voice == nil && now.After(rv.until) {
			continue
		}
		live = append(live, rv)
	}
	return live
}

// SetTarget moves the target; sounding triggers follow it
func (rp *Repeater) SetTarget(p vmath.Vec3F) {
	rp.mu.Lock()
	rp.target = p
	for _, rv := range rp.voices {
		rv.source.SetPosition(p)
	}
	rp.mu.Unlock()
	rp.Reposition()
}

func (rp *Repeater) Target() vmath.Vec3F {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	return rp.target
}

// Reposition refreshes every live trigger against the listener
func (rp *Repeater) Reposition() {
	state := rp.listener.Snapshot()
	rp.mu.Lock()
	for _, rv := range rp.voices {
		rv.panner.Update(rv.source.Position(), state)
	}
	rp.mu.Unlock()
}

// DistanceFrom returns the distance between the target and p
func (rp *Repeater) DistanceFrom(p vmath.Vec3F) float64 {
	return spatial.Distance(rp.Target(), p)
}

// Triggers counts triggers fired since Start
func (rp *Repeater) Triggers() int64 {
	return rp.triggers.Load()
}

// Active returns the number of triggers still sounding
func (rp *Repeater) Active() int {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	rp.voices = rp.pruneLocked(time.Now())
	return len(rp.voices)
}

func (rp *Repeater) Running() bool {
	return rp.running.Load()
}

// Stop halts the cadence and silences live triggers; idempotent
func (rp *Repeater) Stop() {
	rp.closed.Store(true)
	if !rp.running.CompareAndSwap(true, false) {
		return
	}
	close(rp.stopChan)
	rp.wg.Wait()

	rp.mu.Lock()
	voices := rp.voices
	rp.voices = nil
	rp.mu.Unlock()

	for _, rv := range voices {
		if rv.voice != nil {
			_ = rv.voice.Stop()
		}
	}
}
