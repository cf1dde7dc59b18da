package audio

import (
	"io/fs"
	"log/slog"
	"math"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/shacgolf/shac-golf/constant"
	"github.com/shacgolf/shac-golf/logger"
	"github.com/shacgolf/shac-golf/spatial"
	"github.com/shacgolf/shac-golf/vmath"
)

// Target is one stage definition handed in by the course layer
type Target struct {
	Position vmath.Vec3F
	Sound    string // empty picks by index
}

// Option configures an Engine
type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithRenderer bypasses backend detection; Init starts r instead
func WithRenderer(r Renderer) Option {
	return func(e *Engine) { e.injected = r }
}

// WithCatalog replaces the synthesized standard catalog
func WithCatalog(c *Catalog) Option {
	return func(e *Engine) { e.catalog = c }
}

// Engine is the top-level audio context owned by the game layer
// Failures are absorbed: after a failed Init it runs disabled and every call stays safe
type Engine struct {
	cfg      *AudioConfig
	log      *slog.Logger
	injected Renderer

	catalog    *Catalog
	listener   *spatial.Listener
	controller *Controller
	click      *Buffer

	mu       sync.Mutex
	renderer Renderer
	repeater *Repeater
	clip     time.Duration
	radius   float64

	initialized atomic.Bool
	disabled    atomic.Bool
}

// NewEngine synthesizes the packs eagerly; audio output starts at Init
func NewEngine(cfg *AudioConfig, opts ...Option) *Engine {
	if cfg == nil {
		cfg = DefaultAudioConfig()
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = constant.AudioSampleRate
	}
	e := &Engine{
		cfg:      cfg,
		log:      logger.Get(),
		listener: spatial.NewListener(),
		clip:     cfg.ClipDuration,
		radius:   cfg.HoleRadius,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With("component", "audio")

	if e.catalog == nil {
		e.catalog = NewStandardCatalog(cfg.SampleRate)
	}
	if len(cfg.PackFiles) > 0 {
		e.catalog.RegisterPack(LoadWAVPack(constant.CustomPackName, hostFS{}, cfg.PackFiles,
			cfg.SampleRate, e.catalog.Fallback(), e.log))
	}
	if cfg.SoundPack != "" && !e.catalog.Activate(cfg.SoundPack) {
		e.log.Warn("unknown sound pack, keeping active pack",
			"requested", cfg.SoundPack, "active", e.catalog.Active())
	}

	e.click = Click(cfg.SampleRate)
	e.controller = NewController(nil, e.listener, e.log)
	return e
}

// hostFS opens paths as given, absolute or relative to the working directory
type hostFS struct{}

func (hostFS) Open(name string) (fs.File, error) { return os.Open(name) }

// Init opens the audio backend; idempotent, false means disabled
func (e *Engine) Init() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.renderer != nil {
		return true
	}
	e.initialized.Store(true)

	if !e.cfg.Enabled {
		e.disabled.Store(true)
		e.log.Info("audio disabled by configuration")
		return false
	}

	r, err := e.openRenderer()
	if err != nil {
		e.disabled.Store(true)
		e.log.Warn("audio unavailable, continuing without sound", "backend", e.cfg.Backend.String(), "err", err)
		return false
	}

	r.SetVolume(e.cfg.MasterVolume)
	e.renderer = r
	e.disabled.Store(false)
	e.controller.SetRenderer(r)
	e.log.Info("audio started", "renderer", r.Name(), "sample_rate", e.cfg.SampleRate)
	return true
}

func (e *Engine) openRenderer() (Renderer, error) {
	sr := e.cfg.SampleRate
	if e.injected != nil {
		if err := e.injected.Start(sr); err != nil {
			return nil, err
		}
		return e.injected, nil
	}

	switch e.cfg.Backend {
	case BackendNone:
		return nil, ErrNoAudioBackend
	case BackendSpeaker:
		r := newSpeakerRenderer()
		return r, r.Start(sr)
	case BackendPipe:
		r := newPipeRenderer(e.log)
		return r, r.Start(sr)
	case BackendAuto:
		sp := newSpeakerRenderer()
		spErr := sp.Start(sr)
		if spErr == nil {
			return sp, nil
		}
		e.log.Warn("speaker unavailable, trying pipe backend", "err", spErr)
		pr := newPipeRenderer(e.log)
		if err := pr.Start(sr); err != nil {
			return nil, errors.Wrapf(err, "speaker: %v", spErr)
		}
		return pr, nil
	}
	return nil, errors.Wrapf(ErrUnknownBackend, "%d", e.cfg.Backend)
}

// Enabled reports whether a renderer is running
func (e *Engine) Enabled() bool {
	return e.initialized.Load() && !e.disabled.Load()
}

// Close stops playback, the repeater and the renderer; Init may be called again
func (e *Engine) Close() {
	e.StopRepeater()
	e.controller.Stop()

	e.mu.Lock()
	r := e.renderer
	e.renderer = nil
	e.mu.Unlock()

	e.controller.SetRenderer(nil)
	if r != nil {
		if err := r.Close(); err != nil {
			e.log.Warn("renderer close failed", "err", err)
		}
	}
}

func (e *Engine) SetVolume(v float64) {
	e.mu.Lock()
	e.cfg.MasterVolume = clampVolume(v)
	r := e.renderer
	e.mu.Unlock()
	if r != nil {
		r.SetVolume(v)
	}
}

// --- Sources and playback ---

func (e *Engine) CreateSource(buf *Buffer, position vmath.Vec3F) *Source {
	if buf == nil {
		buf = e.catalog.Fallback()
	}
	return NewSource(buf, position)
}

// Play makes src the current source; limit <= 0 plays the whole buffer
// A source without a buffer plays the fallback tone
func (e *Engine) Play(src *Source, limit time.Duration) *Playback {
	if src == nil {
		return nil
	}
	if src.Buffer() == nil {
		e.log.Debug("source has no buffer, using fallback")
		src.fillBuffer(e.catalog.Fallback())
	}
	return e.controller.Play(src, limit)
}

// PlayClip plays src for the configured clip duration
func (e *Engine) PlayClip(src *Source) *Playback {
	return e.Play(src, e.ClipDuration())
}

func (e *Engine) Stop() { e.controller.Stop() }

func (e *Engine) IsPlaying() bool { return e.controller.IsPlaying() }

func (e *Engine) State() PlaybackState { return e.controller.State() }

// Current returns the current source, nil when idle
func (e *Engine) Current() *Source { return e.controller.Current() }

// OnComplete registers fn for natural completion of the current source
func (e *Engine) OnComplete(fn func(*Source)) { e.controller.OnComplete(fn) }

// PlayUI plays buf without spatialization at a fixed volume
func (e *Engine) PlayUI(buf *Buffer, volume float64) {
	e.mu.Lock()
	r := e.renderer
	e.mu.Unlock()
	if r == nil || buf == nil {
		return
	}
	v := clampVolume(volume)
	if _, err := r.Render(buf, 0, fixedGain{left: v, right: v}, nil); err != nil {
		e.log.Debug("ui sound dropped", "err", err)
	}
}

// PlayClick plays the UI click
func (e *Engine) PlayClick() {
	e.PlayUI(e.click, constant.ClickVolume)
}

// --- Geometry queries ---

// DistanceToCurrent returns +Inf when nothing is playing
func (e *Engine) DistanceToCurrent() float64 {
	src := e.controller.Current()
	if src == nil {
		return math.Inf(1)
	}
	return spatial.Distance(src.Position(), e.listener.Position())
}

// InHole reports whether the listener is within the hole radius of the current source
func (e *Engine) InHole() bool {
	return e.DistanceToCurrent() <= e.HoleRadius()
}

// AngleToSource returns the world bearing to src in [0,360)
func (e *Engine) AngleToSource(src *Source) float64 {
	if src == nil {
		return 0
	}
	return spatial.HorizontalAngle(src.Position(), e.listener.Position())
}

// ElevationToSource returns the elevation to src in [-90,90]
func (e *Engine) ElevationToSource(src *Source) float64 {
	if src == nil {
		return 0
	}
	return spatial.ElevationAngle(src.Position(), e.listener.Position())
}

// --- Listener ---

// SetListenerPosition moves the listener; sounding sources pan live
func (e *Engine) SetListenerPosition(p vmath.Vec3F) {
	e.listener.SetPosition(p)
	e.reposition()
}

// MoveListener applies a movement delta
func (e *Engine) MoveListener(delta vmath.Vec3F) {
	e.SetListenerPosition(vmath.V3FAdd(e.listener.Position(), delta))
}

func (e *Engine) SetListenerOrientation(yawDeg, pitchDeg float64) {
	e.listener.SetOrientation(yawDeg, pitchDeg)
	e.reposition()
}

func (e *Engine) ResetListener() {
	e.listener.Reset()
	e.reposition()
}

func (e *Engine) Listener() spatial.ListenerState { return e.listener.Snapshot() }

func (e *Engine) reposition() {
	e.controller.Reposition()
	e.mu.Lock()
	rp := e.repeater
	e.mu.Unlock()
	if rp != nil {
		rp.Reposition()
	}
}

// --- Catalog ---

// Sound returns the named buffer of the active pack or the fallback tone
func (e *Engine) Sound(name string) *Buffer {
	buf, ok := e.catalog.Lookup(name)
	if !ok {
		e.log.Debug("sound not in active pack, using fallback", "sound", name, "pack", e.catalog.Active())
	}
	return buf
}

func (e *Engine) SoundNames() []string { return e.catalog.Names() }

// SetActivePack switches packs; false leaves the active pack unchanged
func (e *Engine) SetActivePack(name string) bool {
	ok := e.catalog.Activate(name)
	if !ok {
		e.log.Debug("unknown sound pack", "pack", name)
	}
	return ok
}

func (e *Engine) ActivePack() string { return e.catalog.Active() }

func (e *Engine) Packs() []string { return e.catalog.Packs() }

// RegisterPack adds or replaces a pack without activating it
func (e *Engine) RegisterPack(p *Pack) { e.catalog.RegisterPack(p) }

// AddCustomSound decodes a WAV file into the custom pack, fitted to the standard clip length
// The active table picks it up immediately when the custom pack is active
func (e *Engine) AddCustomSound(name, path string) bool {
	buf, err := LoadCustomSound(path, e.cfg.SampleRate, constant.CustomSoundDuration)
	if err != nil {
		e.log.Warn("custom sound not loaded", "sound", name, "path", path, "err", err)
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.catalog.Pack(constant.CustomPackName)
	if !ok {
		p = NewPack(constant.CustomPackName, "User WAV files")
	}
	e.catalog.RegisterPack(p.Add(name, buf))
	if e.catalog.Active() == constant.CustomPackName {
		e.catalog.Activate(constant.CustomPackName)
	}
	e.log.Debug("custom sound loaded", "sound", name, "frames", buf.Len())
	return true
}

func (e *Engine) Catalog() *Catalog { return e.catalog }

// ClickSound returns the short UI click buffer
func (e *Engine) ClickSound() *Buffer { return e.click }

func (e *Engine) TestTone(freq float64, d time.Duration) *Buffer {
	return TestTone(e.cfg.SampleRate, freq, d.Seconds())
}

func (e *Engine) WhiteNoise(d time.Duration) *Buffer {
	return WhiteNoise(e.cfg.SampleRate, d.Seconds())
}

// SourceForTarget builds a source at the target with its named sound
func (e *Engine) SourceForTarget(t Target, index int) *Source {
	if t.Sound == "" {
		return e.SourceForIndex(index, t.Position)
	}
	return NewSource(e.Sound(t.Sound), t.Position)
}

// SourceForIndex rotates through the active pack by stage index
func (e *Engine) SourceForIndex(index int, position vmath.Vec3F) *Source {
	return NewSource(e.catalog.SoundAt(index), position)
}

// --- Time trial ---

// StartRepeater replaces any running repeater with one cycling sound at target
func (e *Engine) StartRepeater(sound string, target vmath.Vec3F) *Repeater {
	buf := e.Sound(sound)

	e.mu.Lock()
	prev := e.repeater
	rp := NewRepeater(e.renderer, e.listener, buf, target, e.cfg.RepeatClip, e.cfg.RepeatPeriod, e.log)
	e.repeater = rp
	e.mu.Unlock()

	if prev != nil {
		prev.Stop()
	}
	rp.Start()
	return rp
}

func (e *Engine) StopRepeater() {
	e.mu.Lock()
	rp := e.repeater
	e.repeater = nil
	e.mu.Unlock()
	if rp != nil {
		rp.Stop()
	}
}

// Repeater returns the running repeater, nil when none
func (e *Engine) Repeater() *Repeater {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.repeater
}

// --- Settings pushed by the game layer ---

func (e *Engine) SetClipDuration(d time.Duration) {
	if d <= 0 {
		return
	}
	e.mu.Lock()
	e.clip = d
	e.mu.Unlock()
}

func (e *Engine) ClipDuration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clip
}

func (e *Engine) SetHoleRadius(r float64) {
	if r <= 0 {
		return
	}
	e.mu.Lock()
	e.radius = r
	e.mu.Unlock()
}

func (e *Engine) HoleRadius() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.radius
}
