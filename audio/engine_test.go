package audio

import (
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/shacgolf/shac-golf/constant"
	"github.com/shacgolf/shac-golf/logger"
	"github.com/shacgolf/shac-golf/vmath"
)

func testCatalog() *Catalog {
	c := NewCatalog(testRate, nil)
	c.RegisterPack(NewPack("a", "").
		Add("x", PureTone(testRate, 220, 0.5)).
		Add("y", PureTone(testRate, 330, 0.5)))
	c.RegisterPack(NewPack("b", "").
		Add("z", PureTone(testRate, 550, 0.5)))
	c.Activate("a")
	return c
}

func newTestEngine(t *testing.T, r Renderer) *Engine {
	t.Helper()
	cfg := DefaultAudioConfig()
	cfg.SampleRate = testRate
	opts := []Option{WithLogger(logger.Discard()), WithCatalog(testCatalog())}
	if r != nil {
		opts = append(opts, WithRenderer(r))
	} else {
		cfg.Backend = BackendNone
	}
	e := NewEngine(cfg, opts...)
	t.Cleanup(e.Close)
	return e
}

// TestEngineInitIdempotent verifies repeated Init with a working renderer
func TestEngineInitIdempotent(t *testing.T) {
	r := &fakeRenderer{}
	e := newTestEngine(t, r)

	if !e.Init() {
		t.Fatal("Expected Init to succeed")
	}
	if !e.Init() {
		t.Error("Expected second Init to succeed")
	}
	if !e.Enabled() {
		t.Error("Expected engine enabled")
	}
	if r.volume != 1.0 {
		t.Errorf("Expected master volume applied, got %f", r.volume)
	}
}

// TestEngineDisabled verifies every call is safe without audio
func TestEngineDisabled(t *testing.T) {
	e := newTestEngine(t, nil)

	if e.Init() {
		t.Fatal("Expected Init to fail with backend none")
	}
	if e.Init() {
		t.Error("Expected Init to keep failing")
	}
	if e.Enabled() {
		t.Error("Expected engine disabled")
	}

	// Geometry and state still work
	src := e.CreateSource(e.Sound("x"), vmath.Vec3F{X: 3, Y: 4})
	if !math.IsInf(e.DistanceToCurrent(), 1) {
		t.Error("Expected +Inf distance with no current source")
	}
	pb := e.Play(src, 20*time.Millisecond)
	if !e.IsPlaying() {
		t.Error("Expected silent playback to track the current source")
	}
	if d := e.DistanceToCurrent(); d != 5 {
		t.Errorf("Expected distance 5, got %f", d)
	}
	waitDone(t, pb)
	if e.IsPlaying() {
		t.Error("Expected idle after the limit")
	}

	e.PlayUI(e.ClickSound(), 1)
	e.PlayClick()
	e.Stop()
	e.StartRepeater("x", vmath.Vec3F{}).Stop()
}

// TestEngineInitFailure verifies a failing renderer leaves the engine disabled
func TestEngineInitFailure(t *testing.T) {
	r := &fakeRenderer{startErr: errors.New("no device")}
	e := newTestEngine(t, r)
	if e.Init() {
		t.Fatal("Expected Init to report failure")
	}
	if e.Enabled() {
		t.Error("Expected engine disabled")
	}
	pb := e.Play(e.CreateSource(nil, vmath.Vec3F{}), 10*time.Millisecond)
	waitDone(t, pb)
}

// TestEngineDisabledByConfig verifies Enabled=false skips the renderer
func TestEngineDisabledByConfig(t *testing.T) {
	r := &fakeRenderer{}
	cfg := DefaultAudioConfig()
	cfg.Enabled = false
	e := NewEngine(cfg, WithLogger(logger.Discard()), WithCatalog(testCatalog()), WithRenderer(r))
	defer e.Close()

	if e.Init() {
		t.Error("Expected Init false when disabled by config")
	}
	if r.started {
		t.Error("Expected renderer untouched")
	}
}

// TestEngineAngles verifies the (3,4,0) scenario from the origin
func TestEngineAngles(t *testing.T) {
	e := newTestEngine(t, &fakeRenderer{})
	e.Init()

	src := e.CreateSource(e.Sound("x"), vmath.Vec3F{X: 3, Y: 4})
	e.Play(src, 0)

	if d := e.DistanceToCurrent(); math.Abs(d-5) > 1e-9 {
		t.Errorf("Expected distance 5, got %f", d)
	}
	if el := e.ElevationToSource(src); math.Abs(el-53.130102354) > 1e-6 {
		t.Errorf("Expected elevation 53.13, got %f", el)
	}
	if a := e.AngleToSource(src); math.Abs(a-90) > 1e-9 {
		t.Errorf("Expected bearing 90, got %f", a)
	}

	// Listener on the source
	e.SetListenerPosition(vmath.Vec3F{X: 3, Y: 4})
	if d := e.DistanceToCurrent(); d != 0 {
		t.Errorf("Expected distance 0, got %f", d)
	}
	if el := e.ElevationToSource(src); el != 0 {
		t.Errorf("Expected elevation 0 at the source, got %f", el)
	}
}

// TestEngineListener verifies listener updates reach the current playback
func TestEngineListener(t *testing.T) {
	r := &fakeRenderer{}
	e := newTestEngine(t, r)
	e.Init()

	pb := e.Play(e.CreateSource(e.Sound("x"), vmath.Vec3F{Z: -5}), 0)
	l0, r0 := pb.Gains()

	e.SetListenerOrientation(90, 0) // face +X; source now on the left
	l1, r1 := pb.Gains()
	if l1 <= r1 {
		t.Errorf("Expected left-biased gains after turning, got L=%f R=%f", l1, r1)
	}
	if math.Abs(l0-r0) > 1e-9 {
		t.Errorf("Expected centered gains before turning, got L=%f R=%f", l0, r0)
	}

	e.MoveListener(vmath.Vec3F{Z: -1})
	if p := e.Listener().Position; p != (vmath.Vec3F{Z: -1}) {
		t.Errorf("Expected listener at (0,0,-1), got %+v", p)
	}

	e.ResetListener()
	st := e.Listener()
	if st.Position != (vmath.Vec3F{}) || st.Yaw != 0 {
		t.Errorf("Expected reset listener, got %+v", st)
	}
	if r.count() != 1 {
		t.Errorf("Expected listener moves not to retrigger, got %d renders", r.count())
	}
}

// TestEngineInHole verifies the radius check against the current source
func TestEngineInHole(t *testing.T) {
	e := newTestEngine(t, nil)

	if e.InHole() {
		t.Error("Expected not in hole with no current source")
	}
	e.Play(e.CreateSource(e.Sound("x"), vmath.Vec3F{X: 0.8}), time.Minute)
	if !e.InHole() {
		t.Error("Expected in hole within default radius")
	}
	e.SetHoleRadius(0.5)
	if e.InHole() {
		t.Error("Expected not in hole after shrinking radius")
	}
	e.SetHoleRadius(-1)
	if e.HoleRadius() != 0.5 {
		t.Errorf("Expected invalid radius ignored, got %f", e.HoleRadius())
	}
}

// TestEnginePacks verifies lookup fallback and activation semantics
func TestEnginePacks(t *testing.T) {
	e := newTestEngine(t, nil)

	if got := e.SoundNames(); len(got) != 2 || got[0] != "x" || got[1] != "y" {
		t.Errorf("Expected [x y], got %v", got)
	}
	if e.Sound("missing") != e.Catalog().Fallback() {
		t.Error("Expected fallback for unknown sound")
	}
	if e.SetActivePack("nope") {
		t.Error("Expected activation of unknown pack to fail")
	}
	if e.ActivePack() != "a" {
		t.Errorf("Expected active pack a, got %q", e.ActivePack())
	}
	if !e.SetActivePack("b") {
		t.Fatal("Expected activation of b")
	}
	if got := e.SoundNames(); len(got) != 1 || got[0] != "z" {
		t.Errorf("Expected [z], got %v", got)
	}
}

// TestEngineSourceForTarget verifies named and index-rotated target sounds
func TestEngineSourceForTarget(t *testing.T) {
	e := newTestEngine(t, nil)
	pos := vmath.Vec3F{X: 1, Z: 2}

	named := e.SourceForTarget(Target{Position: pos, Sound: "y"}, 0)
	if named.Buffer() != e.Sound("y") || named.Position() != pos {
		t.Error("Expected named sound at target position")
	}

	rotated := e.SourceForTarget(Target{Position: pos}, 3)
	if rotated.Buffer() != e.Sound("y") {
		t.Error("Expected index 3 to rotate to the second sound")
	}
}

// TestEnginePlayClip verifies the configured clip duration is applied
func TestEnginePlayClip(t *testing.T) {
	r := &fakeRenderer{}
	e := newTestEngine(t, r)
	e.Init()

	e.SetClipDuration(100 * time.Millisecond)
	e.SetClipDuration(0)
	if e.ClipDuration() != 100*time.Millisecond {
		t.Fatalf("Expected 100ms clip, got %v", e.ClipDuration())
	}

	pb := e.PlayClip(e.CreateSource(e.Sound("x"), vmath.Vec3F{}))
	if want := sampleCount(testRate, 0.1); r.voice(0).frames != want {
		t.Errorf("Expected %d frames, got %d", want, r.voice(0).frames)
	}
	waitDone(t, pb)
}

// TestEnginePlayMissingBuffer verifies a bufferless source plays the fallback tone
func TestEnginePlayMissingBuffer(t *testing.T) {
	r := &fakeRenderer{}
	e := newTestEngine(t, r)
	e.Init()

	src := NewSource(nil, vmath.Vec3F{Z: -2})
	pb := e.Play(src, 10*time.Millisecond)
	if pb == nil {
		t.Fatal("Expected a playback for the fallback tone")
	}
	if src.Buffer() != e.Catalog().Fallback() {
		t.Error("Expected the source to carry the fallback buffer")
	}
	if r.voice(0).buf != e.Catalog().Fallback() {
		t.Error("Expected the fallback buffer rendered")
	}
	if e.Current() != src {
		t.Error("Expected the caller's source to be current")
	}
	waitDone(t, pb)
}

// TestEngineCustomPackFallback verifies unreadable pack files decode to the fallback
func TestEngineCustomPackFallback(t *testing.T) {
	cfg := DefaultAudioConfig()
	cfg.SampleRate = testRate
	cfg.Backend = BackendNone
	cfg.PackFiles = []PackFile{{Name: "ghost", Path: t.TempDir() + "/missing.wav"}}
	cfg.SoundPack = constant.CustomPackName

	e := NewEngine(cfg, WithLogger(logger.Discard()), WithCatalog(testCatalog()))
	defer e.Close()

	if e.ActivePack() != constant.CustomPackName {
		t.Fatalf("Expected custom pack active, got %q", e.ActivePack())
	}
	if b, ok := e.Catalog().Lookup("ghost"); !ok || b != e.Catalog().Fallback() {
		t.Error("Expected ghost to be registered with the fallback buffer")
	}
}

// TestEngineAddCustomSound verifies WAV files join the custom pack at the standard clip length
func TestEngineAddCustomSound(t *testing.T) {
	e := newTestEngine(t, nil)
	path := writeWAV(t, PureTone(testRate, 440, 0.5))

	if !e.AddCustomSound("drive", path) {
		t.Fatal("Expected custom sound to load")
	}
	p, ok := e.Catalog().Pack(constant.CustomPackName)
	if !ok {
		t.Fatal("Expected custom pack registered")
	}
	buf, ok := p.Sound("drive")
	if !ok {
		t.Fatal("Expected drive in custom pack")
	}
	if want := sampleCount(testRate, constant.CustomSoundDuration); buf.Len() != want {
		t.Errorf("Expected %d frames, got %d", want, buf.Len())
	}
	if e.ActivePack() != "a" {
		t.Errorf("Expected active pack unchanged, got %q", e.ActivePack())
	}

	// Active custom pack sees later additions
	if !e.SetActivePack(constant.CustomPackName) {
		t.Fatal("Expected custom pack to activate")
	}
	if !e.AddCustomSound("chip", path) {
		t.Fatal("Expected second custom sound to load")
	}
	if names := e.SoundNames(); len(names) != 2 || names[0] != "drive" || names[1] != "chip" {
		t.Errorf("Expected [drive chip], got %v", names)
	}

	if e.AddCustomSound("ghost", filepath.Join(t.TempDir(), "missing.wav")) {
		t.Error("Expected missing file to fail")
	}
	if _, ok := e.Catalog().Lookup("ghost"); ok {
		t.Error("Expected failed load to leave the pack untouched")
	}
}

// TestEngineStandardCatalog verifies the default packs and initial activation
func TestEngineStandardCatalog(t *testing.T) {
	cfg := DefaultAudioConfig()
	cfg.SampleRate = testRate
	cfg.Backend = BackendNone
	cfg.SoundPack = "default"

	e := NewEngine(cfg, WithLogger(logger.Discard()))
	defer e.Close()

	if e.ActivePack() != "default" {
		t.Errorf("Expected default pack, got %q", e.ActivePack())
	}
	packs := e.Packs()
	if len(packs) != 2 || packs[0] != "default" || packs[1] != "enhanced" {
		t.Errorf("Expected [default enhanced], got %v", packs)
	}
	if len(e.SoundNames()) != 9 {
		t.Errorf("Expected 9 default sounds, got %d", len(e.SoundNames()))
	}
}

// TestEngineRepeater verifies StartRepeater replaces and Close stops it
func TestEngineRepeater(t *testing.T) {
	r := &fakeRenderer{}
	e := newTestEngine(t, r)
	e.Init()

	first := e.StartRepeater("x", vmath.Vec3F{X: 1})
	second := e.StartRepeater("y", vmath.Vec3F{X: 2})
	if first.Running() {
		t.Error("Expected first repeater stopped by replacement")
	}
	if e.Repeater() != second {
		t.Error("Expected second repeater current")
	}

	e.Close()
	if second.Running() {
		t.Error("Expected Close to stop the repeater")
	}
	if !r.closed {
		t.Error("Expected Close to close the renderer")
	}
}
