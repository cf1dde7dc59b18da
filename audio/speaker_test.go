package audio

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/shacgolf/shac-golf/logger"
)

// stubSpeaker swaps the process speaker for a counting fake and restores it after the test
func stubSpeaker(t *testing.T, initErr error) *atomic.Int32 {
	t.Helper()
	calls := &atomic.Int32{}
	prevDevice, prevInit, prevPlay := device, speakerInit, speakerPlay

	device = &speakerDevice{}
	speakerInit = func(beep.SampleRate, int) error {
		calls.Add(1)
		return initErr
	}
	speakerPlay = func(beep.Streamer) {}

	t.Cleanup(func() {
		device, speakerInit, speakerPlay = prevDevice, prevInit, prevPlay
	})
	return calls
}

// TestSpeakerRendererRestart verifies Close then Start reattaches without a second device init
func TestSpeakerRendererRestart(t *testing.T) {
	calls := stubSpeaker(t, nil)

	r := newSpeakerRenderer()
	if err := r.Start(testRate); err != nil {
		t.Fatalf("Expected first start to succeed, got %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Expected close to succeed, got %v", err)
	}
	if err := r.Start(testRate); err != nil {
		t.Fatalf("Expected restart to succeed, got %v", err)
	}

	other := newSpeakerRenderer()
	if err := other.Start(testRate); err != nil {
		t.Errorf("Expected second renderer to share the device, got %v", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("Expected one device init, got %d", n)
	}
}

// TestSpeakerDeviceInitFailureSticks verifies a failed init is reported on every start
func TestSpeakerDeviceInitFailureSticks(t *testing.T) {
	calls := stubSpeaker(t, errors.New("no device"))

	for i := 0; i < 2; i++ {
		err := newSpeakerRenderer().Start(testRate)
		if !errors.Is(err, ErrPlatformUnavailable) {
			t.Errorf("Expected ErrPlatformUnavailable on attempt %d, got %v", i, err)
		}
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("Expected one device init, got %d", n)
	}
}

// TestSpeakerDeviceRateMismatch verifies the open device refuses another sample rate
func TestSpeakerDeviceRateMismatch(t *testing.T) {
	stubSpeaker(t, nil)

	if err := newSpeakerRenderer().Start(testRate); err != nil {
		t.Fatalf("Expected start to succeed, got %v", err)
	}
	if err := newSpeakerRenderer().Start(testRate * 2); !errors.Is(err, ErrPlatformUnavailable) {
		t.Errorf("Expected ErrPlatformUnavailable for a different rate, got %v", err)
	}
}

// TestSpeakerRendererStreams verifies a rendered voice plays through the attached chain and ends once
func TestSpeakerRendererStreams(t *testing.T) {
	stubSpeaker(t, nil)

	r := newSpeakerRenderer()
	if err := r.Start(testRate); err != nil {
		t.Fatalf("Expected start to succeed, got %v", err)
	}
	t.Cleanup(func() { r.Close() })

	buf := NewBuffer(testRate, []float64{0.5, 0.5, 0.5, 0.5})
	done := make(chan struct{})
	v, err := r.Render(buf, 0, fixedGain{left: 1, right: 0}, func() { close(done) })
	if err != nil {
		t.Fatalf("Expected render to succeed, got %v", err)
	}

	samples := make([][2]float64, 8)
	r.attach.Stream(samples)
	if samples[0][0] != 0.5 || samples[0][1] != 0 {
		t.Errorf("Expected left-only frame, got %v", samples[0])
	}
	if samples[5][0] != 0 {
		t.Errorf("Expected silence past the buffer, got %v", samples[5])
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Expected onEnd after the buffer drained")
	}
	if !v.Done() {
		t.Error("Expected voice done")
	}
	if err := v.Stop(); !errors.Is(err, ErrVoiceStopped) {
		t.Errorf("Expected ErrVoiceStopped after natural end, got %v", err)
	}
}

// TestSpeakerRendererClosedDetaches verifies Close drains the attached chain
func TestSpeakerRendererClosedDetaches(t *testing.T) {
	stubSpeaker(t, nil)

	r := newSpeakerRenderer()
	if err := r.Start(testRate); err != nil {
		t.Fatalf("Expected start to succeed, got %v", err)
	}
	attach := r.attach
	r.Close()

	if _, ok := attach.Stream(make([][2]float64, 4)); ok {
		t.Error("Expected detached chain to report drained")
	}
	if _, err := r.Render(testTone(0.1), 0, fixedGain{}, nil); !errors.Is(err, ErrRendererClosed) {
		t.Errorf("Expected ErrRendererClosed after close, got %v", err)
	}
}

// TestEngineSpeakerReinit verifies Init after Close and a second engine both reach the speaker
func TestEngineSpeakerReinit(t *testing.T) {
	calls := stubSpeaker(t, nil)

	newEngine := func() *Engine {
		cfg := DefaultAudioConfig()
		cfg.SampleRate = testRate
		cfg.Backend = BackendSpeaker
		return NewEngine(cfg, WithLogger(logger.Discard()), WithCatalog(testCatalog()))
	}

	e := newEngine()
	if !e.Init() {
		t.Fatal("Expected first Init to succeed")
	}
	e.Close()
	if !e.Init() {
		t.Fatal("Expected Init after Close to succeed")
	}
	if !e.Enabled() {
		t.Error("Expected engine enabled after reinit")
	}
	e.Close()

	second := newEngine()
	t.Cleanup(second.Close)
	if !second.Init() {
		t.Error("Expected second engine to reach the speaker")
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("Expected one device init, got %d", n)
	}
}
