package audio

import (
	"io"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/shacgolf/shac-golf/logger"
)

// pipeRenderer streams the mix to a CLI audio tool's stdin
type pipeRenderer struct {
	detect func(sampleRate int) (*PipeBackendConfig, error)
	log    *slog.Logger

	mu      sync.Mutex
	backend *PipeBackendConfig
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	ossFile *os.File // For direct OSS writes
	mixer   *Mixer

	running atomic.Bool
	wg      sync.WaitGroup
}

func newPipeRenderer(log *slog.Logger) *pipeRenderer {
	if log == nil {
		log = logger.Discard()
	}
	return &pipeRenderer{detect: DetectPipeBackend, log: log}
}

func (r *pipeRenderer) Name() string { return "pipe" }

// Start launches the backend process and mixer
func (r *pipeRenderer) Start(sampleRate int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running.Load() {
		return nil
	}

	backend, err := r.detect(sampleRate)
	if err != nil {
		return errors.Wrapf(ErrPlatformUnavailable, "pipe: %v", err)
	}
	r.backend = backend

	var writer io.Writer
	if backend.Type == PipeOSS {
		f, err := os.OpenFile(backend.Path, os.O_WRONLY, 0)
		if err != nil {
			return errors.Wrapf(ErrPlatformUnavailable, "open %s: %v", backend.Path, err)
		}
		r.ossFile = f
		writer = f
	} else {
		cmd := exec.Command(backend.Path, backend.Args...)
		stdin, err := cmd.StdinPipe()
		if err != nil {
			return errors.Wrapf(ErrPlatformUnavailable, "%s stdin: %v", backend.Name, err)
		}
		if err := cmd.Start(); err != nil {
			stdin.Close()
			return errors.Wrapf(ErrPlatformUnavailable, "%s start: %v", backend.Name, err)
		}
		r.cmd = cmd
		r.stdin = stdin
		writer = stdin

		r.wg.Add(1)
		go r.monitorProcess(cmd)
	}

	r.startMixer(writer, sampleRate)
	r.running.Store(true)
	return nil
}

// startMixer runs the mixer on w and reports its write failures; caller holds mu
func (r *pipeRenderer) startMixer(w io.Writer, sampleRate int) {
	r.mixer = NewMixer(w, sampleRate)
	r.mixer.Start()

	r.wg.Add(1)
	go r.monitorMixer(r.mixer)
}

func (r *pipeRenderer) monitorMixer(m *Mixer) {
	defer r.wg.Done()
	name := "unknown"
	if r.backend != nil {
		name = r.backend.Name
	}
	select {
	case err := <-m.Errors():
		r.log.Warn("audio pipe failed, continuing silently", "backend", name, "err", err)
	case <-m.Done():
	}
}

// monitorProcess closes the pipe when the sink exits so the mixer goes silent
func (r *pipeRenderer) monitorProcess(cmd *exec.Cmd) {
	defer r.wg.Done()
	_ = cmd.Wait()
	r.mu.Lock()
	if r.stdin != nil {
		r.stdin.Close()
	}
	r.mu.Unlock()
}

func (r *pipeRenderer) SetVolume(v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mixer != nil {
		r.mixer.SetVolume(v)
	}
}

func (r *pipeRenderer) Render(buf *Buffer, frames int, gains GainSource, onEnd func()) (Voice, error) {
	r.mu.Lock()
	mixer := r.mixer
	r.mu.Unlock()
	if !r.running.Load() || mixer == nil {
		return nil, ErrRendererClosed
	}

	v := &pipeVoice{
		buf:    buf,
		frames: clampFrames(buf, frames),
		gains:  gains,
		onEnd:  onEnd,
	}
	if !mixer.Play(v) {
		return nil, errors.New("pipe mixer queue full")
	}
	return v, nil
}

// Close terminates the mixer and backend
func (r *pipeRenderer) Close() error {
	if !r.running.CompareAndSwap(true, false) {
		return nil
	}

	r.mu.Lock()
	if r.mixer != nil {
		r.mixer.Stop()
	}
	if r.stdin != nil {
		r.stdin.Close()
	}
	if r.ossFile != nil {
		r.ossFile.Close()
	}
	if r.cmd != nil && r.cmd.Process != nil {
		r.cmd.Process.Kill()
	}
	r.mu.Unlock()

	r.wg.Wait()
	return nil
}

func floatBits(f float64) uint64     { return math.Float64bits(f) }
func floatFromBits(b uint64) float64 { return math.Float64frombits(b) }
