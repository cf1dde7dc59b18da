package audio

import (
	"os"
	"os/exec"
	"runtime"
	"strconv"
)

// pipeSink is a CLI player that reads raw s16le stereo from stdin
type pipeSink struct {
	typ  PipeBackendType
	name string
	bin  string
	args func(rate string) []string
}

// pipeSinks is ordered by preference
var pipeSinks = []pipeSink{
	{PipePulse, "pacat", "pacat", func(rate string) []string {
		return []string{"--raw", "--playback", "--format=s16le", "--channels=2", "--rate=" + rate, "--latency-msec=50"}
	}},
	{PipePipeWire, "pw-cat", "pw-cat", func(rate string) []string {
		return []string{"--playback", "--format=s16", "--channels=2", "--rate=" + rate, "--latency=50ms", "-"}
	}},
	{PipeALSA, "aplay", "aplay", func(rate string) []string {
		return []string{"-q", "-t", "raw", "-f", "S16_LE", "-c", "2", "-r", rate}
	}},
	{PipeSoX, "sox", "play", func(rate string) []string {
		return []string{"-q", "-t", "raw", "-e", "signed", "-b", "16", "-c", "2", "-r", rate, "-", "-d"}
	}},
	{PipeFFplay, "ffplay", "ffplay", func(rate string) []string {
		return []string{"-nodisp", "-autoexit", "-loglevel", "quiet", "-f", "s16le", "-ac", "2", "-ar", rate, "-analyzeduration", "0", "-i", "pipe:0"}
	}},
}

// ossDevice is written directly on FreeBSD when no CLI sink is installed
const ossDevice = "/dev/dsp"

// DetectPipeBackend returns the first sink on PATH accepting s16le stereo at sampleRate
func DetectPipeBackend(sampleRate int) (*PipeBackendConfig, error) {
	rate := strconv.Itoa(sampleRate)
	for _, s := range pipeSinks {
		path, err := exec.LookPath(s.bin)
		if err != nil {
			continue
		}
		return &PipeBackendConfig{Type: s.typ, Name: s.name, Path: path, Args: s.args(rate)}, nil
	}

	if runtime.GOOS == "freebsd" {
		if _, err := os.Stat(ossDevice); err == nil {
			return &PipeBackendConfig{Type: PipeOSS, Name: "oss", Path: ossDevice}, nil
		}
	}
	return nil, ErrNoAudioBackend
}
