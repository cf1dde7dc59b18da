package audio

import (
	"encoding/json"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sort"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/pkg/errors"
)

const resampleQuality = 4

// PackFile maps a sound name to a file inside a pack filesystem
type PackFile struct {
	Name string
	Path string
}

// DecodeWAV reads a WAV stream into a Buffer at sampleRate, resampling if needed
func DecodeWAV(r io.Reader, sampleRate int) (*Buffer, error) {
	s, format, err := wav.Decode(r)
	if err != nil {
		return nil, errors.Wrapf(ErrDecodeFailure, "wav header: %v", err)
	}
	defer s.Close()

	var src beep.Streamer = s
	if int(format.SampleRate) != sampleRate && sampleRate > 0 {
		src = beep.Resample(resampleQuality, format.SampleRate, beep.SampleRate(sampleRate), s)
	}

	buf := readStreamer(src, format.NumChannels, sampleRate)
	if err := src.Err(); err != nil {
		return nil, errors.Wrapf(ErrDecodeFailure, "wav data: %v", err)
	}
	if buf.Len() == 0 {
		return nil, errors.Wrap(ErrDecodeFailure, "wav contains no samples")
	}
	return buf, nil
}

// readStreamer drains s into a 1- or 2-channel Buffer
func readStreamer(s beep.Streamer, numChannels, sampleRate int) *Buffer {
	chunk := make([][2]float64, 1024)
	var left, right []float64
	for {
		n, ok := s.Stream(chunk)
		for i := 0; i < n; i++ {
			left = append(left, clampSample(chunk[i][0]))
			right = append(right, clampSample(chunk[i][1]))
		}
		if !ok {
			break
		}
	}
	if numChannels < 2 {
		return newBuffer(sampleRate, left)
	}
	return newBuffer(sampleRate, left, right)
}

// LoadWAVPack decodes each file into a pack; failures become the fallback tone
func LoadWAVPack(name string, fsys fs.FS, files []PackFile, sampleRate int, fallback *Buffer, log *slog.Logger) *Pack {
	p := NewPack(name, "")
	for _, f := range files {
		buf, err := decodeFile(fsys, f.Path, sampleRate)
		if err != nil {
			if log != nil {
				log.Warn("sound decode failed, using fallback tone",
					"pack", name, "sound", f.Name, "path", f.Path, "err", err)
			}
			buf = fallback
		}
		p.Add(f.Name, buf)
	}
	return p
}

func decodeFile(fsys fs.FS, path string, sampleRate int) (*Buffer, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrDecodeFailure, "open %s: %v", path, err)
	}
	defer f.Close()
	return DecodeWAV(f, sampleRate)
}

// ParsePackFiles decodes a JSON object of name -> path, sorted by name
func ParsePackFiles(data string) ([]PackFile, error) {
	var m map[string]string
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return nil, errors.Wrap(err, "pack files")
	}
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)

	files := make([]PackFile, 0, len(names))
	for _, n := range names {
		files = append(files, PackFile{Name: n, Path: m[n]})
	}
	return files, nil
}

// LoadCustomSound decodes a user-supplied WAV file and fits it to the standard clip length
func LoadCustomSound(path string, sampleRate int, seconds float64) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open custom sound")
	}
	defer f.Close()

	buf, err := DecodeWAV(f, sampleRate)
	if err != nil {
		return nil, err
	}
	return FitDuration(buf, seconds), nil
}

// EncodeWAV writes buf as 16-bit PCM
func EncodeWAV(w io.WriteSeeker, buf *Buffer) error {
	if err := wav.Encode(w, buf.Streamer(0), buf.Format()); err != nil {
		return errors.Wrap(err, "encode wav")
	}
	return nil
}
