package audio

import (
	"io"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/sinshu/go-meltysynth/meltysynth"
)

// soundFontHoldFraction is the part of the clip with the key held down
const soundFontHoldFraction = 0.7

// SoundFontNote is one named key rendered from a SoundFont
type SoundFontNote struct {
	Name     string
	Channel  int32
	Key      int32
	Velocity int32
}

// SoundFontPack renders each note of an .sf2 into a stereo buffer
// An unreadable SoundFont or synthesizer yields the fallback for every note
func SoundFontPack(name string, r io.Reader, notes []SoundFontNote, sampleRate int, seconds float64, fallback *Buffer, log *slog.Logger) *Pack {
	p := NewPack(name, "SoundFont")

	sf, err := meltysynth.NewSoundFont(r)
	if err != nil {
		if log != nil {
			log.Warn("soundfont decode failed, using fallback tone", "pack", name, "err", err)
		}
		for _, n := range notes {
			p.Add(n.Name, fallback)
		}
		return p
	}

	for _, n := range notes {
		buf, err := renderSoundFontNote(sf, n, sampleRate, seconds)
		if err != nil {
			if log != nil {
				log.Warn("soundfont note failed, using fallback tone", "pack", name, "sound", n.Name, "err", err)
			}
			buf = fallback
		}
		p.Add(n.Name, buf)
	}
	return p
}

func renderSoundFontNote(sf *meltysynth.SoundFont, n SoundFontNote, sampleRate int, seconds float64) (*Buffer, error) {
	total := sampleCount(sampleRate, seconds)
	if total == 0 {
		return nil, errors.Wrap(ErrDecodeFailure, "empty clip")
	}

	settings := meltysynth.NewSynthesizerSettings(int32(sampleRate))
	synth, err := meltysynth.NewSynthesizer(sf, settings)
	if err != nil {
		return nil, errors.Wrapf(ErrDecodeFailure, "synthesizer: %v", err)
	}

	left := make([]float32, total)
	right := make([]float32, total)
	hold := int(float64(total) * soundFontHoldFraction)

	synth.NoteOn(n.Channel, n.Key, n.Velocity)
	synth.Render(left[:hold], right[:hold])
	synth.NoteOff(n.Channel, n.Key)
	synth.Render(left[hold:], right[hold:])

	l := make([]float64, total)
	rr := make([]float64, total)
	for i := range l {
		l[i] = clampSample(float64(left[i]))
		rr[i] = clampSample(float64(right[i]))
	}
	return newBuffer(sampleRate, l, rr), nil
}
