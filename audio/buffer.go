package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Buffer is an immutable 1- or 2-channel float64 sample block
// Shared read-only by any number of playing sources
type Buffer struct {
	sampleRate int
	channels   [][]float64
}

// newBuffer takes ownership of the channel slices
func newBuffer(sampleRate int, channels ...[]float64) *Buffer {
	if len(channels) == 0 {
		channels = [][]float64{{}}
	}
	if len(channels) > 2 {
		channels = channels[:2]
	}
	return &Buffer{sampleRate: sampleRate, channels: channels}
}

// NewBuffer copies the given channel data into a new Buffer
// Channels longer than the first are truncated to its length
func NewBuffer(sampleRate int, channels ...[]float64) *Buffer {
	if len(channels) == 0 {
		return newBuffer(sampleRate)
	}
	n := len(channels[0])
	owned := make([][]float64, 0, 2)
	for i, ch := range channels {
		if i == 2 {
			break
		}
		c := make([]float64, n)
		copy(c, ch)
		owned = append(owned, c)
	}
	return newBuffer(sampleRate, owned...)
}

// sampleCount converts a duration in seconds to round(sampleRate*seconds)
func sampleCount(sampleRate int, seconds float64) int {
	if sampleRate <= 0 || !(seconds > 0) || math.IsInf(seconds, 0) {
		return 0
	}
	return int(math.Round(float64(sampleRate) * seconds))
}

func (b *Buffer) SampleRate() int  { return b.sampleRate }
func (b *Buffer) NumChannels() int { return len(b.channels) }
func (b *Buffer) Len() int         { return len(b.channels[0]) }

// Duration is Len at SampleRate
func (b *Buffer) Duration() time.Duration {
	if b.sampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(b.Len()) / float64(b.sampleRate) * float64(time.Second))
}

// Channel returns a copy of channel ch
func (b *Buffer) Channel(ch int) []float64 {
	if ch < 0 || ch >= len(b.channels) {
		return nil
	}
	out := make([]float64, len(b.channels[ch]))
	copy(out, b.channels[ch])
	return out
}

// At returns sample i of channel ch, zero when out of range
func (b *Buffer) At(ch, i int) float64 {
	if ch < 0 || ch >= len(b.channels) || i < 0 || i >= len(b.channels[ch]) {
		return 0
	}
	return b.channels[ch][i]
}

// Frame returns the stereo frame at i; mono is duplicated to both sides
func (b *Buffer) Frame(i int) (left, right float64) {
	left = b.channels[0][i]
	if len(b.channels) > 1 {
		return left, b.channels[1][i]
	}
	return left, left
}

// Peak returns the largest absolute sample across channels
func (b *Buffer) Peak() float64 {
	peak := 0.0
	for _, ch := range b.channels {
		for _, v := range ch {
			if a := math.Abs(v); a > peak {
				peak = a
			}
		}
	}
	return peak
}

// Format describes the buffer for beep encoders
func (b *Buffer) Format() beep.Format {
	return beep.Format{
		SampleRate:  beep.SampleRate(b.sampleRate),
		NumChannels: len(b.channels),
		Precision:   2,
	}
}

// Streamer plays the first frames of the buffer (all when frames <= 0) as a beep.Streamer
func (b *Buffer) Streamer(frames int) beep.Streamer {
	if frames <= 0 || frames > b.Len() {
		frames = b.Len()
	}
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if pos >= frames {
			return 0, false
		}
		for i := range samples {
			if pos >= frames {
				break
			}
			samples[i][0], samples[i][1] = b.Frame(pos)
			pos++
			n++
		}
		return n, true
	})
}

// FitDuration trims or loops buf to exactly seconds long
func FitDuration(buf *Buffer, seconds float64) *Buffer {
	target := sampleCount(buf.sampleRate, seconds)
	src := buf.Len()
	if target == src || src == 0 {
		return buf
	}

	out := make([][]float64, len(buf.channels))
	for c, ch := range buf.channels {
		data := make([]float64, target)
		if target <= src {
			copy(data, ch[:target])
		} else {
			for i := range data {
				data[i] = ch[i%src]
			}
		}
		out[c] = data
	}
	return newBuffer(buf.sampleRate, out...)
}
