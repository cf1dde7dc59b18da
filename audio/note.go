package audio

import (
	"math"
	"sort"
)

// NoteFrequencies contains precomputed frequencies for MIDI notes 0-127
// A4 (note 69) = 440Hz, equal temperament
var NoteFrequencies [128]float64

func init() {
	for i := range NoteFrequencies {
		NoteFrequencies[i] = 440.0 * math.Pow(2, (float64(i)-69.0)/12.0)
	}
}

// NoteFreq returns frequency in Hz for MIDI note number
func NoteFreq(midi int) float64 {
	if midi < 0 || midi >= 128 {
		return 0
	}
	return NoteFrequencies[midi]
}

// NearestNote returns the MIDI note closest to freq in pitch, clamped to 0-127
func NearestNote(freq float64) int {
	i := sort.SearchFloat64s(NoteFrequencies[:], freq)
	switch {
	case i == 0:
		return 0
	case i == len(NoteFrequencies):
		return len(NoteFrequencies) - 1
	}
	// Compare by ratio; semitones are geometric
	if freq/NoteFrequencies[i-1] < NoteFrequencies[i]/freq {
		return i - 1
	}
	return i
}

// soundFontVelocity is the key velocity used for generated note lists
const soundFontVelocity = 100

// StandardNotes maps the enhanced pack names onto SoundFont keys on channel 0
// so a SoundFont pack can stand in for the synthesized one
func StandardNotes() []SoundFontNote {
	notes := make([]SoundFontNote, 0, len(enhancedVoices))
	for _, v := range enhancedVoices {
		notes = append(notes, SoundFontNote{
			Name:     v.name,
			Channel:  0,
			Key:      int32(NearestNote(v.freq)),
			Velocity: soundFontVelocity,
		})
	}
	return notes
}
