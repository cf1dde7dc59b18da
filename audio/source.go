package audio

import (
	"sync"

	"github.com/shacgolf/shac-golf/vmath"
)

// Source is a positioned sound referencing a shared immutable buffer
type Source struct {
	mu       sync.RWMutex
	buf      *Buffer
	position vmath.Vec3F
}

func NewSource(buf *Buffer, position vmath.Vec3F) *Source {
	return &Source{buf: buf, position: position}
}

func (s *Source) Buffer() *Buffer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buf
}

// fillBuffer sets buf when the source has none and returns the buffer in use
func (s *Source) fillBuffer(buf *Buffer) *Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buf == nil {
		s.buf = buf
	}
	return s.buf
}

func (s *Source) Position() vmath.Vec3F {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.position
}

// SetPosition moves the source; a playing instance picks it up on the next Reposition
func (s *Source) SetPosition(p vmath.Vec3F) {
	s.mu.Lock()
	s.position = p
	s.mu.Unlock()
}
