package spatial

import (
	"sync"

	"github.com/shacgolf/shac-golf/vmath"
)

// ListenerState is an immutable snapshot of listener position and facing
type ListenerState struct {
	Position    vmath.Vec3F
	Yaw         float64
	Pitch       float64
	Orientation Orientation
}

// Listener is the single mutable ear record for a session
// Writers and panner reads are serialized through mu
type Listener struct {
	mu    sync.RWMutex
	state ListenerState
}

func NewListener() *Listener {
	return &Listener{
		state: ListenerState{Orientation: OrientationFromYawPitch(0, 0)},
	}
}

func (l *Listener) SetPosition(p vmath.Vec3F) {
	l.mu.Lock()
	l.state.Position = p
	l.mu.Unlock()
}

func (l *Listener) SetOrientation(yawDeg, pitchDeg float64) {
	o := OrientationFromYawPitch(yawDeg, pitchDeg)
	l.mu.Lock()
	l.state.Yaw = yawDeg
	l.state.Pitch = pitchDeg
	l.state.Orientation = o
	l.mu.Unlock()
}

// Reset returns the listener to origin facing forward, used at hole start
func (l *Listener) Reset() {
	l.mu.Lock()
	l.state = ListenerState{Orientation: OrientationFromYawPitch(0, 0)}
	l.mu.Unlock()
}

func (l *Listener) Position() vmath.Vec3F {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.Position
}

func (l *Listener) Orientation() Orientation {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.Orientation
}

// Snapshot returns a consistent copy of the whole state
func (l *Listener) Snapshot() ListenerState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}
