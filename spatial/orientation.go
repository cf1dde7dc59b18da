package spatial

import (
	"math"

	"github.com/shacgolf/shac-golf/vmath"
)

// WorldUp is the fixed listener up vector
var WorldUp = vmath.Vec3F{X: 0, Y: 1, Z: 0}

// Orientation is the listener basis handed to the panner
type Orientation struct {
	Forward vmath.Vec3F
	Up      vmath.Vec3F
}

// OrientationFromYawPitch converts facing in degrees to a forward/up pair
// yaw=0 pitch=0 faces -Z; positive yaw turns toward +X, positive pitch looks up
func OrientationFromYawPitch(yawDeg, pitchDeg float64) Orientation {
	yaw := vmath.DegToRad(yawDeg)
	pitch := vmath.DegToRad(pitchDeg)

	return Orientation{
		Forward: vmath.Vec3F{
			X: math.Sin(yaw) * math.Cos(pitch),
			Y: math.Sin(pitch),
			Z: -math.Cos(yaw) * math.Cos(pitch),
		},
		Up: WorldUp,
	}
}

// Right is the listener's right-ear axis, forward x up normalized
// Looking straight up or down degenerates to yaw-only right
func (o Orientation) Right() vmath.Vec3F {
	r := vmath.V3FCross(o.Forward, o.Up)
	if vmath.V3FMagSq(r) < 1e-18 {
		return vmath.Vec3F{X: 1}
	}
	return vmath.V3FNormalize(r)
}
