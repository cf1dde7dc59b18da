// Package spatial derives listener-relative geometry and stereo panning for positioned sounds
//
// Coordinate convention: +X right, +Y up. Listener orientation follows the audio frame,
// where yaw=0 pitch=0 faces -Z. Horizontal angles are world bearings where 0 degrees
// points along +Z and increase clockwise toward +X; HUD compass code relies on this.
package spatial

import (
	"math"

	"github.com/shacgolf/shac-golf/vmath"
)

// RelativeVector is source minus listener; this is what the renderer is fed
func RelativeVector(source, listener vmath.Vec3F) vmath.Vec3F {
	return vmath.V3FSub(source, listener)
}

// Distance is the Euclidean distance between a and b
func Distance(a, b vmath.Vec3F) float64 {
	return vmath.V3FDist(a, b)
}

// HorizontalAngle returns the bearing from listener to source in [0, 360)
func HorizontalAngle(source, listener vmath.Vec3F) float64 {
	rel := RelativeVector(source, listener)
	if rel.X == 0 && rel.Z == 0 {
		return 0
	}
	return vmath.NormalizeDegrees(vmath.RadToDeg(math.Atan2(rel.X, rel.Z)))
}

// ElevationAngle returns degrees above (+) or below (-) the listener in [-90, 90]
// Coincident points yield 0
func ElevationAngle(source, listener vmath.Vec3F) float64 {
	rel := RelativeVector(source, listener)
	horizontal := vmath.V3FHorizontalMag(rel)

	if horizontal == 0 {
		switch {
		case rel.Y > 0:
			return 90
		case rel.Y < 0:
			return -90
		default:
			return 0
		}
	}

	return vmath.Clamp(vmath.RadToDeg(math.Atan2(rel.Y, horizontal)), -90, 90)
}
