package spatial

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/shacgolf/shac-golf/vmath"
)

const eps = 1e-9

func TestGeometryScenario345(t *testing.T) {
	source := vmath.Vec3F{X: 3, Y: 4, Z: 0}
	listener := vmath.Vec3F{}

	if d := Distance(source, listener); math.Abs(d-5) > eps {
		t.Errorf("distance = %f, want 5", d)
	}

	wantElev := math.Atan2(4, 3) * 180 / math.Pi // ~53.13
	if e := ElevationAngle(source, listener); math.Abs(e-wantElev) > eps {
		t.Errorf("elevation = %f, want %f", e, wantElev)
	}

	// atan2(dx, dz) with dz=0 puts the source due +X
	if h := HorizontalAngle(source, listener); math.Abs(h-90) > eps {
		t.Errorf("horizontal = %f, want 90", h)
	}
}

func TestHorizontalAngleBearings(t *testing.T) {
	tests := []struct {
		name   string
		source vmath.Vec3F
		want   float64
	}{
		{"ahead +Z", vmath.Vec3F{Z: 10}, 0},
		{"right +X", vmath.Vec3F{X: 10}, 90},
		{"behind -Z", vmath.Vec3F{Z: -10}, 180},
		{"left -X", vmath.Vec3F{X: -10}, 270},
		{"3-4 diagonal", vmath.Vec3F{X: 3, Z: 4}, math.Atan2(3, 4) * 180 / math.Pi},
		{"coincident", vmath.Vec3F{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HorizontalAngle(tt.source, vmath.Vec3F{})
			if math.Abs(got-tt.want) > eps {
				t.Errorf("HorizontalAngle = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestElevationAngleVertical(t *testing.T) {
	tests := []struct {
		name   string
		source vmath.Vec3F
		want   float64
	}{
		{"directly above", vmath.Vec3F{Y: 2}, 90},
		{"directly below", vmath.Vec3F{Y: -2}, -90},
		{"coincident", vmath.Vec3F{}, 0},
		{"level", vmath.Vec3F{X: 1, Z: 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ElevationAngle(tt.source, vmath.Vec3F{})
			if math.IsNaN(got) || got != tt.want {
				t.Errorf("ElevationAngle = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestRelativeVectorIsSourceMinusListener(t *testing.T) {
	rel := RelativeVector(vmath.Vec3F{X: 5, Y: 1, Z: -2}, vmath.Vec3F{X: 2, Y: 1, Z: 3})
	if rel != (vmath.Vec3F{X: 3, Y: 0, Z: -5}) {
		t.Errorf("RelativeVector = %+v", rel)
	}
}

func TestProperty_GeometryInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	coord := gen.Float64Range(-500, 500)

	properties.Property("distance is symmetric and non-negative", prop.ForAll(
		func(ax, ay, az, bx, by, bz float64) bool {
			a := vmath.Vec3F{X: ax, Y: ay, Z: az}
			b := vmath.Vec3F{X: bx, Y: by, Z: bz}
			d1, d2 := Distance(a, b), Distance(b, a)
			return d1 >= 0 && math.Abs(d1-d2) < 1e-9 && Distance(a, a) == 0
		},
		coord, coord, coord, coord, coord, coord,
	))

	properties.Property("angles stay in range", prop.ForAll(
		func(ax, ay, az, bx, by, bz float64) bool {
			a := vmath.Vec3F{X: ax, Y: ay, Z: az}
			b := vmath.Vec3F{X: bx, Y: by, Z: bz}
			h := HorizontalAngle(a, b)
			e := ElevationAngle(a, b)
			return h >= 0 && h < 360 && e >= -90 && e <= 90
		},
		coord, coord, coord, coord, coord, coord,
	))

	properties.Property("coincident points are finite", prop.ForAll(
		func(x, y, z float64) bool {
			p := vmath.Vec3F{X: x, Y: y, Z: z}
			return Distance(p, p) == 0 && ElevationAngle(p, p) == 0 && HorizontalAngle(p, p) == 0
		},
		coord, coord, coord,
	))

	properties.TestingRun(t)
}
