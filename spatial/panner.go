package spatial

import (
	"math"
	"sync"

	"github.com/shacgolf/shac-golf/constant"
	"github.com/shacgolf/shac-golf/vmath"
)

// PannerParams mirrors the platform panner configuration
type PannerParams struct {
	PanningModel   string
	DistanceModel  string
	RefDistance    float64
	MaxDistance    float64
	RolloffFactor  float64
	ConeInnerAngle float64
	ConeOuterAngle float64
	ConeOuterGain  float64
}

// DefaultPannerParams returns the gameplay-balanced panner setup
func DefaultPannerParams() PannerParams {
	return PannerParams{
		PanningModel:   "HRTF",
		DistanceModel:  "inverse",
		RefDistance:    constant.PannerRefDistance,
		MaxDistance:    constant.PannerMaxDistance,
		RolloffFactor:  constant.PannerRolloffFactor,
		ConeInnerAngle: constant.PannerConeInnerAngle,
		ConeOuterAngle: constant.PannerConeOuterAngle,
		ConeOuterGain:  constant.PannerConeOuterGain,
	}
}

// DistanceGain applies the inverse rolloff model with distance clamped to [ref, max]
func (p PannerParams) DistanceGain(d float64) float64 {
	ref := p.RefDistance
	if ref <= 0 {
		ref = constant.PannerRefDistance
	}
	maxD := p.MaxDistance
	if maxD < ref {
		maxD = ref
	}
	if math.IsNaN(d) {
		d = ref
	}
	d = vmath.Clamp(d, ref, maxD)
	return ref / (ref + p.RolloffFactor*(d-ref))
}

// Omnidirectional reports whether the cone has no directional falloff
func (p PannerParams) Omnidirectional() bool {
	return p.ConeInnerAngle >= 360
}

// StereoPan returns -1 (hard left) to +1 (hard right) for a relative vector
// A zero vector is centered
func StereoPan(rel vmath.Vec3F, o Orientation) float64 {
	if vmath.V3FMagSq(rel) == 0 {
		return 0
	}
	dir := vmath.V3FNormalize(rel)
	return vmath.Clamp(vmath.V3FDot(o.Right(), dir), -1, 1)
}

// StereoGains combines equal-power pan with distance attenuation
func StereoGains(rel vmath.Vec3F, o Orientation, p PannerParams) (left, right float64) {
	g := p.DistanceGain(vmath.V3FMag(rel))
	theta := (StereoPan(rel, o) + 1) * math.Pi / 4
	return math.Cos(theta) * g, math.Sin(theta) * g
}

// Panner holds live panning parameters for one sounding source
// Renderers read Gains per chunk; Update is called on any listener or source move
type Panner struct {
	params PannerParams

	mu       sync.RWMutex
	relative vmath.Vec3F
	left     float64
	right    float64
}

func NewPanner(params PannerParams) *Panner {
	return &Panner{params: params}
}

// Update recomputes relative vector and gains from world positions
func (p *Panner) Update(source vmath.Vec3F, listener ListenerState) {
	rel := RelativeVector(source, listener.Position)
	l, r := StereoGains(rel, listener.Orientation, p.params)

	p.mu.Lock()
	p.relative = rel
	p.left = l
	p.right = r
	p.mu.Unlock()
}

// Gains returns current left/right multipliers
func (p *Panner) Gains() (left, right float64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.left, p.right
}

// Relative returns the last listener-relative source vector
func (p *Panner) Relative() vmath.Vec3F {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.relative
}

func (p *Panner) Params() PannerParams {
	return p.params
}
