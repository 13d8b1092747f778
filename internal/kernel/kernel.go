// Package kernel implements the closed-form time-to-impact computations
// against every boundary of the dumbbell domain, plus specular
// reflection. All functions are pure: they take a ray (position +
// direction) and the domain and return a forward travel distance.
package kernel

import (
	"math"

	"github.com/san-kum/dumbbellgas/internal/geom"
)

// Hit describes a candidate collision: the time (== distance, since
// speed is 1) to reach it, the impact point, and the outgoing
// direction a particle takes after the event.
type Hit struct {
	Time    float64
	X, Y    float64
	OutDir  float64
	Reflect bool // false for non-reflective events (gate, mid-line)
}

// noHit is returned by the ray-surface solvers when there is no forward
// intersection; it always loses to any real candidate because it equals
// the domain's MaxPath sentinel.
func noHit(maxPath float64) Hit {
	return Hit{Time: maxPath}
}

// TimeToHitBridgeRails solves the ray p + t*r, r = maxPath*(cos a, sin a)
// against the two horizontal bridge rails y = +-h/2, |x| <= L/2.
func TimeToHitBridgeRails(d *geom.Domain, x, y, dir float64) Hit {
	best := noHit(d.MaxPath)

	for _, rail := range [2]struct {
		y      float64
		normal float64
	}{
		{-d.BridgeHeight / 2, -math.Pi / 2},
		{d.BridgeHeight / 2, math.Pi / 2},
	} {
		if h, ok := railIntersection(d, x, y, dir, rail.y, rail.normal); ok && h.Time < best.Time {
			best = h
		}
	}
	return best
}

func railIntersection(d *geom.Domain, x, y, dir, railY, normal float64) (Hit, bool) {
	rx := d.MaxPath * math.Cos(dir)
	ry := d.MaxPath * math.Sin(dir)
	if ry == 0 {
		return Hit{}, false
	}
	t := (railY - y) / ry
	if !(geom.Epsilon < t && t < 1) {
		return Hit{}, false
	}
	hitX := x + t*rx
	if math.Abs(hitX) > d.BridgeLength/2 {
		return Hit{}, false
	}
	outDir := Reflect(dir, normal)
	return Hit{Time: t * d.MaxPath, X: hitX, Y: railY, OutDir: outDir, Reflect: true}, true
}

// TimeToHitCircle solves the ray against the given side's reservoir
// arc, accepting only roots whose impact point is NOT inside the bridge
// rectangle (those are masked by the rail or gate and handled there).
func TimeToHitCircle(d *geom.Domain, x, y, dir float64, s geom.Side) Hit {
	cx := d.CenterX(s)
	rx := math.Cos(dir)
	ry := math.Sin(dir)

	ox := x - cx
	a := rx*rx + ry*ry
	b := 2 * (ox*rx + y*ry)
	c := ox*ox + y*y - d.CircleRadius*d.CircleRadius

	disc := b*b - 4*a*c
	if disc < 0 {
		return noHit(d.MaxPath)
	}
	sq := math.Sqrt(disc)

	best := noHit(d.MaxPath)
	for _, t := range [2]float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)} {
		if !(geom.Epsilon < t && t < d.MaxPath) {
			continue
		}
		hitX := x + t*rx
		hitY := y + t*ry
		if d.InBridge(hitX, hitY) {
			continue
		}
		if t >= best.Time {
			continue
		}
		normal := math.Atan2(0-hitY, cx-hitX)
		best = Hit{Time: t, X: hitX, Y: hitY, OutDir: Reflect(dir, normal), Reflect: true}
	}
	return best
}

// TimeToHitGate returns the non-reflective gate-crossing event. For a
// flat gate this is the plane x = +-L/2; for an arc gate it reuses the
// circle intersection but keeps only impacts inside the bridge
// rectangle (the cap carved from the reservoir).
func TimeToHitGate(d *geom.Domain, x, y, dir float64) Hit {
	if d.GateIsFlat {
		return timeToHitFlatGate(d, x, y, dir)
	}
	return timeToHitArcGate(d, x, y, dir)
}

func timeToHitFlatGate(d *geom.Domain, x, y, dir float64) Hit {
	cosA := math.Cos(dir)
	if cosA == 0 {
		return noHit(d.MaxPath)
	}
	best := noHit(d.MaxPath)
	for _, plane := range [2]float64{-d.BridgeLength / 2, d.BridgeLength / 2} {
		t := (plane - x) / cosA
		if !(geom.Epsilon < t) {
			continue
		}
		hitY := y + t*math.Sin(dir)
		if math.Abs(hitY) > d.BridgeHeight/2 {
			continue
		}
		if t < best.Time {
			best = Hit{Time: t, X: plane, Y: hitY, OutDir: dir, Reflect: false}
		}
	}
	return best
}

func timeToHitArcGate(d *geom.Domain, x, y, dir float64) Hit {
	best := noHit(d.MaxPath)
	for _, s := range [2]geom.Side{geom.Left, geom.Right} {
		cx := d.CenterX(s)
		rx := math.Cos(dir)
		ry := math.Sin(dir)
		ox := x - cx
		a := rx*rx + ry*ry
		b := 2 * (ox*rx + y*ry)
		c := ox*ox + y*y - d.CircleRadius*d.CircleRadius
		disc := b*b - 4*a*c
		if disc < 0 {
			continue
		}
		sq := math.Sqrt(disc)
		for _, t := range [2]float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)} {
			if !(geom.Epsilon < t && t < best.Time) {
				continue
			}
			hitX := x + t*rx
			hitY := y + t*ry
			if !d.InBridge(hitX, hitY) {
				continue
			}
			best = Hit{Time: t, X: hitX, Y: hitY, OutDir: dir, Reflect: false}
		}
	}
	return best
}

// TimeToHitMiddle solves the ray against the synthetic vertical
// mid-line x = 0, |y| <= h/2. It exists purely to force a re-scheduling
// event at the instant a particle crosses the centre, keeping in_left
// exact.
func TimeToHitMiddle(d *geom.Domain, x, y, dir float64) Hit {
	cosA := math.Cos(dir)
	if cosA == 0 {
		return noHit(d.MaxPath)
	}
	t := (0 - x) / cosA
	if !(geom.Epsilon < t) {
		return noHit(d.MaxPath)
	}
	hitY := y + t*math.Sin(dir)
	if math.Abs(hitY) > d.BridgeHeight/2 {
		return noHit(d.MaxPath)
	}
	return Hit{Time: t, X: 0, Y: hitY, OutDir: dir, Reflect: false}
}

// Reflect computes the outgoing direction for specular reflection off a
// surface with the given outward normal angle.
func Reflect(dirIn, normal float64) float64 {
	out := 2*normal - dirIn + math.Pi
	return wrapAngle(out)
}

func wrapAngle(a float64) float64 {
	const twoPi = 2 * math.Pi
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	return a
}
