package systems

import "math"

// Wrap returns v modulo size in [0, size). Go's math.Mod keeps the sign of v.
func Wrap(v, size float64) float64 {
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	// -tiny + size rounds to size
	if v >= size {
		v = 0
	}
	return v
}

// WrapIndex returns i modulo n in [0, n).
func WrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// NormalizeAngle maps any angle into [0, 2pi).
func NormalizeAngle(a float64) float64 {
	return Wrap(a, 2*math.Pi)
}

// AngleDiff returns a - b mapped into [-pi, pi).
func AngleDiff(a, b float64) float64 {
	return Wrap(a-b+math.Pi, 2*math.Pi) - math.Pi
}

// ToroidalDelta returns the shortest path delta from (x1,y1) to (x2,y2).
func ToroidalDelta(x1, y1, x2, y2, w, h float64) (dx, dy float64) {
	dx = x2 - x1
	dy = y2 - y1

	if dx > w/2 {
		dx -= w
	} else if dx < -w/2 {
		dx += w
	}
	if dy > h/2 {
		dy -= h
	} else if dy < -h/2 {
		dy += h
	}

	return dx, dy
}

// VisionBin reports whether a target at offset (dx, dy) lies inside the cone
// of the given half-angle centred on heading, and if so which of the equally
// wide angular sites it falls in. Site 0 is the clockwise edge of the cone.
// Observation and biting both use this one cone.
func VisionBin(dx, dy, heading, halfAngle float64, sites int) (int, bool) {
	rel := AngleDiff(math.Atan2(dy, dx), heading)
	if rel < -halfAngle || rel >= halfAngle {
		return 0, false
	}
	bin := int(float64(sites) * (rel + halfAngle) / (2 * halfAngle))
	if bin >= sites {
		bin = sites - 1
	}
	return bin, true
}
