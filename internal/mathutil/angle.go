package mathutil

import "math"

// Lerp interpolates linearly between a and b. t outside [0,1] extrapolates.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// WrapAngle normalizes an angle to (-π, π].
func WrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// AngleDiff returns the signed shortest rotation from a to b, in (-π, π].
func AngleDiff(a, b float64) float64 {
	return WrapAngle(b - a)
}

// LerpAngle interpolates between two angles along the shortest arc.
// LerpAngle(350°, 10°, 0.5) passes through 0°, not 180°.
func LerpAngle(a, b, t float64) float64 {
	return a + AngleDiff(a, b)*t
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}
