package drag

// Accelerate returns the auto-scroll speed of the next frame while the pointer
// is fraction deep into the edge margin.
func Accelerate(speed, maxSpeed, fraction float64) float64 {
	speed = min(speed*1.03, maxSpeed*min(fraction, 1))
	return max(speed, 1)
}

// Decelerate returns the auto-scroll speed of the next frame once the pointer
// left the edge margin.
func Decelerate(speed float64) float64 {
	if speed > 1 {
		return speed / 1.18
	}
	return 0
}

// edgeFraction returns how deep touch is into the edge margin in direction,
// or zero when scrolling that way is not wanted.
func edgeFraction(touch, size, margin, center, direction int, touchDirection int) float64 {
	if margin <= 0 {
		return 0
	}
	if direction < 0 {
		if touch <= margin && center < size/2 && touchDirection <= 0 {
			return -float64(touch-margin) / float64(margin)
		}
		return 0
	}
	boundary := size - margin
	if touch >= boundary && center > size/2 && touchDirection >= 0 {
		return float64(touch-boundary) / float64(margin)
	}
	return 0
}
