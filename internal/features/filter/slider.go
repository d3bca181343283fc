package filter

import "math"

// SliderFraction is the relative position of pos within [min, max], clamped
// to [0, 1]. An empty range yields 0.
func SliderFraction(min, max, pos float64) float64 {
	if max-min == 0 {
		return 0
	}
	return math.Max(0, math.Min(1, (pos-min)/(max-min)))
}

// SliderOffset is the horizontal offset of the value label above the slider
// thumb, so that the label never overflows the box.
func SliderOffset(value, min, max, boxWidth, labelWidth float64) float64 {
	coerced := math.Max(min, math.Min(max, value))
	return (boxWidth - labelWidth) * SliderFraction(min, max, coerced)
}
