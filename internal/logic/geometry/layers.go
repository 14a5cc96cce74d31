package geometry

import "math"

// toMicrons converts millimeters to whole micrometers, truncating toward
// zero. The product is taken in float32, the precision G-code numbers are
// written at. Negative and NaN inputs give 0.
func toMicrons(mm float64) uint32 {
	um := float32(mm) * 1000
	if !(um > 0) {
		return 0
	}
	if um >= math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(um)
}

// LayerHeights returns the z of every layer from first up to, but not
// including, total, spaced by step. Work is done in integer micrometers
// so repeated addition does not drift. 2.01 mm is 2010 µm, where a
// float64 product would truncate to 2009.
//
// A step under one micrometer gives no layers.
func LayerHeights(first, total, step float64) []float64 {
	firstUm := uint64(toMicrons(first))
	totalUm := uint64(toMicrons(total))
	stepUm := uint64(toMicrons(step))
	if stepUm == 0 || firstUm >= totalUm {
		return nil
	}

	heights := make([]float64, 0, (totalUm-firstUm+stepUm-1)/stepUm)
	for um := firstUm; um < totalUm; um += stepUm {
		heights = append(heights, float64(um)/1000)
	}
	return heights
}
