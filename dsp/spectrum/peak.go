package spectrum

import "math"

// RefinePeak estimates the sub-bin position and height of a spectral peak
// by fitting a parabola through the peak bin and its two neighbors.
//
// y1, y2, y3 are the spectrum values at bins k-1, k, k+1 where k is the
// peak bin. The returned offset is in bins relative to k; for a true local
// maximum it lies in (-0.5, 0.5). When the three points are too flat to
// determine a vertex, the offset is 0 and the height is y2.
func RefinePeak(y1, y2, y3 float64) (offset, height float64) {
	denom := 2 * (2*y2 - y1 - y3)
	if math.Abs(denom) <= 1e-10 {
		return 0, y2
	}

	offset = (y3 - y1) / denom

	a := 0.5 * (y1 - 2*y2 + y3)
	b := 0.5 * (y3 - y1)
	height = y2 + a*offset*offset + b*offset

	return offset, height
}
