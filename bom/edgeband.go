package bom

// BandLength returns the edge-band length in meters for one piece of the
// given millimeter dimensions. front, top and back each add the width once
// per occurrence; all adds the whole perimeter. Unknown codes add nothing.
func BandLength(codes []EdgeCode, width, height float64) float64 {
	if width <= 0 || height <= 0 {
		return 0
	}
	var mm float64
	for _, c := range codes {
		switch c {
		case EdgeFront, EdgeTop, EdgeBack:
			mm += width
		case EdgeAll:
			mm += 2 * (width + height)
		}
	}
	return mm / 1000
}
