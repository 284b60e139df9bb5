package classifier

import (
	"image"

	"github.com/disintegration/imaging"
)

// grayBytes converts an image crop to a flat slice of luminance bytes.
func grayBytes(img image.Image) ([]uint8, int, int) {
	gray := imaging.Grayscale(img)
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	pix := make([]uint8, width*height)
	for y := range height {
		for x := range width {
			// Grayscale output has R==G==B; any channel is the luminance.
			pix[y*width+x] = gray.NRGBAAt(x, y).R
		}
	}
	return pix, width, height
}

// otsuThreshold selects the global threshold maximizing between-class
// variance of the luminance histogram.
func otsuThreshold(pix []uint8) uint8 {
	const bins = 256
	var histogram [bins]int
	for _, v := range pix {
		histogram[v]++
	}

	totalPixels := len(pix)
	var totalSum float64
	for i := range bins {
		totalSum += float64(i) * float64(histogram[i])
	}

	var maxVariance, sumB float64
	bestThreshold := 0
	wB := 0

	for t := range bins {
		wB += histogram[t]
		if wB == 0 {
			continue
		}
		wF := totalPixels - wB
		if wF == 0 {
			break
		}

		sumB += float64(t) * float64(histogram[t])
		meanB := sumB / float64(wB)
		meanF := (totalSum - sumB) / float64(wF)

		// Between-class variance
		variance := float64(wB) * float64(wF) * (meanB - meanF) * (meanB - meanF)
		if variance > maxVariance {
			maxVariance = variance
			bestThreshold = t
		}
	}

	return uint8(bestThreshold) //nolint:gosec // bestThreshold is bounded by bins-1
}

// inkFraction returns the share of set pixels in a binary mask.
func inkFraction(mask []bool) float64 {
	if len(mask) == 0 {
		return 0
	}
	count := 0
	for _, set := range mask {
		if set {
			count++
		}
	}
	return float64(count) / float64(len(mask))
}

// otsuInkMask marks pixels at or below the global Otsu threshold. The
// threshold bin belongs to the dark class: Otsu picks the last dark level
// when the histogram is cleanly bimodal.
func otsuInkMask(pix []uint8) []bool {
	threshold := otsuThreshold(pix)
	mask := make([]bool, len(pix))
	for i, v := range pix {
		mask[i] = v <= threshold
	}
	return mask
}

// invertedOtsuInkMask is the inverted-polarity variant marking pixels above
// the Otsu threshold; the complementary fraction stands in for the ink share.
func invertedOtsuInkMask(pix []uint8) []bool {
	threshold := otsuThreshold(pix)
	mask := make([]bool, len(pix))
	for i, v := range pix {
		mask[i] = v > threshold
	}
	return mask
}

// adaptiveInkMask performs local-mean binarization: a pixel is ink when it is
// darker than the mean of its window by more than the bias. Windows are
// clamped at the crop borders.
func adaptiveInkMask(pix []uint8, width, height, window int, bias float64) []bool {
	if window < 1 {
		window = 1
	}
	half := window / 2
	mask := make([]bool, len(pix))

	for y := range height {
		for x := range width {
			var sum, count int
			for ky := -half; ky <= half; ky++ {
				for kx := -half; kx <= half; kx++ {
					nx, ny := x+kx, y+ky
					if nx >= 0 && nx < width && ny >= 0 && ny < height {
						sum += int(pix[ny*width+nx])
						count++
					}
				}
			}
			mean := float64(sum) / float64(count)
			mask[y*width+x] = float64(pix[y*width+x]) < mean-bias
		}
	}
	return mask
}

// closeMask applies morphological closing (dilate then erode) to a binary
// mask, filling speckle holes inside bar fills.
func closeMask(mask []bool, width, height, kernelSize int) []bool {
	if kernelSize <= 1 {
		return mask
	}
	return erodeMask(dilateMask(mask, width, height, kernelSize), width, height, kernelSize)
}

// dilateMask expands set regions of a binary mask.
func dilateMask(mask []bool, width, height, kernelSize int) []bool {
	half := kernelSize / 2
	result := make([]bool, len(mask))

	for y := range height {
		for x := range width {
			set := false
			for ky := -half; ky <= half && !set; ky++ {
				for kx := -half; kx <= half && !set; kx++ {
					nx, ny := x+kx, y+ky
					if nx >= 0 && nx < width && ny >= 0 && ny < height && mask[ny*width+nx] {
						set = true
					}
				}
			}
			result[y*width+x] = set
		}
	}
	return result
}

// erodeMask shrinks set regions of a binary mask.
func erodeMask(mask []bool, width, height, kernelSize int) []bool {
	half := kernelSize / 2
	result := make([]bool, len(mask))

	for y := range height {
		for x := range width {
			set := true
			for ky := -half; ky <= half && set; ky++ {
				for kx := -half; kx <= half && set; kx++ {
					nx, ny := x+kx, y+ky
					if nx >= 0 && nx < width && ny >= 0 && ny < height && !mask[ny*width+nx] {
						set = false
					}
				}
			}
			result[y*width+x] = set
		}
	}
	return result
}
