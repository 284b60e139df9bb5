package classifier

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bimodalPixels builds a flat crop that is half dark, half bright.
func bimodalPixels(dark, bright uint8, n int) []uint8 {
	pix := make([]uint8, n)
	for i := range pix {
		if i < n/2 {
			pix[i] = dark
		} else {
			pix[i] = bright
		}
	}
	return pix
}

func TestOtsuThresholdSeparatesBimodalHistogram(t *testing.T) {
	pix := bimodalPixels(40, 220, 100)
	threshold := otsuThreshold(pix)
	assert.GreaterOrEqual(t, threshold, uint8(40))
	assert.Less(t, threshold, uint8(220))
}

func TestOtsuInkMaskPolarity(t *testing.T) {
	pix := bimodalPixels(40, 220, 100)

	ink := otsuInkMask(pix)
	assert.InDelta(t, 0.5, inkFraction(ink), 0.05)

	inverted := invertedOtsuInkMask(pix)
	for i := range pix {
		assert.NotEqual(t, ink[i], inverted[i])
	}
}

func TestInkFraction(t *testing.T) {
	assert.Equal(t, 0.0, inkFraction(nil))
	assert.Equal(t, 0.25, inkFraction([]bool{true, false, false, false}))
	assert.Equal(t, 1.0, inkFraction([]bool{true, true}))
}

func TestAdaptiveInkMaskUniformRegion(t *testing.T) {
	// In a uniform region every pixel equals its local mean, so nothing is
	// darker than mean minus bias.
	const width, height = 10, 10
	pix := make([]uint8, width*height)
	for i := range pix {
		pix[i] = 40
	}

	mask := adaptiveInkMask(pix, width, height, 11, 2)
	assert.Equal(t, 0.0, inkFraction(mask))
}

func TestAdaptiveInkMaskMarksDarkSpotOnBrightField(t *testing.T) {
	const width, height = 11, 11
	pix := make([]uint8, width*height)
	for i := range pix {
		pix[i] = 220
	}
	center := (height/2)*width + width/2
	pix[center] = 40

	mask := adaptiveInkMask(pix, width, height, 11, 2)
	assert.True(t, mask[center])
	assert.False(t, mask[0])
}

func TestCloseMaskFillsSpeckleHole(t *testing.T) {
	const width, height = 9, 9
	mask := make([]bool, width*height)
	for i := range mask {
		mask[i] = true
	}
	hole := (height/2)*width + width/2
	mask[hole] = false

	closed := closeMask(mask, width, height, 3)
	assert.True(t, closed[hole])
}

func TestCloseMaskKernelOneIsIdentity(t *testing.T) {
	mask := []bool{true, false, true, false}
	assert.Equal(t, mask, closeMask(mask, 2, 2, 1))
}

func TestGrayBytesDimensions(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.Gray{Y: 40}}, image.Point{}, draw.Src)

	pix, width, height := grayBytes(img)
	require.Equal(t, 4, width)
	require.Equal(t, 3, height)
	require.Len(t, pix, 12)
	for _, v := range pix {
		assert.InDelta(t, 40, float64(v), 2)
	}
}
