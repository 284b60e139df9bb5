package testutil

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/seung-gu/factset-data-collector/internal/ocr"
)

// ChartBar describes one bar of a synthetic earnings chart.
type ChartBar struct {
	Quarter string
	EPS     float64
	// Solid bars are filled dark (reported actuals); hollow bars are drawn
	// as a light outline (forward estimates).
	Solid bool
}

// ChartConfig holds the layout of a synthetic chart image.
type ChartConfig struct {
	Width  int
	Height int
	Bars   []ChartBar
}

// DefaultChartConfig returns a chart layout large enough for a handful of
// bars.
func DefaultChartConfig(bars []ChartBar) ChartConfig {
	return ChartConfig{Width: 640, Height: 480, Bars: bars}
}

var (
	barFill    = color.Gray{Y: 40}
	barOutline = color.Gray{Y: 160}
)

// GenerateChartImage renders a synthetic bar chart in the FactSet layout:
// quarter labels along the bottom axis, value labels above each bar, and the
// bar body in between. It returns the image together with the ground-truth
// text boxes an OCR pass over it would produce.
func GenerateChartImage(cfg ChartConfig) (*image.RGBA, []ocr.TextBox) {
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	textHeight := face.Metrics().Height.Ceil()

	quarterTop := cfg.Height - 30
	numberTop := 120
	barTop := numberTop + textHeight + 4
	barBottom := quarterTop - 4
	barWidth := 30

	var boxes []ocr.TextBox
	for i, bar := range cfg.Bars {
		centerX := (i + 1) * cfg.Width / (len(cfg.Bars) + 1)

		numberText := fmt.Sprintf("%g", bar.EPS)
		boxes = append(boxes,
			drawLabel(img, face, bar.Quarter, centerX, quarterTop),
			drawLabel(img, face, numberText, centerX, numberTop),
		)

		region := image.Rect(centerX-barWidth/2, barTop, centerX+barWidth/2, barBottom)
		if bar.Solid {
			draw.Draw(img, region, &image.Uniform{barFill}, image.Point{}, draw.Src)
		} else {
			drawOutline(img, region)
		}
	}

	return img, boxes
}

// drawLabel renders text centered horizontally at centerX with its top edge
// at top, and returns the matching ground-truth box.
func drawLabel(img *image.RGBA, face font.Face, text string, centerX, top int) ocr.TextBox {
	width := font.MeasureString(face, text).Ceil()
	height := face.Metrics().Height.Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	left := centerX - width/2

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.P(left, top+ascent),
	}
	drawer.DrawString(text)

	return ocr.TextBox{
		Text:   text,
		Left:   float64(left),
		Top:    float64(top),
		Width:  float64(width),
		Height: float64(height),
	}
}

// drawOutline draws a 2px light rectangle outline, leaving the interior
// white.
func drawOutline(img *image.RGBA, region image.Rectangle) {
	for t := 0; t < 2; t++ {
		r := region.Inset(t)
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Set(x, r.Min.Y, barOutline)
			img.Set(x, r.Max.Y-1, barOutline)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			img.Set(r.Min.X, y, barOutline)
			img.Set(r.Max.X-1, y, barOutline)
		}
	}
}

// SaveImage writes an image to path as PNG.
func SaveImage(t *testing.T, img image.Image, path string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	f, err := os.Create(path) //nolint:gosec // G304: test-controlled path
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()

	require.NoError(t, png.Encode(f, img))
}

// WriteBoxSidecar writes the text boxes as the JSON sidecar for imagePath.
func WriteBoxSidecar(t *testing.T, boxes []ocr.TextBox, imagePath string) {
	t.Helper()

	data, err := json.Marshal(boxes)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(ocr.SidecarPath(imagePath), data, 0o600))
}

// WriteChartFixture generates a chart image plus its sidecar under dir and
// returns the image path.
func WriteChartFixture(t *testing.T, dir, filename string, bars []ChartBar) string {
	t.Helper()

	img, boxes := GenerateChartImage(DefaultChartConfig(bars))
	imagePath := filepath.Join(dir, filename)
	SaveImage(t, img, imagePath)
	WriteBoxSidecar(t, boxes, imagePath)
	return imagePath
}
