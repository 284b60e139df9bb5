// Package ocr defines the text-box model produced by OCR backends and the
// provider interface the extraction pipeline consumes.
package ocr

import "context"

// TextBox is a single OCR-detected text region in pixel coordinates.
// The origin is the image's top-left corner; y grows downward.
type TextBox struct {
	Text   string  `json:"text"`
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CenterX returns the horizontal center of the box.
func (b TextBox) CenterX() float64 { return b.Left + b.Width/2 }

// CenterY returns the vertical center of the box.
func (b TextBox) CenterY() float64 { return b.Top + b.Height/2 }

// Right returns the x coordinate of the box's right edge.
func (b TextBox) Right() float64 { return b.Left + b.Width }

// Bottom returns the y coordinate of the box's lower edge.
func (b TextBox) Bottom() float64 { return b.Top + b.Height }

// Provider supplies OCR text boxes for chart images. Implementations are
// constructed once by the caller and reused across images; remote backends
// should honor ctx for cancellation. Returned boxes may contain OCR noise in
// their text; downstream matching is responsible for tolerating it.
type Provider interface {
	DetectTextBoxes(ctx context.Context, imagePath string) ([]TextBox, error)
}
