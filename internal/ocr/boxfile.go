package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BoxFileSuffix replaces the image extension to locate the sidecar file
// holding pre-extracted OCR boxes for that image.
const BoxFileSuffix = ".boxes.json"

// ProviderError wraps a provider failure with the image it occurred on.
type ProviderError struct {
	Path string
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("ocr provider failed for %s: %v", e.Path, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// BoxFileProvider reads OCR results from JSON sidecar files written by an
// upstream OCR service. For an image charts/20161209.png the provider expects
// charts/20161209.boxes.json containing an array of TextBox objects.
type BoxFileProvider struct{}

// NewBoxFileProvider returns a provider backed by sidecar box files.
func NewBoxFileProvider() *BoxFileProvider { return &BoxFileProvider{} }

// SidecarPath returns the sidecar box-file path for the given image path.
func SidecarPath(imagePath string) string {
	return strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + BoxFileSuffix
}

// DetectTextBoxes implements Provider.
func (p *BoxFileProvider) DetectTextBoxes(_ context.Context, imagePath string) ([]TextBox, error) {
	sidecar := SidecarPath(imagePath)
	data, err := os.ReadFile(sidecar) //nolint:gosec // G304: reading user-provided sidecar path is expected
	if err != nil {
		return nil, &ProviderError{Path: imagePath, Err: err}
	}

	var boxes []TextBox
	if err := json.Unmarshal(data, &boxes); err != nil {
		return nil, &ProviderError{Path: imagePath, Err: fmt.Errorf("decode %s: %w", sidecar, err)}
	}
	return boxes, nil
}
