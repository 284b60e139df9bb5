package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSidecarPath(t *testing.T) {
	assert.Equal(t, "charts/20161209-6.boxes.json", SidecarPath("charts/20161209-6.png"))
	assert.Equal(t, "a/b.boxes.json", SidecarPath("a/b.jpg"))
	assert.Equal(t, "plain.boxes.json", SidecarPath("plain"))
}

func TestBoxFileProviderReadsSidecar(t *testing.T) {
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "20161209-6.png")

	boxes := []TextBox{
		{Text: "Q1'16", Left: 90, Top: 450, Width: 32, Height: 14},
		{Text: "2.5", Left: 92, Top: 150, Width: 21, Height: 14},
	}
	data, err := json.Marshal(boxes)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(SidecarPath(imagePath), data, 0o600))

	got, err := NewBoxFileProvider().DetectTextBoxes(context.Background(), imagePath)
	require.NoError(t, err)
	assert.Equal(t, boxes, got)
}

func TestBoxFileProviderMissingSidecar(t *testing.T) {
	imagePath := filepath.Join(t.TempDir(), "20161209-6.png")

	_, err := NewBoxFileProvider().DetectTextBoxes(context.Background(), imagePath)
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, imagePath, provErr.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestBoxFileProviderMalformedSidecar(t *testing.T) {
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "20161209-6.png")
	require.NoError(t, os.WriteFile(SidecarPath(imagePath), []byte("{not json"), 0o600))

	_, err := NewBoxFileProvider().DetectTextBoxes(context.Background(), imagePath)
	require.Error(t, err)
}

func TestTextBoxGeometry(t *testing.T) {
	b := TextBox{Left: 10, Top: 20, Width: 30, Height: 40}
	assert.Equal(t, 25.0, b.CenterX())
	assert.Equal(t, 40.0, b.CenterY())
	assert.Equal(t, 40.0, b.Right())
	assert.Equal(t, 60.0, b.Bottom())
}
