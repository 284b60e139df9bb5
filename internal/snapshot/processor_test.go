package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seung-gu/factset-data-collector/internal/classifier"
	"github.com/seung-gu/factset-data-collector/internal/ocr"
	"github.com/seung-gu/factset-data-collector/internal/testutil"
)

// stubProvider serves canned boxes keyed by image base name.
type stubProvider struct {
	boxes map[string][]ocr.TextBox
}

func (p *stubProvider) DetectTextBoxes(_ context.Context, imagePath string) ([]ocr.TextBox, error) {
	boxes, ok := p.boxes[filepath.Base(imagePath)]
	if !ok {
		return nil, errors.New("no boxes for image")
	}
	return boxes, nil
}

func axisBoxes(values map[string]float64) []ocr.TextBox {
	var boxes []ocr.TextBox
	x := 90.0
	for _, quarter := range []string{"Q1'16", "Q2'16", "Q3'16", "Q4'16"} {
		eps, ok := values[quarter]
		if !ok {
			continue
		}
		boxes = append(boxes,
			ocr.TextBox{Text: quarter, Left: x, Top: 450, Width: 32, Height: 14},
			ocr.TextBox{Text: fmt.Sprintf("%g", eps), Left: x, Top: 150, Width: 32, Height: 14},
		)
		x += 100
	}
	return boxes
}

func noClassifyConfig() Config {
	cfg := DefaultConfig()
	cfg.ClassifyBars = false
	return cfg
}

func TestProcessImageWithoutClassification(t *testing.T) {
	provider := &stubProvider{boxes: map[string][]ocr.TextBox{
		"20161209-6.png": axisBoxes(map[string]float64{"Q1'16": 2.5, "Q2'16": 3.1}),
	}}
	p := NewProcessor(provider, noClassifyConfig(), nil)

	records, err := p.ProcessImage(context.Background(), "/charts/20161209-6.png")
	require.NoError(t, err)
	require.Len(t, records, 2)

	for _, r := range records {
		assert.Equal(t, "2016-12-09", r.ReportDate)
		assert.True(t, r.IsEstimate)
		assert.Empty(t, r.BarColor)
		assert.Empty(t, r.BarConfidence)
	}
}

func TestProcessImageBadFilename(t *testing.T) {
	p := NewProcessor(&stubProvider{}, noClassifyConfig(), nil)
	_, err := p.ProcessImage(context.Background(), "/charts/not-a-date.png")
	require.Error(t, err)
}

func TestProcessImageProviderFailure(t *testing.T) {
	p := NewProcessor(&stubProvider{}, noClassifyConfig(), nil)
	_, err := p.ProcessImage(context.Background(), "/charts/20161209.png")
	require.Error(t, err)
}

func TestProcessImageClassifiesBars(t *testing.T) {
	dir := t.TempDir()
	imagePath := testutil.WriteChartFixture(t, dir, "20161209-6.png", []testutil.ChartBar{
		{Quarter: "Q1'16", EPS: 2.5, Solid: true},
		{Quarter: "Q2'16", EPS: 3.1, Solid: false},
	})

	p := NewProcessor(ocr.NewBoxFileProvider(), DefaultConfig(), nil)
	records, err := p.ProcessImage(context.Background(), imagePath)
	require.NoError(t, err)
	require.Len(t, records, 2)

	byQuarter := make(map[string]Record)
	for _, r := range records {
		byQuarter[r.Quarter] = r
	}

	actual := byQuarter["Q1'16"]
	assert.Equal(t, string(classifier.ShadeDark), actual.BarColor)
	assert.False(t, actual.IsEstimate)

	estimate := byQuarter["Q2'16"]
	assert.Equal(t, string(classifier.ShadeLight), estimate.BarColor)
	assert.True(t, estimate.IsEstimate)
	assert.Equal(t, string(classifier.ConfidenceHigh), estimate.BarConfidence)
}

func writeWeeklyFixtures(t *testing.T, dir string) {
	t.Helper()

	testutil.WriteChartFixture(t, dir, "20161209-6.png", []testutil.ChartBar{
		{Quarter: "Q1'16", EPS: 2.5, Solid: true},
		{Quarter: "Q2'16", EPS: 3.1, Solid: false},
	})
	testutil.WriteChartFixture(t, dir, "20161216-6.png", []testutil.ChartBar{
		{Quarter: "Q1'16", EPS: 2.5, Solid: true},
		{Quarter: "Q2'16", EPS: 3.2, Solid: false},
	})
	testutil.WriteChartFixture(t, dir, "20161223-6.png", []testutil.ChartBar{
		{Quarter: "Q1'16", EPS: 2.5, Solid: true},
		{Quarter: "Q2'16", EPS: 3.2, Solid: true},
	})
}

func TestProcessDirectory(t *testing.T) {
	dir := t.TempDir()
	writeWeeklyFixtures(t, dir)

	p := NewProcessor(ocr.NewBoxFileProvider(), DefaultConfig(), nil)
	records, err := p.ProcessDirectory(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, records, 6)

	// Sorted filename order means ascending report dates.
	assert.Equal(t, "2016-12-09", records[0].ReportDate)
	assert.Equal(t, "2016-12-23", records[len(records)-1].ReportDate)
}

func TestProcessDirectoryIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	writeWeeklyFixtures(t, dir)

	// An image without a sidecar fails OCR but must not abort the batch.
	img, _ := testutil.GenerateChartImage(testutil.DefaultChartConfig(nil))
	testutil.SaveImage(t, img, filepath.Join(dir, "20161230-6.png"))

	p := NewProcessor(ocr.NewBoxFileProvider(), DefaultConfig(), nil)
	records, err := p.ProcessDirectory(context.Background(), dir)
	require.NoError(t, err)
	assert.Len(t, records, 6)
}

func TestProcessDirectoryLimit(t *testing.T) {
	dir := t.TempDir()
	writeWeeklyFixtures(t, dir)

	cfg := DefaultConfig()
	cfg.Limit = 1
	p := NewProcessor(ocr.NewBoxFileProvider(), cfg, nil)

	records, err := p.ProcessDirectory(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2016-12-09", records[0].ReportDate)
}

func TestProcessDirectoryEmpty(t *testing.T) {
	p := NewProcessor(ocr.NewBoxFileProvider(), DefaultConfig(), nil)
	_, err := p.ProcessDirectory(context.Background(), t.TempDir())
	require.Error(t, err)
}

func TestProcessDirectoryNotADirectory(t *testing.T) {
	dir := t.TempDir()
	imagePath := testutil.WriteChartFixture(t, dir, "20161209-6.png", []testutil.ChartBar{
		{Quarter: "Q1'16", EPS: 2.5, Solid: true},
	})

	p := NewProcessor(ocr.NewBoxFileProvider(), DefaultConfig(), nil)
	_, err := p.ProcessDirectory(context.Background(), imagePath)
	require.Error(t, err)
}

func TestParallelMatchesSequential(t *testing.T) {
	dir := t.TempDir()
	writeWeeklyFixtures(t, dir)

	sequential := NewProcessor(ocr.NewBoxFileProvider(), DefaultConfig(), nil)
	want, err := sequential.ProcessDirectory(context.Background(), dir)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Workers = 4
	parallel := NewProcessor(ocr.NewBoxFileProvider(), cfg, nil)
	got, err := parallel.ProcessDirectory(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, want, got)
}

func TestLongCSVRoundTrip(t *testing.T) {
	records := []Record{
		{ReportDate: "2016-12-09", Quarter: "Q1'16", EPS: 2.5, IsEstimate: false, BarColor: "dark", BarConfidence: "high"},
		{ReportDate: "2016-12-09", Quarter: "Q2'16", EPS: 3.1, IsEstimate: true, BarColor: "light", BarConfidence: "high"},
	}

	path := filepath.Join(t.TempDir(), "records.csv")
	require.NoError(t, SaveLongCSV(path, records))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()

	var got []Record
	require.NoError(t, ReadLongCSV(f, &got))
	assert.Equal(t, records, got)
}
