package snapshot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/seung-gu/factset-data-collector/internal/classifier"
	"github.com/seung-gu/factset-data-collector/internal/matcher"
	"github.com/seung-gu/factset-data-collector/internal/ocr"
	"github.com/seung-gu/factset-data-collector/internal/utils"
)

// Config holds snapshot processing options.
type Config struct {
	Matcher    matcher.Config
	Classifier classifier.Config

	// ClassifyBars toggles the bar shade classification stage. When off,
	// records carry no bar color or confidence.
	ClassifyBars bool

	// Workers is the worker count for the per-image map step. Images are
	// independent, so parallelism is a pure performance optimization; the
	// output is identical to a sequential run.
	Workers int

	// Limit caps how many images of a directory are processed (0 = all).
	Limit int
}

// DefaultConfig returns the default snapshot processing options.
func DefaultConfig() Config {
	return Config{
		Matcher:      matcher.DefaultConfig(),
		Classifier:   classifier.DefaultConfig(),
		ClassifyBars: true,
		Workers:      1,
		Limit:        0,
	}
}

// Processor extracts quarter/EPS records from chart images. The OCR provider
// is injected once at construction and reused across images; there is no
// hidden global client.
type Processor struct {
	provider ocr.Provider
	cfg      Config
	logger   *slog.Logger
}

// NewProcessor creates a processor with the given OCR provider and options.
// A nil logger falls back to slog's default.
func NewProcessor(provider ocr.Provider, cfg Config, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{provider: provider, cfg: cfg, logger: logger}
}

// ProcessImage extracts all bar records from a single chart image. The report
// date comes from the filename; OCR, matching and classification run in
// sequence. Errors returned here are per-image: the directory driver logs
// them and moves on.
func (p *Processor) ProcessImage(ctx context.Context, imagePath string) ([]Record, error) {
	reportDate, err := ReportDateFromFilename(imagePath)
	if err != nil {
		return nil, err
	}

	boxes, err := p.provider.DetectTextBoxes(ctx, imagePath)
	if err != nil {
		return nil, fmt.Errorf("ocr: %w", err)
	}

	pairs := matcher.Match(boxes, p.cfg.Matcher)
	if !p.cfg.ClassifyBars {
		records := make([]Record, 0, len(pairs))
		for _, pair := range pairs {
			records = append(records, Record{
				ReportDate: reportDate,
				Quarter:    pair.Quarter,
				EPS:        pair.EPS,
				IsEstimate: true,
			})
		}
		return records, nil
	}

	img, _, err := utils.LoadImage(imagePath)
	if err != nil {
		return nil, err
	}

	bars := classifier.ClassifyBars(img, pairs, p.cfg.Classifier)
	records := make([]Record, 0, len(bars))
	for _, bar := range bars {
		records = append(records, Record{
			ReportDate:    reportDate,
			Quarter:       bar.Quarter,
			EPS:           bar.EPS,
			IsEstimate:    bar.Shade == classifier.ShadeLight,
			BarColor:      string(bar.Shade),
			BarConfidence: string(bar.Confidence),
		})
	}
	return records, nil
}
