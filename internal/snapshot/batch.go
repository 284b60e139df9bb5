package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ProcessDirectory processes every chart image in dir and returns the union
// of all per-image records as one long-format table. Images are independent;
// files are iterated in sorted filename order for deterministic logs and
// stable downstream first-wins semantics. A failed image is logged and
// skipped; only an inaccessible directory or an empty one is an error.
func (p *Processor) ProcessDirectory(ctx context.Context, dir string) ([]Record, error) {
	files, err := discoverChartImages(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no chart images found in %s", dir)
	}

	if p.cfg.Limit > 0 && len(files) > p.cfg.Limit {
		files = files[:p.cfg.Limit]
		p.logger.Info("limiting image count", "limit", p.cfg.Limit)
	}
	p.logger.Info("processing chart images", "count", len(files), "dir", dir)

	if p.cfg.Workers > 1 && len(files) > 1 {
		return p.processFilesParallel(ctx, files), nil
	}

	var all []Record
	for i, file := range files {
		p.logger.Info("processing image",
			"index", i+1, "total", len(files), "file", filepath.Base(file))

		records, err := p.ProcessImage(ctx, file)
		if err != nil {
			p.logger.Error("image processing failed", "file", file, "error", err)
			continue
		}
		all = append(all, records...)
	}
	return all, nil
}

// discoverChartImages lists the PNG snapshots of a directory in sorted order.
func discoverChartImages(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.png"))
	if err != nil {
		return nil, fmt.Errorf("globbing %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}
