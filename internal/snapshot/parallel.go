package snapshot

import (
	"context"
	"sync"
)

// imageJob is a single image processing job.
type imageJob struct {
	index int
	path  string
}

// imageResult is the outcome of processing a single image.
type imageResult struct {
	index   int
	records []Record
	err     error
}

// processFilesParallel runs the per-image map step over a worker pool.
// Results are re-assembled in input order, so the returned records are
// identical to a sequential run; failed images are logged and skipped the
// same way.
func (p *Processor) processFilesParallel(ctx context.Context, files []string) []Record {
	workers := p.cfg.Workers
	if workers > len(files) {
		workers = len(files)
	}

	jobs := make(chan imageJob, len(files))
	results := make(chan imageResult, len(files))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				select {
				case <-ctx.Done():
					results <- imageResult{index: job.index, err: ctx.Err()}
					continue
				default:
				}
				records, err := p.ProcessImage(ctx, job.path)
				results <- imageResult{index: job.index, records: records, err: err}
			}
		}()
	}

	for i, file := range files {
		jobs <- imageJob{index: i, path: file}
	}
	close(jobs)
	wg.Wait()
	close(results)

	perImage := make([][]Record, len(files))
	for res := range results {
		if res.err != nil {
			p.logger.Error("image processing failed", "file", files[res.index], "error", res.err)
			continue
		}
		perImage[res.index] = res.records
	}

	var all []Record
	for _, records := range perImage {
		all = append(all, records...)
	}
	return all
}
