package export

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Job is one ExportAll call inside a batch.
type Job struct {
	Source    *SourceImage
	Flag      ReadabilityFlag
	Requests  []ExtractionRequest
	OutputDir string
}

// BatchResult holds the outcome of one Job, in the same position as the job.
type BatchResult struct {
	SourceID string
	Results  []ExportResult
	Err      error
}

// Summary aggregates the item results of the job.
func (b BatchResult) Summary() Summary { return Summarize(b.Results) }

// RunBatch runs jobs on at most workers goroutines and returns one
// BatchResult per job, in job order.
//
// Jobs sharing a source ID are rejected before anything runs, since their
// readability guards would race. A job-level error (including ErrNoRequests)
// is stored on its BatchResult and does not stop the other jobs. Once ctx is
// done no further jobs start; those jobs report ctx.Err() and RunBatch
// returns it after the started jobs finish.
func (e *Exporter) RunBatch(ctx context.Context, jobs []Job, workers int) ([]BatchResult, error) {
	seen := make(map[string]struct{}, len(jobs))
	for _, job := range jobs {
		if job.Source == nil {
			return nil, fmt.Errorf("job has no source image")
		}
		if _, dup := seen[job.Source.ID()]; dup {
			return nil, fmt.Errorf("source %s appears in more than one job", job.Source.ID())
		}
		seen[job.Source.ID()] = struct{}{}
	}

	if workers < 1 {
		workers = 1
	}

	out := make([]BatchResult, len(jobs))
	g := new(errgroup.Group)
	g.SetLimit(workers)

	for i, job := range jobs {
		out[i].SourceID = job.Source.ID()
		if err := ctx.Err(); err != nil {
			out[i].Err = err
			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				out[i].Err = err
				return nil
			}
			out[i].Results, out[i].Err = e.ExportAll(job.Source, job.Flag, job.Requests, job.OutputDir)
			return nil
		})
	}

	_ = g.Wait()
	return out, ctx.Err()
}
