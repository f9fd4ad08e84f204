package renderer

import (
	"context"
	"runtime"

	"github.com/golang/glog"
	"github.com/shirou/gopsutil/cpu"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/xerrors"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile          *Tile
	PassNumber    int
	TargetSamples int
	TaskID        int // Index into the pass's tile list
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID int
	Stats  RenderStats
}

// TileFunc renders one task. It is called concurrently for distinct tiles.
type TileFunc func(ctx context.Context, task TileTask) (RenderStats, error)

// WorkerPool runs tile tasks with bounded parallelism
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a worker pool; numWorkers <= 0 uses DefaultWorkerCount
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkerCount()
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// DefaultWorkerCount returns the number of logical CPUs
func DefaultWorkerCount() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		glog.V(1).Infof("Falling back to runtime.NumCPU for worker count: %v", err)
		return runtime.NumCPU()
	}
	return n
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Run renders every task and sends each result to done, one at a time, in
// completion order. It stops issuing tasks once ctx is done or a task fails
// and returns the first error.
func (wp *WorkerPool) Run(ctx context.Context, tasks []TileTask, render TileFunc, done func(TileResult)) error {
	eg, ctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(wp.numWorkers))
	results := make(chan TileResult, len(tasks))

	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for result := range results {
			if done != nil {
				done(result)
			}
		}
	}()

	var acquireErr error
	for _, task := range tasks {
		task := task
		if err := sem.Acquire(ctx, 1); err != nil {
			acquireErr = xerrors.Errorf("while waiting for a free worker: %w", err)
			break
		}

		eg.Go(func() error {
			defer sem.Release(1)
			if err := ctx.Err(); err != nil {
				return err
			}
			stats, err := render(ctx, task)
			if err != nil {
				return xerrors.Errorf("while rendering tile %d: %w", task.Tile.ID, err)
			}
			results <- TileResult{TaskID: task.TaskID, Stats: stats}
			return nil
		})
	}

	err := eg.Wait()
	close(results)
	<-collected

	if err != nil {
		return err
	}
	return acquireErr
}
