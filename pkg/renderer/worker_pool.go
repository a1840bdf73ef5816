package renderer

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// tileQueueSize bounds the pending task queue; submitting blocks once it is full
const tileQueueSize = 256

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile          *Tile
	PassNumber    int
	TargetSamples int
	TaskID        int            // For deterministic ordering
	PixelStats    [][]PixelStats // Shared pixel stats array to write to
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID int
	Stats  RenderStats
	Error  error
}

// WorkerPool renders tile tasks on a fixed set of reusable goroutines
type WorkerPool struct {
	pool       worker.DynamicWorkerPool
	renderer   *TileRenderer
	numWorkers int
}

// NewWorkerPool creates a worker pool with the specified number of workers (0 = CPU count)
func NewWorkerPool(renderer *TileRenderer, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{
		pool:       worker.NewDynamicWorkerPool(numWorkers, tileQueueSize, 1*time.Second),
		renderer:   renderer,
		numWorkers: numWorkers,
	}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Run submits every task and returns a channel yielding one result per task.
// The channel is closed once the whole batch has finished.
func (wp *WorkerPool) Run(tasks []TileTask) <-chan TileResult {
	results := make(chan TileResult, len(tasks))

	// Pool.Wait only returns once workers exit, so a WaitGroup is the batch barrier
	var wg sync.WaitGroup
	wg.Add(len(tasks))

	go func() {
		for _, task := range tasks {
			wp.pool.SubmitTask(worker.Task{
				ID:      task.TaskID,
				Payload: task,
				Do: func() (any, error) {
					defer wg.Done()
					result := wp.process(task)
					results <- result
					return result, result.Error
				},
			})
		}
		wg.Wait()
		close(results)
	}()

	return results
}

// process renders one tile, turning a panic in the integrator into an error
func (wp *WorkerPool) process(task TileTask) (result TileResult) {
	result.TaskID = task.TaskID
	defer func() {
		if r := recover(); r != nil {
			result.Error = fmt.Errorf("tile %d pass %d: %v", task.Tile.ID, task.PassNumber, r)
		}
	}()

	sampler := task.Tile.SamplerForPass(task.PassNumber)
	result.Stats = wp.renderer.RenderTileBounds(task.Tile.Bounds, task.PixelStats, sampler, task.TargetSamples)
	return result
}

// Stop shuts down the pool's workers
func (wp *WorkerPool) Stop() {
	wp.pool.Stop()
}
