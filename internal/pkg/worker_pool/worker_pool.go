package worker_pool

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"
)

// ErrPoolClosed is returned by Submit once the pool stopped accepting tasks.
var ErrPoolClosed = errors.New("worker pool is closed; cannot accept new tasks")

type TaskFunc func(ctx context.Context) (any, error)

// TaskResult holds the outcome of a finished task (its ID, result value, or error).
type TaskResult struct {
	ID     string
	Result any
	Err    error
}

// workItem is an internal wrapper for tasks submitted to the pool.
type workItem struct {
	id string
	fn TaskFunc
}

// WorkerPool runs submitted tasks on a fixed number of goroutines, so at most
// that many tasks execute at any moment. Every accepted task produces exactly
// one TaskResult on ResultsCh; ResultsCh is closed after Close once all
// accepted tasks finished. Callers must drain ResultsCh.
type WorkerPool struct {
	tasksCh     chan workItem   // channel for incoming tasks
	ResultsCh   chan TaskResult // channel for task results
	ctx         context.Context // context for cancellation signal
	cancelFunc  context.CancelFunc
	wg          sync.WaitGroup
	closeOnce   sync.Once
	mu          sync.RWMutex
	closed      bool
	stopOnError bool
	log         *log.Logger
}

// NewWorkerPool initializes the worker pool with the given number of workers.
// If stopOnError is true, the pool will cancel on the first task error.
func NewWorkerPool(parentCtx context.Context, numWorkers int, stopOnError bool, logger *log.Logger) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = 1
	}

	ctx, cancel := context.WithCancel(parentCtx)
	wp := &WorkerPool{
		tasksCh:     make(chan workItem),
		ResultsCh:   make(chan TaskResult, numWorkers),
		ctx:         ctx,
		cancelFunc:  cancel,
		stopOnError: stopOnError,
		log:         logger,
	}

	wp.wg.Add(numWorkers)
	for i := 1; i <= numWorkers; i++ {
		go wp.worker(i)
	}
	logger.Debugf("%d workers started", numWorkers)

	go func() {
		wp.wg.Wait()
		logger.Debug("all workers exited, closing results channel")
		close(wp.ResultsCh)
	}()

	return wp
}

// Submit blocks until a worker picks the task up. It returns an error if the
// pool was closed or canceled before that happened.
func (wp *WorkerPool) Submit(id string, taskFn TaskFunc) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		wp.log.Warnf("Submit rejected for task %s: pool is closed", id)
		return ErrPoolClosed
	}

	select {
	case wp.tasksCh <- workItem{id: id, fn: taskFn}:
		return nil
	case <-wp.ctx.Done():
		wp.log.Warnf("Submit failed for task %s: pool was canceled", id)
		return ErrPoolClosed
	}
}

// Close stops accepting new tasks. Tasks already accepted run to completion.
func (wp *WorkerPool) Close() {
	wp.closeOnce.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.tasksCh)
		wp.mu.Unlock()
	})
}

// Stop cancels the pool's context and closes it. Running tasks observe the
// cancellation through their context; queued submissions are rejected.
func (wp *WorkerPool) Stop() {
	wp.log.Info("stop invoked: canceling worker pool")
	wp.cancelFunc()
	wp.Close()
}

// worker is the function each worker goroutine runs to process tasks.
func (wp *WorkerPool) worker(workerID int) {
	defer wp.wg.Done()
	for task := range wp.tasksCh {
		wp.log.Debugf("worker %d starting task %s", workerID, task.id)
		result, err := task.fn(wp.ctx)
		if err != nil {
			wp.log.Debugf("task %s failed: %v", task.id, err)
			if wp.stopOnError {
				wp.log.Warnf("stopOnError active - canceling pool due to error in task %s", task.id)
				wp.cancelFunc()
			}
		}

		wp.ResultsCh <- TaskResult{ID: task.id, Result: result, Err: err}
	}
	wp.log.Debugf("worker %d exiting: task channel closed", workerID)
}
