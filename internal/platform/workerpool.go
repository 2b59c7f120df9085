// Package platform adapts the teacher repo's worker-pool/tomb lifecycle
// idiom for use by the batch CLI drivers, which process many independent
// symbols concurrently while keeping each individual engine instance
// touched by exactly one goroutine.
package platform

import (
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

const taskChanSize = 100

// WorkerFunction processes one task. An error return kills the owning
// tomb, stopping every other worker in the pool.
type WorkerFunction = func(t *tomb.Tomb, task any) error

// WorkerPool fans a bounded number of goroutines out over a task channel.
type WorkerPool struct {
	n     int
	tasks chan any
}

// NewWorkerPool constructs a pool with size concurrent workers.
func NewWorkerPool(size int) WorkerPool {
	return WorkerPool{
		tasks: make(chan any, taskChanSize),
		n:     size,
	}
}

// Submit enqueues a task. It blocks if the pool's channel is full.
func (pool *WorkerPool) Submit(task any) {
	pool.tasks <- task
}

// Close signals that no further tasks will be submitted.
func (pool *WorkerPool) Close() {
	close(pool.tasks)
}

// Run starts size workers under t, each draining tasks until the channel
// is closed or t starts dying.
func (pool *WorkerPool) Run(t *tomb.Tomb, work WorkerFunction) {
	log.Info().Int("workers", pool.n).Msg("starting worker pool")
	for i := 0; i < pool.n; i++ {
		t.Go(func() error {
			return pool.worker(t, work)
		})
	}
}

func (pool *WorkerPool) worker(t *tomb.Tomb, work WorkerFunction) error {
	for {
		select {
		case <-t.Dying():
			return nil
		case task, ok := <-pool.tasks:
			if !ok {
				return nil
			}
			if err := work(t, task); err != nil {
				log.Error().Err(err).Msg("worker exiting")
				return err
			}
		}
	}
}
