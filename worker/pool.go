// Package worker runs PDF extraction tasks outside the request/response
// cycle. Handlers enqueue persisted task ids; a fixed pool of workers drains
// the queue. Because every task is persisted before it is enqueued, a restart
// can recover work the previous process never finished.
package worker

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/zuai/sample-paper-api/repository"
	"github.com/zuai/sample-paper-api/types"
)

// ErrQueueFull is returned when the task queue cannot accept more work.
var ErrQueueFull = errors.New("task queue is full")

// TaskProcessor is the part of the extraction service the pool drives.
type TaskProcessor interface {
	ProcessTask(ctx context.Context, taskID string)
}

type Pool struct {
	queue     chan string
	workers   int
	processor TaskProcessor
	taskRepo  repository.TaskRepo
	wg        sync.WaitGroup
}

func NewPool(workers, queueSize int, processor TaskProcessor, taskRepo repository.TaskRepo) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 64
	}
	return &Pool{
		queue:     make(chan string, queueSize),
		workers:   workers,
		processor: processor,
		taskRepo:  taskRepo,
	}
}

// Start launches the workers. It returns immediately; workers stop when ctx
// is cancelled. Wait reclaims them.
func (p *Pool) Start(ctx context.Context) {
	for i := 1; i <= p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
	log.Printf("Started %d extraction workers", p.workers)
}

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case taskID := <-p.queue:
			log.Printf("Worker %d picked up task %s", id, taskID)
			p.processor.ProcessTask(ctx, taskID)
		}
	}
}

// Enqueue hands a persisted task to the pool without blocking the caller.
func (p *Pool) Enqueue(taskID string) error {
	select {
	case p.queue <- taskID:
		return nil
	default:
		return ErrQueueFull
	}
}

// Recover re-enqueues tasks that were pending or running when the previous
// process stopped. Delivery is at least once; ProcessTask tolerates replays.
func (p *Pool) Recover(ctx context.Context) error {
	tasks, err := p.taskRepo.ListTasksByStatus(ctx, []string{
		types.TASK_STATUS_PENDING,
		types.TASK_STATUS_RUNNING,
	})
	if err != nil {
		return err
	}
	recovered := 0
	for _, task := range tasks {
		if err := p.Enqueue(task.ID); err != nil {
			log.Printf("Failed to re-enqueue task %s: %v", task.ID, err)
			continue
		}
		recovered++
	}
	if recovered > 0 {
		log.Printf("Recovered %d unfinished extraction tasks", recovered)
	}
	return nil
}

// Wait blocks until all workers have stopped.
func (p *Pool) Wait() {
	p.wg.Wait()
}
