package deskkit

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

var ErrQueueClosed = errors.New("job queue closed")

// JobQueue runs submitted jobs one at a time on a single worker goroutine,
// so journal-mutating work from a UI never overlaps. Submitting a key that
// is already queued or running joins that job instead of adding another.
type JobQueue struct {
	jobs  chan func()
	quit  chan struct{}
	group singleflight.Group
	wg    sync.WaitGroup
	once  sync.Once
}

// JobKey builds a queue key from every input that changes what a job does,
// so only truly identical requests are coalesced.
func JobKey(op string, args ...string) string {
	return op + "\x00" + strings.Join(args, "\x00")
}

func NewJobQueue() *JobQueue {
	q := &JobQueue{
		jobs: make(chan func()),
		quit: make(chan struct{}),
	}
	q.wg.Add(1)
	go q.work()
	return q
}

func (q *JobQueue) work() {
	defer q.wg.Done()
	for {
		select {
		case <-q.quit:
			return
		case job := <-q.jobs:
			job()
		}
	}
}

type jobResult struct {
	v   any
	err error
}

// Submit queues fn under key and returns immediately. done is called from a
// background goroutine with fn's result. joined is true only for callers
// that arrived while an earlier submission of the same key was queued or
// running: they receive that submission's result and fn itself never runs.
// The submission that ran fn always sees joined == false.
func (q *JobQueue) Submit(key string, fn func() (any, error), done func(v any, err error, joined bool)) {
	go func() {
		ran := false
		v, err, _ := q.group.Do(key, func() (any, error) {
			ran = true
			return q.run(fn)
		})
		if done != nil {
			done(v, err, !ran)
		}
	}()
}

// Do is the blocking form of Submit.
func (q *JobQueue) Do(key string, fn func() (any, error)) (any, error) {
	v, err, _ := q.group.Do(key, func() (any, error) {
		return q.run(fn)
	})
	return v, err
}

func (q *JobQueue) run(fn func() (any, error)) (any, error) {
	out := make(chan jobResult, 1)
	job := func() {
		v, err := fn()
		out <- jobResult{v, err}
	}

	select {
	case <-q.quit:
		return nil, ErrQueueClosed
	case q.jobs <- job:
	}

	r := <-out
	return r.v, r.err
}

// Close stops the worker after the running job finishes. Jobs submitted
// afterwards fail with ErrQueueClosed.
func (q *JobQueue) Close() {
	q.once.Do(func() { close(q.quit) })
	q.wg.Wait()
}
