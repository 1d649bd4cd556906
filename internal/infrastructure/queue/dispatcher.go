package queue

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Job is a unit of work keyed for sharding. Jobs with the same key always
// run on the same worker, in enqueue order.
type Job struct {
	Key string
	Run func(ctx context.Context) error
}

// Dispatcher routes jobs to a fixed set of workers using consistent hashing
// on the job key.
type Dispatcher struct {
	workers []chan Job
	log     zerolog.Logger
	ctx     context.Context
	wg      sync.WaitGroup
	once    sync.Once
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan Job, numWorkers),
		log:     log,
		ctx:     context.Background(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan Job, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Once ctx is cancelled, workers drain
// their queues without running the remaining jobs.
func (d *Dispatcher) Start(ctx context.Context) {
	d.ctx = ctx
	d.wg.Add(len(d.workers))
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a job to the worker responsible for its key. It blocks while
// that worker's buffer is full and gives up when the dispatcher's context is
// cancelled.
func (d *Dispatcher) Enqueue(job Job) {
	select {
	case d.workers[d.shardIndex(job.Key)] <- job:
	case <-d.ctx.Done():
	}
}

// Wait closes the queues and blocks until every worker has drained. No job
// may be enqueued after Wait.
func (d *Dispatcher) Wait() {
	d.once.Do(func() {
		for _, ch := range d.workers {
			close(ch)
		}
	})
	d.wg.Wait()
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan Job) {
	defer d.wg.Done()
	for job := range ch {
		if ctx.Err() != nil {
			continue
		}
		if err := job.Run(ctx); err != nil {
			d.log.Error().Err(err).
				Str("job_key", job.Key).
				Int("worker_id", id).
				Msg("job failed")
		}
	}
}
