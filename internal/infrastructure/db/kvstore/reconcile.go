package kvstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/collabhub/network/internal/core/ports"
	"github.com/collabhub/network/internal/infrastructure/queue"
	"github.com/collabhub/network/internal/pkg/metrics"
)

var _ ports.Reconciler = (*Reconciler)(nil)

// Reconciler evicts index entries that no longer resolve. Set partitions are
// fanned out over a sharded worker pool; unique hashes are checked entry by
// entry. A pass leaves nothing for the next pass to evict.
type Reconciler struct {
	kv      ports.KVBackend
	idx     *IndexManager
	workers int
	log     zerolog.Logger
}

func NewReconciler(kv ports.KVBackend, workers int, log zerolog.Logger) *Reconciler {
	return &Reconciler{kv: kv, idx: NewIndexManager(kv), workers: workers, log: log}
}

// pass collects the results of one reconcile run across workers.
type pass struct {
	mu     sync.Mutex
	report ports.ReconcileReport
	err    error
}

func (p *pass) record(index string, checked, evicted int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.report.PartitionsScanned++
	p.report.MembersChecked += checked
	if evicted > 0 {
		p.report.Evicted[index] += evicted
	}
	if err != nil && p.err == nil {
		p.err = err
	}
}

func (r *Reconciler) Reconcile(ctx context.Context) (ports.ReconcileReport, error) {
	p := &pass{report: ports.ReconcileReport{Evicted: make(map[string]int)}}

	d := queue.NewDispatcher(r.workers, r.log)
	d.Start(ctx)
	for _, idx := range setIndexes {
		partitions, err := r.idx.Partitions(ctx, idx)
		if err != nil {
			d.Wait()
			return p.report, err
		}
		for _, partition := range partitions {
			d.Enqueue(queue.Job{
				Key: idx.key(partition),
				Run: func(ctx context.Context) error {
					checked, evicted, err := r.partition(ctx, idx, partition)
					p.record(string(idx), checked, evicted, err)
					return err
				},
			})
		}
	}
	for _, u := range uniqueIndexes {
		d.Enqueue(queue.Job{
			Key: u.key(),
			Run: func(ctx context.Context) error {
				checked, evicted, err := r.unique(ctx, u)
				p.record(string(u), checked, evicted, err)
				return err
			},
		})
	}
	d.Wait()

	if p.err == nil {
		p.err = ctx.Err()
	}
	r.log.Info().
		Int("partitions", p.report.PartitionsScanned).
		Int("members", p.report.MembersChecked).
		Int("evicted", p.report.Total()).
		Msg("index reconcile finished")
	return p.report, p.err
}

// partition removes the members of one set partition whose entity is gone.
func (r *Reconciler) partition(ctx context.Context, idx Index, partition string) (checked, evicted int, err error) {
	members, err := r.idx.Members(ctx, idx, partition)
	if err != nil {
		return 0, 0, err
	}
	target := memberTarget[idx]
	var dangling []string
	for _, m := range members {
		ok, err := r.kv.Exists(ctx, target(m))
		if err != nil {
			return len(members), 0, fmt.Errorf("reconcile %s: %w", idx.key(partition), err)
		}
		if !ok {
			dangling = append(dangling, m)
		}
	}
	if len(dangling) == 0 {
		return len(members), 0, nil
	}
	if err := r.idx.RemoveMember(ctx, idx, partition, dangling...); err != nil {
		return len(members), 0, err
	}
	metrics.ReconcileEvictedTotal.WithLabelValues(string(idx)).Add(float64(len(dangling)))
	r.log.Info().
		Str("index", string(idx)).
		Str("partition", partition).
		Strs("members", dangling).
		Msg("evicted dangling index members")
	return len(members), len(dangling), nil
}

// unique removes mappings whose user is gone or no longer holds the value.
func (r *Reconciler) unique(ctx context.Context, u UniqueIndex) (checked, evicted int, err error) {
	entries, err := r.idx.Entries(ctx, u)
	if err != nil {
		return 0, 0, err
	}
	field := uniqueField[u]
	for value, userID := range entries {
		held, _, err := r.kv.HGet(ctx, userKey(userID), field)
		if err != nil {
			return len(entries), evicted, fmt.Errorf("reconcile %s: %w", u, err)
		}
		if held == value {
			continue
		}
		if err := r.idx.Unbind(ctx, u, value); err != nil {
			return len(entries), evicted, err
		}
		evicted++
		r.log.Info().
			Str("index", string(u)).
			Str("value", value).
			Str("user_id", userID).
			Msg("evicted stale unique mapping")
	}
	if evicted > 0 {
		metrics.ReconcileEvictedTotal.WithLabelValues(string(u)).Add(float64(evicted))
	}
	return len(entries), evicted, nil
}
