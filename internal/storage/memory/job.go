package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain/job"
)

var _ job.Repository = (*JobRepository)(nil)

type entry struct {
	record domain.JobRecord
	seq    uint64 // insertion order, never changes on re-upsert
}

// JobRepository is a process-local job store
type JobRepository struct {
	mu      sync.RWMutex
	entries map[string]*entry
	nextSeq uint64
}

func NewJobRepository() *JobRepository {
	return &JobRepository{entries: make(map[string]*entry)}
}

func (r *JobRepository) UpsertAll(_ context.Context, records []domain.JobRecord) (domain.UpsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := domain.UpsertResult{TotalReceived: len(records)}
	for _, rec := range records {
		rec.Summarized = false
		if e, ok := r.entries[rec.JobID]; ok {
			e.record = rec
			continue
		}
		r.nextSeq++
		r.entries[rec.JobID] = &entry{record: rec, seq: r.nextSeq}
		res.NewlyInserted++
	}

	return res, nil
}

func (r *JobRepository) MostRecent(_ context.Context, limit int) ([]domain.JobRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.snapshot()
	sort.Slice(all, func(i, j int) bool { return all[i].seq > all[j].seq })

	return take(all, limit), nil
}

func (r *JobRepository) Pending(_ context.Context, limit int) ([]domain.JobRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var pending []*entry
	for _, e := range r.snapshot() {
		if !e.record.Summarized {
			pending = append(pending, e)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		if pending[i].record.PostedAtUTC == pending[j].record.PostedAtUTC {
			return pending[i].seq > pending[j].seq
		}
		return pending[i].record.PostedAtUTC > pending[j].record.PostedAtUTC
	})

	return take(pending, limit), nil
}

func (r *JobRepository) MarkSummarized(_ context.Context, jobIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range jobIDs {
		if e, ok := r.entries[id]; ok {
			e.record.Summarized = true
		}
	}
	return nil
}

func (r *JobRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.entries)), nil
}

func (r *JobRepository) snapshot() []*entry {
	out := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		cp := *e
		out = append(out, &cp)
	}
	return out
}

func take(entries []*entry, limit int) []domain.JobRecord {
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]domain.JobRecord, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.record)
	}
	return out
}
