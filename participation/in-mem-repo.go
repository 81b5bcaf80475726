package participation

import (
	"context"
	"sync"
)

type recordKey struct {
	email     string
	classDate string
}

// InMemRecordRepo keeps records in a map. PutErr, when set, makes every Put
// fail without touching the stored records.
type InMemRecordRepo struct {
	mu      sync.RWMutex
	records map[recordKey]Record
	puts    int

	PutErr error
}

func NewInMemRecordRepo() *InMemRecordRepo {
	return &InMemRecordRepo{
		records: make(map[recordKey]Record),
	}
}

func (r *InMemRecordRepo) Put(ctx context.Context, rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.puts++
	if r.PutErr != nil {
		return r.PutErr
	}
	r.records[recordKey{rec.Email, rec.ClassDate}] = rec
	return nil
}

func (r *InMemRecordRepo) Get(ctx context.Context, email string, classDate string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if rec, ok := r.records[recordKey{email, classDate}]; ok {
		return &rec, nil
	}
	return nil, nil
}

// Puts counts attempted writes, failed ones included.
func (r *InMemRecordRepo) Puts() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.puts
}

func (r *InMemRecordRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
