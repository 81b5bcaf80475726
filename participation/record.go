package participation

import "context"

// Record is the stored decision for one person and one session.
// (Email, ClassDate) is its key.
type Record struct {
	Email         string `dynamo:"email,hash" json:"email"`
	ClassDate     string `dynamo:"classDate,range" json:"classDate"`
	Name          string `dynamo:"name" json:"name"`
	Participation bool   `dynamo:"participation" json:"participation"`
}

type RecordRepo interface {
	// Put overwrites any record stored under the same key.
	Put(ctx context.Context, rec Record) error
	// Get returns nil, nil when there is no record for the key.
	Get(ctx context.Context, email string, classDate string) (*Record, error)
}
