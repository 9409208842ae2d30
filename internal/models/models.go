// package models defines the data model for the job application tracker
package models

import (
	"context"
)

// Model defines the base interface for records stored in a partition.
type Model interface {
	Key() string // Key returns the primary key of the record within its partition
}

// Partition defines the operations every partition of the record store supports.
//
// Absent keys are not errors: Get reports them through its boolean result, Delete ignores them.
type Partition[T Model] interface {
	Put(ctx context.Context, record T) error              // Put inserts or replaces the record stored under its key
	Get(ctx context.Context, key string) (T, bool, error) // Get returns the record and whether it exists
	GetAll(ctx context.Context) ([]T, error)              // GetAll returns every record, unordered
	Delete(ctx context.Context, key string) error         // Delete removes one record
	DeleteMany(ctx context.Context, keys []string) error  // DeleteMany attempts every key and reports each failure
}

// JobIndex names a secondary index of the jobs partition.
type JobIndex string

const (
	IndexUser            JobIndex = "user"
	IndexApplicationDate JobIndex = "applicationDate"
	IndexStatus          JobIndex = "status"
	IndexJobLink         JobIndex = "jobLink"
)

// Valid reports whether idx is a known index.
func (idx JobIndex) Valid() bool {
	switch idx {
	case IndexUser, IndexApplicationDate, IndexStatus, IndexJobLink:
		return true
	}
	return false
}

// JobStore is the jobs partition with its indexed lookups.
type JobStore interface {
	Partition[*JobRecord]

	// GetAllByIndex returns the records whose indexed field equals value, unordered.
	GetAllByIndex(ctx context.Context, index JobIndex, value string) ([]*JobRecord, error)

	// FindByLinkKey returns the records of user whose normalized link equals key,
	// oldest first (createdAt, then id).
	FindByLinkKey(ctx context.Context, user, key string) ([]*JobRecord, error)

	// WithTx runs fn against a view of the partition bound to one transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(JobStore) error) error
}

// UserStore is the users partition.
type UserStore interface {
	Partition[*UserProfile]
}

// SettingStore is the settings partition.
type SettingStore interface {
	Partition[*Setting]
}
