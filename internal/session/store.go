package session

import "context"

// Store is the session record store. Interface-driven to keep the lifecycle
// service testable and to allow swapping in external persistence without
// rewiring business code.
//
// Error contract: FindByID and Update return an error wrapping
// sentinel.ErrNotFound when the id is unknown; nil on success.
type Store interface {
	Save(ctx context.Context, id string, record Record) error
	FindByID(ctx context.Context, id string) (Record, error)
	// Update applies fn to the stored record as one atomic
	// read-modify-write; concurrent updates to the same id never interleave.
	Update(ctx context.Context, id string, fn func(*Record)) error
	List(ctx context.Context) (map[string]Record, error)
}
