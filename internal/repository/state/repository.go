package state

import "context"

// Repository stores one opaque state blob per scope. Load returns
// domain.ErrNotFound when the scope has never been written.
type Repository interface {
	Load(ctx context.Context, scope string) ([]byte, error)
	Save(ctx context.Context, scope string, blob []byte) error
	Ping(ctx context.Context) error
}
