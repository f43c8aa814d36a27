package hotel

import "context"

// Repository is the port the rest of the module depends on to resolve
// a hotel's category and overrides. Concrete adapters live under
// internal/repository/{postgres,memory}.
type Repository interface {
	GetByID(ctx context.Context, id string) (Hotel, error)
}
