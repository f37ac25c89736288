package plant

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("plant not found")

// Repository owns the plant table and the per-owner id index. Ids are
// assigned monotonically starting at 1 and are never reused; the owner
// index is append-only history, so dead and harvested plants keep their
// place in it.
type Repository interface {
	Create(ctx context.Context, owner string, now time.Time) (Plant, error)
	Get(ctx context.Context, id uint64) (Plant, bool, error)
	Update(ctx context.Context, p Plant) (Plant, error)
	List(ctx context.Context) ([]Plant, error)
	OwnerPlantIDs(ctx context.Context, owner string) ([]uint64, error)
}
