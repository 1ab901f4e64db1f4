package dao

import (
	"context"

	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/post/entity"
)

// Filter narrows a history listing
type Filter struct {
	ShopID   string
	Platform string
	Status   *entity.Status
}

// ListOptions contains pagination and sorting options
type ListOptions struct {
	Limit  int
	Offset int
	Desc   bool
}

// PostRepository defines the interface for publish history data access
type PostRepository interface {
	// Create inserts a record together with its per-target results
	Create(ctx context.Context, rec *entity.Record, results []entity.TargetResult) error

	// GetByID retrieves a record and its target results
	GetByID(ctx context.Context, id string) (*entity.Record, []entity.TargetResult, error)

	// List retrieves records with optional filtering and pagination
	List(ctx context.Context, filter Filter, opts ListOptions) ([]entity.Record, error)

	// Count returns the total number of records matching the filter
	Count(ctx context.Context, filter Filter) (int64, error)
}
