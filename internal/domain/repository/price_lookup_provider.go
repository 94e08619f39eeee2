package repository

import (
	"context"
	"time"

	"flightstats-service/internal/domain/entity"
)

// PriceLookupProvider performs live price searches.
// FindOne returns nil and no error when no flight with that number is offered.
// Implementations are not safe for concurrent use by several callers; hold a
// ProviderLease around every use.
type PriceLookupProvider interface {
	FindAny(ctx context.Context, origin, destination *entity.Airport, date time.Time) ([]entity.Observation, error)
	FindOne(ctx context.Context, origin, destination *entity.Airport, date time.Time, flightNumber string) (*entity.Observation, error)
}

// ProviderLease grants exclusive use of the lookup provider until release is called
type ProviderLease interface {
	Acquire(ctx context.Context) (release func(), err error)
}
