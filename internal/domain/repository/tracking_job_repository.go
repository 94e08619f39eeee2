package repository

import (
	"context"

	"flightstats-service/internal/domain/entity"
)

// TrackingJobRepository persists job definitions so schedules survive restarts
type TrackingJobRepository interface {
	Upsert(ctx context.Context, job *entity.TrackingJob) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]*entity.TrackingJob, error)
}
