package repository

import (
	"context"
	"fmt"
	"time"

	"flightstats-service/internal/domain/entity"
	"flightstats-service/internal/domain/repository"
	"flightstats-service/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	trackingJobCollection = "tracking_jobs"
	targetDateLayout      = "2006-01-02"
)

// trackingJobDocument is the stored form of a TrackingJob. The target date is
// a calendar date, so it is kept as text and read back in the scheduler's location.
type trackingJobDocument struct {
	Key           string           `bson:"key"`
	FlightNumber  string           `bson:"flightNumber"`
	OriginID      uint             `bson:"originId"`
	DestinationID uint             `bson:"destinationId"`
	TargetDate    string           `bson:"targetDate"`
	Frequency     entity.Frequency `bson:"frequency"`
	CreatedAt     time.Time        `bson:"createdAt"`
	UpdatedAt     time.Time        `bson:"updatedAt"`
}

func toTrackingJobDocument(job *entity.TrackingJob) trackingJobDocument {
	return trackingJobDocument{
		Key:           job.Key,
		FlightNumber:  job.FlightNumber,
		OriginID:      job.OriginID,
		DestinationID: job.DestinationID,
		TargetDate:    job.TargetDate.Format(targetDateLayout),
		Frequency:     job.Frequency,
		CreatedAt:     job.CreatedAt,
		UpdatedAt:     job.UpdatedAt,
	}
}

func toTrackingJobEntity(doc *trackingJobDocument, loc *time.Location) (*entity.TrackingJob, error) {
	target, err := time.ParseInLocation(targetDateLayout, doc.TargetDate, loc)
	if err != nil {
		return nil, fmt.Errorf("job %s: invalid target date %q: %w", doc.Key, doc.TargetDate, err)
	}
	return &entity.TrackingJob{
		Key:           doc.Key,
		FlightNumber:  doc.FlightNumber,
		OriginID:      doc.OriginID,
		DestinationID: doc.DestinationID,
		TargetDate:    target,
		Frequency:     doc.Frequency,
		CreatedAt:     doc.CreatedAt.In(loc),
		UpdatedAt:     doc.UpdatedAt.In(loc),
	}, nil
}

// MongoTrackingJobRepository implements TrackingJobRepository
type MongoTrackingJobRepository struct {
	collection *mongo.Collection
	loc        *time.Location
	logger     logger.Logger
}

// NewMongoTrackingJobRepository creates a new tracking job repository.
// Target dates are restored in loc.
func NewMongoTrackingJobRepository(db *mongo.Database, loc *time.Location, log logger.Logger) repository.TrackingJobRepository {
	if loc == nil {
		loc = time.UTC
	}
	collection := db.Collection(trackingJobCollection)

	// Create unique index on key
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	indexModel := mongo.IndexModel{
		Keys:    bson.M{"key": 1},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		log.Error("Failed to create unique index on tracking job key",
			"collection", trackingJobCollection,
			"error", err)
	}

	return &MongoTrackingJobRepository{
		collection: collection,
		loc:        loc,
		logger:     log,
	}
}

// Upsert creates or replaces the job stored under job.Key
func (r *MongoTrackingJobRepository) Upsert(ctx context.Context, job *entity.TrackingJob) error {
	now := time.Now()
	job.UpdatedAt = now
	doc := toTrackingJobDocument(job)

	updateDoc := bson.M{
		"key":           doc.Key,
		"flightNumber":  doc.FlightNumber,
		"originId":      doc.OriginID,
		"destinationId": doc.DestinationID,
		"targetDate":    doc.TargetDate,
		"frequency":     doc.Frequency,
		"updatedAt":     doc.UpdatedAt,
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"key": job.Key}

	result, err := r.collection.UpdateOne(
		ctx,
		filter,
		bson.M{
			"$set":         updateDoc,
			"$setOnInsert": bson.M{"createdAt": now},
		},
		opts,
	)
	if err != nil {
		return err
	}

	if result.UpsertedCount > 0 {
		job.CreatedAt = now
	}
	return nil
}

// Delete removes the job stored under key; missing keys are ignored
func (r *MongoTrackingJobRepository) Delete(ctx context.Context, key string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"key": key})
	return err
}

// List returns all persisted jobs ordered by key. Documents that cannot be
// read are logged and left out.
func (r *MongoTrackingJobRepository) List(ctx context.Context) ([]*entity.TrackingJob, error) {
	opts := options.Find().SetSort(bson.D{{Key: "key", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*trackingJobDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	jobs := make([]*entity.TrackingJob, 0, len(docs))
	for _, doc := range docs {
		job, err := toTrackingJobEntity(doc, r.loc)
		if err != nil {
			r.logger.Error("Skipping unreadable tracking job", "key", doc.Key, "error", err)
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
