package repository

import (
	"testing"
	"time"

	"flightstats-service/internal/domain/entity"
	"flightstats-service/pkg/dates"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestTrackingJobDocument_TargetDateSurvivesRoundTrip(t *testing.T) {
	zurich, err := time.LoadLocation("Europe/Zurich")
	require.NoError(t, err)

	tests := []struct {
		name   string
		loc    *time.Location
		target time.Time
	}{
		{"zurich midnight", zurich, time.Date(2025, 4, 1, 0, 0, 0, 0, zurich)},
		{"utc midnight", time.UTC, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)},
		{"east of utc", time.FixedZone("UTC+10", 10*3600), time.Date(2025, 4, 1, 0, 0, 0, 0, time.FixedZone("UTC+10", 10*3600))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := &entity.TrackingJob{
				Key:           entity.JobKey("BA117"),
				FlightNumber:  "BA117",
				OriginID:      1,
				DestinationID: 2,
				TargetDate:    tt.target,
				Frequency:     entity.FrequencyHour,
			}

			raw, err := bson.Marshal(toTrackingJobDocument(job))
			require.NoError(t, err)
			var doc trackingJobDocument
			require.NoError(t, bson.Unmarshal(raw, &doc))
			assert.Equal(t, "2025-04-01", doc.TargetDate)

			restored, err := toTrackingJobEntity(&doc, tt.loc)
			require.NoError(t, err)
			assert.True(t, tt.target.Equal(restored.TargetDate), "restored %s", restored.TargetDate)
			assert.Equal(t, "2025-04-01", restored.TargetDate.Format("2006-01-02"))
			assert.Equal(t, job.Key, restored.Key)
			assert.Equal(t, job.Frequency, restored.Frequency)

			// the day before departure the job is still live
			eve := time.Date(2025, 3, 31, 12, 0, 0, 0, tt.loc)
			assert.True(t, dates.IsAfterToday(restored.TargetDate, eve))
		})
	}
}

func TestTrackingJobDocument_RejectsBadTargetDate(t *testing.T) {
	_, err := toTrackingJobEntity(&trackingJobDocument{Key: "JobForFlight_X", TargetDate: "01/04/2025"}, time.UTC)
	assert.Error(t, err)
}
