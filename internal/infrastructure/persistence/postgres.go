package persistence

import (
	"time"

	"flightstats-service/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	maxRetries = 5
	retryDelay = 3 * time.Second
)

// NewPostgres opens dsn, retrying while the database starts up. Driver errors
// are translated so unique violations surface as gorm.ErrDuplicatedKey.
func NewPostgres(dsn string, log logger.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	for i := 0; i < maxRetries; i++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err == nil {
			return db, nil
		}

		log.Warn("Failed to connect to PostgreSQL", "attempt", i+1, "maxRetries", maxRetries, "error", err)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	return nil, err
}
