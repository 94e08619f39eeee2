package entity

import (
	"fmt"
	"strings"
	"time"
)

// JobKeyPrefix prefixes every tracking job key
const JobKeyPrefix = "JobForFlight_"

// Frequency is the cadence of a tracking job
type Frequency string

const (
	FrequencyMinute Frequency = "minute"
	FrequencyHour   Frequency = "hour"
	FrequencyDay    Frequency = "day"
	FrequencyWeek   Frequency = "week"
	FrequencyMonth  Frequency = "month"
)

var cronSpecs = map[Frequency]string{
	FrequencyMinute: "@every 1m",
	FrequencyHour:   "@hourly",
	FrequencyDay:    "@daily",
	FrequencyWeek:   "@weekly",
	FrequencyMonth:  "@monthly",
}

// ParseFrequency accepts the names above in any case
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := cronSpecs[f]; !ok {
		return "", fmt.Errorf("unknown frequency %q", s)
	}
	return f, nil
}

// CronSpec returns the cron descriptor for f; unknown values run monthly.
func (f Frequency) CronSpec() string {
	if spec, ok := cronSpecs[f]; ok {
		return spec
	}
	return cronSpecs[FrequencyMonth]
}

// TrackingJob is the persisted definition of a recurring price observation
type TrackingJob struct {
	Key           string    `json:"key"`
	FlightNumber  string    `json:"flightNumber"`
	OriginID      uint      `json:"originId"`
	DestinationID uint      `json:"destinationId"`
	TargetDate    time.Time `json:"targetDate"`
	Frequency     Frequency `json:"frequency"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// JobKey builds the registry key for a flight number
func JobKey(flightNumber string) string {
	return JobKeyPrefix + flightNumber
}
