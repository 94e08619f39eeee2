package entity

import "errors"

var (
	// ErrNotFound is returned by repositories when a row does not exist
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateFlightNumber is returned when inserting a flight whose number already exists
	ErrDuplicateFlightNumber = errors.New("duplicate flight number")
)
