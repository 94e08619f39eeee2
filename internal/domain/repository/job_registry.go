package repository

import "context"

// JobAction is the work a recurring job performs on each tick
type JobAction func(ctx context.Context) error

// JobRegistry maps a key to a recurring schedule. AddOrUpdate replaces any
// schedule already bound to key; RemoveIfExists ignores unknown keys.
type JobRegistry interface {
	AddOrUpdate(key string, schedule string, action JobAction) error
	RemoveIfExists(key string)
}
