package services

import (
	"context"
	"time"
)

// TimezoneResolver maps a client IP to the reporting timezone used for all
// "today" and weekday computations. The production wiring uses the static
// implementation; a geo-IP backed one can be dropped in without touching the
// services.
type TimezoneResolver interface {
	Resolve(ctx context.Context, ip string) (*time.Location, error)
}

// StaticTimezoneResolver always answers with one configured location.
type StaticTimezoneResolver struct {
	loc *time.Location
}

// NewStaticTimezoneResolver creates a resolver pinned to the named zone.
func NewStaticTimezoneResolver(name string) (*StaticTimezoneResolver, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, err
	}
	return &StaticTimezoneResolver{loc: loc}, nil
}

// Resolve returns the configured location regardless of the IP.
func (r *StaticTimezoneResolver) Resolve(_ context.Context, _ string) (*time.Location, error) {
	return r.loc, nil
}
