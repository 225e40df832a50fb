package clock

import (
	"context"
	"time"
)

type ctxClockKey struct{}

type Clock func() time.Time

func Now(ctx context.Context) time.Time {
	if clock, ok := ctx.Value(ctxClockKey{}).(Clock); ok {
		return clock()
	}
	return time.Now()
}

func With(ctx context.Context, clock Clock) context.Context {
	return context.WithValue(ctx, ctxClockKey{}, clock)
}

type ctxLocationKey struct{}

// WithLocation sets the time zone calendar days are computed in.
func WithLocation(ctx context.Context, loc *time.Location) context.Context {
	return context.WithValue(ctx, ctxLocationKey{}, loc)
}

// Location returns the time zone set by WithLocation, UTC by default.
func Location(ctx context.Context) *time.Location {
	if loc, ok := ctx.Value(ctxLocationKey{}).(*time.Location); ok && loc != nil {
		return loc
	}
	return time.UTC
}

// Day truncates t to midnight of its calendar day in loc.
func Day(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Today is Day(Now(ctx), Location(ctx)).
func Today(ctx context.Context) time.Time {
	return Day(Now(ctx), Location(ctx))
}
