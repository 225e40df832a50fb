package usecase

import (
	"context"
	"time"

	"github.com/feelcast/feelcast/pkg/domain/model/trend"
	"github.com/feelcast/feelcast/pkg/domain/types"
)

func (u *UseCases) WeeklyTrend(ctx context.Context, userID types.UserID, asOf time.Time) ([]trend.Point, error) {
	return u.trend.WeeklyTrend(u.withLocation(ctx), userID, asOf)
}

func (u *UseCases) DailyTrend(ctx context.Context, userID types.UserID, from, to time.Time) ([]trend.Point, error) {
	return u.trend.DailyTrend(u.withLocation(ctx), userID, from, to)
}
