package trend

import (
	"context"
	"sort"
	"time"

	"github.com/feelcast/feelcast/pkg/domain/interfaces"
	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/domain/model/trend"
	"github.com/feelcast/feelcast/pkg/domain/types"
	"github.com/feelcast/feelcast/pkg/utils/clock"
	"github.com/m-mizutani/goerr/v2"
)

// WeekDays is the length of the weekly window, asOf included.
const WeekDays = 7

// Service averages scored sessions per calendar day. Days are computed in
// clock.Location(ctx).
type Service struct {
	repo interfaces.Repository
}

func New(repo interfaces.Repository) *Service {
	return &Service{repo: repo}
}

// WeeklyTrend covers the seven days ending with the day of asOf.
func (s *Service) WeeklyTrend(ctx context.Context, userID types.UserID, asOf time.Time) ([]trend.Point, error) {
	last := clock.Day(asOf, clock.Location(ctx))
	first := last.AddDate(0, 0, -(WeekDays - 1))
	return s.aggregate(ctx, userID, first, last)
}

// DailyTrend covers the days from the day of from to the day of to, both
// inclusive.
func (s *Service) DailyTrend(ctx context.Context, userID types.UserID, from, to time.Time) ([]trend.Point, error) {
	loc := clock.Location(ctx)
	first, last := clock.Day(from, loc), clock.Day(to, loc)
	if first.After(last) {
		return nil, goerr.New("trend range starts after it ends",
			goerr.V("from", first.Format(time.DateOnly)),
			goerr.V("to", last.Format(time.DateOnly)),
			goerr.T(errs.TagInvalidArgument))
	}
	return s.aggregate(ctx, userID, first, last)
}

type bucket struct {
	day   time.Time
	sum   float64
	count int
}

func (s *Service) aggregate(ctx context.Context, userID types.UserID, first, last time.Time) ([]trend.Point, error) {
	loc := clock.Location(ctx)
	end := last.AddDate(0, 0, 1)

	sessions, err := s.repo.GetScoredSessionsBySpan(ctx, userID, first, end)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get scored sessions",
			goerr.TV(errs.UserIDKey, userID),
			goerr.V("begin", first),
			goerr.V("end", end),
			goerr.T(errs.TagStorage))
	}

	buckets := make(map[int64]*bucket)
	for _, sess := range sessions {
		if sess == nil || sess.AnalyzeTime == nil || sess.FeelingState == nil {
			continue
		}
		at := *sess.AnalyzeTime
		if at.Before(first) || !at.Before(end) {
			continue
		}

		day := clock.Day(at, loc)
		b, ok := buckets[day.Unix()]
		if !ok {
			b = &bucket{day: day}
			buckets[day.Unix()] = b
		}
		b.sum += *sess.FeelingState
		b.count++
	}

	points := make([]trend.Point, 0, len(buckets))
	for _, b := range buckets {
		points = append(points, trend.Point{
			Date:            b.day,
			AvgFeelingState: b.sum / float64(b.count),
		})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points, nil
}
