package trend_test

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/domain/model/session"
	"github.com/feelcast/feelcast/pkg/domain/types"
	"github.com/feelcast/feelcast/pkg/repository"
	"github.com/feelcast/feelcast/pkg/service/trend"
	"github.com/feelcast/feelcast/pkg/utils/clock"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/stretchr/testify/assert"
)

// putScored stores a scored session directly; only the fields the trend
// reads matter here.
func putScored(t *testing.T, repo *repository.Memory, userID types.UserID, at time.Time, score float64) {
	s := &session.Session{
		ID:           types.NewSessionID(),
		UserID:       userID,
		Status:       types.SessionStatusScored,
		FeelingState: &score,
		AnalyzeTime:  &at,
		CreatedAt:    at,
		UpdatedAt:    at,
	}
	gt.NoError(t, repo.PutSession(t.Context(), s)).Required()
}

func date(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func setupMarch(t *testing.T) (*repository.Memory, types.UserID) {
	repo := repository.NewMemory()
	userID := types.NewUserID()
	putScored(t, repo, userID, date(2024, 3, 1, 10), 72.5)
	putScored(t, repo, userID, date(2024, 3, 5, 10), 75)
	putScored(t, repo, userID, date(2024, 3, 15, 9), 77.5)
	putScored(t, repo, userID, date(2024, 3, 15, 21), 80)
	putScored(t, repo, userID, date(2024, 3, 31, 23), 60)

	// another user's session must not leak in
	putScored(t, repo, types.NewUserID(), date(2024, 3, 15, 12), 0)
	return repo, userID
}

func TestDailyTrend(t *testing.T) {
	repo, userID := setupMarch(t)
	svc := trend.New(repo)

	points, err := svc.DailyTrend(t.Context(), userID, date(2024, 3, 5, 0), date(2024, 3, 15, 0))
	gt.NoError(t, err).Required()
	gt.A(t, points).Length(2)
	gt.Equal(t, points[0].DateString(), "2024-03-05")
	assert.InDelta(t, 75.0, points[0].AvgFeelingState, 1e-9)
	gt.Equal(t, points[1].DateString(), "2024-03-15")
	assert.InDelta(t, 78.75, points[1].AvgFeelingState, 1e-9)
}

func TestDailyTrendRejectsReversedRange(t *testing.T) {
	repo, userID := setupMarch(t)
	_, err := trend.New(repo).DailyTrend(t.Context(), userID, date(2024, 3, 15, 0), date(2024, 3, 5, 0))
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, errs.TagInvalidArgument))
}

func TestWeeklyTrend(t *testing.T) {
	repo, userID := setupMarch(t)
	svc := trend.New(repo)

	t.Run("window ends at asOf", func(t *testing.T) {
		points, err := svc.WeeklyTrend(t.Context(), userID, date(2024, 3, 31, 8))
		gt.NoError(t, err).Required()
		gt.A(t, points).Length(1)
		gt.Equal(t, points[0].DateString(), "2024-03-31")
		gt.Equal(t, points[0].AvgFeelingState, 60.0)
	})

	t.Run("first day of window is included", func(t *testing.T) {
		// 2024-03-21 - 6 days = 2024-03-15
		points, err := svc.WeeklyTrend(t.Context(), userID, date(2024, 3, 21, 0))
		gt.NoError(t, err).Required()
		gt.A(t, points).Length(1)
		gt.Equal(t, points[0].DateString(), "2024-03-15")
	})

	t.Run("day after window is excluded", func(t *testing.T) {
		points, err := svc.WeeklyTrend(t.Context(), userID, date(2024, 3, 22, 0))
		gt.NoError(t, err).Required()
		gt.A(t, points).Length(0)
	})

	t.Run("ascending order", func(t *testing.T) {
		points, err := svc.WeeklyTrend(t.Context(), userID, date(2024, 3, 7, 0))
		gt.NoError(t, err).Required()
		gt.A(t, points).Length(2)
		gt.Equal(t, points[0].DateString(), "2024-03-01")
		gt.Equal(t, points[1].DateString(), "2024-03-05")
	})

	t.Run("no sessions", func(t *testing.T) {
		points, err := svc.WeeklyTrend(t.Context(), types.NewUserID(), date(2024, 3, 31, 0))
		gt.NoError(t, err).Required()
		gt.A(t, points).Length(0)
	})
}

func TestWeeklyTrendTimeZone(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	gt.NoError(t, err).Required()

	repo := repository.NewMemory()
	userID := types.NewUserID()
	// 2024-03-31 23:00 UTC is 2024-04-01 08:00 in Seoul
	putScored(t, repo, userID, date(2024, 3, 31, 23), 60)

	ctx := clock.WithLocation(context.Background(), seoul)
	points, err := trend.New(repo).WeeklyTrend(ctx, userID, time.Date(2024, 4, 1, 12, 0, 0, 0, seoul))
	gt.NoError(t, err).Required()
	gt.A(t, points).Length(1)
	gt.Equal(t, points[0].DateString(), "2024-04-01")

	// The same instant falls on 03-31 in UTC and the UTC week ending 03-31 has it
	points, err = trend.New(repo).WeeklyTrend(context.Background(), userID, date(2024, 3, 31, 0))
	gt.NoError(t, err).Required()
	gt.A(t, points).Length(1)
	gt.Equal(t, points[0].DateString(), "2024-03-31")
}
