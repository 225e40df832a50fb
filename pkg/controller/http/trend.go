package http

import (
	"net/http"
	"time"

	"github.com/feelcast/feelcast/pkg/domain/interfaces"
	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/domain/model/trend"
	"github.com/feelcast/feelcast/pkg/utils/clock"
	"github.com/m-mizutani/goerr/v2"
)

type trendResponse struct {
	Points []trend.Point `json:"points"`
}

// parseDate reads a YYYY-MM-DD query value. An empty value yields def.
func parseDate(r *http.Request, name string, loc *time.Location, def time.Time) (time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, v, loc)
	if err != nil {
		return time.Time{}, goerr.Wrap(err, "invalid date",
			goerr.V("param", name),
			goerr.V("value", v),
			goerr.T(errs.TagInvalidArgument))
	}
	return t, nil
}

func weeklyTrendHandler(uc interfaces.ApiUsecases, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		asOf, err := parseDate(r, "as_of", loc, clock.Now(r.Context()).In(loc))
		if err != nil {
			handleError(w, r, err)
			return
		}

		points, err := uc.WeeklyTrend(r.Context(), userFrom(r.Context()).ID, asOf)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, trendResponse{Points: points})
	}
}

func dailyTrendHandler(uc interfaces.ApiUsecases, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("from") == "" || q.Get("to") == "" {
			handleError(w, r, goerr.New("from and to are required", goerr.T(errs.TagInvalidArgument)))
			return
		}
		from, err := parseDate(r, "from", loc, time.Time{})
		if err != nil {
			handleError(w, r, err)
			return
		}
		to, err := parseDate(r, "to", loc, time.Time{})
		if err != nil {
			handleError(w, r, err)
			return
		}

		points, err := uc.DailyTrend(r.Context(), userFrom(r.Context()).ID, from, to)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, trendResponse{Points: points})
	}
}
