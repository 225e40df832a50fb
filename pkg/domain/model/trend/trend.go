package trend

import "time"

// Point is the mean feeling state of one calendar day. Date is midnight of
// that day in the location the trend was computed in.
type Point struct {
	Date            time.Time `json:"date" yaml:"date"`
	AvgFeelingState float64   `json:"avg_feeling_state" yaml:"avg_feeling_state"`
}

// DateString formats Date as YYYY-MM-DD.
func (x Point) DateString() string {
	return x.Date.Format(time.DateOnly)
}
