package core

import "time"

// ChartPoint is one plotted point of the statistics line chart. X is an
// epoch-millisecond coordinate so points plot left to right by date.
type ChartPoint struct {
	X     int64   `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label"`
}

// ChartX maps a calendar date to its x-axis coordinate. Dates are midnight
// UTC, so the mapping is strictly monotonic in chronological order.
func ChartX(d Date) int64 {
	return d.UnixMilli()
}

// ChartLabel renders a short axis tick label for an x coordinate.
func ChartLabel(x int64) string {
	return time.UnixMilli(x).UTC().Format("Jan 02")
}

// ChartPoints maps date-bucketed totals onto chart coordinates. An empty
// bucket list yields an empty point sequence, not an error.
func ChartPoints(totals []DailyTotal) []ChartPoint {
	points := make([]ChartPoint, 0, len(totals))
	for _, dt := range totals {
		x := ChartX(dt.Date)
		points = append(points, ChartPoint{
			X:     x,
			Y:     dt.Total.Dollars(),
			Label: ChartLabel(x),
		})
	}
	return points
}
