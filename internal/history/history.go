package history

import (
	"sort"
	"time"

	"github.com/julianstephens/droplet/internal/models"
	"github.com/julianstephens/droplet/internal/utils"
)

// Bucket groups the records that share one calendar date
type Bucket struct {
	Date    string // YYYY-MM-DD in the viewer's location
	Records []models.FootprintRecord
	Total   float64
}

// DayTotal is one point of a per-day series
type DayTotal struct {
	Date  string
	Day   int
	Total float64
}

// MonthView is the derived view of one calendar month
type MonthView struct {
	Cursor  MonthCursor
	Buckets []Bucket // date descending
	Total   float64
	Daily   []DayTotal // one per calendar day, ascending, zero-filled
}

// Empty reports whether the month has no records
func (v MonthView) Empty() bool {
	return len(v.Buckets) == 0
}

// Max returns the largest per-day total of the month
func (v MonthView) Max() float64 {
	return MaxTotal(v.Daily)
}

// Aggregate builds the month view for cursor using the local time zone and wall clock
func Aggregate(records []models.FootprintRecord, cursor MonthCursor) MonthView {
	return AggregateAt(records, cursor, time.Local, time.Now())
}

// AggregateAt builds the month view for cursor. Records with a missing or
// unparsable timestamp are bucketed on now's date.
func AggregateAt(records []models.FootprintRecord, cursor MonthCursor, loc *time.Location, now time.Time) MonthView {
	buckets := GroupByDate(records, loc, now)

	view := MonthView{
		Cursor:  cursor,
		Buckets: []Bucket{},
		Daily:   make([]DayTotal, cursor.Days()),
	}

	for date, b := range buckets {
		if !cursor.Contains(date) {
			continue
		}
		view.Buckets = append(view.Buckets, *b)
	}
	sort.Slice(view.Buckets, func(i, j int) bool {
		return view.Buckets[i].Date > view.Buckets[j].Date
	})

	for i := range view.Daily {
		day := i + 1
		key := cursor.DateKey(day)
		view.Daily[i] = DayTotal{Date: key, Day: day}
		if b, ok := buckets[key]; ok {
			view.Daily[i].Total = b.Total
		}
		// summed in series order so the month total and the chart always agree
		view.Total += view.Daily[i].Total
	}

	return view
}

// GroupByDate buckets records by their calendar date in loc, keeping insertion order within a bucket
func GroupByDate(records []models.FootprintRecord, loc *time.Location, now time.Time) map[string]*Bucket {
	if loc == nil {
		loc = time.Local
	}
	fallback := utils.DateKey(now, loc)

	buckets := make(map[string]*Bucket)
	for _, rec := range records {
		key := fallback
		if t, ok := rec.Time(loc); ok {
			key = utils.DateKey(t, loc)
		}

		b, ok := buckets[key]
		if !ok {
			b = &Bucket{Date: key}
			buckets[key] = b
		}
		b.Records = append(b.Records, rec)
		b.Total += rec.WaterFootprintLiters
	}
	return buckets
}

// LastNDays returns the per-day totals of the n days ending at now's date, ascending
func LastNDays(records []models.FootprintRecord, n int, loc *time.Location, now time.Time) []DayTotal {
	if n <= 0 {
		return []DayTotal{}
	}
	if loc == nil {
		loc = time.Local
	}
	buckets := GroupByDate(records, loc, now)

	today := now.In(loc)
	series := make([]DayTotal, n)
	for i := 0; i < n; i++ {
		day := time.Date(today.Year(), today.Month(), today.Day()-(n-1-i), 0, 0, 0, 0, loc)
		key := utils.DateKey(day, loc)
		series[i] = DayTotal{Date: key, Day: day.Day()}
		if b, ok := buckets[key]; ok {
			series[i].Total = b.Total
		}
	}
	return series
}

// Months returns the distinct months that hold records, most recent first
func Months(records []models.FootprintRecord, loc *time.Location, now time.Time) []MonthCursor {
	seen := make(map[string]MonthCursor)
	for date := range GroupByDate(records, loc, now) {
		c, err := ParseCursor(date[:7])
		if err != nil {
			continue
		}
		seen[c.String()] = c
	}

	months := make([]MonthCursor, 0, len(seen))
	for _, c := range seen {
		months = append(months, c)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].String() > months[j].String()
	})
	return months
}

// MaxTotal returns the largest total of a series
func MaxTotal(series []DayTotal) float64 {
	var m float64
	for _, d := range series {
		if d.Total > m {
			m = d.Total
		}
	}
	return m
}
