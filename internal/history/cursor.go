package history

import (
	"fmt"
	"time"

	"github.com/julianstephens/droplet/internal/constants"
	"github.com/julianstephens/droplet/internal/utils"
)

// MonthCursor addresses one calendar month
type MonthCursor struct {
	Year  int
	Month time.Month
}

// CursorFor returns the cursor of the month containing t
func CursorFor(t time.Time) MonthCursor {
	return MonthCursor{Year: t.Year(), Month: t.Month()}
}

// ParseCursor parses a YYYY-MM month string
func ParseCursor(s string) (MonthCursor, error) {
	year, month, err := utils.ParseMonth(s)
	if err != nil {
		return MonthCursor{}, err
	}
	return MonthCursor{Year: year, Month: month}, nil
}

// Shift moves the cursor by n months, rolling over year boundaries
func (c MonthCursor) Shift(n int) MonthCursor {
	t := time.Date(c.Year, c.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return CursorFor(t)
}

// Next returns the following month
func (c MonthCursor) Next() MonthCursor { return c.Shift(1) }

// Prev returns the preceding month
func (c MonthCursor) Prev() MonthCursor { return c.Shift(-1) }

// Days returns the number of calendar days in the month
func (c MonthCursor) Days() int {
	return utils.DaysInMonth(c.Year, c.Month)
}

// Contains reports whether the YYYY-MM-DD date key falls in this month
func (c MonthCursor) Contains(dateKey string) bool {
	return len(dateKey) >= 7 && dateKey[:7] == c.String()
}

// DateKey returns the YYYY-MM-DD key of day d of this month
func (c MonthCursor) DateKey(day int) string {
	return time.Date(c.Year, c.Month, day, 0, 0, 0, 0, time.UTC).Format(constants.DateFormat)
}

func (c MonthCursor) String() string {
	return fmt.Sprintf("%04d-%02d", c.Year, int(c.Month))
}

// Label returns a human-readable month title, e.g. "March 2024"
func (c MonthCursor) Label() string {
	return fmt.Sprintf("%s %d", c.Month, c.Year)
}
