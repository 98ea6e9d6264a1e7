package records

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/droplet/internal/cli"
	"github.com/julianstephens/droplet/internal/history"
	"github.com/julianstephens/droplet/internal/models"
	"github.com/julianstephens/droplet/internal/tui/components/chart"
	"github.com/julianstephens/droplet/internal/utils"
)

const chartWidth = 60

type HistoryCmd struct {
	Month  string `help:"Month to show (YYYY-MM). Defaults to the current month."`
	Months bool   `help:"List every month that has records."`
	Chart  bool   `help:"Show the per-day chart." default:"true" negatable:""`
}

// cursorFor resolves a --month flag against the current month
func cursorFor(month string, now time.Time) (history.MonthCursor, error) {
	if month == "" {
		return history.CursorFor(now), nil
	}
	return history.ParseCursor(month)
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	loc := ctx.Location()
	now := time.Now().In(loc)
	cursor, err := cursorFor(c.Month, now)
	if err != nil {
		return err
	}

	session, err := ctx.OpenSession(context.Background())
	if err != nil {
		return err
	}
	records := session.Snapshot()

	if c.Months {
		months := history.Months(records, loc, now)
		if len(months) == 0 {
			ctx.Println("No records yet.")
			return nil
		}
		for _, m := range months {
			view := history.AggregateAt(records, m, loc, now)
			ctx.Printf("%s  %-16s %10s L  (%d days)\n", m, m.Label(), utils.FormatLiters(view.Total), len(view.Buckets))
		}
		return nil
	}

	view := history.AggregateAt(records, cursor, loc, now)
	printMonth(ctx, view)
	if c.Chart && !view.Empty() {
		ctx.Println()
		ctx.Printf("%s", chart.Render(view.Daily, chartWidth, chart.DayOfMonth))
	}
	return nil
}

func printMonth(ctx *cli.Context, view history.MonthView) {
	ctx.Printf("%s · %s L\n", view.Cursor.Label(), utils.FormatLiters(view.Total))
	if view.Empty() {
		ctx.Println("No records this month.")
		return
	}

	n := 0
	for _, b := range view.Buckets {
		ctx.Printf("\n%s  (%s L)\n", b.Date, utils.FormatLiters(b.Total))
		for _, rec := range b.Records {
			n++
			ctx.Printf("  %3d. %s\n", n, line(rec))
		}
	}
}

func line(rec models.FootprintRecord) string {
	s := fmt.Sprintf("%-28s %s", rec.ItemName, describe(rec))
	if rec.ID != "" {
		s += "  [" + rec.ID + "]"
	}
	return s
}

// numbered returns the view's records in the order printMonth lists them
func numbered(view history.MonthView) []models.FootprintRecord {
	var out []models.FootprintRecord
	for _, b := range view.Buckets {
		out = append(out, b.Records...)
	}
	return out
}
