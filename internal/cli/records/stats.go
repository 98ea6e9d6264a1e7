package records

import (
	"context"
	"strings"
	"time"

	"github.com/julianstephens/droplet/internal/cli"
	"github.com/julianstephens/droplet/internal/constants"
	"github.com/julianstephens/droplet/internal/history"
	"github.com/julianstephens/droplet/internal/scoring"
	"github.com/julianstephens/droplet/internal/tui/components/chart"
	"github.com/julianstephens/droplet/internal/utils"
)

type StatsCmd struct {
	Days int `help:"Days in the trailing chart." default:"7"`
	Top  int `help:"How many top consumers to list." default:"3"`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	session, err := ctx.OpenSession(context.Background())
	if err != nil {
		return err
	}
	records := session.Snapshot()
	snap := scoring.Score(records)

	ctx.Printf("Grade %s: %s\n", snap.Grade, scoring.Description(snap.Grade))
	ctx.Printf("Total:   %s L\n", utils.FormatLiters(snap.TotalLiters))
	ctx.Printf("Average: %s L over %d records\n", utils.FormatLiters(snap.AverageLiters), snap.Count)

	if len(snap.Badges) == 0 {
		ctx.Println("Badges:  none yet")
	} else {
		names := make([]string, len(snap.Badges))
		for i, b := range snap.Badges {
			names[i] = string(b)
		}
		ctx.Printf("Badges:  %s\n", strings.Join(names, ", "))
	}

	days := c.Days
	if days <= 0 {
		days = constants.ChartWindowDays
	}
	loc := ctx.Location()
	ctx.Printf("\nLast %d days\n", days)
	ctx.Printf("%s", chart.Render(history.LastNDays(records, days, loc, time.Now().In(loc)), chartWidth, chart.ShortDate))

	if top := scoring.TopConsumers(records, c.Top); len(top) > 0 {
		ctx.Println("\nTop consumers")
		for i, t := range top {
			ctx.Printf("  %d. %-28s %10s L  (%d)\n", i+1, t.ItemName, utils.FormatLiters(t.TotalLiters), t.Count)
		}
	}
	return nil
}
