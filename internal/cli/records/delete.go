package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/droplet/internal/cli"
	"github.com/julianstephens/droplet/internal/history"
	"github.com/julianstephens/droplet/internal/models"
)

type DeleteCmd struct {
	ID    string `help:"Record id (as shown by 'droplet history')." xor:"target"`
	Index int    `help:"Record number within the month listing." xor:"target"`
	Month string `help:"Month the --index refers to (YYYY-MM)."`
	Yes   bool   `help:"Do not ask for confirmation." short:"y"`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	if c.ID == "" && c.Index <= 0 {
		return errors.New("either --id or --index must be given")
	}

	session, err := ctx.OpenSession(context.Background())
	if err != nil {
		return err
	}

	target, err := c.resolve(ctx, session.Snapshot())
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := confirm(fmt.Sprintf("Delete %s (%s)?", target.ItemName, describe(target)))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Cancelled.")
			return nil
		}
	}

	dctx, cancel := context.WithTimeout(context.Background(), ctx.Timeout())
	defer cancel()
	if err := session.Delete(dctx, target); err != nil {
		return err
	}
	ctx.Printf("✓ Deleted %s\n", target.ItemName)
	return nil
}

func (c *DeleteCmd) resolve(ctx *cli.Context, records []models.FootprintRecord) (models.FootprintRecord, error) {
	if c.ID != "" {
		for _, rec := range records {
			if rec.ID == c.ID {
				return rec, nil
			}
		}
		return models.FootprintRecord{}, fmt.Errorf("no record with id %q", c.ID)
	}

	loc := ctx.Location()
	now := time.Now().In(loc)
	cursor, err := cursorFor(c.Month, now)
	if err != nil {
		return models.FootprintRecord{}, err
	}
	listed := numbered(history.AggregateAt(records, cursor, loc, now))
	if c.Index > len(listed) {
		return models.FootprintRecord{}, fmt.Errorf("%s has %d records, no record #%d", cursor.Label(), len(listed), c.Index)
	}
	return listed[c.Index-1], nil
}
