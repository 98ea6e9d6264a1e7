package records

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/droplet/internal/cli"
	"github.com/julianstephens/droplet/internal/constants"
	"github.com/julianstephens/droplet/internal/models"
	"github.com/julianstephens/droplet/internal/utils"
	"github.com/julianstephens/droplet/internal/validation"
)

type AddCmd struct {
	Name        string  `arg:"" help:"Item name."`
	Liters      float64 `arg:"" help:"Water footprint in liters."`
	Category    string  `help:"Item category." default:""`
	Unit        string  `help:"Display unit." default:"L"`
	Severity    string  `help:"Low, Medium or High." enum:",Low,Medium,High" default:""`
	Description string  `help:"Free-form note."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	rec := models.FootprintRecord{
		ItemName:             strings.TrimSpace(c.Name),
		WaterFootprintLiters: c.Liters,
		Unit:                 c.Unit,
		Category:             c.Category,
		Severity:             c.Severity,
		Description:          c.Description,
	}
	return commit(ctx, rec)
}

// commit validates rec and commits it through a fresh session
func commit(ctx *cli.Context, rec models.FootprintRecord) error {
	if err := validation.New().ValidateRecord(rec); err != nil {
		return err
	}

	session, err := ctx.OpenSession(context.Background())
	if err != nil {
		return err
	}

	cctx, cancel := context.WithTimeout(context.Background(), ctx.Timeout())
	defer cancel()
	stored, err := session.Commit(cctx, rec)
	if err != nil {
		return err
	}

	where := "local history"
	if session.Authenticated() {
		where = "cloud history"
	}
	ctx.Printf("✓ Saved %s (%s %s) to %s\n", stored.ItemName, utils.FormatLiters(stored.WaterFootprintLiters), unitOf(stored), where)
	if stored.ID != "" {
		ctx.Printf("  id: %s\n", stored.ID)
	}
	return nil
}

func unitOf(rec models.FootprintRecord) string {
	if rec.Unit == "" {
		return constants.LitersUnit
	}
	return rec.Unit
}

func describe(rec models.FootprintRecord) string {
	parts := []string{fmt.Sprintf("%s %s", utils.FormatLiters(rec.WaterFootprintLiters), unitOf(rec))}
	if rec.Category != "" {
		parts = append(parts, rec.Category)
	}
	if rec.Severity != "" {
		parts = append(parts, rec.Severity)
	}
	return strings.Join(parts, " | ")
}
