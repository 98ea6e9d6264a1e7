package storage

import (
	"database/sql"

	"github.com/julianstephens/droplet/internal/models"
)

// RecordColumns is the column list shared by the SQL stores, in scan order
const RecordColumns = "id, item_name, water_footprint_liters, unit, category, timestamp, " +
	"severity, confidence_score, description, green_water, blue_water, grey_water"

// RowScanner is satisfied by *sql.Row and *sql.Rows
type RowScanner interface {
	Scan(dest ...any) error
}

// ScanRecord reads one row selected with RecordColumns
func ScanRecord(row RowScanner) (models.FootprintRecord, error) {
	var (
		rec               models.FootprintRecord
		id                sql.NullString
		green, blue, grey sql.NullFloat64
	)
	err := row.Scan(
		&id, &rec.ItemName, &rec.WaterFootprintLiters, &rec.Unit, &rec.Category, &rec.Timestamp,
		&rec.Severity, &rec.ConfidenceScore, &rec.Description, &green, &blue, &grey,
	)
	if err != nil {
		return models.FootprintRecord{}, err
	}
	rec.ID = id.String
	if green.Valid || blue.Valid || grey.Valid {
		rec.Breakdown = &models.Breakdown{
			GreenWater: green.Float64,
			BlueWater:  blue.Float64,
			GreyWater:  grey.Float64,
		}
	}
	return rec, nil
}

// RecordArgs returns the values matching RecordColumns
func RecordArgs(rec models.FootprintRecord) []any {
	var id any
	if rec.ID != "" {
		id = rec.ID
	}
	var green, blue, grey any
	if b := rec.Breakdown; b != nil {
		green, blue, grey = b.GreenWater, b.BlueWater, b.GreyWater
	}
	return []any{
		id, rec.ItemName, rec.WaterFootprintLiters, rec.Unit, rec.Category, rec.Timestamp,
		rec.Severity, rec.ConfidenceScore, rec.Description, green, blue, grey,
	}
}
