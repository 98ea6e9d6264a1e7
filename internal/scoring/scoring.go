package scoring

import (
	"sort"

	"github.com/julianstephens/droplet/internal/constants"
	"github.com/julianstephens/droplet/internal/models"
)

// Snapshot is the sustainability assessment of a full history
type Snapshot struct {
	TotalLiters   float64
	AverageLiters float64
	Grade         constants.Grade
	Badges        []constants.Badge
	Count         int
}

// HasBadge reports whether the snapshot holds b
func (s Snapshot) HasBadge(b constants.Badge) bool {
	for _, have := range s.Badges {
		if have == b {
			return true
		}
	}
	return false
}

// Score derives the snapshot of all records. It is recomputed from scratch on every call.
func Score(records []models.FootprintRecord) Snapshot {
	snap := Snapshot{Badges: []constants.Badge{}, Count: len(records)}

	for _, r := range records {
		snap.TotalLiters += r.WaterFootprintLiters
	}
	if snap.Count > 0 {
		snap.AverageLiters = snap.TotalLiters / float64(snap.Count)
	}
	snap.Grade = GradeFor(snap.AverageLiters)

	if snap.Count >= constants.NoviceMinRecords {
		snap.Badges = append(snap.Badges, constants.BadgeNovice)
	}
	if snap.Count >= constants.TrackerProMinRecords {
		snap.Badges = append(snap.Badges, constants.BadgeTrackerPro)
	}
	if snap.Grade == constants.GradeA && snap.Count >= constants.WaterSaverMinRecords {
		snap.Badges = append(snap.Badges, constants.BadgeWaterSaver)
	}
	if snap.TotalLiters > constants.BigImpactMinLiters {
		snap.Badges = append(snap.Badges, constants.BadgeBigImpact)
	}

	return snap
}

// GradeFor maps an average footprint per record to a grade.
// Both thresholds are strict, so 1000 is an A and 3000 is a B.
func GradeFor(average float64) constants.Grade {
	switch {
	case average > constants.GradeCThreshold:
		return constants.GradeC
	case average > constants.GradeBThreshold:
		return constants.GradeB
	default:
		return constants.GradeA
	}
}

// Description returns the caption shown under a grade
func Description(g constants.Grade) string {
	switch g {
	case constants.GradeA:
		return "Excellent! You're a water hero."
	case constants.GradeB:
		return "Good, but room to improve."
	case constants.GradeC:
		return "High usage. Try swapping items."
	default:
		return ""
	}
}

// Consumer is one item ranked by its total footprint
type Consumer struct {
	ItemName    string
	TotalLiters float64
	Count       int
}

// TopConsumers returns the n items with the largest total footprint, largest first.
// Items are grouped by name; ties keep the order the item was first seen.
func TopConsumers(records []models.FootprintRecord, n int) []Consumer {
	if n <= 0 {
		return []Consumer{}
	}

	index := make(map[string]int)
	consumers := []Consumer{}
	for _, r := range records {
		i, ok := index[r.ItemName]
		if !ok {
			i = len(consumers)
			index[r.ItemName] = i
			consumers = append(consumers, Consumer{ItemName: r.ItemName})
		}
		consumers[i].TotalLiters += r.WaterFootprintLiters
		consumers[i].Count++
	}

	sort.SliceStable(consumers, func(i, j int) bool {
		return consumers[i].TotalLiters > consumers[j].TotalLiters
	})
	if len(consumers) > n {
		consumers = consumers[:n]
	}
	return consumers
}
