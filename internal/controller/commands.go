package controller

import "github.com/julianstephens/droplet/internal/models"

// command is a single history mutation. undo reverses only that mutation
// against whatever the history has become since, so overlapping operations
// keep each other's effects.
type command interface {
	apply(history []models.FootprintRecord) []models.FootprintRecord
	undo(history []models.FootprintRecord) []models.FootprintRecord
}

type appendCommand struct {
	record models.FootprintRecord
}

func (c *appendCommand) apply(history []models.FootprintRecord) []models.FootprintRecord {
	next := make([]models.FootprintRecord, 0, len(history)+1)
	next = append(next, history...)
	return append(next, c.record.Clone())
}

func (c *appendCommand) undo(history []models.FootprintRecord) []models.FootprintRecord {
	next := make([]models.FootprintRecord, 0, len(history))
	dropped := false
	for _, rec := range history {
		if !dropped && rec.SameRecord(c.record) {
			dropped = true
			continue
		}
		next = append(next, rec.Clone())
	}
	return next
}

// removeCommand remembers where the target sat and which records surrounded it
// so undo can put it back in place even after other records came or went.
type removeCommand struct {
	target  models.FootprintRecord
	removed bool
	index   int
	prev    *models.FootprintRecord
	next    *models.FootprintRecord
}

func (c *removeCommand) apply(history []models.FootprintRecord) []models.FootprintRecord {
	out := make([]models.FootprintRecord, 0, len(history))
	for i, rec := range history {
		if !c.removed && rec.SameRecord(c.target) {
			c.removed = true
			c.target = rec.Clone()
			c.index = i
			if i > 0 {
				prev := history[i-1].Clone()
				c.prev = &prev
			}
			if i+1 < len(history) {
				next := history[i+1].Clone()
				c.next = &next
			}
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (c *removeCommand) undo(history []models.FootprintRecord) []models.FootprintRecord {
	out := models.CloneRecords(history)
	if !c.removed {
		return out
	}
	// a refetch may already have brought it back
	if indexOf(out, c.target) >= 0 {
		return out
	}

	pos := c.index
	switch {
	case c.prev != nil && indexOf(out, *c.prev) >= 0:
		pos = indexOf(out, *c.prev) + 1
	case c.next != nil && indexOf(out, *c.next) >= 0:
		pos = indexOf(out, *c.next)
	}
	if pos > len(out) {
		pos = len(out)
	}

	out = append(out, models.FootprintRecord{})
	copy(out[pos+1:], out[pos:])
	out[pos] = c.target.Clone()
	return out
}

func indexOf(history []models.FootprintRecord, target models.FootprintRecord) int {
	for i, rec := range history {
		if rec.SameRecord(target) {
			return i
		}
	}
	return -1
}
