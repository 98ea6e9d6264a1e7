package validation

import (
	stderrors "errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/droplet/internal/errors"
	"github.com/julianstephens/droplet/internal/models"
)

// IssueType represents the kind of problem found in a record
type IssueType string

const (
	IssueMissingItemName  IssueType = "missing_item_name"
	IssueNegativeLiters   IssueType = "negative_liters"
	IssueNonFiniteValue   IssueType = "non_finite_value"
	IssueInvalidTimestamp IssueType = "invalid_timestamp"
	IssueInvalidField     IssueType = "invalid_field"
	IssueDuplicateRecord  IssueType = "duplicate_record"
)

// Issue describes a single validation problem
type Issue struct {
	Type        IssueType
	Description string
	Index       int // position in the validated slice, -1 for single records
	ItemName    string
}

// Result contains all detected issues
type Result struct {
	Issues []Issue
}

// HasIssues returns true if there are any issues
func (r *Result) HasIssues() bool {
	return len(r.Issues) > 0
}

// FormatReport returns a human-readable report of all issues
func (r *Result) FormatReport() string {
	if !r.HasIssues() {
		return "No issues detected."
	}

	var b strings.Builder
	b.WriteString("Issues detected:\n")
	for _, issue := range r.Issues {
		fmt.Fprintf(&b, "- %s\n", issue.Description)
	}
	return b.String()
}

// Validator checks footprint records before they are committed or after they are loaded
type Validator struct {
	v *validator.Validate
}

// New creates a new Validator
func New() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// ValidateRecord checks a single record and returns an error wrapping
// errors.ErrInvalidRecord when it cannot be committed.
func (v *Validator) ValidateRecord(rec models.FootprintRecord) error {
	issues := v.recordIssues(rec, -1)
	if len(issues) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(issues))
	for _, issue := range issues {
		msgs = append(msgs, issue.Description)
	}
	return fmt.Errorf("%w: %s", errors.ErrInvalidRecord, strings.Join(msgs, "; "))
}

// ValidateHistory checks a loaded collection. Issues here are advisory: the
// aggregator tolerates bad timestamps, so callers report rather than reject.
func (v *Validator) ValidateHistory(records []models.FootprintRecord) Result {
	result := Result{Issues: []Issue{}}

	seen := make(map[string]int)
	for i, rec := range records {
		result.Issues = append(result.Issues, v.recordIssues(rec, i)...)

		if !rec.HasID() {
			continue
		}
		if first, ok := seen[rec.ID]; ok {
			result.Issues = append(result.Issues, Issue{
				Type:        IssueDuplicateRecord,
				Description: fmt.Sprintf("Record %d duplicates record %d (id %s)", i, first, rec.ID),
				Index:       i,
				ItemName:    rec.ItemName,
			})
			continue
		}
		seen[rec.ID] = i
	}

	return result
}

func (v *Validator) recordIssues(rec models.FootprintRecord, index int) []Issue {
	var issues []Issue

	label := rec.ItemName
	if label == "" {
		label = "(unnamed)"
	}

	nonFinite := nonFiniteFields(rec)
	for _, field := range nonFinite {
		issues = append(issues, Issue{
			Type:        IssueNonFiniteValue,
			Description: fmt.Sprintf("Record %q has non-finite %s", label, field),
			Index:       index,
			ItemName:    rec.ItemName,
		})
	}

	if err := v.v.Struct(rec); err != nil {
		var fieldErrs validator.ValidationErrors
		if !stderrors.As(err, &fieldErrs) {
			return append(issues, Issue{
				Type:        IssueInvalidField,
				Description: fmt.Sprintf("Record %q could not be validated: %v", label, err),
				Index:       index,
				ItemName:    rec.ItemName,
			})
		}
		for _, fe := range fieldErrs {
			if slices.Contains(nonFinite, fe.Field()) {
				continue
			}
			issues = append(issues, fieldIssue(fe, label, rec.ItemName, index))
		}
	}

	if rec.Timestamp != "" {
		if _, ok := models.ParseTimestamp(rec.Timestamp, nil); !ok {
			issues = append(issues, Issue{
				Type:        IssueInvalidTimestamp,
				Description: fmt.Sprintf("Record %q has invalid timestamp: %s", label, rec.Timestamp),
				Index:       index,
				ItemName:    rec.ItemName,
			})
		}
	}

	return issues
}

func fieldIssue(fe validator.FieldError, label, itemName string, index int) Issue {
	issue := Issue{Index: index, ItemName: itemName}
	switch fe.Field() {
	case "ItemName":
		issue.Type = IssueMissingItemName
		issue.Description = "Record is missing an item name"
	case "WaterFootprintLiters":
		issue.Type = IssueNegativeLiters
		issue.Description = fmt.Sprintf("Record %q has negative water footprint: %v", label, fe.Value())
	default:
		issue.Type = IssueInvalidField
		issue.Description = fmt.Sprintf("Record %q has invalid %s: %v (%s)", label, fe.Field(), fe.Value(), fe.Tag())
	}
	return issue
}

// nonFiniteFields names the numeric fields holding NaN or an infinity.
// gte/lte tags let +Inf through and JSON cannot encode either.
func nonFiniteFields(rec models.FootprintRecord) []string {
	var fields []string
	check := func(name string, f float64) {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			fields = append(fields, name)
		}
	}
	check("WaterFootprintLiters", rec.WaterFootprintLiters)
	check("ConfidenceScore", rec.ConfidenceScore)
	if b := rec.Breakdown; b != nil {
		check("GreenWater", b.GreenWater)
		check("BlueWater", b.BlueWater)
		check("GreyWater", b.GreyWater)
	}
	return fields
}
