// Package wizardform renders baseline wizard questions as huh forms.
package wizardform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/droplet/internal/models"
	"github.com/julianstephens/droplet/internal/wizard"
)

// Step is the form for one question. Value holds the raw answer while the form runs.
type Step struct {
	Question wizard.Question
	Value    string
	form     *huh.Form
}

// NewStep builds the form for the session's current question, prefilled with any captured answer
func NewStep(s *wizard.Session) (*Step, error) {
	q, ok := s.Current()
	if !ok {
		return nil, wizard.ErrNotAsking
	}

	st := &Step{Question: q}
	title := fmt.Sprintf("(%d/%d) %s", s.Step()+1, s.Len(), q.Prompt())

	var field huh.Field
	switch q := q.(type) {
	case wizard.CategoricalQuestion:
		if a, ok := s.Answer(q.ID); ok {
			st.Value = a.Choice
		}
		opts := make([]huh.Option[string], 0, len(q.Choices))
		for _, c := range q.Choices {
			opts = append(opts, huh.NewOption(c.Label, c.Value))
		}
		field = huh.NewSelect[string]().
			Title(title).
			Options(opts...).
			Value(&st.Value)
	case wizard.ContinuousQuestion:
		st.Value = FormatValue(s.DisplayValue(q))
		field = huh.NewInput().
			Title(title).
			Description(fmt.Sprintf("%s to %s %s", FormatValue(q.Min), FormatValue(q.Max), q.Unit)).
			Value(&st.Value).
			Validate(func(raw string) error {
				_, err := ParseValue(q, raw)
				return err
			})
	}

	st.form = huh.NewForm(huh.NewGroup(field)).WithShowHelp(false)
	return st, nil
}

func (st *Step) Form() *huh.Form { return st.form }

// SetForm replaces the form after a bubbletea update
func (st *Step) SetForm(f *huh.Form) { st.form = f }

// Apply feeds the step's value into the session. Categorical answers advance on
// their own; continuous answers are set and then advanced explicitly.
func (st *Step) Apply(s *wizard.Session) error {
	switch q := st.Question.(type) {
	case wizard.CategoricalQuestion:
		return s.Select(st.Value)
	case wizard.ContinuousQuestion:
		v, err := ParseValue(q, st.Value)
		if err != nil {
			return err
		}
		if err := s.SetValue(v); err != nil {
			return err
		}
		return s.Next()
	default:
		return wizard.ErrWrongKind
	}
}

// ParseValue parses raw as a number inside q's range
func ParseValue(q wizard.ContinuousQuestion, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("enter a number")
	}
	if !q.InRange(v) {
		return 0, fmt.Errorf("must be between %s and %s", FormatValue(q.Min), FormatValue(q.Max))
	}
	if !q.Integral(v) {
		return 0, fmt.Errorf("enter a whole number")
	}
	return v, nil
}

func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Run asks every question in the terminal, holds the computing phase and returns
// the baseline record. Progress is written to out.
func Run(ctx context.Context, s *wizard.Session, out io.Writer) (models.FootprintRecord, error) {
	for s.Phase() == wizard.PhaseAsking {
		st, err := NewStep(s)
		if err != nil {
			return models.FootprintRecord{}, err
		}
		if err := st.Form().RunWithContext(ctx); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return models.FootprintRecord{}, fmt.Errorf("estimate cancelled")
			}
			return models.FootprintRecord{}, err
		}
		if err := st.Apply(s); err != nil {
			return models.FootprintRecord{}, err
		}
	}

	fmt.Fprintln(out, "Computing your daily baseline...")
	rec, err := s.Complete(ctx)
	if err != nil {
		return models.FootprintRecord{}, err
	}
	return rec.Stamped(time.Now()), nil
}
