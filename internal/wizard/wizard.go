package wizard

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"
	"time"

	"github.com/julianstephens/droplet/internal/constants"
	"github.com/julianstephens/droplet/internal/models"
)

var (
	ErrNotAsking     = stderrors.New("wizard is not asking a question")
	ErrNotComputing  = stderrors.New("wizard is not computing")
	ErrWrongKind     = stderrors.New("answer does not match the question kind")
	ErrUnknownChoice = stderrors.New("unknown choice")
	ErrOutOfRange    = stderrors.New("value out of range")
	ErrNotWhole      = stderrors.New("value must be a whole number")
	ErrFirstStep     = stderrors.New("already at the first question")
	ErrNoQuestions   = stderrors.New("wizard has no questions")
)

// Phase is the coarse state of a session
type Phase int

const (
	PhaseAsking Phase = iota
	PhaseComputing
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseAsking:
		return "asking"
	case PhaseComputing:
		return "computing"
	case PhaseDone:
		return "done"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Answer is a captured response. Choice is set for categorical questions, Value for continuous ones.
type Answer struct {
	Choice string
	Value  float64
}

// Config tunes a session
type Config struct {
	// ComputeDelay is how long the session stays in the computing phase
	ComputeDelay time.Duration
}

// DefaultConfig returns the standard session configuration
func DefaultConfig() Config {
	return Config{ComputeDelay: constants.DefaultComputeDelay}
}

// Session walks one user through the questionnaire. A session is driven from a
// single goroutine (the CLI form loop or the TUI update loop) and is not safe for concurrent use.
type Session struct {
	questions []Question
	step      int
	answers   map[string]Answer
	phase     Phase
	cfg       Config
	result    *models.FootprintRecord
}

// New creates a session over questions
func New(questions []Question, cfg Config) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	if cfg.ComputeDelay < 0 {
		cfg.ComputeDelay = 0
	}
	qs := make([]Question, len(questions))
	copy(qs, questions)
	return &Session{
		questions: qs,
		answers:   make(map[string]Answer),
		cfg:       cfg,
	}, nil
}

// NewDefault creates a session over the default questionnaire
func NewDefault(cfg Config) *Session {
	s, _ := New(DefaultQuestions(), cfg)
	return s
}

// Phase returns the current phase
func (s *Session) Phase() Phase { return s.phase }

// Step returns the index of the current question
func (s *Session) Step() int { return s.step }

// Len returns the number of questions
func (s *Session) Len() int { return len(s.questions) }

// ComputeDelay returns how long the computing phase lasts
func (s *Session) ComputeDelay() time.Duration { return s.cfg.ComputeDelay }

// Questions returns the ordered questions
func (s *Session) Questions() []Question {
	qs := make([]Question, len(s.questions))
	copy(qs, s.questions)
	return qs
}

// Current returns the question being asked
func (s *Session) Current() (Question, bool) {
	if s.phase != PhaseAsking {
		return nil, false
	}
	return s.questions[s.step], true
}

// Answer returns the captured answer for a question id
func (s *Session) Answer(id string) (Answer, bool) {
	a, ok := s.answers[id]
	return a, ok
}

// Answers returns a copy of all captured answers keyed by question id
func (s *Session) Answers() map[string]Answer {
	out := make(map[string]Answer, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// DisplayValue is the value a continuous input shows before the user touches it
func (s *Session) DisplayValue(q ContinuousQuestion) float64 {
	if a, ok := s.answers[q.ID]; ok {
		return a.Value
	}
	return q.Min
}

// Select answers the current categorical question and advances.
// Selecting on the last question moves the session to computing.
func (s *Session) Select(value string) error {
	q, ok := s.Current()
	if !ok {
		return ErrNotAsking
	}
	cq, ok := q.(CategoricalQuestion)
	if !ok {
		return fmt.Errorf("%w: %s is continuous", ErrWrongKind, q.QuestionID())
	}
	if _, ok := cq.Choice(value); !ok {
		return fmt.Errorf("%w %q for %s", ErrUnknownChoice, value, cq.ID)
	}
	s.answers[cq.ID] = Answer{Choice: value}
	s.advance()
	return nil
}

// SetValue records a value for the current continuous question without advancing
func (s *Session) SetValue(v float64) error {
	q, ok := s.Current()
	if !ok {
		return ErrNotAsking
	}
	cq, ok := q.(ContinuousQuestion)
	if !ok {
		return fmt.Errorf("%w: %s is categorical", ErrWrongKind, q.QuestionID())
	}
	if math.IsNaN(v) || !cq.InRange(v) {
		return fmt.Errorf("%w: %s must be between %v and %v", ErrOutOfRange, cq.ID, cq.Min, cq.Max)
	}
	if !cq.Integral(v) {
		return fmt.Errorf("%w: %s", ErrNotWhole, cq.ID)
	}
	s.answers[cq.ID] = Answer{Value: v}
	return nil
}

// Next advances to the following question, or to computing from the last one
func (s *Session) Next() error {
	if s.phase != PhaseAsking {
		return ErrNotAsking
	}
	s.advance()
	return nil
}

// Back returns to the previous question, keeping every captured answer
func (s *Session) Back() error {
	if s.phase != PhaseAsking {
		return ErrNotAsking
	}
	if s.step == 0 {
		return ErrFirstStep
	}
	s.step--
	return nil
}

func (s *Session) advance() {
	if s.step < len(s.questions)-1 {
		s.step++
		return
	}
	s.phase = PhaseComputing
}

// Estimate computes the rounded daily baseline from the captured answers
func (s *Session) Estimate() float64 {
	household := 1.0
	for _, q := range s.questions {
		if cq, ok := q.(ContinuousQuestion); ok && cq.Role == RoleHousehold {
			if a, ok := s.answers[cq.ID]; ok && a.Value > 0 {
				household = a.Value
			}
		}
	}

	var total float64
	for _, q := range s.questions {
		a, answered := s.answers[q.QuestionID()]
		switch q := q.(type) {
		case CategoricalQuestion:
			if !answered {
				continue
			}
			if c, ok := q.Choice(a.Choice); ok {
				total += c.Factor
			}
		case ContinuousQuestion:
			addition := a.Value * q.FactorPerUnit
			switch q.Role {
			case RoleHousehold:
				continue
			case RoleShared:
				addition /= household
			}
			total += addition
		}
	}
	return math.Round(total)
}

// Finish completes the computing phase and returns the baseline record stamped at now
func (s *Session) Finish(now time.Time) (models.FootprintRecord, error) {
	if s.phase == PhaseDone && s.result != nil {
		return *s.result, nil
	}
	if s.phase != PhaseComputing {
		return models.FootprintRecord{}, ErrNotComputing
	}

	rec := models.FootprintRecord{
		ItemName:             constants.BaselineItemName,
		WaterFootprintLiters: s.Estimate(),
		Unit:                 constants.LitersUnit,
		Category:             constants.BaselineCategory,
		Timestamp:            now.Format(constants.TimestampFormat),
		Description:          fmt.Sprintf("Estimated from %d lifestyle answers", len(s.answers)),
	}
	s.result = &rec
	s.phase = PhaseDone
	return rec, nil
}

// Complete holds the computing phase for the configured delay, then finishes.
// It returns early with ctx's error if ctx ends first; the session stays computing.
func (s *Session) Complete(ctx context.Context) (models.FootprintRecord, error) {
	if s.phase != PhaseComputing {
		return s.Finish(time.Now())
	}
	if d := s.cfg.ComputeDelay; d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return models.FootprintRecord{}, ctx.Err()
		case <-timer.C:
		}
	}
	return s.Finish(time.Now())
}
