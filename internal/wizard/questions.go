package wizard

import "math"

// Question is one step of the estimator. It is either a CategoricalQuestion
// or a ContinuousQuestion; the set is closed.
type Question interface {
	QuestionID() string
	Prompt() string
	isQuestion()
}

// Choice is one selectable answer of a categorical question
type Choice struct {
	Label  string
	Value  string
	Factor float64 // liters per day contributed when chosen
}

// CategoricalQuestion auto-advances as soon as a choice is made
type CategoricalQuestion struct {
	ID      string
	Text    string
	Choices []Choice
}

func (q CategoricalQuestion) QuestionID() string { return q.ID }
func (q CategoricalQuestion) Prompt() string     { return q.Text }
func (CategoricalQuestion) isQuestion()          {}

// Choice returns the choice with the given value
func (q CategoricalQuestion) Choice(value string) (Choice, bool) {
	for _, c := range q.Choices {
		if c.Value == value {
			return c, true
		}
	}
	return Choice{}, false
}

// Role says how a continuous answer takes part in the estimate
type Role int

const (
	// RoleAdditive contributes value * FactorPerUnit
	RoleAdditive Role = iota
	// RoleHousehold contributes nothing and divides shared questions
	RoleHousehold
	// RoleShared contributes value * FactorPerUnit / household
	RoleShared
)

// ContinuousQuestion takes a numeric value in [Min, Max] and needs an explicit Next
type ContinuousQuestion struct {
	ID            string
	Text          string
	Min           float64
	Max           float64
	Unit          string
	FactorPerUnit float64
	Role          Role
	// WholeNumber rejects fractional answers
	WholeNumber bool
}

func (q ContinuousQuestion) QuestionID() string { return q.ID }
func (q ContinuousQuestion) Prompt() string     { return q.Text }
func (ContinuousQuestion) isQuestion()          {}

// InRange reports whether v is an acceptable answer
func (q ContinuousQuestion) InRange(v float64) bool {
	return v >= q.Min && v <= q.Max
}

// Integral reports whether v satisfies WholeNumber
func (q ContinuousQuestion) Integral(v float64) bool {
	return !q.WholeNumber || v == math.Trunc(v)
}

// Question IDs of the default set
const (
	QuestionHousehold = "household"
	QuestionDiet      = "diet"
	QuestionBath      = "bath"
	QuestionDishes    = "dishes"
	QuestionRO        = "ro"
	QuestionLaundry   = "laundry"
	QuestionDrive     = "drive"
)

// DefaultQuestions returns the standard lifestyle questionnaire
func DefaultQuestions() []Question {
	return []Question{
		ContinuousQuestion{
			ID:          QuestionHousehold,
			Text:        "How many people live in your household?",
			Min:         1,
			Max:         15,
			Unit:        "members",
			Role:        RoleHousehold,
			WholeNumber: true,
		},
		CategoricalQuestion{
			ID:   QuestionDiet,
			Text: "What best describes your diet?",
			Choices: []Choice{
				{Label: "Meat eater", Value: "meat", Factor: 4000},
				{Label: "Vegetarian", Value: "vegetarian", Factor: 2500},
				{Label: "Vegan", Value: "vegan", Factor: 1500},
			},
		},
		CategoricalQuestion{
			ID:   QuestionBath,
			Text: "How do you usually bathe?",
			Choices: []Choice{
				{Label: "Bucket (1-2 buckets)", Value: "bucket", Factor: 30},
				{Label: "Short shower (about 5 min)", Value: "shower_short", Factor: 60},
				{Label: "Long shower (10+ min)", Value: "shower_long", Factor: 120},
			},
		},
		CategoricalQuestion{
			ID:   QuestionDishes,
			Text: "How are dishes washed at home?",
			Choices: []Choice{
				{Label: "By hand", Value: "hand", Factor: 40},
				{Label: "Dishwasher", Value: "machine", Factor: 15},
			},
		},
		CategoricalQuestion{
			ID:   QuestionRO,
			Text: "Do you use an RO water purifier?",
			Choices: []Choice{
				{Label: "Yes", Value: "yes", Factor: 40}, // reject water for drinking and cooking
				{Label: "No", Value: "no", Factor: 0},
			},
		},
		ContinuousQuestion{
			ID:            QuestionLaundry,
			Text:          "How many laundry loads does your household run per week?",
			Min:           0,
			Max:           10,
			Unit:          "loads/week",
			FactorPerUnit: 150.0 / 7, // 150 L per load, spread over the week
			Role:          RoleShared,
		},
		ContinuousQuestion{
			ID:            QuestionDrive,
			Text:          "How many kilometres do you drive per day?",
			Min:           0,
			Max:           100,
			Unit:          "km",
			FactorPerUnit: 5,
		},
	}
}
