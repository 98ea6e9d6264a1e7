package records

import "github.com/charmbracelet/huh"

// confirm asks a yes/no question in the terminal
var confirm = func(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Delete").
		Negative("Keep").
		Value(&ok).
		Run()
	return ok, err
}
