package sugar

import (
	tea "github.com/charmbracelet/bubbletea"
)

type ErrorModel interface {
	tea.Model
	Err() error
}

// RunProgramWithErrors runs model to completion and returns the final model
// with its concrete type, along with the model's own error. Bubble Tea errors
// take precedence.
func RunProgramWithErrors[M ErrorModel](model M, opts ...tea.ProgramOption) (M, error) {
	resultModel, teaErr := tea.NewProgram(model, opts...).Run()
	if teaErr != nil {
		return model, teaErr
	}

	final, ok := resultModel.(M)
	if !ok {
		return model, nil
	}
	return final, final.Err()
}
