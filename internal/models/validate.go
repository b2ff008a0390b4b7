package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks that both the resume and the job description are present
// and non-empty. Failures wrap ErrValidation.
func (r *AnalyzeRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if r.Resume.Size <= 0 {
		return fmt.Errorf("%w: resume file is empty", ErrValidation)
	}
	return nil
}
