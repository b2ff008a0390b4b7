package models

import "errors"

// Error kinds. Callers wrap these with fmt.Errorf("...: %w", Err...) and
// classify with errors.Is.
var (
	// ErrValidation marks a request missing a required field.
	ErrValidation = errors.New("validation error")
	// ErrExtraction marks a resume that could not be read as a PDF.
	ErrExtraction = errors.New("extraction error")
	// ErrStartup marks missing, corrupt or mismatched model artifacts.
	ErrStartup = errors.New("startup error")
	// ErrDataset marks an unreadable or malformed training dataset.
	ErrDataset = errors.New("dataset error")
)
