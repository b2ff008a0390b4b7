package models

import (
	"mime/multipart"
	"time"
)

type Suitability string

const (
	Suitable    Suitability = "Suitable"
	NotSuitable Suitability = "Not Suitable"
)

// AnalyzeRequest is the validated multipart input of POST /analyze.
type AnalyzeRequest struct {
	Resume         *multipart.FileHeader `validate:"required"`
	JobDescription string                `validate:"required"`
}

type AnalysisResult struct {
	Suitability Suitability `json:"binary_classification"`
	JobRole     string      `json:"job_role"`
	MatchScore  int         `json:"match_score"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string      `json:"status"`
	Time   time.Time   `json:"time"`
	Model  ModelStatus `json:"model"`
}

type ModelStatus struct {
	RunID      string   `json:"run_id"`
	Classes    []string `json:"classes"`
	FeatureDim int      `json:"feature_dim"`
}
