package models

import (
	"time"

	"github.com/google/uuid"
)

// ArtifactFormatVersion is bumped whenever the vectorizer or classifier
// encoding changes incompatibly.
const ArtifactFormatVersion = 1

// Manifest ties a vectorizer and classifier to the single training run that
// produced them.
type Manifest struct {
	FormatVersion    int       `json:"format_version"`
	RunID            uuid.UUID `json:"run_id"`
	CreatedAt        time.Time `json:"created_at"`
	FeatureDim       int       `json:"feature_dim"`
	Classes          []string  `json:"classes"`
	VectorizerFile   string    `json:"vectorizer_file"`
	ClassifierFile   string    `json:"classifier_file"`
	VectorizerSHA256 string    `json:"vectorizer_sha256"`
	ClassifierSHA256 string    `json:"classifier_sha256"`
	TrainRows        int       `json:"train_rows"`
	TestRows         int       `json:"test_rows"`
	TestAccuracy     float64   `json:"test_accuracy"`
}

// TrainingRow is one labeled example from the training dataset.
type TrainingRow struct {
	Skills  string
	JobRole string
}
