package services

import (
	"fmt"

	"alfredoptarigan/resume-screener/internal/ml"
	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
)

type RoleClassifier interface {
	Predict(text string) string
	Status() models.ModelStatus
}

// roleClassifier is immutable after construction and safe for concurrent use.
type roleClassifier struct {
	vectorizer *ml.TfidfVectorizer
	classifier *ml.LogisticRegression
	status     models.ModelStatus
}

func NewRoleClassifier(set *repositories.ArtifactSet) (RoleClassifier, error) {
	if set == nil || set.Vectorizer == nil || set.Classifier == nil {
		return nil, fmt.Errorf("%w: artifact set is incomplete", models.ErrStartup)
	}
	if set.Vectorizer.FeatureDim() != set.Classifier.FeatureDim {
		return nil, fmt.Errorf("%w: vectorizer produces %d features, classifier expects %d",
			models.ErrStartup, set.Vectorizer.FeatureDim(), set.Classifier.FeatureDim)
	}

	return &roleClassifier{
		vectorizer: set.Vectorizer,
		classifier: set.Classifier,
		status: models.ModelStatus{
			RunID:      set.Manifest.RunID.String(),
			Classes:    append([]string(nil), set.Classifier.Classes...),
			FeatureDim: set.Classifier.FeatureDim,
		},
	}, nil
}

// Predict implements RoleClassifier.
func (c *roleClassifier) Predict(text string) string {
	return c.classifier.Predict(c.vectorizer.Transform(text))
}

// Status implements RoleClassifier.
func (c *roleClassifier) Status() models.ModelStatus {
	return c.status
}
