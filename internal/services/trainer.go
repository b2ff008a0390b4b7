package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/ml"
	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
)

type TrainerService interface {
	Train(ctx context.Context, cfg config.TrainingConfig) (*TrainingReport, error)
}

type TrainingReport struct {
	RunID          uuid.UUID
	VectorizerFile string
	ClassifierFile string
	Rows           int
	TrainRows      int
	TestRows       int
	Classes        []string
	FeatureDim     int
	Iterations     int
	Converged      bool
	Evaluation     ml.ClassificationReport
}

type trainerService struct {
	datasets  repositories.DatasetRepository
	artifacts repositories.ArtifactRepository
}

func NewTrainerService(
	datasets repositories.DatasetRepository,
	artifacts repositories.ArtifactRepository,
) TrainerService {
	return &trainerService{
		datasets:  datasets,
		artifacts: artifacts,
	}
}

// Train implements TrainerService. Artifacts are only written after the
// model has been fitted and evaluated.
func (t *trainerService) Train(ctx context.Context, cfg config.TrainingConfig) (*TrainingReport, error) {
	// Step 1: Load dataset
	log.Printf("📥 Loading dataset from %s\n", cfg.DatasetPath)
	rows, err := t.datasets.Load(cfg.DatasetPath)
	if err != nil {
		return nil, err
	}

	docs := make([]string, len(rows))
	labels := make([]string, len(rows))
	for i, row := range rows {
		docs[i] = row.Skills
		labels[i] = row.JobRole
	}
	log.Printf("✅ Loaded %d rows\n", len(rows))

	// Step 2: Vectorize
	vectorizer := ml.NewTfidfVectorizer(cfg.MaxFeatures)
	features, err := vectorizer.FitTransform(docs)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fit vectorizer: %w", models.ErrDataset, err)
	}
	log.Printf("🔤 Vocabulary size: %d\n", vectorizer.FeatureDim())

	// Step 3: Split
	trainIdx, testIdx, err := ml.TrainTestSplit(len(rows), cfg.TestSize, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrDataset, err)
	}
	trainX, trainY := pick(features, labels, trainIdx)
	testX, testY := pick(features, labels, testIdx)

	// Step 4: Fit classifier
	log.Printf("🧠 Training classifier on %d rows (test %d)\n", len(trainX), len(testX))
	classifier := ml.NewLogisticRegression(cfg.C, cfg.MaxIter, cfg.Tolerance, cfg.Workers)
	if err := classifier.Fit(ctx, trainX, trainY, vectorizer.FeatureDim()); err != nil {
		if errors.Is(err, ml.ErrSingleClass) || errors.Is(err, ml.ErrNoSamples) {
			return nil, fmt.Errorf("%w: failed to fit classifier: %w", models.ErrDataset, err)
		}
		return nil, fmt.Errorf("failed to fit classifier: %w", err)
	}
	if !classifier.Converged {
		log.Printf("⚠️  Solver stopped after %d iterations without converging\n", classifier.Iterations)
	}

	// Step 5: Evaluate
	predictions := make([]string, len(testX))
	for i, x := range testX {
		predictions[i] = classifier.Predict(x)
	}
	evaluation := ml.NewClassificationReport(testY, predictions)

	// Step 6: Persist
	set := &repositories.ArtifactSet{
		Manifest: models.Manifest{
			RunID:        uuid.New(),
			CreatedAt:    time.Now().UTC(),
			FeatureDim:   vectorizer.FeatureDim(),
			Classes:      classifier.Classes,
			TrainRows:    len(trainX),
			TestRows:     len(testX),
			TestAccuracy: evaluation.Accuracy,
		},
		Vectorizer: vectorizer,
		Classifier: classifier,
	}
	if err := t.artifacts.Save(set); err != nil {
		return nil, fmt.Errorf("failed to save artifacts: %w", err)
	}
	log.Printf("💾 Saved artifacts for run %s\n", set.Manifest.RunID)

	return &TrainingReport{
		RunID:          set.Manifest.RunID,
		VectorizerFile: set.Manifest.VectorizerFile,
		ClassifierFile: set.Manifest.ClassifierFile,
		Rows:           len(rows),
		TrainRows:      len(trainX),
		TestRows:       len(testX),
		Classes:        classifier.Classes,
		FeatureDim:     vectorizer.FeatureDim(),
		Iterations:     classifier.Iterations,
		Converged:      classifier.Converged,
		Evaluation:     evaluation,
	}, nil
}

func pick(features []ml.SparseVector, labels []string, idx []int) ([]ml.SparseVector, []string) {
	x := make([]ml.SparseVector, len(idx))
	y := make([]string, len(idx))
	for i, j := range idx {
		x[i] = features[j]
		y[i] = labels[j]
	}
	return x, y
}
