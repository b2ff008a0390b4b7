package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/testutil"
)

func trainingConfig(dataset string) config.TrainingConfig {
	return config.TrainingConfig{
		DatasetPath: dataset,
		MaxFeatures: 5000,
		TestSize:    0.2,
		Seed:        42,
		MaxIter:     200,
		C:           1.0,
		Tolerance:   1e-4,
		Workers:     2,
	}
}

func modelConfig(t *testing.T) config.ModelConfig {
	return config.ModelConfig{
		Dir:            filepath.Join(t.TempDir(), "models"),
		VectorizerFile: "vectorizer.json",
		ClassifierFile: "resume_model.json",
		ManifestFile:   "manifest.json",
	}
}

func TestTrainer_TrainAndServe(t *testing.T) {
	dataset := testutil.WriteDataset(t)
	artifacts := repositories.NewArtifactRepository(modelConfig(t))
	trainer := NewTrainerService(repositories.NewDatasetRepository(), artifacts)

	report, err := trainer.Train(context.Background(), trainingConfig(dataset))
	require.NoError(t, err)

	assert.Equal(t, 60, report.Rows)
	assert.Equal(t, 48, report.TrainRows)
	assert.Equal(t, 12, report.TestRows)
	assert.Len(t, report.Classes, 4)
	assert.Equal(t, 12, report.Evaluation.Total)
	assert.Greater(t, report.Evaluation.Accuracy, 0.5)

	set, err := artifacts.Load()
	require.NoError(t, err)
	assert.Equal(t, report.RunID, set.Manifest.RunID)
	assert.Equal(t, 48, set.Manifest.TrainRows)
	assert.Equal(t, "vectorizer-"+report.RunID.String()+".json", report.VectorizerFile)
	assert.Equal(t, set.Manifest.ClassifierFile, report.ClassifierFile)

	classifier, err := NewRoleClassifier(set)
	require.NoError(t, err)
	assert.Equal(t, "DevOps Engineer", classifier.Predict("kubernetes docker terraform"))
	assert.Equal(t, "Java Developer", classifier.Predict("java spring hibernate"))
}

func TestTrainer_Reproducible(t *testing.T) {
	dataset := testutil.WriteDataset(t)
	datasets := repositories.NewDatasetRepository()

	repoA := repositories.NewArtifactRepository(modelConfig(t))
	repoB := repositories.NewArtifactRepository(modelConfig(t))

	_, err := NewTrainerService(datasets, repoA).Train(context.Background(), trainingConfig(dataset))
	require.NoError(t, err)

	cfgB := trainingConfig(dataset)
	cfgB.Workers = 7
	_, err = NewTrainerService(datasets, repoB).Train(context.Background(), cfgB)
	require.NoError(t, err)

	setA, err := repoA.Load()
	require.NoError(t, err)
	setB, err := repoB.Load()
	require.NoError(t, err)

	assert.NotEqual(t, setA.Manifest.RunID, setB.Manifest.RunID)
	assert.Equal(t, setA.Classifier.Weights, setB.Classifier.Weights)
	assert.Equal(t, setA.Manifest.TestAccuracy, setB.Manifest.TestAccuracy)

	clsA, err := NewRoleClassifier(setA)
	require.NoError(t, err)
	clsB, err := NewRoleClassifier(setB)
	require.NoError(t, err)

	input := "python pandas numpy statistics"
	assert.Equal(t, clsA.Predict(input), clsB.Predict(input))
}

func TestTrainer_DatasetErrorsWriteNothing(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"missing columns", "text,label\npython,Python Developer\n"},
		{"single class", "skills,job_role\npython,Dev\njava,Dev\nsql,Dev\ngo,Dev\nrust,Dev\n"},
		{"no terms", "skills,job_role\n!,A\n?,B\n.,A\n;,B\n:,A\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "Resume.csv")
			require.NoError(t, os.WriteFile(path, []byte(tt.csv), 0644))

			mcfg := modelConfig(t)
			trainer := NewTrainerService(repositories.NewDatasetRepository(), repositories.NewArtifactRepository(mcfg))

			_, err := trainer.Train(context.Background(), trainingConfig(path))
			assert.ErrorIs(t, err, models.ErrDataset)

			_, statErr := os.Stat(mcfg.Dir)
			assert.True(t, os.IsNotExist(statErr), "no artifacts should be written")
		})
	}

	t.Run("missing file", func(t *testing.T) {
		mcfg := modelConfig(t)
		trainer := NewTrainerService(repositories.NewDatasetRepository(), repositories.NewArtifactRepository(mcfg))

		_, err := trainer.Train(context.Background(), trainingConfig(filepath.Join(t.TempDir(), "nope.csv")))
		assert.ErrorIs(t, err, models.ErrDataset)
	})
}
