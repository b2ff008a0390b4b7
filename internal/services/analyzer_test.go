package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-screener/internal/models"
)

type stubParser struct {
	text  string
	err   error
	calls int
}

func (s *stubParser) ExtractText(r io.ReaderAt, size int64) (*PDFContent, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &PDFContent{Text: s.text, PageCount: 1, PagesWithText: 1}, nil
}

type stubClassifier struct {
	role   string
	inputs []string
}

func (s *stubClassifier) Predict(text string) string {
	s.inputs = append(s.inputs, text)
	return s.role
}

func (s *stubClassifier) Status() models.ModelStatus {
	return models.ModelStatus{Classes: []string{s.role}}
}

func analyzeInput(job string) AnalyzeInput {
	resume := bytes.NewReader([]byte("%PDF-1.4 stub"))
	return AnalyzeInput{Resume: resume, ResumeSize: resume.Size(), JobDescription: job}
}

func TestAnalyzer_Suitable(t *testing.T) {
	parser := &stubParser{text: "Python Developer with SQL and Django experience"}
	classifier := &stubClassifier{role: "Python Developer"}
	analyzer := NewAnalyzerService(parser, NewMatchScorer(), classifier)

	job := "python developer sql django"
	result, err := analyzer.Analyze(context.Background(), analyzeInput(job))
	require.NoError(t, err)

	assert.Equal(t, models.Suitable, result.Suitability)
	assert.Equal(t, "Python Developer", result.JobRole)
	assert.Equal(t, 100, result.MatchScore)
	assert.Equal(t, []string{parser.text + " " + job}, classifier.inputs)
}

func TestAnalyzer_RoleMissingFromJobDescription(t *testing.T) {
	parser := &stubParser{text: "Experienced Python Developer skilled in SQL and Django"}
	classifier := &stubClassifier{role: "Python Developer"}
	analyzer := NewAnalyzerService(parser, NewMatchScorer(), classifier)

	result, err := analyzer.Analyze(context.Background(), analyzeInput("Looking for a Java Developer"))
	require.NoError(t, err)

	assert.Equal(t, models.NotSuitable, result.Suitability)
}

func TestAnalyzer_LowScoreIsNotSuitable(t *testing.T) {
	parser := &stubParser{text: "Experienced Python Developer skilled in SQL and Django"}
	classifier := &stubClassifier{role: "Python Developer"}
	analyzer := NewAnalyzerService(parser, NewMatchScorer(), classifier)

	var logs bytes.Buffer
	log.SetOutput(&logs)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	result, err := analyzer.Analyze(context.Background(), analyzeInput("Looking for a Python Developer with SQL skills"))
	require.NoError(t, err)

	assert.Equal(t, 37, result.MatchScore)
	assert.Equal(t, models.NotSuitable, result.Suitability)

	assert.Contains(t, logs.String(), "matched 3/8 job words, score 37")
	assert.NotContains(t, logs.String(), "Django", "resume text must not be logged")
}

func TestAnalyzer_Idempotent(t *testing.T) {
	parser := &stubParser{text: "Go Kubernetes gRPC"}
	analyzer := NewAnalyzerService(parser, NewMatchScorer(), &stubClassifier{role: "DevOps Engineer"})

	first, err := analyzer.Analyze(context.Background(), analyzeInput("DevOps Engineer: Go, Kubernetes"))
	require.NoError(t, err)
	second, err := analyzer.Analyze(context.Background(), analyzeInput("DevOps Engineer: Go, Kubernetes"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnalyzer_ExtractionErrorSkipsModel(t *testing.T) {
	parser := &stubParser{err: fmt.Errorf("%w: not a PDF", models.ErrExtraction)}
	classifier := &stubClassifier{role: "Python Developer"}
	analyzer := NewAnalyzerService(parser, NewMatchScorer(), classifier)

	_, err := analyzer.Analyze(context.Background(), analyzeInput("python"))

	assert.ErrorIs(t, err, models.ErrExtraction)
	assert.Empty(t, classifier.inputs)
}

func TestAnalyzer_Validation(t *testing.T) {
	parser := &stubParser{text: "python"}
	classifier := &stubClassifier{role: "Python Developer"}
	analyzer := NewAnalyzerService(parser, NewMatchScorer(), classifier)

	_, err := analyzer.Analyze(context.Background(), AnalyzeInput{JobDescription: "python"})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = analyzer.Analyze(context.Background(), analyzeInput("   \n"))
	assert.ErrorIs(t, err, models.ErrValidation)

	assert.Zero(t, parser.calls)
	assert.Empty(t, classifier.inputs)
}

func TestAnalyzer_CancelledContext(t *testing.T) {
	classifier := &stubClassifier{role: "Python Developer"}
	analyzer := NewAnalyzerService(&stubParser{text: "python"}, NewMatchScorer(), classifier)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := analyzer.Analyze(ctx, analyzeInput("python"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, classifier.inputs)
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name  string
		score int
		role  string
		job   string
		want  models.Suitability
	}{
		{"match above threshold", 75, "Python Developer", "Looking for a PYTHON developer", models.Suitable},
		{"match at threshold", 60, "Python Developer", "python developer wanted", models.Suitable},
		{"below threshold despite role", 45, "Python Developer", "Python Developer", models.NotSuitable},
		{"role absent", 90, "Python Developer", "Looking for a Java Developer", models.NotSuitable},
		{"synonym is not a match", 90, "ML Engineer", "Machine Learning Engineer", models.NotSuitable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.score, tt.role, tt.job))
		})
	}
}
