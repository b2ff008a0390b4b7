package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"alfredoptarigan/resume-screener/internal/models"
)

// MinMatchScore is the lowest match score that can still be Suitable.
const MinMatchScore = 60

type AnalyzerService interface {
	Analyze(ctx context.Context, in AnalyzeInput) (*models.AnalysisResult, error)
}

type AnalyzeInput struct {
	Resume         io.ReaderAt
	ResumeSize     int64
	JobDescription string
}

type analyzerService struct {
	pdfParser  PDFParserService
	scorer     MatchScorer
	classifier RoleClassifier
}

func NewAnalyzerService(
	pdfParser PDFParserService,
	scorer MatchScorer,
	classifier RoleClassifier,
) AnalyzerService {
	return &analyzerService{
		pdfParser:  pdfParser,
		scorer:     scorer,
		classifier: classifier,
	}
}

// Analyze implements AnalyzerService.
func (a *analyzerService) Analyze(ctx context.Context, in AnalyzeInput) (*models.AnalysisResult, error) {
	if in.Resume == nil || in.ResumeSize <= 0 {
		return nil, fmt.Errorf("%w: resume file is required", models.ErrValidation)
	}
	if strings.TrimSpace(in.JobDescription) == "" {
		return nil, fmt.Errorf("%w: job description is required", models.ErrValidation)
	}

	// Step 1: Extract resume text
	content, err := a.pdfParser.ExtractText(in.Resume, in.ResumeSize)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Step 2: Predict role from resume and job description together
	role := a.classifier.Predict(content.Text + " " + in.JobDescription)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Step 3: Lexical overlap of resume against job description only
	overlap := a.scorer.Overlap(content.Text, in.JobDescription)
	score := overlap.Score

	// Step 4: Verdict
	result := &models.AnalysisResult{
		Suitability: Decide(score, role, in.JobDescription),
		JobRole:     role,
		MatchScore:  score,
	}

	log.Printf("📄 Analyzed resume: %d/%d pages with text, matched %d/%d job words, score %d, verdict %q\n",
		content.PagesWithText, content.PageCount, len(overlap.Matched),
		len(overlap.Matched)+len(overlap.Missing), score, result.Suitability)

	return result, nil
}

// Decide applies the suitability rule: a score below MinMatchScore is never
// suitable, otherwise the predicted role must occur in the job description,
// compared case-insensitively as a plain substring. Synonyms such as
// "ML Engineer" and "Machine Learning Engineer" do not match.
func Decide(score int, role, jobDescription string) models.Suitability {
	if score < MinMatchScore {
		return models.NotSuitable
	}
	if strings.Contains(strings.ToLower(jobDescription), strings.ToLower(role)) {
		return models.Suitable
	}
	return models.NotSuitable
}
