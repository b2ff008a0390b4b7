package services

import (
	"sort"

	"alfredoptarigan/resume-screener/internal/ml"
)

type MatchScorer interface {
	Overlap(resumeText, jobDescription string) MatchOverlap
}

// MatchOverlap details which job description words the resume covers.
type MatchOverlap struct {
	Score   int
	Matched []string
	Missing []string
}

type matchScorer struct{}

func NewMatchScorer() MatchScorer {
	return &matchScorer{}
}

// Overlap implements MatchScorer. The score is the truncated percentage of
// distinct job description words present in the resume, and 0 when the job
// description has no words.
func (m *matchScorer) Overlap(resumeText, jobDescription string) MatchOverlap {
	jobWords := ml.WordSet(jobDescription)
	if len(jobWords) == 0 {
		return MatchOverlap{}
	}
	resumeWords := ml.WordSet(resumeText)

	var overlap MatchOverlap
	for word := range jobWords {
		if _, ok := resumeWords[word]; ok {
			overlap.Matched = append(overlap.Matched, word)
		} else {
			overlap.Missing = append(overlap.Missing, word)
		}
	}
	sort.Strings(overlap.Matched)
	sort.Strings(overlap.Missing)

	// Integer arithmetic keeps the floor exact.
	overlap.Score = len(overlap.Matched) * 100 / len(jobWords)
	return overlap
}
