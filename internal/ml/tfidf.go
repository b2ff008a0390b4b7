package ml

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrEmptyCorpus     = errors.New("empty corpus")
	ErrEmptyVocabulary = errors.New("empty vocabulary; documents contain no terms")
	ErrNotFitted       = errors.New("vectorizer is not fitted")
)

// SparseVector is a feature row with strictly increasing indices.
type SparseVector struct {
	Indices []int
	Values  []float64
}

// TfidfVectorizer maps text to L2-normalised TF-IDF rows over a vocabulary
// learned by Fit. The exported fields are its persisted state.
type TfidfVectorizer struct {
	MaxFeatures int            `json:"max_features"`
	Vocabulary  map[string]int `json:"vocabulary"`
	IDF         []float64      `json:"idf"`
}

func NewTfidfVectorizer(maxFeatures int) *TfidfVectorizer {
	return &TfidfVectorizer{MaxFeatures: maxFeatures}
}

// Fit learns the vocabulary and smoothed inverse document frequencies.
// When MaxFeatures is positive only the terms with the highest corpus
// frequency are kept, ties going to the alphabetically smaller term.
func (v *TfidfVectorizer) Fit(docs []string) error {
	if len(docs) == 0 {
		return ErrEmptyCorpus
	}

	docFreq := make(map[string]int)
	termFreq := make(map[string]int)
	for _, doc := range docs {
		for term, count := range termCounts(doc) {
			docFreq[term]++
			termFreq[term] += count
		}
	}
	if len(docFreq) == 0 {
		return ErrEmptyVocabulary
	}

	terms := make([]string, 0, len(docFreq))
	for term := range docFreq {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	if v.MaxFeatures > 0 && len(terms) > v.MaxFeatures {
		sort.SliceStable(terms, func(i, j int) bool {
			return termFreq[terms[i]] > termFreq[terms[j]]
		})
		terms = terms[:v.MaxFeatures]
		sort.Strings(terms)
	}

	n := float64(len(docs))
	v.Vocabulary = make(map[string]int, len(terms))
	v.IDF = make([]float64, len(terms))
	for i, term := range terms {
		v.Vocabulary[term] = i
		v.IDF[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	return nil
}

// FitTransform fits on docs and returns their feature rows.
func (v *TfidfVectorizer) FitTransform(docs []string) ([]SparseVector, error) {
	if err := v.Fit(docs); err != nil {
		return nil, err
	}
	rows := make([]SparseVector, len(docs))
	for i, doc := range docs {
		rows[i] = v.Transform(doc)
	}
	return rows, nil
}

// Transform maps doc into the fitted feature space. Terms outside the
// vocabulary are ignored; a document without known terms is the zero row.
func (v *TfidfVectorizer) Transform(doc string) SparseVector {
	counts := make(map[int]int)
	for _, term := range Terms(doc) {
		if idx, ok := v.Vocabulary[term]; ok {
			counts[idx]++
		}
	}

	row := SparseVector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for idx := range counts {
		row.Indices = append(row.Indices, idx)
	}
	sort.Ints(row.Indices)

	var norm float64
	for _, idx := range row.Indices {
		value := float64(counts[idx]) * v.IDF[idx]
		row.Values = append(row.Values, value)
		norm += value * value
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range row.Values {
			row.Values[i] /= norm
		}
	}

	return row
}

// FeatureDim is the length of every row Transform produces.
func (v *TfidfVectorizer) FeatureDim() int {
	return len(v.IDF)
}

// Validate checks that decoded state is internally consistent.
func (v *TfidfVectorizer) Validate() error {
	if len(v.IDF) == 0 {
		return ErrNotFitted
	}
	if len(v.Vocabulary) != len(v.IDF) {
		return fmt.Errorf("vocabulary has %d terms but idf has %d entries", len(v.Vocabulary), len(v.IDF))
	}
	seen := make([]bool, len(v.IDF))
	for term, idx := range v.Vocabulary {
		if idx < 0 || idx >= len(v.IDF) {
			return fmt.Errorf("term %q has out-of-range index %d", term, idx)
		}
		if seen[idx] {
			return fmt.Errorf("index %d assigned to more than one term", idx)
		}
		seen[idx] = true
	}
	return nil
}

func termCounts(doc string) map[string]int {
	counts := make(map[string]int)
	for _, term := range Terms(doc) {
		counts[term]++
	}
	return counts
}
