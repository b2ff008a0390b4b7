package ml

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTfidfVectorizer_Fit(t *testing.T) {
	v := NewTfidfVectorizer(0)
	require.NoError(t, v.Fit([]string{"python sql", "python java", "go"}))

	assert.Equal(t, map[string]int{"go": 0, "java": 1, "python": 2, "sql": 3}, v.Vocabulary)
	assert.InDelta(t, math.Log(4.0/3.0)+1, v.IDF[2], 1e-12)
	assert.InDelta(t, math.Log(2)+1, v.IDF[0], 1e-12)
	assert.Equal(t, 4, v.FeatureDim())
	assert.NoError(t, v.Validate())
}

func TestTfidfVectorizer_Transform(t *testing.T) {
	v := NewTfidfVectorizer(0)
	require.NoError(t, v.Fit([]string{"python sql", "python java", "go"}))

	row := v.Transform("SQL python unknown python")

	assert.Equal(t, []int{2, 3}, row.Indices)
	var norm float64
	for _, value := range row.Values {
		norm += value * value
	}
	assert.InDelta(t, 1.0, norm, 1e-12)

	// python appears twice
	wantRatio := 2 * v.IDF[2] / v.IDF[3]
	assert.InDelta(t, wantRatio, row.Values[0]/row.Values[1], 1e-12)
}

func TestTfidfVectorizer_TransformUnknownIsZeroRow(t *testing.T) {
	v := NewTfidfVectorizer(0)
	require.NoError(t, v.Fit([]string{"python sql"}))

	row := v.Transform("rust kotlin")
	assert.Empty(t, row.Indices)
	assert.Empty(t, row.Values)
}

func TestTfidfVectorizer_MaxFeatures(t *testing.T) {
	docs := []string{"alpha beta beta", "gamma beta", "alpha delta"}

	v := NewTfidfVectorizer(2)
	require.NoError(t, v.Fit(docs))
	assert.Equal(t, map[string]int{"alpha": 0, "beta": 1}, v.Vocabulary)

	// delta and gamma tie on frequency; the alphabetically smaller wins.
	v = NewTfidfVectorizer(3)
	require.NoError(t, v.Fit(docs))
	assert.Equal(t, map[string]int{"alpha": 0, "beta": 1, "delta": 2}, v.Vocabulary)
}

func TestTfidfVectorizer_Errors(t *testing.T) {
	v := NewTfidfVectorizer(10)
	assert.ErrorIs(t, v.Fit(nil), ErrEmptyCorpus)
	assert.ErrorIs(t, v.Fit([]string{"a b", "!!"}), ErrEmptyVocabulary)
	assert.ErrorIs(t, v.Validate(), ErrNotFitted)
}

func TestTfidfVectorizer_ValidateRejectsCorruptState(t *testing.T) {
	v := &TfidfVectorizer{Vocabulary: map[string]int{"go": 0, "sql": 5}, IDF: []float64{1, 1}}
	assert.Error(t, v.Validate())

	v = &TfidfVectorizer{Vocabulary: map[string]int{"go": 0, "sql": 0}, IDF: []float64{1, 1}}
	assert.Error(t, v.Validate())

	v = &TfidfVectorizer{Vocabulary: map[string]int{"go": 0}, IDF: []float64{1, 1}}
	assert.Error(t, v.Validate())
}
