package ml

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// Rows per gradient shard. Fixed so the reduction order, and therefore the
// fitted weights, do not depend on the number of workers.
const shardSize = 256

var (
	ErrNoSamples   = errors.New("no training samples")
	ErrSingleClass = errors.New("need samples from at least two classes")
)

// LogisticRegression is a multinomial (softmax) classifier with an L2
// penalty, fitted with L-BFGS. Exported fields with json tags are its
// persisted state.
type LogisticRegression struct {
	C          float64     `json:"c"`
	MaxIter    int         `json:"max_iter"`
	Tolerance  float64     `json:"tolerance"`
	Classes    []string    `json:"classes"`
	FeatureDim int         `json:"feature_dim"`
	Weights    [][]float64 `json:"weights"`
	Intercepts []float64   `json:"intercepts"`
	Iterations int         `json:"iterations"`
	Converged  bool        `json:"converged"`

	// Workers bounds the goroutines computing gradient shards during Fit.
	Workers int `json:"-"`
}

func NewLogisticRegression(c float64, maxIter int, tolerance float64, workers int) *LogisticRegression {
	return &LogisticRegression{
		C:         c,
		MaxIter:   maxIter,
		Tolerance: tolerance,
		Workers:   workers,
	}
}

// Fit trains on rows X of dimension dim against labels y.
func (m *LogisticRegression) Fit(ctx context.Context, X []SparseVector, y []string, dim int) error {
	if len(X) == 0 {
		return ErrNoSamples
	}
	if len(X) != len(y) {
		return fmt.Errorf("got %d rows but %d labels", len(X), len(y))
	}
	if m.C <= 0 {
		return fmt.Errorf("regularization strength C must be positive, got %v", m.C)
	}
	if m.MaxIter <= 0 {
		return fmt.Errorf("max iterations must be positive, got %d", m.MaxIter)
	}

	classes := uniqueSorted(y)
	if len(classes) < 2 {
		return ErrSingleClass
	}
	classIndex := make(map[string]int, len(classes))
	for i, c := range classes {
		classIndex[c] = i
	}
	labels := make([]int, len(y))
	for i, label := range y {
		labels[i] = classIndex[label]
	}

	p := &problem{
		rows:    X,
		labels:  labels,
		classes: len(classes),
		dim:     dim,
		lambda:  1 / (m.C * float64(len(X))),
		workers: max(m.Workers, 1),
	}
	p.allocate()

	if err := ctx.Err(); err != nil {
		return err
	}

	// Func and Grad are asked for the same point back to back, so one
	// evaluation serves both.
	var (
		evalErr  error
		cachedX  []float64
		lastLoss float64
		lastGrad = make([]float64, p.size())
	)
	evaluate := func(x []float64) {
		if cachedX != nil && floats.Equal(x, cachedX) {
			return
		}
		if evalErr == nil {
			lastLoss, evalErr = p.lossAndGradient(ctx, x, lastGrad)
		}
		if evalErr != nil {
			lastLoss = math.Inf(1)
			clear(lastGrad)
		}
		cachedX = append(cachedX[:0], x...)
	}

	objective := optimize.Problem{
		Func: func(x []float64) float64 {
			evaluate(x)
			return lastLoss
		},
		Grad: func(grad, x []float64) {
			evaluate(x)
			copy(grad, lastGrad)
		},
	}
	settings := &optimize.Settings{
		MajorIterations:   m.MaxIter,
		GradientThreshold: m.Tolerance,
		Converger: contextConverger{
			ctx:       ctx,
			Converger: &optimize.FunctionConverge{Absolute: 1e-10, Iterations: 100},
		},
	}

	result, err := optimize.Minimize(objective, make([]float64, p.size()), settings, &optimize.LBFGS{})
	if evalErr != nil {
		return evalErr
	}
	if result == nil {
		return fmt.Errorf("optimizer failed: %w", err)
	}
	params := result.Location.X

	m.Iterations = result.Stats.MajorIterations
	// A line search failure at the optimum still leaves the best point found.
	m.Converged = err == nil && result.Status != optimize.IterationLimit

	m.Classes = classes
	m.FeatureDim = dim
	m.Weights = make([][]float64, len(classes))
	m.Intercepts = make([]float64, len(classes))
	for k := range classes {
		offset := k * (dim + 1)
		m.Weights[k] = append([]float64(nil), params[offset:offset+dim]...)
		m.Intercepts[k] = params[offset+dim]
	}

	return nil
}

// DecisionFunction returns one score per class for x.
func (m *LogisticRegression) DecisionFunction(x SparseVector) []float64 {
	scores := make([]float64, len(m.Classes))
	for k := range m.Classes {
		score := m.Intercepts[k]
		w := m.Weights[k]
		for i, idx := range x.Indices {
			if idx < len(w) {
				score += w[idx] * x.Values[i]
			}
		}
		scores[k] = score
	}
	return scores
}

// Predict returns the highest scoring class. Ties go to the class that
// sorts first.
func (m *LogisticRegression) Predict(x SparseVector) string {
	scores := m.DecisionFunction(x)
	best := 0
	for k := 1; k < len(scores); k++ {
		if scores[k] > scores[best] {
			best = k
		}
	}
	return m.Classes[best]
}

// Validate checks that decoded state is internally consistent.
func (m *LogisticRegression) Validate() error {
	if len(m.Classes) < 2 {
		return ErrSingleClass
	}
	if m.FeatureDim <= 0 {
		return fmt.Errorf("feature dimension must be positive, got %d", m.FeatureDim)
	}
	if len(m.Weights) != len(m.Classes) || len(m.Intercepts) != len(m.Classes) {
		return fmt.Errorf("expected %d weight rows and intercepts, got %d and %d",
			len(m.Classes), len(m.Weights), len(m.Intercepts))
	}
	for k, w := range m.Weights {
		if len(w) != m.FeatureDim {
			return fmt.Errorf("weight row %d has %d entries, want %d", k, len(w), m.FeatureDim)
		}
	}
	return nil
}

// problem holds the training data and scratch space for one Fit call.
// Parameters are laid out class by class, each block being dim weights
// followed by the intercept.
type problem struct {
	rows    []SparseVector
	labels  []int
	classes int
	dim     int
	lambda  float64
	workers int

	shardLoss []float64
	shardGrad [][]float64
}

func (p *problem) size() int {
	return p.classes * (p.dim + 1)
}

func (p *problem) allocate() {
	shards := (len(p.rows) + shardSize - 1) / shardSize
	p.shardLoss = make([]float64, shards)
	p.shardGrad = make([][]float64, shards)
	for s := range p.shardGrad {
		p.shardGrad[s] = make([]float64, p.size())
	}
}

// lossAndGradient writes the gradient of the penalised mean cross-entropy
// at params into grad and returns the loss.
func (p *problem) lossAndGradient(ctx context.Context, params, grad []float64) (float64, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for s := range p.shardGrad {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			lo := s * shardSize
			hi := min(lo+shardSize, len(p.rows))
			p.shardLoss[s] = p.shard(lo, hi, params, p.shardGrad[s])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	clear(grad)
	var loss float64
	for s, partial := range p.shardGrad {
		loss += p.shardLoss[s]
		floats.Add(grad, partial)
	}

	invN := 1 / float64(len(p.rows))
	loss *= invN
	floats.Scale(invN, grad)

	for k := 0; k < p.classes; k++ {
		offset := k * (p.dim + 1)
		for j := 0; j < p.dim; j++ {
			w := params[offset+j]
			loss += 0.5 * p.lambda * w * w
			grad[offset+j] += p.lambda * w
		}
	}

	return loss, nil
}

// shard accumulates the unscaled loss and gradient of rows [lo, hi).
func (p *problem) shard(lo, hi int, params, partial []float64) float64 {
	clear(partial)
	scores := make([]float64, p.classes)
	var loss float64

	for r := lo; r < hi; r++ {
		x := p.rows[r]
		for k := range scores {
			offset := k * (p.dim + 1)
			score := params[offset+p.dim]
			for i, idx := range x.Indices {
				score += params[offset+idx] * x.Values[i]
			}
			scores[k] = score
		}

		lse := floats.LogSumExp(scores)
		y := p.labels[r]
		loss += lse - scores[y]

		for k, score := range scores {
			diff := math.Exp(score - lse)
			if k == y {
				diff--
			}
			offset := k * (p.dim + 1)
			for i, idx := range x.Indices {
				partial[offset+idx] += diff * x.Values[i]
			}
			partial[offset+p.dim] += diff
		}
	}

	return loss
}

// contextConverger stops the optimizer at the next major iteration once ctx
// is done.
type contextConverger struct {
	ctx context.Context
	optimize.Converger
}

func (c contextConverger) Converged(loc *optimize.Location) optimize.Status {
	if c.ctx.Err() != nil {
		return optimize.Failure
	}
	return c.Converger.Converged(loc)
}

func uniqueSorted(values []string) []string {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
