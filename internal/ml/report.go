package ml

import (
	"fmt"
	"strings"
)

type ClassMetrics struct {
	Label     string  `json:"label"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// ClassificationReport summarises predictions against ground truth.
type ClassificationReport struct {
	Accuracy    float64        `json:"accuracy"`
	Classes     []ClassMetrics `json:"classes"`
	MacroAvg    ClassMetrics   `json:"macro_avg"`
	WeightedAvg ClassMetrics   `json:"weighted_avg"`
	Total       int            `json:"total"`
}

// NewClassificationReport scores yPred against yTrue. Labels are the union of
// both slices; a metric whose denominator is zero is reported as 0.
func NewClassificationReport(yTrue, yPred []string) ClassificationReport {
	labels := uniqueSorted(append(append([]string(nil), yTrue...), yPred...))

	truePos := make(map[string]int)
	predicted := make(map[string]int)
	actual := make(map[string]int)
	correct := 0
	for i := range yTrue {
		actual[yTrue[i]]++
		predicted[yPred[i]]++
		if yTrue[i] == yPred[i] {
			truePos[yTrue[i]]++
			correct++
		}
	}

	report := ClassificationReport{
		Total:       len(yTrue),
		Classes:     make([]ClassMetrics, 0, len(labels)),
		MacroAvg:    ClassMetrics{Label: "macro avg", Support: len(yTrue)},
		WeightedAvg: ClassMetrics{Label: "weighted avg", Support: len(yTrue)},
	}
	if len(yTrue) > 0 {
		report.Accuracy = float64(correct) / float64(len(yTrue))
	}

	for _, label := range labels {
		precision := ratio(truePos[label], predicted[label])
		recall := ratio(truePos[label], actual[label])
		f1 := 0.0
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}
		m := ClassMetrics{
			Label:     label,
			Precision: precision,
			Recall:    recall,
			F1:        f1,
			Support:   actual[label],
		}
		report.Classes = append(report.Classes, m)

		report.MacroAvg.Precision += precision
		report.MacroAvg.Recall += recall
		report.MacroAvg.F1 += f1
		w := float64(m.Support)
		report.WeightedAvg.Precision += precision * w
		report.WeightedAvg.Recall += recall * w
		report.WeightedAvg.F1 += f1 * w
	}

	if n := float64(len(labels)); n > 0 {
		report.MacroAvg.Precision /= n
		report.MacroAvg.Recall /= n
		report.MacroAvg.F1 /= n
	}
	if total := float64(len(yTrue)); total > 0 {
		report.WeightedAvg.Precision /= total
		report.WeightedAvg.Recall /= total
		report.WeightedAvg.F1 /= total
	}

	return report
}

// String renders the report as a fixed-width table.
func (r ClassificationReport) String() string {
	width := len("weighted avg")
	for _, c := range r.Classes {
		width = max(width, len(c.Label))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%*s %9s %9s %9s %9s\n\n", width, "", "precision", "recall", "f1-score", "support")
	for _, c := range r.Classes {
		writeRow(&b, width, c)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%*s %9s %9s %9.2f %9d\n", width, "accuracy", "", "", r.Accuracy, r.Total)
	writeRow(&b, width, r.MacroAvg)
	writeRow(&b, width, r.WeightedAvg)
	return b.String()
}

func writeRow(b *strings.Builder, width int, m ClassMetrics) {
	fmt.Fprintf(b, "%*s %9.2f %9.2f %9.2f %9d\n", width, m.Label, m.Precision, m.Recall, m.F1, m.Support)
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
