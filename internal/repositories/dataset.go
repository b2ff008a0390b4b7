package repositories

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"alfredoptarigan/resume-screener/internal/models"
)

const (
	skillsColumn  = "skills"
	jobRoleColumn = "job_role"
)

type DatasetRepository interface {
	Load(path string) ([]models.TrainingRow, error)
}

type csvDatasetRepository struct{}

func NewDatasetRepository() DatasetRepository {
	return &csvDatasetRepository{}
}

// Load implements DatasetRepository. Rows with an empty job_role are skipped.
// Every failure wraps models.ErrDataset.
func (r *csvDatasetRepository) Load(path string) ([]models.TrainingRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open dataset: %w", models.ErrDataset, err)
	}
	defer f.Close()

	return parseDataset(f)
}

func parseDataset(src io.Reader) ([]models.TrainingRow, error) {
	reader := csv.NewReader(src)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: dataset is empty", models.ErrDataset)
		}
		return nil, fmt.Errorf("%w: failed to read header: %w", models.ErrDataset, err)
	}

	skillsIdx, roleIdx := -1, -1
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		switch name {
		case skillsColumn:
			skillsIdx = i
		case jobRoleColumn:
			roleIdx = i
		}
	}
	if skillsIdx < 0 || roleIdx < 0 {
		return nil, fmt.Errorf("%w: dataset must have %q and %q columns, got %v",
			models.ErrDataset, skillsColumn, jobRoleColumn, header)
	}

	var rows []models.TrainingRow
	skipped := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read row: %w", models.ErrDataset, err)
		}

		role := strings.TrimSpace(record[roleIdx])
		if role == "" {
			skipped++
			continue
		}
		rows = append(rows, models.TrainingRow{
			Skills:  record[skillsIdx],
			JobRole: role,
		})
	}

	if skipped > 0 {
		log.Printf("⚠️  Skipped %d rows without a job_role\n", skipped)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: dataset has no labeled rows", models.ErrDataset)
	}

	return rows, nil
}
