package repositories

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-screener/internal/models"
)

func TestParseDataset(t *testing.T) {
	csvData := "\ufeffid,Job_Role,skills\n" +
		"1,Python Developer,\"python, django, sql\"\n" +
		"2,  ,java spring\n" +
		"3,Data Scientist,pandas numpy\n"

	rows, err := parseDataset(strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, []models.TrainingRow{
		{Skills: "python, django, sql", JobRole: "Python Developer"},
		{Skills: "pandas numpy", JobRole: "Data Scientist"},
	}, rows)
}

func TestParseDataset_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"empty", ""},
		{"missing column", "skills,title\npython,dev\n"},
		{"no labeled rows", "skills,job_role\npython,\n"},
		{"ragged row", "skills,job_role\npython,dev,extra\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseDataset(strings.NewReader(tt.csv))
			assert.ErrorIs(t, err, models.ErrDataset)
		})
	}
}

func TestDatasetRepository_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Resume.csv")
	require.NoError(t, os.WriteFile(path, []byte("skills,job_role\ngo grpc,Backend Engineer\n"), 0644))

	repo := NewDatasetRepository()
	rows, err := repo.Load(path)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = repo.Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, models.ErrDataset)
}
