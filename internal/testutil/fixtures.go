// Package testutil builds fixtures shared by package tests.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// BuildPDF renders a minimal PDF with one page per entry. Each entry's lines
// are drawn as separate text objects; an empty entry produces a page without
// a content stream.
func BuildPDF(pages ...[]string) []byte {
	var buf bytes.Buffer
	var offsets []int

	addObject := func(body string) int {
		offsets = append(offsets, buf.Len())
		id := len(offsets)
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", id, body)
		return id
	}

	buf.WriteString("%PDF-1.4\n")

	// Object ids are fixed up front: catalog 1, pages 2, font 3, then a
	// page object followed by its content stream for each page.
	kids := make([]string, len(pages))
	next := 4
	pageIDs := make([]int, len(pages))
	for i, lines := range pages {
		pageIDs[i] = next
		kids[i] = fmt.Sprintf("%d 0 R", next)
		next++
		if len(lines) > 0 {
			next++
		}
	}

	addObject("<< /Type /Catalog /Pages 2 0 R >>")
	addObject(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	addObject("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	for i, lines := range pages {
		page := "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >>"
		if len(lines) > 0 {
			page += fmt.Sprintf(" /Contents %d 0 R", pageIDs[i]+1)
		}
		addObject(page + " >>")

		if len(lines) > 0 {
			var content strings.Builder
			for j, line := range lines {
				fmt.Fprintf(&content, "BT /F1 12 Tf 72 %d Td (%s) Tj ET\n", 720-j*14, line)
			}
			addObject(fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()))
		}
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	return buf.Bytes()
}

// datasetSkills is the vocabulary each role draws from in WriteDataset.
var datasetSkills = []struct {
	role   string
	skills []string
}{
	{"Python Developer", []string{"python", "django", "flask", "sql", "rest"}},
	{"Java Developer", []string{"java", "spring", "hibernate", "maven", "sql"}},
	{"Data Scientist", []string{"python", "pandas", "numpy", "statistics", "sklearn"}},
	{"DevOps Engineer", []string{"kubernetes", "docker", "terraform", "linux", "ci"}},
}

// WriteDataset writes a 60 row skills,job_role CSV covering four roles and
// returns its path.
func WriteDataset(t *testing.T) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("skills,job_role\n")
	for i := 0; i < 60; i++ {
		entry := datasetSkills[i%len(datasetSkills)]
		words := entry.skills
		row := []string{words[i%5], words[(i+1)%5], words[(i+2)%5]}
		fmt.Fprintf(&b, "\"%s\",%s\n", strings.Join(row, ", "), entry.role)
	}

	path := filepath.Join(t.TempDir(), "Resume.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))
	return path
}
