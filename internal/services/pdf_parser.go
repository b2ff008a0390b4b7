package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"alfredoptarigan/resume-screener/internal/models"
)

type PDFParserService interface {
	ExtractText(r io.ReaderAt, size int64) (*PDFContent, error)
}

type PDFContent struct {
	Text          string
	PageCount     int
	PagesWithText int
}

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

// ExtractText joins the text of every page with newlines and trims the
// result. Pages without extractable text are skipped. Input that is not a
// readable PDF fails with models.ErrExtraction.
func (p *pdfParserService) ExtractText(r io.ReaderAt, size int64) (content *PDFContent, err error) {
	// The pdf reader panics on some malformed object graphs.
	defer func() {
		if rec := recover(); rec != nil {
			content = nil
			err = fmt.Errorf("%w: malformed PDF: %v", models.ErrExtraction, rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open PDF: %w", models.ErrExtraction, err)
	}

	var pages []string
	totalPage := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Unreadable content stream, treat like an image-only page
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		pages = append(pages, text)
	}

	return &PDFContent{
		Text:          strings.TrimSpace(strings.Join(pages, "\n")),
		PageCount:     totalPage,
		PagesWithText: len(pages),
	}, nil
}
