package service

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"

	"vocabtest-backend/internal/model"
	"vocabtest-backend/internal/repository"
	"vocabtest-backend/utilities"
)

const unicodeFamily = "vocab"

type PDFService interface {
	// Render writes the printable test to w. With answers set an answer key
	// page follows the questions.
	Render(testID uint, answers bool, w io.Writer) error
}

type pdfService struct {
	tests    repository.TestRepository
	fontPath string
}

// NewPDFService renders with the TrueType font at fontPath when it exists,
// otherwise with the core Helvetica font which has no Japanese glyphs.
func NewPDFService(tests repository.TestRepository, fontPath string) PDFService {
	return &pdfService{tests: tests, fontPath: fontPath}
}

func (s *pdfService) Render(testID uint, answers bool, w io.Writer) error {
	test, err := s.tests.GetByID(testID)
	if err != nil {
		return mapRepoErr(err, "Test")
	}
	items, err := s.tests.Items(testID)
	if err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(test.Title, true)
	pdf.SetMargins(15, 15, 15)
	family, text := s.setupFont(pdf)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(family, "", 8)
		pdf.CellFormat(0, 6, fmt.Sprintf("%s  page %d", time.Now().Format("2006-01-02"), pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont(family, "B", 16)
	pdf.CellFormat(0, 10, text(test.Title), "", 1, "L", false, 0, "")

	pdf.SetFont(family, "", 10)
	pdf.CellFormat(0, 6, text(fmt.Sprintf("Code: %s    %s    %d questions", test.Code, typeLabel(test.TestType), test.QuestionCount)), "", 1, "L", false, 0, "")
	if test.CategoryName != nil {
		pdf.CellFormat(0, 6, text("Category: "+*test.CategoryName), "", 1, "L", false, 0, "")
	}
	if test.Description != nil && *test.Description != "" {
		pdf.MultiCell(0, 6, text(*test.Description), "", "L", false)
	}
	pdf.CellFormat(0, 8, "Date: ______________    Name: ________________________", "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(family, "", 12)
	for _, it := range items {
		prompt, _ := promptAndAnswer(it)
		pdf.CellFormat(90, 9, text(fmt.Sprintf("%d. %s", it.QuestionOrder, prompt)), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 9, "______________________________", "", 1, "L", false, 0, "")
	}

	if answers {
		pdf.AddPage()
		pdf.SetFont(family, "B", 14)
		pdf.CellFormat(0, 10, text("Answer key: "+test.Title), "", 1, "L", false, 0, "")
		pdf.SetFont(family, "", 11)
		for _, it := range items {
			prompt, answer := promptAndAnswer(it)
			pdf.CellFormat(90, 8, text(fmt.Sprintf("%d. %s", it.QuestionOrder, prompt)), "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 8, text(answer), "", 1, "L", false, 0, "")
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render test pdf: %w", err)
	}
	return nil
}

// setupFont registers the unicode font if configured and returns the family
// to use plus a text encoder for it.
func (s *pdfService) setupFont(pdf *gofpdf.Fpdf) (string, func(string) string) {
	if s.fontPath != "" {
		if _, err := os.Stat(s.fontPath); err == nil {
			pdf.AddUTF8Font(unicodeFamily, "", s.fontPath)
			pdf.AddUTF8Font(unicodeFamily, "B", s.fontPath)
			if pdf.Ok() {
				return unicodeFamily, func(t string) string { return t }
			}
			utilities.Warn("could not load pdf font %s: %v", s.fontPath, pdf.Error())
			pdf.ClearError()
		} else {
			utilities.Warn("pdf font %s not found, falling back to Helvetica", s.fontPath)
		}
	}
	return "Helvetica", pdf.UnicodeTranslatorFromDescriptor("")
}

func promptAndAnswer(it model.TestItemWithWord) (string, string) {
	if it.QuestionType == model.JapaneseToEnglish {
		return it.Japanese, it.English
	}
	return it.English, it.Japanese
}

func typeLabel(t model.TestType) string {
	switch t {
	case model.EnglishToJapanese:
		return "English to Japanese"
	case model.JapaneseToEnglish:
		return "Japanese to English"
	}
	return "Mixed"
}
