package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"vocabtest-backend/internal/model"
	"vocabtest-backend/internal/repository"
	"vocabtest-backend/utilities"
)

const maxErrorDetails = 10

// Difficulty accepts a JSON number or a numeric string. Anything else reads
// as zero and is later normalised to the minimum.
type Difficulty int

func (d *Difficulty) UnmarshalJSON(b []byte) error {
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*d = ParseDifficulty(raw)
	return nil
}

// ParseDifficulty reads a number or numeric string, keeping the integer
// part. Non-numeric values give zero.
func ParseDifficulty(raw interface{}) Difficulty {
	switch v := raw.(type) {
	case float64:
		return Difficulty(int(v))
	case int:
		return Difficulty(v)
	case string:
		s := strings.TrimSpace(v)
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Difficulty(int(f))
		}
		// leading digits, e.g. "3 (hard)"
		end := 0
		for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && s[end] == '-') {
			end++
		}
		if n, err := strconv.Atoi(s[:end]); err == nil {
			return Difficulty(n)
		}
	}
	return 0
}

// clampDifficulty maps a raw difficulty into [1,5]; zero and unparsable
// values become 1.
func clampDifficulty(d Difficulty) int {
	n := int(d)
	if n == 0 {
		return MinDifficulty
	}
	return max(MinDifficulty, min(MaxDifficulty, n))
}

type ImportRow struct {
	English    string     `json:"english"`
	Japanese   string     `json:"japanese"`
	Category   string     `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
}

// ImportOptions are pointers so an omitted option keeps its default.
type ImportOptions struct {
	SkipDuplicates   *bool `json:"skip_duplicates"`
	CreateCategories *bool `json:"create_categories"`
}

type ImportRequest struct {
	Words   []ImportRow   `json:"words"`
	Options ImportOptions `json:"options"`
}

type ImportResult struct {
	Imported       int      `json:"imported"`
	Skipped        int      `json:"skipped"`
	Errors         int      `json:"errors"`
	TotalProcessed int      `json:"total_processed"`
	ErrorDetails   []string `json:"errorDetails"`
}

// Message summarises the result for the response envelope.
func (r *ImportResult) Message() string {
	msg := fmt.Sprintf("Successfully imported %d words", r.Imported)
	if r.Skipped > 0 {
		msg += fmt.Sprintf(", skipped %d duplicates", r.Skipped)
	}
	if r.Errors > 0 {
		msg += fmt.Sprintf(", %d errors occurred", r.Errors)
	}
	return msg
}

type ImportService interface {
	Import(req ImportRequest) (*ImportResult, error)
}

type importService struct {
	words      repository.WordRepository
	categories repository.CategoryRepository
	bus        *utilities.EventBus
}

func NewImportService(words repository.WordRepository, categories repository.CategoryRepository, bus *utilities.EventBus) ImportService {
	return &importService{words: words, categories: categories, bus: bus}
}

// Import stores rows one at a time. A failing row is reported and the
// rest carry on.
func (s *importService) Import(req ImportRequest) (*ImportResult, error) {
	if len(req.Words) == 0 {
		return nil, invalid("Valid words array is required")
	}
	skipDuplicates := optionOr(req.Options.SkipDuplicates, true)
	createCategories := optionOr(req.Options.CreateCategories, true)

	result := &ImportResult{ErrorDetails: []string{}}
	var failures []string
	// category name -> id, filled as rows are processed
	resolved := map[string]uint{}

	for _, row := range req.Words {
		skipped, err := s.importRow(row, skipDuplicates, createCategories, resolved)
		switch {
		case err != nil:
			failures = append(failures, err.Error())
		case skipped:
			result.Skipped++
		default:
			result.Imported++
		}
	}

	result.Errors = len(failures)
	result.TotalProcessed = result.Imported + result.Skipped + result.Errors
	if len(failures) > maxErrorDetails {
		failures = failures[:maxErrorDetails]
	}
	result.ErrorDetails = append(result.ErrorDetails, failures...)

	utilities.Info("word import: %s", result.Message())
	if s.bus != nil && result.Imported > 0 {
		s.bus.Publish(utilities.EventWordsImport, result.Imported)
	}
	return result, nil
}

func (s *importService) importRow(row ImportRow, skipDuplicates, createCategories bool, resolved map[string]uint) (bool, error) {
	english := strings.TrimSpace(row.English)
	japanese := strings.TrimSpace(row.Japanese)
	if english == "" || japanese == "" {
		return false, fmt.Errorf("Skipping invalid row: missing english or japanese")
	}

	if skipDuplicates {
		dup, err := s.words.FindDuplicate(english, japanese)
		if err != nil {
			return false, fmt.Errorf("Error importing word %s: %v", english, err)
		}
		if dup {
			return true, nil
		}
	}

	categoryID, err := s.resolveCategory(strings.TrimSpace(row.Category), createCategories, resolved)
	if err != nil {
		return false, fmt.Errorf("%v for word: %s", err, english)
	}

	word := &model.Word{
		English:    english,
		Japanese:   japanese,
		CategoryID: categoryID,
		Difficulty: clampDifficulty(row.Difficulty),
	}
	if err := s.words.Create(word); err != nil {
		return false, fmt.Errorf("Failed to insert word: %s", english)
	}
	return false, nil
}

func (s *importService) resolveCategory(name string, create bool, resolved map[string]uint) (uint, error) {
	if name == "" || name == model.DefaultCategoryName {
		return model.DefaultCategoryID, nil
	}
	if id, ok := resolved[name]; ok {
		return id, nil
	}

	existing, err := s.categories.GetByName(name)
	switch {
	case err == nil:
		resolved[name] = existing.ID
		return existing.ID, nil
	case !repository.IsNotFound(err):
		return 0, err
	case !create:
		return 0, fmt.Errorf("Category %q not found", name)
	}

	description := "Imported category: " + name
	category := &model.Category{Name: name, Description: &description}
	if err := s.categories.Create(category); err != nil {
		return 0, err
	}
	resolved[name] = category.ID
	return category.ID, nil
}

func optionOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
