package service

import (
	"strings"

	"vocabtest-backend/internal/model"
	"vocabtest-backend/internal/repository"
)

const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

// WordInput is the body of a word create or update.
type WordInput struct {
	English    string `json:"english" binding:"max=200"`
	Japanese   string `json:"japanese" binding:"max=200"`
	CategoryID *uint  `json:"category_id"`
	Difficulty *int   `json:"difficulty"`
}

// WordPage is one page of a word listing.
type WordPage struct {
	Words  []model.WordWithCategory `json:"words"`
	Total  int64                    `json:"total"`
	Limit  int                      `json:"limit"`
	Offset int                      `json:"offset"`
}

type WordService interface {
	List(filter repository.WordFilter) (*WordPage, error)
	Get(id uint) (*model.WordWithCategory, error)
	Create(in WordInput) (*model.WordWithCategory, error)
	Update(id uint, in WordInput) (*model.WordWithCategory, error)
	Delete(id uint) error
	DeleteMany(ids []uint) (int64, error)
	Range(startID, endID uint) ([]model.WordWithCategory, error)
}

type wordService struct {
	words      repository.WordRepository
	categories repository.CategoryRepository
	pageSize   int
	maxPage    int
}

// NewWordService builds the word catalogue. pageSize is the default listing
// limit and maxPage caps what a client may ask for.
func NewWordService(words repository.WordRepository, categories repository.CategoryRepository, pageSize, maxPage int) WordService {
	if pageSize <= 0 {
		pageSize = 50
	}
	if maxPage < pageSize {
		maxPage = pageSize
	}
	return &wordService{words: words, categories: categories, pageSize: pageSize, maxPage: maxPage}
}

func (s *wordService) List(filter repository.WordFilter) (*WordPage, error) {
	if filter.Limit <= 0 {
		filter.Limit = s.pageSize
	}
	if filter.Limit > s.maxPage {
		filter.Limit = s.maxPage
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	words, total, err := s.words.List(filter)
	if err != nil {
		return nil, err
	}
	return &WordPage{Words: words, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (s *wordService) Get(id uint) (*model.WordWithCategory, error) {
	w, err := s.words.GetByID(id)
	return w, mapRepoErr(err, "Word")
}

func (s *wordService) Create(in WordInput) (*model.WordWithCategory, error) {
	word := &model.Word{CategoryID: model.DefaultCategoryID, Difficulty: MinDifficulty}
	if err := s.apply(word, in); err != nil {
		return nil, err
	}
	if err := s.words.Create(word); err != nil {
		return nil, err
	}
	return s.Get(word.ID)
}

// Update replaces the text of a word. Category and difficulty keep their
// stored values when omitted.
func (s *wordService) Update(id uint, in WordInput) (*model.WordWithCategory, error) {
	current, err := s.words.GetByID(id)
	if err != nil {
		return nil, mapRepoErr(err, "Word")
	}
	word := current.Word
	if err := s.apply(&word, in); err != nil {
		return nil, err
	}
	if err := s.words.Update(&word); err != nil {
		return nil, mapRepoErr(err, "Word")
	}
	return s.Get(id)
}

func (s *wordService) apply(word *model.Word, in WordInput) error {
	english := strings.TrimSpace(in.English)
	japanese := strings.TrimSpace(in.Japanese)
	if english == "" || japanese == "" {
		return invalid("English and Japanese are required")
	}
	word.English = english
	word.Japanese = japanese

	if in.Difficulty != nil {
		if *in.Difficulty < MinDifficulty || *in.Difficulty > MaxDifficulty {
			return invalid("Difficulty must be between %d and %d", MinDifficulty, MaxDifficulty)
		}
		word.Difficulty = *in.Difficulty
	}

	if in.CategoryID != nil {
		ok, err := s.categories.Exists(*in.CategoryID)
		if err != nil {
			return err
		}
		if !ok {
			return invalid("Category %d does not exist", *in.CategoryID)
		}
		word.CategoryID = *in.CategoryID
	}
	return nil
}

func (s *wordService) Delete(id uint) error {
	return mapRepoErr(s.words.Delete(id), "Word")
}

// DeleteMany removes all listed words or none of them.
func (s *wordService) DeleteMany(ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, invalid("Valid IDs array is required")
	}
	n, err := s.words.DeleteMany(dedupe(ids))
	return n, mapRepoErr(err, "Word")
}

func (s *wordService) Range(startID, endID uint) ([]model.WordWithCategory, error) {
	if startID > endID {
		return nil, invalid("Start ID must be less than or equal to end ID")
	}
	return s.words.Range(startID, endID, nil)
}
