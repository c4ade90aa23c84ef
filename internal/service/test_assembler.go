package service

import (
	"math/rand/v2"

	"vocabtest-backend/internal/model"
	"vocabtest-backend/internal/repository"
)

// SelectionType names one of the three word selection strategies.
type SelectionType string

const (
	SelectRange      SelectionType = "range"
	SelectIndividual SelectionType = "individual"
	SelectRandom     SelectionType = "random"
)

// WordSelection is the tagged selection request. Which fields are required
// depends on Type.
type WordSelection struct {
	Type    SelectionType `json:"type" binding:"required,oneof=range individual random"`
	StartID *uint         `json:"start_id"`
	EndID   *uint         `json:"end_id"`
	WordIDs []uint        `json:"word_ids"`
	Count   *int          `json:"count"`
}

// TestRequest describes a test to create or preview.
type TestRequest struct {
	Title          string         `json:"title" binding:"max=200"`
	Description    *string        `json:"description" binding:"omitempty,max=1000"`
	TestType       model.TestType `json:"test_type" binding:"required,oneof=english_to_japanese japanese_to_english mixed"`
	CategoryID     *uint          `json:"category_id"`
	WordSelection  *WordSelection `json:"word_selection" binding:"required"`
	RandomizeOrder bool           `json:"randomize_order"`
}

// AssembledItem is one ordered, typed question.
type AssembledItem struct {
	QuestionOrder int                    `json:"question_order"`
	QuestionType  model.QuestionType     `json:"question_type"`
	Word          model.WordWithCategory `json:"word"`
}

// Random is the subset of *rand.Rand the assembler needs.
type Random interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// globalRandom uses the concurrency-safe top-level math/rand/v2 source.
type globalRandom struct{}

func (globalRandom) IntN(n int) int                     { return rand.IntN(n) }
func (globalRandom) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// TestAssembler turns a selection request into an ordered list of typed
// questions. It never writes to the store.
type TestAssembler struct {
	words repository.WordRepository
	rnd   Random
}

func NewTestAssembler(words repository.WordRepository) *TestAssembler {
	return &TestAssembler{words: words, rnd: globalRandom{}}
}

// WithRandom replaces the random source, mainly for deterministic tests.
func (a *TestAssembler) WithRandom(r Random) *TestAssembler {
	a.rnd = r
	return a
}

// Assemble runs selection, ordering and type assignment.
func (a *TestAssembler) Assemble(req TestRequest) ([]AssembledItem, error) {
	if !req.TestType.Valid() {
		return nil, invalid("test_type must be one of english_to_japanese, japanese_to_english, mixed")
	}
	if req.WordSelection == nil {
		return nil, invalid("word_selection is required")
	}

	words, err := a.Select(*req.WordSelection, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, &EmptySelectionError{}
	}

	if req.RandomizeOrder {
		a.Shuffle(words)
	}

	types := AssignQuestionTypes(req.TestType, len(words))
	items := make([]AssembledItem, len(words))
	for i, w := range words {
		items[i] = AssembledItem{QuestionOrder: i + 1, QuestionType: types[i], Word: w}
	}
	return items, nil
}

// Select resolves a selection request into words. The category filter
// applies to range and random selections only.
func (a *TestAssembler) Select(sel WordSelection, categoryID *uint) ([]model.WordWithCategory, error) {
	switch sel.Type {
	case SelectRange:
		if sel.StartID == nil || sel.EndID == nil {
			return nil, invalid("Start and end IDs are required for range selection")
		}
		if *sel.StartID > *sel.EndID {
			return nil, invalid("Start ID must be less than or equal to end ID")
		}
		return a.words.Range(*sel.StartID, *sel.EndID, categoryID)

	case SelectIndividual:
		if len(sel.WordIDs) == 0 {
			return nil, invalid("Word IDs are required for individual selection")
		}
		return a.words.ByIDs(dedupe(sel.WordIDs))

	case SelectRandom:
		if sel.Count == nil {
			return nil, invalid("Count is required for random selection")
		}
		if *sel.Count < 1 {
			return nil, invalid("Count must be at least 1")
		}
		return a.sample(*sel.Count, categoryID)
	}
	return nil, invalid("word_selection.type must be one of range, individual, random")
}

// sample draws min(count, pool) distinct words uniformly with a partial
// Fisher-Yates shuffle over the pool's ids. The result keeps draw order.
func (a *TestAssembler) sample(count int, categoryID *uint) ([]model.WordWithCategory, error) {
	pool, err := a.words.PoolIDs(categoryID)
	if err != nil {
		return nil, err
	}
	n := min(count, len(pool))
	for i := 0; i < n; i++ {
		j := i + a.rnd.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	drawn := pool[:n]

	words, err := a.words.ByIDs(drawn)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.WordWithCategory, len(words))
	for _, w := range words {
		byID[w.ID] = w
	}
	ordered := make([]model.WordWithCategory, 0, len(words))
	for _, id := range drawn {
		if w, ok := byID[id]; ok {
			ordered = append(ordered, w)
		}
	}
	return ordered, nil
}

// Shuffle permutes words in place with a uniform Fisher-Yates shuffle.
func (a *TestAssembler) Shuffle(words []model.WordWithCategory) {
	a.rnd.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
}

// AssignQuestionTypes returns the question type for each final position.
// Mixed tests alternate by parity: even positions are english_to_japanese.
func AssignQuestionTypes(testType model.TestType, n int) []model.QuestionType {
	types := make([]model.QuestionType, n)
	for i := range types {
		switch {
		case testType != model.Mixed:
			types[i] = testType
		case i%2 == 0:
			types[i] = model.EnglishToJapanese
		default:
			types[i] = model.JapaneseToEnglish
		}
	}
	return types
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
