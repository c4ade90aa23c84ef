package service

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"vocabtest-backend/internal/model"
	"vocabtest-backend/internal/repository"
	"vocabtest-backend/utilities"
)

// codeAlphabet leaves out characters that are easy to misread on paper.
const (
	codeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
	codeLength   = 8
)

// CreatedTest is returned after a test is stored.
type CreatedTest struct {
	ID            uint   `json:"id"`
	Code          string `json:"code"`
	QuestionCount int    `json:"question_count"`
}

// Preview is an assembled test that was not stored.
type Preview struct {
	Items          []AssembledItem `json:"items"`
	TotalQuestions int             `json:"total_questions"`
}

type TestDetail struct {
	Test  model.TestWithCategory   `json:"test"`
	Items []model.TestItemWithWord `json:"items"`
}

type TestPage struct {
	Tests  []model.TestWithCategory `json:"tests"`
	Total  int64                    `json:"total"`
	Limit  int                      `json:"limit"`
	Offset int                      `json:"offset"`
}

type UsageInput struct {
	Notes *string `json:"notes" binding:"omitempty,max=1000"`
}

// TestUsedEvent is published after a test was handed out.
type TestUsedEvent struct {
	TestID uint
}

type TestService interface {
	Create(req TestRequest) (*CreatedTest, error)
	Preview(req TestRequest) (*Preview, error)
	List(limit, offset int) (*TestPage, error)
	Get(id uint) (*TestDetail, error)
	Delete(id uint) error
	RecordUsage(id uint, in UsageInput) (*model.TestHistory, error)
	History(id uint) ([]model.TestHistory, error)
}

type testService struct {
	tests      repository.TestRepository
	categories repository.CategoryRepository
	assembler  *TestAssembler
	bus        *utilities.EventBus
	pageSize   int
	maxPage    int
}

func NewTestService(tests repository.TestRepository, categories repository.CategoryRepository, assembler *TestAssembler, bus *utilities.EventBus, pageSize, maxPage int) TestService {
	if pageSize <= 0 {
		pageSize = 20
	}
	if maxPage < pageSize {
		maxPage = pageSize
	}
	return &testService{
		tests:      tests,
		categories: categories,
		assembler:  assembler,
		bus:        bus,
		pageSize:   pageSize,
		maxPage:    maxPage,
	}
}

func (s *testService) assemble(req TestRequest) ([]AssembledItem, error) {
	if req.CategoryID != nil {
		ok, err := s.categories.Exists(*req.CategoryID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, invalid("Category %d does not exist", *req.CategoryID)
		}
	}
	return s.assembler.Assemble(req)
}

// Create assembles the test and stores it with all of its items in a
// single transaction.
func (s *testService) Create(req TestRequest) (*CreatedTest, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, invalid("Title is required")
	}

	items, err := s.assemble(req)
	if err != nil {
		return nil, err
	}

	code, err := gonanoid.Generate(codeAlphabet, codeLength)
	if err != nil {
		return nil, fmt.Errorf("generate test code: %w", err)
	}

	test := &model.Test{
		Title:         title,
		Description:   req.Description,
		TestType:      req.TestType,
		QuestionCount: len(items),
		CategoryID:    req.CategoryID,
		Code:          code,
	}
	rows := make([]model.TestItem, len(items))
	for i, it := range items {
		rows[i] = model.TestItem{
			WordID:        it.Word.ID,
			QuestionOrder: it.QuestionOrder,
			QuestionType:  it.QuestionType,
		}
	}
	if err := s.tests.CreateWithItems(test, rows); err != nil {
		return nil, err
	}

	utilities.Info("created test %d (%s) with %d questions", test.ID, test.Code, test.QuestionCount)
	s.publish(utilities.EventTestCreated, test.ID)
	return &CreatedTest{ID: test.ID, Code: test.Code, QuestionCount: test.QuestionCount}, nil
}

func (s *testService) Preview(req TestRequest) (*Preview, error) {
	items, err := s.assemble(req)
	if err != nil {
		return nil, err
	}
	return &Preview{Items: items, TotalQuestions: len(items)}, nil
}

func (s *testService) List(limit, offset int) (*TestPage, error) {
	if limit <= 0 {
		limit = s.pageSize
	}
	if limit > s.maxPage {
		limit = s.maxPage
	}
	if offset < 0 {
		offset = 0
	}
	tests, total, err := s.tests.List(limit, offset)
	if err != nil {
		return nil, err
	}
	return &TestPage{Tests: tests, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *testService) Get(id uint) (*TestDetail, error) {
	test, err := s.tests.GetByID(id)
	if err != nil {
		return nil, mapRepoErr(err, "Test")
	}
	items, err := s.tests.Items(id)
	if err != nil {
		return nil, err
	}
	return &TestDetail{Test: *test, Items: items}, nil
}

func (s *testService) Delete(id uint) error {
	if err := s.tests.Delete(id); err != nil {
		return mapRepoErr(err, "Test")
	}
	s.publish(utilities.EventTestDeleted, id)
	return nil
}

// RecordUsage appends a usage log entry and announces it so word
// frequencies can be bumped.
func (s *testService) RecordUsage(id uint, in UsageInput) (*model.TestHistory, error) {
	ok, err := s.tests.Exists(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Entity: "Test"}
	}

	entry := &model.TestHistory{TestID: id, Notes: in.Notes}
	if err := s.tests.AddHistory(entry); err != nil {
		return nil, err
	}
	s.publish(utilities.EventTestUsed, TestUsedEvent{TestID: id})
	return entry, nil
}

// History lists usage entries newest first. Entries of deleted tests are
// still returned.
func (s *testService) History(id uint) ([]model.TestHistory, error) {
	return s.tests.History(id)
}

func (s *testService) publish(event string, data interface{}) {
	if s.bus != nil {
		s.bus.Publish(event, data)
	}
}

// TrackWordUsage subscribes to test usage and increments the frequency of
// every word on the used test.
func TrackWordUsage(bus *utilities.EventBus, words repository.WordRepository) {
	bus.Subscribe(utilities.EventTestUsed, func(data interface{}) {
		ev, ok := data.(TestUsedEvent)
		if !ok {
			return
		}
		n, err := words.IncrementFrequencyForTest(ev.TestID)
		if err != nil {
			utilities.Error("increment frequency for test %d: %v", ev.TestID, err)
			return
		}
		utilities.Debug("bumped frequency of %d words for test %d", n, ev.TestID)
	})
}
