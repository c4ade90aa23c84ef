package service

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocabtest-backend/internal/model"
	"vocabtest-backend/utilities"
)

func newTestService(f *fixture, bus *utilities.EventBus) TestService {
	assembler := NewTestAssembler(f.words).WithRandom(rand.New(rand.NewPCG(5, 6)))
	return NewTestService(f.tests, f.categories, assembler, bus, 20, 100)
}

func TestCreateRangeTest(t *testing.T) {
	f := newFixture(t)
	f.seed(t, 10, model.DefaultCategoryID)
	svc := newTestService(f, nil)

	created, err := svc.Create(TestRequest{
		Title:         "Unit 1",
		TestType:      model.EnglishToJapanese,
		WordSelection: &WordSelection{Type: SelectRange, StartID: uintPtr(1), EndID: uintPtr(5)},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, created.QuestionCount)
	assert.Len(t, created.Code, codeLength)

	detail, err := svc.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Unit 1", detail.Test.Title)
	assert.Equal(t, 5, detail.Test.QuestionCount)
	require.Len(t, detail.Items, 5)
	for i, it := range detail.Items {
		assert.Equal(t, i+1, it.QuestionOrder)
		assert.Equal(t, uint(i+1), it.WordID)
		assert.Equal(t, model.EnglishToJapanese, it.QuestionType)
	}
}

func TestCreateMixedRandomTest(t *testing.T) {
	f := newFixture(t)
	f.seed(t, 12, model.DefaultCategoryID)
	svc := newTestService(f, nil)

	created, err := svc.Create(TestRequest{
		Title:          "Random mix",
		TestType:       model.Mixed,
		RandomizeOrder: true,
		WordSelection:  &WordSelection{Type: SelectRandom, Count: intPtr(7)},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, created.QuestionCount)

	detail, err := svc.Get(created.ID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 7)
	seen := map[uint]bool{}
	for i, it := range detail.Items {
		assert.Equal(t, i+1, it.QuestionOrder)
		assert.Equal(t, i%2 == 0, it.QuestionType == model.EnglishToJapanese)
		assert.False(t, seen[it.WordID])
		seen[it.WordID] = true
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	f.seed(t, 3, model.DefaultCategoryID)
	svc := newTestService(f, nil)
	sel := &WordSelection{Type: SelectRange, StartID: uintPtr(1), EndID: uintPtr(3)}

	var verr *ValidationError
	_, err := svc.Create(TestRequest{Title: "  ", TestType: model.Mixed, WordSelection: sel})
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Create(TestRequest{Title: "x", TestType: model.Mixed, CategoryID: uintPtr(42), WordSelection: sel})
	assert.ErrorAs(t, err, &verr)

	var empty *EmptySelectionError
	_, err = svc.Create(TestRequest{Title: "x", TestType: model.Mixed, WordSelection: &WordSelection{Type: SelectIndividual, WordIDs: []uint{77}}})
	assert.ErrorAs(t, err, &empty)

	page, err := svc.List(0, 0)
	require.NoError(t, err)
	assert.Zero(t, page.Total, "failed creates store nothing")
}

func TestPreviewDoesNotPersist(t *testing.T) {
	f := newFixture(t)
	f.seed(t, 4, model.DefaultCategoryID)
	svc := newTestService(f, nil)

	preview, err := svc.Preview(TestRequest{
		TestType:      model.JapaneseToEnglish,
		WordSelection: &WordSelection{Type: SelectIndividual, WordIDs: []uint{2, 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, preview.TotalQuestions)
	assert.Equal(t, "word2", preview.Items[0].Word.English)
	assert.Equal(t, model.JapaneseToEnglish, preview.Items[1].QuestionType)

	page, err := svc.List(0, 0)
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Equal(t, 20, page.Limit)
}

func TestRecordUsageBumpsFrequency(t *testing.T) {
	f := newFixture(t)
	f.seed(t, 3, model.DefaultCategoryID)
	bus := utilities.NewEventBus()
	TrackWordUsage(bus, f.words)
	svc := newTestService(f, bus)

	created, err := svc.Create(TestRequest{
		Title:         "quiz",
		TestType:      model.EnglishToJapanese,
		WordSelection: &WordSelection{Type: SelectIndividual, WordIDs: []uint{1, 3}},
	})
	require.NoError(t, err)

	entry, err := svc.RecordUsage(created.ID, UsageInput{Notes: strPtr("class A")})
	require.NoError(t, err)
	assert.Equal(t, created.ID, entry.TestID)
	bus.Wait()

	for id, want := range map[uint]int{1: 1, 2: 0, 3: 1} {
		w, err := f.words.GetByID(id)
		require.NoError(t, err)
		assert.Equal(t, want, w.Frequency, "word %d", id)
	}

	history, err := svc.History(created.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "class A", *history[0].Notes)

	_, err = svc.RecordUsage(999, UsageInput{})
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestDeleteTest(t *testing.T) {
	f := newFixture(t)
	f.seed(t, 2, model.DefaultCategoryID)
	svc := newTestService(f, nil)

	created, err := svc.Create(TestRequest{
		Title:         "gone",
		TestType:      model.Mixed,
		WordSelection: &WordSelection{Type: SelectRange, StartID: uintPtr(1), EndID: uintPtr(2)},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(created.ID))

	var nf *NotFoundError
	_, err = svc.Get(created.ID)
	assert.ErrorAs(t, err, &nf)
	assert.ErrorAs(t, svc.Delete(created.ID), &nf)
}
