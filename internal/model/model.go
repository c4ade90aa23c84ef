package model

import "time"

// DefaultCategoryID is the protected fallback category.
const DefaultCategoryID uint = 1

// DefaultCategoryName is the label of the default category.
const DefaultCategoryName = "基本単語"

// TestType is the declared direction of a test.
type TestType string

// QuestionType is the resolved direction of a single item.
type QuestionType = TestType

const (
	EnglishToJapanese TestType = "english_to_japanese"
	JapaneseToEnglish TestType = "japanese_to_english"
	Mixed             TestType = "mixed"
)

// Valid reports whether t is one of the declared test types.
func (t TestType) Valid() bool {
	switch t {
	case EnglishToJapanese, JapaneseToEnglish, Mixed:
		return true
	}
	return false
}

type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null;uniqueIndex"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategoryWithCount is a category row joined with its word count.
type CategoryWithCount struct {
	Category
	WordCount int64 `json:"word_count"`
}

type Word struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	English    string    `json:"english" gorm:"not null;index"`
	Japanese   string    `json:"japanese" gorm:"not null;index"`
	CategoryID uint      `json:"category_id" gorm:"not null;default:1;index"`
	Category   *Category `json:"-" gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Difficulty int       `json:"difficulty" gorm:"not null;default:1"`
	Frequency  int       `json:"frequency" gorm:"not null;default:0"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// WordWithCategory is a word row joined with its category name.
type WordWithCategory struct {
	Word
	CategoryName string `json:"category_name"`
}

type Test struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	Title         string     `json:"title" gorm:"not null"`
	Description   *string    `json:"description"`
	TestType      TestType   `json:"test_type" gorm:"not null;size:32"`
	QuestionCount int        `json:"question_count" gorm:"not null"`
	CategoryID    *uint      `json:"category_id" gorm:"index"`
	Code          string     `json:"code" gorm:"size:16;uniqueIndex"`
	Items         []TestItem `json:"-" gorm:"foreignKey:TestID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time  `json:"created_at"`
}

// TestWithCategory is a test row joined with its category name.
type TestWithCategory struct {
	Test
	CategoryName *string `json:"category_name"`
}

type TestItem struct {
	ID            uint         `json:"id" gorm:"primaryKey"`
	TestID        uint         `json:"test_id" gorm:"not null;uniqueIndex:idx_test_item_order"`
	WordID        uint         `json:"word_id" gorm:"not null;index"`
	Word          *Word        `json:"-" gorm:"foreignKey:WordID;constraint:OnDelete:RESTRICT"`
	QuestionOrder int          `json:"question_order" gorm:"not null;uniqueIndex:idx_test_item_order"`
	QuestionType  QuestionType `json:"question_type" gorm:"not null;size:32"`
	CreatedAt     time.Time    `json:"created_at"`
}

// TestItemWithWord is a test item joined with the word text.
type TestItemWithWord struct {
	TestItem
	English  string `json:"english"`
	Japanese string `json:"japanese"`
}

// TestHistory is an append-only usage log entry. It has no foreign key and
// outlives the test it refers to.
type TestHistory struct {
	ID     uint      `json:"id" gorm:"primaryKey"`
	TestID uint      `json:"test_id" gorm:"not null;index"`
	UsedAt time.Time `json:"used_at" gorm:"autoCreateTime"`
	Notes  *string   `json:"notes"`
}

// TableName keeps the history table name singular.
func (TestHistory) TableName() string {
	return "test_history"
}

// Models lists every table for auto-migration, parents first.
func Models() []interface{} {
	return []interface{}{&Category{}, &Word{}, &Test{}, &TestItem{}, &TestHistory{}}
}
