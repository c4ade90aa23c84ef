package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vocabtest-backend/internal/db"
	"vocabtest-backend/internal/repository"
	"vocabtest-backend/internal/service"
	"vocabtest-backend/utilities"
)

// sampleWords is a small starter bank across a few categories.
var sampleWords = []service.ImportRow{
	{English: "apple", Japanese: "りんご", Category: "食べ物", Difficulty: 1},
	{English: "bread", Japanese: "パン", Category: "食べ物", Difficulty: 1},
	{English: "rice", Japanese: "ご飯", Category: "食べ物", Difficulty: 1},
	{English: "vegetable", Japanese: "野菜", Category: "食べ物", Difficulty: 2},
	{English: "dog", Japanese: "犬", Category: "動物", Difficulty: 1},
	{English: "cat", Japanese: "猫", Category: "動物", Difficulty: 1},
	{English: "bird", Japanese: "鳥", Category: "動物", Difficulty: 1},
	{English: "elephant", Japanese: "象", Category: "動物", Difficulty: 2},
	{English: "run", Japanese: "走る", Category: "動詞", Difficulty: 1},
	{English: "eat", Japanese: "食べる", Category: "動詞", Difficulty: 1},
	{English: "remember", Japanese: "覚える", Category: "動詞", Difficulty: 2},
	{English: "explain", Japanese: "説明する", Category: "動詞", Difficulty: 3},
	{English: "school", Japanese: "学校", Difficulty: 1},
	{English: "teacher", Japanese: "先生", Difficulty: 1},
	{English: "library", Japanese: "図書館", Difficulty: 2},
	{English: "dictionary", Japanese: "辞書", Difficulty: 2},
	{English: "important", Japanese: "大切な", Difficulty: 3},
	{English: "environment", Japanese: "環境", Difficulty: 4},
	{English: "responsibility", Japanese: "責任", Difficulty: 4},
	{English: "phenomenon", Japanese: "現象", Difficulty: 5},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample vocabulary into the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := openStore(); err != nil {
			return err
		}
		defer utilities.CloseLogging()

		res, err := seedWords()
		if err != nil {
			return err
		}
		fmt.Println(res.Message())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func seedWords() (*service.ImportResult, error) {
	conn := db.GetDB()
	importer := service.NewImportService(repository.NewWordRepository(conn), repository.NewCategoryRepository(conn), nil)
	return importer.Import(service.ImportRequest{Words: sampleWords})
}

// seedIfEmpty loads the sample bank into a database without words.
func seedIfEmpty() error {
	n, err := repository.NewWordRepository(db.GetDB()).Count()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	res, err := seedWords()
	if err != nil {
		return fmt.Errorf("seed sample words: %w", err)
	}
	utilities.Info("seeded empty database: %s", res.Message())
	return nil
}
