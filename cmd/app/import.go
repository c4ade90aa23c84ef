package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vocabtest-backend/internal/db"
	"vocabtest-backend/internal/importer"
	"vocabtest-backend/internal/repository"
	"vocabtest-backend/internal/service"
	"vocabtest-backend/utilities"
)

var (
	importSkipDuplicates   bool
	importCreateCategories bool
)

var importCmd = &cobra.Command{
	Use:   "import [file.csv|file.xlsx]",
	Short: "Import words from a CSV or Excel file",
	Long: `Columns are english, japanese, category, difficulty. A first row
starting with "english" is treated as a header.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := importer.ReadFile(args[0])
		if err != nil {
			return err
		}
		if _, err := openStore(); err != nil {
			return err
		}
		defer utilities.CloseLogging()

		conn := db.GetDB()
		svc := service.NewImportService(repository.NewWordRepository(conn), repository.NewCategoryRepository(conn), nil)
		res, err := svc.Import(service.ImportRequest{
			Words: rows,
			Options: service.ImportOptions{
				SkipDuplicates:   &importSkipDuplicates,
				CreateCategories: &importCreateCategories,
			},
		})
		if err != nil {
			return err
		}

		fmt.Println(res.Message())
		for _, d := range res.ErrorDetails {
			fmt.Println("  -", d)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().BoolVar(&importSkipDuplicates, "skip-duplicates", true, "skip rows whose english or japanese already exists")
	importCmd.Flags().BoolVar(&importCreateCategories, "create-categories", true, "create unknown categories instead of rejecting the row")
}
