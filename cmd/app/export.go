package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"vocabtest-backend/internal/db"
	"vocabtest-backend/internal/repository"
	"vocabtest-backend/internal/service"
	"vocabtest-backend/utilities"
)

var (
	exportOutput  string
	exportAnswers bool
)

var exportPDFCmd = &cobra.Command{
	Use:   "export-pdf [test id]",
	Short: "Write a stored test as a printable PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid test id %q", args[0])
		}
		cfg, err := openStore()
		if err != nil {
			return err
		}
		defer utilities.CloseLogging()

		out := exportOutput
		if out == "" {
			out = fmt.Sprintf("test_%d.pdf", id)
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}

		pdf := service.NewPDFService(repository.NewTestRepository(db.GetDB()), cfg.PDF.FontPath)
		if err := pdf.Render(uint(id), exportAnswers, f); err != nil {
			f.Close()
			os.Remove(out)
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Println("wrote", out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportPDFCmd)

	exportPDFCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default test_<id>.pdf)")
	exportPDFCmd.Flags().BoolVarP(&exportAnswers, "answers", "a", false, "append an answer key page")
}
