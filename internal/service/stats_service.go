package service

import (
	"fmt"

	"vocabtest-backend/internal/db"
)

// Overview holds the catalogue totals shown on the dashboard.
type Overview struct {
	Categories int64 `json:"categories"`
	Words      int64 `json:"words"`
	Tests      int64 `json:"tests"`
}

type StatsService interface {
	Overview() (*Overview, error)
}

type statsService struct {
	qe *db.QueryExecutor
}

func NewStatsService(qe *db.QueryExecutor) StatsService {
	return &statsService{qe: qe}
}

func (s *statsService) Overview() (*Overview, error) {
	var out Overview
	counts := []struct {
		table string
		dst   *int64
	}{
		{"categories", &out.Categories},
		{"words", &out.Words},
		{"tests", &out.Tests},
	}
	for _, c := range counts {
		n, err := s.qe.Count(c.table, nil)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", c.table, err)
		}
		*c.dst = n
	}
	return &out, nil
}
