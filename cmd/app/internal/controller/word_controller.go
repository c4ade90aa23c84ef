package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"vocabtest-backend/internal/repository"
	"vocabtest-backend/internal/service"
)

type WordController struct {
	WordService   service.WordService
	ImportService service.ImportService
}

func NewWordController(wordService service.WordService, importService service.ImportService) *WordController {
	return &WordController{WordService: wordService, ImportService: importService}
}

type wordQuery struct {
	Search     string `form:"search"`
	CategoryID uint   `form:"category_id"`
	Difficulty int    `form:"difficulty" binding:"omitempty,min=1,max=5"`
	Limit      int    `form:"limit" binding:"omitempty,min=1"`
	Offset     int    `form:"offset" binding:"omitempty,min=0"`
}

// ListWords handles GET /api/words
func (wc *WordController) ListWords(c *gin.Context) {
	var q wordQuery
	if err := bindQuery(c, &q); err != nil {
		fail(c, err, "")
		return
	}
	page, err := wc.WordService.List(repository.WordFilter{
		Search:     q.Search,
		CategoryID: q.CategoryID,
		Difficulty: q.Difficulty,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		fail(c, err, "Failed to fetch words")
		return
	}
	ok(c, http.StatusOK, page, "")
}

// GetWord handles GET /api/words/:id
func (wc *WordController) GetWord(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		fail(c, err, "")
		return
	}
	word, err := wc.WordService.Get(id)
	if err != nil {
		fail(c, err, "Failed to fetch word")
		return
	}
	ok(c, http.StatusOK, word, "")
}

// CreateWord handles POST /api/words
func (wc *WordController) CreateWord(c *gin.Context) {
	var in service.WordInput
	if err := bind(c, &in); err != nil {
		fail(c, err, "")
		return
	}
	word, err := wc.WordService.Create(in)
	if err != nil {
		fail(c, err, "Failed to create word")
		return
	}
	ok(c, http.StatusCreated, word, "Word created successfully")
}

// UpdateWord handles PUT /api/words/:id
func (wc *WordController) UpdateWord(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		fail(c, err, "")
		return
	}
	var in service.WordInput
	if err := bind(c, &in); err != nil {
		fail(c, err, "")
		return
	}
	word, err := wc.WordService.Update(id, in)
	if err != nil {
		fail(c, err, "Failed to update word")
		return
	}
	ok(c, http.StatusOK, word, "Word updated successfully")
}

// DeleteWord handles DELETE /api/words/:id
func (wc *WordController) DeleteWord(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		fail(c, err, "")
		return
	}
	if err := wc.WordService.Delete(id); err != nil {
		fail(c, err, "Failed to delete word")
		return
	}
	ok(c, http.StatusOK, nil, "Word deleted successfully")
}

// BulkDelete handles DELETE /api/words with body {ids:[...]}
func (wc *WordController) BulkDelete(c *gin.Context) {
	var req struct {
		IDs []uint `json:"ids" binding:"required,min=1"`
	}
	if err := bind(c, &req); err != nil {
		fail(c, err, "")
		return
	}
	n, err := wc.WordService.DeleteMany(req.IDs)
	if err != nil {
		fail(c, err, "Failed to delete words")
		return
	}
	ok(c, http.StatusOK, gin.H{"deletedCount": n}, fmt.Sprintf("%d words deleted successfully", n))
}

// ImportWords handles POST /api/words/import
func (wc *WordController) ImportWords(c *gin.Context) {
	var req service.ImportRequest
	if err := bind(c, &req); err != nil {
		fail(c, err, "")
		return
	}
	result, err := wc.ImportService.Import(req)
	if err != nil {
		fail(c, err, "Failed to import words")
		return
	}
	ok(c, http.StatusOK, result, result.Message())
}

// WordRange handles GET /api/words/range/:start/:end
func (wc *WordController) WordRange(c *gin.Context) {
	start, err := parseID(c, "start")
	if err != nil {
		fail(c, err, "")
		return
	}
	end, err := parseID(c, "end")
	if err != nil {
		fail(c, err, "")
		return
	}
	words, err := wc.WordService.Range(start, end)
	if err != nil {
		fail(c, err, "Failed to fetch word range")
		return
	}
	ok(c, http.StatusOK, gin.H{"words": words, "count": len(words)}, "")
}
