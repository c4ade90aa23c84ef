package controller

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"vocabtest-backend/internal/service"
)

type TestController struct {
	TestService service.TestService
	PDFService  service.PDFService
}

func NewTestController(testService service.TestService, pdfService service.PDFService) *TestController {
	return &TestController{TestService: testService, PDFService: pdfService}
}

type pageQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=1"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// ListTests handles GET /api/tests
func (tc *TestController) ListTests(c *gin.Context) {
	var q pageQuery
	if err := bindQuery(c, &q); err != nil {
		fail(c, err, "")
		return
	}
	page, err := tc.TestService.List(q.Limit, q.Offset)
	if err != nil {
		fail(c, err, "Failed to fetch tests")
		return
	}
	ok(c, http.StatusOK, page, "")
}

// GetTest handles GET /api/tests/:id
func (tc *TestController) GetTest(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		fail(c, err, "")
		return
	}
	detail, err := tc.TestService.Get(id)
	if err != nil {
		fail(c, err, "Failed to fetch test")
		return
	}
	ok(c, http.StatusOK, detail, "")
}

// CreateTest handles POST /api/tests
func (tc *TestController) CreateTest(c *gin.Context) {
	var req service.TestRequest
	if err := bind(c, &req); err != nil {
		fail(c, err, "")
		return
	}
	created, err := tc.TestService.Create(req)
	if err != nil {
		fail(c, err, "Failed to create test")
		return
	}
	ok(c, http.StatusCreated, created, "Test created successfully")
}

// PreviewTest handles POST /api/tests/preview
func (tc *TestController) PreviewTest(c *gin.Context) {
	var req service.TestRequest
	if err := bind(c, &req); err != nil {
		fail(c, err, "")
		return
	}
	preview, err := tc.TestService.Preview(req)
	if err != nil {
		fail(c, err, "Failed to generate preview")
		return
	}
	ok(c, http.StatusOK, preview, "")
}

// DeleteTest handles DELETE /api/tests/:id
func (tc *TestController) DeleteTest(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		fail(c, err, "")
		return
	}
	if err := tc.TestService.Delete(id); err != nil {
		fail(c, err, "Failed to delete test")
		return
	}
	ok(c, http.StatusOK, nil, "Test deleted successfully")
}

// RecordUsage handles POST /api/tests/:id/history. The body is optional.
func (tc *TestController) RecordUsage(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		fail(c, err, "")
		return
	}
	var in service.UsageInput
	if c.Request.ContentLength != 0 {
		if err := bind(c, &in); err != nil {
			fail(c, err, "")
			return
		}
	}
	entry, err := tc.TestService.RecordUsage(id, in)
	if err != nil {
		fail(c, err, "Failed to record test usage")
		return
	}
	ok(c, http.StatusOK, entry, "Test usage recorded successfully")
}

// History handles GET /api/tests/:id/history
func (tc *TestController) History(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		fail(c, err, "")
		return
	}
	entries, err := tc.TestService.History(id)
	if err != nil {
		fail(c, err, "Failed to fetch test history")
		return
	}
	ok(c, http.StatusOK, entries, "")
}

// DownloadPDF handles GET /api/tests/:id/pdf?answers=true
func (tc *TestController) DownloadPDF(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		fail(c, err, "")
		return
	}
	answers := c.Query("answers") == "true" || c.Query("answers") == "1"

	var buf bytes.Buffer
	if err := tc.PDFService.Render(id, answers, &buf); err != nil {
		fail(c, err, "Failed to render test")
		return
	}
	filename := fmt.Sprintf("test_%d.pdf", id)
	if answers {
		filename = fmt.Sprintf("test_%d_answers.pdf", id)
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
