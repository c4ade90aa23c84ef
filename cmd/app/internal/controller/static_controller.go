package controller

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// StaticController serves the browser front end and the health probe.
type StaticController struct {
	dir     string
	version string
}

func NewStaticController(dir, version string) *StaticController {
	return &StaticController{dir: dir, version: version}
}

// Index serves index.html from the static directory when present.
func (sc *StaticController) Index(c *gin.Context) {
	index := filepath.Join(sc.dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		c.JSON(http.StatusOK, Envelope{Success: true, Message: "Vocabulary test API"})
		return
	}
	c.File(index)
}

// Health handles GET /health
func (sc *StaticController) Health(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{"status": "ok", "version": sc.version}, "")
}
