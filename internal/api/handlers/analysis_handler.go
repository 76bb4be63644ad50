package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/stockiq/backend-go/internal/pipeline"
)

// AnalysisHandler serves upload-and-analyze requests.
type AnalysisHandler struct {
	runner    *pipeline.Runner
	uploadDir string
}

func NewAnalysisHandler(runner *pipeline.Runner, uploadDir string) *AnalysisHandler {
	return &AnalysisHandler{runner: runner, uploadDir: uploadDir}
}

// Analyze accepts one multipart file under the "file" field, runs the full
// pipeline, and returns the structured outcome. Rejections are part of the
// outcome and still answer 200; only transport problems are HTTP errors.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}

	analysisID := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(file.Filename))
	path := filepath.Join(h.uploadDir, analysisID+ext)

	if err := c.SaveUploadedFile(file, path); err != nil {
		log.Error().Err(err).Str("filename", file.Filename).Msg("failed to save uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store uploaded file"})
		return
	}

	outcome := h.runner.Run(c.Request.Context(), path)

	c.JSON(http.StatusOK, gin.H{
		"analysis_id": analysisID,
		"filename":    file.Filename,
		"result":      outcome,
	})
}
