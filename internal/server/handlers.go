package server

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RPasch/OCR-tool/constants"
	"github.com/RPasch/OCR-tool/internal/common"
	"github.com/RPasch/OCR-tool/internal/entity"
	"github.com/RPasch/OCR-tool/internal/pipeline"
)

// headerAgentKey lets an operator supply the text-generation credential
// per request instead of via process configuration.
const headerAgentKey = "X-OpenAI-Key"

func (s *Service) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"title":  s.cfg.UI.PageTitle,
		"icon":   s.cfg.UI.PageIcon,
	})
}

// handleProcessDocument is the single user action: upload a document,
// run OCR, and optionally hand the result to the normalization agent.
// The handler blocks until both stages return.
func (s *Service) handleProcessDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}

	ext := constants.NormalizeExt(filepath.Ext(fileHeader.Filename))
	if !constants.IsAllowedExt(ext) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type: upload PDF, PNG, JPG, or JPEG"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded file"})
		return
	}
	fileBytes, err := io.ReadAll(f)
	closeErr := f.Close()
	if err != nil || closeErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded file"})
		return
	}

	// The extension names the claimed type; the bytes must agree.
	if mt := mimetype.Detect(fileBytes); !allowedMIME(mt.String()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file content does not match a supported document type"})
		return
	}

	normalize := c.DefaultPostForm("normalize", "true") != "false"

	sessionID := strings.TrimSpace(c.PostForm("session_id"))
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	ctx, cancel := common.WithTimeout(c.Request.Context(), s.cfg.Server.RequestTimeout)
	defer cancel()
	ctx = common.WithSessionID(ctx, sessionID)

	agentKey := strings.TrimSpace(c.GetHeader(headerAgentKey))
	proc := pipeline.NewProcessor(s.ocr, s.newAgent(agentKey), s.cfg.LLM.MaxContentLength, nil)

	outcome := proc.Process(ctx, fileBytes, ext, normalize)
	s.sessions.Put(sessionID, outcome)

	if outcome.Extraction.Status != entity.StatusSuccess {
		s.logger.Warn("document processing failed",
			zap.String("session_id", sessionID),
			zap.String("message", outcome.Extraction.Message),
		)
	}

	c.JSON(http.StatusOK, outcomeResponse(sessionID, outcome))
}

func (s *Service) handleGetSession(c *gin.Context) {
	id := c.Param("id")
	outcome, ok := s.sessions.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no result for this session"})
		return
	}
	c.JSON(http.StatusOK, outcomeResponse(id, outcome))
}

func (s *Service) handleExportSession(c *gin.Context) {
	id := c.Param("id")
	outcome, ok := s.sessions.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no result for this session"})
		return
	}
	bs, err := s.exporter.OutcomeXLSX(outcome)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="document-result.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", bs)
}

// outcomeResponse shapes the pipeline outcome for the operator, adding
// the handwriting summary (logical OR across style entries).
func outcomeResponse(sessionID string, out *pipeline.Outcome) gin.H {
	resp := gin.H{
		"session_id": sessionID,
		"extraction": out.Extraction,
	}
	if out.Extraction.Status == entity.StatusSuccess && len(out.Extraction.Styles) > 0 {
		summary := "no handwritten content"
		if out.Extraction.HasHandwriting() {
			summary = "contains handwritten content"
		}
		resp["handwriting"] = summary
	}
	if out.Normalization != nil {
		resp["normalization"] = out.Normalization
	}
	if out.AgentError != "" {
		resp["agent_error"] = out.AgentError
	}
	return resp
}

func allowedMIME(mt string) bool {
	switch {
	case strings.HasPrefix(mt, "application/pdf"),
		strings.HasPrefix(mt, "image/png"),
		strings.HasPrefix(mt, "image/jpeg"):
		return true
	default:
		return false
	}
}
