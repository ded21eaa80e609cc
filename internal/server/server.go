package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RPasch/OCR-tool/internal/common"
	"github.com/RPasch/OCR-tool/internal/export"
	"github.com/RPasch/OCR-tool/internal/llm"
	"github.com/RPasch/OCR-tool/internal/pipeline"
	"github.com/RPasch/OCR-tool/internal/session"
)

// AgentFactory builds a normalizer for one request. The key argument is
// the per-request credential override; implementations fall back to the
// configured key when it is empty and return nil when neither exists.
// Credentials are passed down explicitly, never written into process env.
type AgentFactory func(apiKey string) llm.Normalizer

// Service wires the HTTP surface to the pipeline.
type Service struct {
	cfg      *common.Config
	ocr      pipeline.Extractor
	newAgent AgentFactory
	sessions *session.Store
	exporter *export.Service
	logger   *zap.Logger
}

func NewService(cfg *common.Config, ocr pipeline.Extractor, newAgent AgentFactory, sessions *session.Store, exporter *export.Service, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:      cfg,
		ocr:      ocr,
		newAgent: newAgent,
		sessions: sessions,
		exporter: exporter,
		logger:   logger,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Service) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())
	r.MaxMultipartMemory = s.cfg.Server.MaxUploadBytes

	r.GET("/healthz", s.handleHealth)
	v1 := r.Group("/v1")
	{
		v1.POST("/documents", s.handleProcessDocument)
		v1.GET("/sessions/:id", s.handleGetSession)
		v1.GET("/sessions/:id/export", s.handleExportSession)
	}
	return r
}

// requestLog stamps each request with an ID that outbound clients pick
// up from the context, so one upload correlates across layers.
func (s *Service) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		rid := uuid.New().String()
		c.Request = c.Request.WithContext(common.WithRequestID(c.Request.Context(), rid))
		c.Next()
		s.logger.Info("http.request",
			zap.String("req_id", rid),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
		)
	}
}
