package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docugrade/docugrade/internal/rag"
	"github.com/docugrade/docugrade/pkg/logger"
)

// RAGHandler exposes the stub index build and text assessment.
type RAGHandler struct {
	ragSvc *rag.Service
}

func NewRAGHandler(s *rag.Service) *RAGHandler {
	return &RAGHandler{ragSvc: s}
}

// Register routes under /rag; both require authentication.
func (h *RAGHandler) Register(rg *gin.RouterGroup, authed gin.HandlerFunc) {
	r := rg.Group("/rag", authed)
	r.POST("/build", h.Build)
	r.POST("/assess", h.Assess)
}

func (h *RAGHandler) Build(c *gin.Context) {
	u := mustUser(c)
	n, err := h.ragSvc.BuildIndex(u.ID)
	if err != nil {
		logger.Errorf("index build failed for user %d: %v", u.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "index build failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "RAG index built", "files_indexed": n})
}

func (h *RAGHandler) Assess(c *gin.Context) {
	u := mustUser(c)
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	grade, explanation, err := h.ragSvc.Assess(u.ID, req.Text)
	if err != nil {
		logger.Errorf("assess failed for user %d: %v", u.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "assessment failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"grade": grade, "explanation": explanation})
}
