package http

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lemo-maschinenbau/reisekosten/internal/form"
	"github.com/lemo-maschinenbau/reisekosten/internal/maildraft"
	"github.com/lemo-maschinenbau/reisekosten/internal/money"
)

// sessionView is the full form as returned to clients. Signature
// images are large, so only their presence is reported.
type sessionView struct {
	SessionID string `json:"session_id"`
	form.Document
	HasSignatureEmployee bool `json:"has_signature_employee"`
	HasSignatureManager  bool `json:"has_signature_manager"`
}

func newSessionView(s *form.Session) sessionView {
	doc := s.Document()
	return sessionView{
		SessionID:            s.ID.String(),
		Document:             doc,
		HasSignatureEmployee: len(doc.SignatureEmployee) > 0,
		HasSignatureManager:  len(doc.SignatureManager) > 0,
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "reisekosten",
		"time":    time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleListCountries(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"countries": s.table.Countries()})
}

func (s *Server) handleGetRates(c *gin.Context) {
	key := c.Param("country")
	rs, ok := s.table.Lookup(key)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown country"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"country":   key,
		"full":      money.Format(rs.Full),
		"partial":   money.Format(rs.Partial),
		"overnight": money.Format(rs.Overnight),
	})
}

func (s *Server) handleCreateSession(c *gin.Context) {
	sess := s.sessions.Create()
	c.JSON(http.StatusCreated, newSessionView(sess))
}

// session resolves the :id path parameter, writing the error response
// itself when the session cannot be found.
func (s *Server) session(c *gin.Context) (*form.Session, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return nil, false
	}
	sess, err := s.sessions.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return sess, true
}

func (s *Server) handleGetSession(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newSessionView(sess))
}

func (s *Server) handleUpdateFields(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var update form.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	sess.Apply(update)
	c.JSON(http.StatusOK, newSessionView(sess))
}

func (s *Server) handleReset(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	sess.Reset()
	c.JSON(http.StatusOK, newSessionView(sess))
}

func (s *Server) handleAddCost(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	entry := sess.AddCost()
	c.JSON(http.StatusCreated, gin.H{"cost_id": entry.ID.String()})
}

type updateCostRequest struct {
	Description *string `json:"description"`
	Amount      *string `json:"amount"`
}

func (s *Server) handleUpdateCost(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	costID, err := uuid.Parse(c.Param("costID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cost id"})
		return
	}
	var req updateCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := sess.UpdateCost(costID, req.Description, req.Amount); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "cost entry not found"})
		return
	}
	c.JSON(http.StatusOK, newSessionView(sess))
}

func (s *Server) handleRemoveCost(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	costID, err := uuid.Parse(c.Param("costID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cost id"})
		return
	}
	if err := sess.RemoveCost(costID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "cost entry not found"})
		return
	}
	c.JSON(http.StatusOK, newSessionView(sess))
}

type setSignatureRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

func (s *Server) handleSetSignature(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	role, err := form.ParseSignatureRole(c.Param("role"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	var req setSignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	png, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image_base64 is not valid base64"})
		return
	}
	sess.SetSignature(role, png)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleClearSignature(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	role, err := form.ParseSignatureRole(c.Param("role"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	sess.ClearSignature(role)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleExportPDF(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	name, data, err := s.exporter.ExportPDF(sess.Document(), time.Now())
	if err != nil {
		s.logger.Error("pdf export failed",
			zap.String("session_id", sess.ID.String()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "document generation failed"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func (s *Server) handleExportWorkbook(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	name, data, err := s.exporter.ExportWorkbook(sess.Document(), time.Now())
	if err != nil {
		s.logger.Error("workbook export failed",
			zap.String("session_id", sess.ID.String()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "document generation failed"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (s *Server) handleMailDraft(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	doc := sess.Document()
	c.JSON(http.StatusOK, gin.H{
		"subject": maildraft.Subject(doc),
		"body":    maildraft.Body(doc),
		"mailto":  maildraft.Mailto(doc),
	})
}
