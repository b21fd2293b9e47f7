// Package server exposes the ingest, sync and query triggers over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"compostbot/internal/domain"
	"compostbot/internal/service"
)

// Ingestor handles object-created notifications.
type Ingestor interface {
	HandleObjectCreated(ctx context.Context, key string) (domain.Document, error)
}

// Syncer runs one sync batch.
type Syncer interface {
	Run(ctx context.Context) (service.SyncReport, error)
}

// Answerer answers one user question.
type Answerer interface {
	Answer(ctx context.Context, question, sessionID string) (string, error)
}

// Handler holds the pipeline entry points behind the HTTP triggers.
type Handler struct {
	ingest Ingestor
	sync   Syncer
	query  Answerer
}

// NewHandler creates the trigger handler set.
func NewHandler(ingest Ingestor, sync Syncer, query Answerer) *Handler {
	return &Handler{ingest: ingest, sync: sync, query: query}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

type ingestRequest struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// Ingest handles an object-created notification for an uploaded PDF.
func (h *Handler) Ingest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing object key"})
		return
	}
	doc, err := h.ingest.HandleObjectCreated(c.Request.Context(), req.Key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"document_id": doc.ID, "title": doc.Title})
}

// Sync runs one sync batch and reports what it did.
func (h *Handler) Sync(c *gin.Context) {
	report, err := h.sync.Run(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

type queryRequest struct {
	Question  string `json:"question"`
	Query     string `json:"query"`
	SessionID string `json:"session_id"`
}

// Query answers a user question. The question may arrive in either the
// "question" or the "query" field.
func (h *Handler) Query(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No question was provided"})
		return
	}
	question := req.Question
	if question == "" {
		question = req.Query
	}
	answer, err := h.query.Answer(c.Request.Context(), question, req.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNoQuestion) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No question was provided"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
