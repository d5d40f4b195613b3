package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sandevgo/veritas/internal/core"
	"github.com/sandevgo/veritas/internal/providers/llm"
	"github.com/sandevgo/veritas/pkg/log"
)

type sessionRequest struct {
	UserID string `json:"user_id"`
}

type chatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

func (s *Server) handleNewSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required."})
		return
	}

	welcome, err := s.relay.StartSession(c.Request.Context(), req.UserID)
	if err != nil {
		log.FromCtx(c.Request.Context()).Error().Err(err).Msg("new session failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error during new session processing."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": welcome})
}

func (s *Server) handleHistory(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required."})
		return
	}

	conv, err := s.relay.History(c.Request.Context(), req.UserID)
	if err != nil {
		log.FromCtx(c.Request.Context()).Error().Err(err).Msg("history fetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error during history processing."})
		return
	}

	// An empty conversation serializes as [], not null.
	if conv == nil {
		conv = core.Conversation{}
	}
	c.JSON(http.StatusOK, gin.H{"history": conv})
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID and message are required."})
		return
	}

	ctx := c.Request.Context()
	c.Header("Content-Type", "text/plain; charset=utf-8")

	written := false
	err := s.relay.Chat(ctx, req.UserID, req.Message, func(fragment string) error {
		if _, err := c.Writer.WriteString(fragment); err != nil {
			return err
		}
		written = true
		c.Writer.Flush()
		return nil
	})
	if err == nil {
		return
	}

	log.FromCtx(ctx).Error().Err(err).Str("user_id", req.UserID).Msg("chat request failed")
	if written {
		// Headers are gone; the diagnostic can only ride the stream body.
		_, _ = c.Writer.WriteString(fmt.Sprintf("\n[CRITICAL ERROR] %v", err))
		c.Writer.Flush()
		return
	}

	var httpErr *llm.HTTPError
	if errors.As(err, &httpErr) {
		c.String(http.StatusInternalServerError,
			"\n[CRITICAL ERROR] API request failed with status code %d. Response: %s", httpErr.StatusCode, httpErr.Body)
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error during processing."})
}
