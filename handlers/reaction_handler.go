package handlers

import (
	"errors"
	"net/http"

	"caselens-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReactionHandler handles HTTP requests for case reactions
type ReactionHandler struct {
	reactionService *service.ReactionService
}

// NewReactionHandler creates a new reaction handler
func NewReactionHandler(reactionService *service.ReactionService) *ReactionHandler {
	return &ReactionHandler{reactionService: reactionService}
}

// ReactRequest represents the request body for a reaction change. A null
// reaction clears the user's existing vote on the case.
type ReactRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	CaseID   string `json:"case_id" binding:"required"`
	Reaction *int   `json:"reaction"`
}

// React handles POST /api/react
func (h *ReactionHandler) React(c *gin.Context) {
	var req ReactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "Invalid user_id format",
			},
		})
		return
	}

	result, err := h.reactionService.React(c.Request.Context(), service.ReactRequest{
		UserID:   userID,
		CaseID:   req.CaseID,
		Reaction: req.Reaction,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidReaction):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_REACTION",
					"message": "Reaction must be 1, -1 or null",
				},
			})
		case errors.Is(err, service.ErrCaseNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Case not found",
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "REACT_FAILED",
					"message": err.Error(),
				},
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}
