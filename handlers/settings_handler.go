package handlers

import (
	"errors"
	"net/http"

	"caselens-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SettingsHandler handles HTTP requests for user synthesis settings
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings handles GET /api/settings?user_id=...
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("user_id"))
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

	view, err := h.settingsService.Get(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FETCH_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    view,
	})
}

// UpdateSettingsRequest represents the request body for a settings change.
// An absent api_key leaves the stored key untouched, an empty one removes
// it, anything else replaces it.
type UpdateSettingsRequest struct {
	UserID          string  `json:"user_id" binding:"required"`
	APIKey          *string `json:"api_key"`
	ModelPreference string  `json:"model_preference"`
}

// UpdateSettings handles PUT /api/settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
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

	view, err := h.settingsService.Update(c.Request.Context(), service.UpdateSettingsRequest{
		UserID:          userID,
		APIKey:          req.APIKey,
		ModelPreference: req.ModelPreference,
	})
	if err != nil {
		if errors.Is(err, service.ErrUnknownModel) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNKNOWN_MODEL",
					"message": "Unknown model preference",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPDATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    view,
	})
}

// ListModels handles GET /api/settings/models
func (h *SettingsHandler) ListModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    service.AvailableModels(),
	})
}
