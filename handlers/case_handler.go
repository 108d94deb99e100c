package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"caselens-backend/repository"
	"caselens-backend/service"

	"github.com/gin-gonic/gin"
)

// CaseHandler handles HTTP requests for case records and their pleadings
// documents
type CaseHandler struct {
	caseRepo        *repository.CaseRepository
	documentService *service.DocumentService
}

// NewCaseHandler creates a new case handler
func NewCaseHandler(caseRepo *repository.CaseRepository, documentService *service.DocumentService) *CaseHandler {
	return &CaseHandler{
		caseRepo:        caseRepo,
		documentService: documentService,
	}
}

// GetCase handles GET /api/cases/:id
func (h *CaseHandler) GetCase(c *gin.Context) {
	result, err := h.caseRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Case not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// ListCases handles GET /api/cases
func (h *CaseHandler) ListCases(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 200 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	cases, err := h.caseRepo.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIST_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cases,
	})
}

// UploadComplaint handles POST /api/cases/:id/complaint
func (h *CaseHandler) UploadComplaint(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NO_FILE",
				"message": "No file provided",
			},
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_READ_FAILED",
				"message": err.Error(),
			},
		})
		return
	}
	defer file.Close()

	path, err := h.documentService.ArchiveComplaint(c.Request.Context(), c.Param("id"), fileHeader.Filename, file)
	if err != nil {
		if errors.Is(err, service.ErrCaseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Case not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"case_id": c.Param("id"),
			"path":    path,
		},
	})
}

// DownloadComplaint handles GET /api/cases/:id/complaint
func (h *CaseHandler) DownloadComplaint(c *gin.Context) {
	reader, err := h.documentService.FetchComplaint(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCaseNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Case not found",
				},
			})
		case errors.Is(err, service.ErrNoComplaintDocument):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NO_DOCUMENT",
					"message": "No complaint document archived for case",
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DOWNLOAD_FAILED",
					"message": err.Error(),
				},
			})
		}
		return
	}
	defer reader.Close()

	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}
