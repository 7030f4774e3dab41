package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/imged/layout-service/internal/services"
	"github.com/imged/layout-service/internal/utils"
	"github.com/imged/layout-service/internal/validator"
)

type GradingHandler struct {
	BaseHandler
	gradingService services.GradingService
	exportService  services.ExportService
	validator      *validator.Validator
}

func NewGradingHandler(
	gradingService services.GradingService,
	exportService services.ExportService,
	v *validator.Validator,
	logger utils.Logger,
) *GradingHandler {
	return &GradingHandler{
		BaseHandler:    NewBaseHandler(logger),
		gradingService: gradingService,
		exportService:  exportService,
		validator:      v,
	}
}

// GradeAttempt grades a submitted answer document against the reference layout
func (h *GradingHandler) GradeAttempt(c *gin.Context) {
	var req services.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", err, err.Error())
		return
	}

	h.LogRequest(c, "Grading attempt", "session_name", req.SessionName)

	resp, err := h.gradingService.Grade(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListResults returns the graded attempts recorded since startup
func (h *GradingHandler) ListResults(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"results": h.gradingService.Results(c.Request.Context()),
	})
}

// ExportResults downloads the graded attempts as an Excel workbook
func (h *GradingHandler) ExportResults(c *gin.Context) {
	records := h.gradingService.Results(c.Request.Context())

	data, err := h.exportService.ExportResultsToExcel(c.Request.Context(), records)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("grading-results-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
