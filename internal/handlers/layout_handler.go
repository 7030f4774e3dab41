package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/imged/layout-service/internal/repositories"
	"github.com/imged/layout-service/internal/services"
	"github.com/imged/layout-service/internal/utils"
)

type LayoutHandler struct {
	BaseHandler
	layoutService services.LayoutService
}

func NewLayoutHandler(layoutService services.LayoutService, logger utils.Logger) *LayoutHandler {
	return &LayoutHandler{
		BaseHandler:   NewBaseHandler(logger),
		layoutService: layoutService,
	}
}

// CreateLayout stores a new exercise layout
func (h *LayoutHandler) CreateLayout(c *gin.Context) {
	var req services.CreateLayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	h.LogRequest(c, "Creating layout", "name", req.Name)

	layout, err := h.layoutService.Create(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusCreated, "Layout created", layout)
}

// GetLayout returns one stored layout with its document
func (h *LayoutHandler) GetLayout(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	layout, err := h.layoutService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, layout)
}

// ListLayouts returns stored layouts with paging and name filtering
func (h *LayoutHandler) ListLayouts(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	filters := repositories.LayoutFilters{
		Name:      c.Query("name"),
		Limit:     limit,
		Offset:    offset,
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}

	layouts, total, err := h.layoutService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"layouts": layouts,
		"total":   total,
		"limit":   filters.Limit,
		"offset":  filters.Offset,
	})
}

// UpdateLayout overwrites a stored layout's name and document
func (h *LayoutHandler) UpdateLayout(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateLayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}
	req.ID = id

	h.LogRequest(c, "Updating layout", "layout_id", id)

	layout, err := h.layoutService.Update(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Layout updated", layout)
}

// DeleteLayout soft-deletes a stored layout
func (h *LayoutHandler) DeleteLayout(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting layout", "layout_id", id)

	if err := h.layoutService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Layout deleted", nil)
}
