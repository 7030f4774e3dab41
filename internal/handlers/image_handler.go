package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/imged/layout-service/internal/services"
	"github.com/imged/layout-service/internal/utils"
)

const commandUploadHashedImage = "UPLOAD_HASHED_IMAGE"

type ImageHandler struct {
	BaseHandler
	imageService services.ImageService
}

// UploadResponse is the upload wire contract: exactly one of the fields is
// non-empty.
type UploadResponse struct {
	ImgServerName string `json:"imgServerName"`
	ErrMess       string `json:"errmess"`
}

func NewImageHandler(imageService services.ImageService, logger utils.Logger) *ImageHandler {
	return &ImageHandler{
		BaseHandler:  NewBaseHandler(logger),
		imageService: imageService,
	}
}

// UploadImage ingests one multipart image upload. Failures are reported in
// the errmess field with status 200, matching what the editor client expects.
func (h *ImageHandler) UploadImage(c *gin.Context) {
	if command := c.PostForm("command"); command != commandUploadHashedImage {
		h.RespondWithError(c, http.StatusBadRequest, "Unknown command", nil, command)
		return
	}

	sessionName := c.PostForm("sessionName")
	h.LogRequest(c, "Uploading image", "session_name", sessionName)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusOK, UploadResponse{ErrMess: "no file in upload"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusOK, UploadResponse{ErrMess: "could not read upload"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusOK, UploadResponse{ErrMess: "could not read upload"})
		return
	}

	result, err := h.imageService.Upload(c.Request.Context(), services.UploadRequest{
		OriName: fileHeader.Filename,
		Data:    data,
	})
	if err != nil {
		if services.IsValidation(err) {
			c.JSON(http.StatusOK, UploadResponse{ErrMess: err.Error()})
			return
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, UploadResponse{ImgServerName: result.ImgServerName})
}

// ServeImage streams a stored image file
func (h *ImageHandler) ServeImage(c *gin.Context) {
	name := ParseStringIDParam(c, "name")
	if name == "" {
		return
	}

	reader, err := h.imageService.Open(c.Request.Context(), name)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	defer reader.Close()

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		h.LogError(c, err, "Failed to stream image", "name", name)
	}
}

// ListImages returns the image registry with paging
func (h *ImageHandler) ListImages(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	images, total, err := h.imageService.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"images": images,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}
