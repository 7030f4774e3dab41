package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/imged/layout-service/internal/services"
	"github.com/imged/layout-service/internal/utils"
	"github.com/imged/layout-service/internal/validator"
)

type HandlerManager struct {
	layoutHandler  *LayoutHandler
	imageHandler   *ImageHandler
	sessionHandler *SessionHandler
	gradingHandler *GradingHandler
}

func NewHandlerManager(
	layoutService services.LayoutService,
	imageService services.ImageService,
	sessionService services.SessionService,
	gradingService services.GradingService,
	exportService services.ExportService,
	v *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		layoutHandler:  NewLayoutHandler(layoutService, logger),
		imageHandler:   NewImageHandler(imageService, logger),
		sessionHandler: NewSessionHandler(sessionService, v, logger),
		gradingHandler: NewGradingHandler(gradingService, exportService, v, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "layout-service",
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Layout storage routes
		layouts := v1.Group("/layouts")
		{
			layouts.POST("", hm.layoutHandler.CreateLayout)
			layouts.GET("", hm.layoutHandler.ListLayouts)
			layouts.GET("/:id", hm.layoutHandler.GetLayout)
			layouts.PUT("/:id", hm.layoutHandler.UpdateLayout)
			layouts.DELETE("/:id", hm.layoutHandler.DeleteLayout)
		}

		// Image upload and serving routes
		images := v1.Group("/images")
		{
			images.POST("/upload", hm.imageHandler.UploadImage)
			images.GET("", hm.imageHandler.ListImages)
			images.GET("/:name", hm.imageHandler.ServeImage)
		}

		// Editing session routes
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.OpenSession)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.POST("/:id/events", hm.sessionHandler.ApplyEvent)
			sessions.GET("/:id/document", hm.sessionHandler.SerializeSession)
			sessions.DELETE("/:id", hm.sessionHandler.CloseSession)
		}

		// Grading routes
		grading := v1.Group("/grading")
		{
			grading.POST("/attempts", hm.gradingHandler.GradeAttempt)
			grading.GET("/results", hm.gradingHandler.ListResults)
			grading.GET("/results/export", hm.gradingHandler.ExportResults)
		}
	}
}
