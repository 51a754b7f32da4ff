package handler

import (
	"log"
	"net/http"
	"strings"

	"homepick/internal/middlewares"
	"homepick/internal/service"
	"homepick/pkg/customerror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ShareHandlerI interface {
	RegisterRoutes(group *gin.RouterGroup)
	CreateShare(ctx *gin.Context)
	GetShared(ctx *gin.Context)
}

type ShareHandler struct {
	shareService service.ShareServiceI
	middlewares  middlewares.MiddlewaresI
	host         string
	port         string
}

func NewShareHandler(shareService service.ShareServiceI, middlewares middlewares.MiddlewaresI, host string, port string) ShareHandlerI {
	return &ShareHandler{
		shareService: shareService,
		middlewares:  middlewares,
		host:         host,
		port:         port,
	}
}

func (h *ShareHandler) RegisterRoutes(group *gin.RouterGroup) {
	shareGroup := group.Group("/comparison")
	shareGroup.POST("/share", h.middlewares.OptionalUser(), h.CreateShare)
	shareGroup.GET("/shared/:code", h.GetShared)
}

type CreateShareRequest struct {
	PropertyIds string `json:"property_ids"`
}

// CreateShare accepts the property ids as one comma separated string, the
// shape the share dialog sends.
func (h *ShareHandler) CreateShare(ctx *gin.Context) {
	var request CreateShareRequest
	if err := ctx.ShouldBindBodyWithJSON(&request); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid data",
		})
		return
	}
	propertyIds := []string{}
	for _, id := range strings.Split(request.PropertyIds, ",") {
		propertyIds = append(propertyIds, strings.TrimSpace(id))
	}

	var createdBy *uuid.UUID
	if userInterface, exists := ctx.Get("user_id"); exists {
		userId := userInterface.(uuid.UUID)
		createdBy = &userId
	}

	result, err := h.shareService.Create(propertyIds, createdBy)
	if err == customerror.ErrBadInput {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "property_ids must hold between 1 and 3 ids",
		})
		return
	}
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Internal Server Error",
		})
		log.Println(err.Error())
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"short_url":  result.Url,
			"short_code": result.Code,
			"expires_in": result.ExpiresIn,
		},
	})
}

func (h *ShareHandler) GetShared(ctx *gin.Context) {
	code := ctx.Param("code")
	share, properties, err := h.shareService.Lookup(code)
	if err == pgx.ErrNoRows {
		ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "share link not found",
		})
		return
	}
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Internal Server Error",
		})
		log.Println(err.Error())
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"properties": properties,
			"created_at": share.CreatedAt,
			"expires_at": share.ExpiresAt,
		},
	})
}
