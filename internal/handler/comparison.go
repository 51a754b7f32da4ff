package handler

import (
	"log"
	"net/http"

	"homepick/internal/middlewares"
	"homepick/internal/service"
	"homepick/pkg/comparison"
	"homepick/pkg/customerror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ComparisonHandlerI interface {
	RegisterRoutes(group *gin.RouterGroup)
	GetComparison(ctx *gin.Context)
	AddToComparison(ctx *gin.Context)
	RemoveFromComparison(ctx *gin.Context)
	ClearComparison(ctx *gin.Context)
	GetDetails(ctx *gin.Context)
	Connect(ctx *gin.Context)
}

type ComparisonHandler struct {
	comparisonService service.ComparisonServiceI
	notifierService   service.NotifierServiceI
	middlewares       middlewares.MiddlewaresI
	host              string
	port              string
}

func NewComparisonHandler(comparisonService service.ComparisonServiceI, notifierService service.NotifierServiceI, middlewares middlewares.MiddlewaresI, host string, port string) ComparisonHandlerI {
	return &ComparisonHandler{
		comparisonService: comparisonService,
		notifierService:   notifierService,
		middlewares:       middlewares,
		host:              host,
		port:              port,
	}
}

func (h *ComparisonHandler) RegisterRoutes(group *gin.RouterGroup) {
	comparisonGroup := group.Group("/comparison")
	comparisonGroup.Use(h.middlewares.Session())
	comparisonGroup.GET("/", h.GetComparison)
	comparisonGroup.GET("/ws", h.Connect)
	comparisonGroup.POST("/details", h.GetDetails)
	comparisonGroup.POST("/:property_id", h.AddToComparison)
	comparisonGroup.DELETE("/:property_id", h.RemoveFromComparison)
	comparisonGroup.DELETE("/", h.ClearComparison)
}

func sessionId(ctx *gin.Context) (uuid.UUID, bool) {
	sessionInterface, exists := ctx.Get("session_id")
	if !exists {
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Internal Server Error",
		})
		return uuid.Nil, false
	}
	return sessionInterface.(uuid.UUID), true
}

func (h *ComparisonHandler) GetComparison(ctx *gin.Context) {
	session, ok := sessionId(ctx)
	if !ok {
		return
	}
	state := h.comparisonService.GetState(session)
	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"properties": state.Selected,
			"count":      state.Count,
			"max_items":  comparison.MaxItems,
		},
	})
}

func (h *ComparisonHandler) AddToComparison(ctx *gin.Context) {
	session, ok := sessionId(ctx)
	if !ok {
		return
	}
	propertyId := ctx.Param("property_id")
	state, err := h.comparisonService.Add(session, propertyId)
	if err == pgx.ErrNoRows {
		ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "property not found",
		})
		return
	}
	if err == customerror.ErrAlreadyInComparison {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "property already in comparison",
		})
		return
	}
	if err == customerror.ErrComparisonFull {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Maximum 3 properties can be compared at once",
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
			"properties": state.Selected,
			"count":      state.Count,
			"message":    "property added to comparison",
		},
	})
}

func (h *ComparisonHandler) RemoveFromComparison(ctx *gin.Context) {
	session, ok := sessionId(ctx)
	if !ok {
		return
	}
	propertyId := ctx.Param("property_id")
	state, err := h.comparisonService.Remove(session, propertyId)
	if err == customerror.ErrNotInComparison {
		ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "property not in comparison",
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
			"properties": state.Selected,
			"count":      state.Count,
			"message":    "property removed from comparison",
		},
	})
}

func (h *ComparisonHandler) ClearComparison(ctx *gin.Context) {
	session, ok := sessionId(ctx)
	if !ok {
		return
	}
	state := h.comparisonService.ClearAll(session)
	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"properties": state.Selected,
			"count":      state.Count,
		},
	})
}

type DetailsRequest struct {
	PropertyIds []string `json:"property_ids"`
}

func (h *ComparisonHandler) GetDetails(ctx *gin.Context) {
	var request DetailsRequest
	if err := ctx.ShouldBindBodyWithJSON(&request); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid data",
		})
		return
	}
	properties, matrix, err := h.comparisonService.Details(request.PropertyIds)
	if err == customerror.ErrBadInput {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "property_ids must hold between 1 and 3 ids",
		})
		return
	}
	if err == pgx.ErrNoRows {
		ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "properties not found",
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
			"features":   matrix,
			"count":      len(properties),
		},
	})
}

func (h *ComparisonHandler) Connect(ctx *gin.Context) {
	session, ok := sessionId(ctx)
	if !ok {
		return
	}
	state := h.comparisonService.GetState(session)
	if err := h.notifierService.Connect(ctx, session, state); err != nil {
		log.Println(err.Error())
	}
}
