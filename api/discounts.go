package api

import (
	"net/http"
	"strconv"

	"github.com/cloudjet/airbooking/internal/service/discount"
	"github.com/gin-gonic/gin"
)

type DiscountHandler struct {
	service discount.DiscountUseCase
}

type createDiscountRequest struct {
	ScheduleID         int64   `json:"schedule_id"`
	DiscountPercentage float64 `json:"discount_percentage"`
}

func NewDiscountHandler(service discount.DiscountUseCase) *DiscountHandler {
	return &DiscountHandler{service: service}
}

// Register expects router to be guarded by admin middleware.
func (h *DiscountHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("", h.create)
	router.DELETE("/:id", h.delete)
}

func (h *DiscountHandler) list(c *gin.Context) {
	discounts, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"discounts": discounts})
}

func (h *DiscountHandler) create(c *gin.Context) {
	var req createDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	d, err := h.service.Create(c.Request.Context(), req.ScheduleID, req.DiscountPercentage)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *DiscountHandler) delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid discount id")
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
