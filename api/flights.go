package api

import (
	"net/http"

	"github.com/cloudjet/airbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/search", h.search)
	router.GET("/featured", h.featured)
	router.GET("/airports", h.airports)
}

func (h *FlightHandler) search(c *gin.Context) {
	offers, err := h.service.Search(c.Request.Context(), c.Query("departure"), c.Query("arrival"), c.Query("date"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flights": offers, "total": len(offers)})
}

func (h *FlightHandler) featured(c *gin.Context) {
	offers, err := h.service.Featured(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flights": offers, "total": len(offers)})
}

func (h *FlightHandler) airports(c *gin.Context) {
	airports, err := h.service.Airports(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"airports": airports})
}
