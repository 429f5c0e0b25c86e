package api

import (
	"net/http"
	"strconv"

	"github.com/cloudjet/airbooking/internal/domain"
	"github.com/cloudjet/airbooking/internal/middleware"
	"github.com/cloudjet/airbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type passengerRequest struct {
	Name   string `json:"name"`
	NameEn string `json:"nameEn"`
	Birth  string `json:"birth"`
	Gender string `json:"gender"`
}

type contactRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type createBookingRequest struct {
	ScheduleID    int64              `json:"scheduleId"`
	Passengers    []passengerRequest `json:"passengers"`
	ContactInfo   contactRequest     `json:"contactInfo"`
	PaymentMethod string             `json:"paymentMethod"`
	TotalAmount   int64              `json:"totalAmount"`
	Seats         []string           `json:"seats"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.POST("", auth, h.create)
	router.GET("", auth, h.list)
	router.GET("/occupied-seats/:scheduleId", h.occupiedSeats)
	router.GET("/availability/:scheduleId", h.availability)
	router.GET("/:number", auth, h.get)
	router.POST("/:number/cancel", auth, h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	id, _ := middleware.GetIdentity(c)

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	passengers := make([]domain.Passenger, 0, len(req.Passengers))
	for _, p := range req.Passengers {
		passengers = append(passengers, domain.Passenger{
			Name:      p.Name,
			NameEn:    p.NameEn,
			BirthDate: p.Birth,
			Gender:    p.Gender,
		})
	}

	result, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		UserID:        id.UserID,
		ScheduleID:    req.ScheduleID,
		Passengers:    passengers,
		Contact:       booking.Contact{Email: req.ContactInfo.Email, Phone: req.ContactInfo.Phone},
		PaymentMethod: req.PaymentMethod,
		TotalAmount:   req.TotalAmount,
		Seats:         req.Seats,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":        true,
		"booking_number": result.BookingNumber,
		"booking_id":     result.BookingID,
	})
}

func (h *BookingHandler) list(c *gin.Context) {
	id, _ := middleware.GetIdentity(c)

	bookings, err := h.service.ListUserBookings(c.Request.Context(), id.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *BookingHandler) get(c *gin.Context) {
	id, _ := middleware.GetIdentity(c)

	detail, err := h.service.GetBooking(c.Request.Context(), id.UserID, c.Param("number"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, _ := middleware.GetIdentity(c)

	if err := h.service.CancelBooking(c.Request.Context(), id.UserID, c.Param("number")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "booking_number": c.Param("number")})
}

func (h *BookingHandler) occupiedSeats(c *gin.Context) {
	scheduleID, err := strconv.ParseInt(c.Param("scheduleId"), 10, 64)
	if err != nil {
		badRequest(c, "invalid schedule id")
		return
	}
	seats, err := h.service.OccupiedSeats(c.Request.Context(), scheduleID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"occupied_seats": seats})
}

func (h *BookingHandler) availability(c *gin.Context) {
	scheduleID, err := strconv.ParseInt(c.Param("scheduleId"), 10, 64)
	if err != nil {
		badRequest(c, "invalid schedule id")
		return
	}
	available, err := h.service.Availability(c.Request.Context(), scheduleID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule_id": scheduleID, "available_seats": available})
}
