package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/cloudjet/airbooking/internal/domain"
	"github.com/cloudjet/airbooking/internal/middleware"
	"github.com/cloudjet/airbooking/internal/service/payment"
	"github.com/gin-gonic/gin"
)

const maxWebhookBody = 1 << 20

type PaymentHandler struct {
	service payment.PaymentUseCase
}

type initPaymentRequest struct {
	Amount     int64  `json:"amount"`
	OrderID    string `json:"orderId"`
	ScheduleID *int64 `json:"scheduleId"`
	Method     string `json:"method"`
	Provider   string `json:"provider"`
	OrderName  string `json:"orderName"`
}

type attachBookingRequest struct {
	OrderID   string `json:"orderId"`
	BookingID int64  `json:"bookingId"`
}

func NewPaymentHandler(service payment.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{service: service}
}

func (h *PaymentHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.POST("/init", auth, h.init)
	router.POST("/webhook", h.webhook)
	router.POST("/attach-booking", auth, h.attach)
	router.GET("/:orderId", auth, h.get)
}

func (h *PaymentHandler) init(c *gin.Context) {
	id, _ := middleware.GetIdentity(c)

	var req initPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	res, err := h.service.InitPayment(c.Request.Context(), payment.InitPaymentInput{
		UserID:     id.UserID,
		Amount:     req.Amount,
		OrderID:    req.OrderID,
		ScheduleID: req.ScheduleID,
		Method:     req.Method,
		Provider:   req.Provider,
		OrderName:  req.OrderName,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"payment_id": res.PaymentID,
		"order_id":   res.OrderID,
		"bootpay":    res.Checkout,
	})
}

// webhook reads the raw body itself; the signature covers exact bytes.
func (h *PaymentHandler) webhook(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error":   domain.KindValidation,
				"message": "payload too large",
			})
			return
		}
		badRequest(c, "unreadable body")
		return
	}

	var signature string
	for _, header := range payment.SignatureHeaders {
		if signature = c.GetHeader(header); signature != "" {
			break
		}
	}

	res, err := h.service.HandleWebhook(c.Request.Context(), payment.WebhookInput{
		RawBody:     body,
		ContentType: c.ContentType(),
		Signature:   signature,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order_id": res.OrderID, "status": res.Status})
}

func (h *PaymentHandler) attach(c *gin.Context) {
	var req attachBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := h.service.AttachBooking(c.Request.Context(), req.OrderID, req.BookingID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *PaymentHandler) get(c *gin.Context) {
	id, _ := middleware.GetIdentity(c)

	p, err := h.service.GetPayment(c.Request.Context(), id.UserID, c.Param("orderId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
