package api

import (
	"net/http"

	"github.com/cloudjet/airbooking/internal/domain"
	"github.com/gin-gonic/gin"
)

var statusByKind = map[domain.ErrorKind]int{
	domain.KindValidation:        http.StatusBadRequest,
	domain.KindInsufficientSeats: http.StatusConflict,
	domain.KindSeatTaken:         http.StatusConflict,
	domain.KindNotFound:          http.StatusNotFound,
	domain.KindConflict:          http.StatusConflict,
	domain.KindStorage:           http.StatusInternalServerError,
	domain.KindAuth:              http.StatusUnauthorized,
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	if status, ok := statusByKind[domain.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	message := domain.ReasonOf(err)
	if kind == domain.KindStorage {
		// Driver errors are logged by the request logger, not returned.
		message = "internal server error"
		_ = c.Error(err)
	}
	c.JSON(StatusFor(err), gin.H{"error": kind, "message": message})
}

func badRequest(c *gin.Context, message string) {
	writeError(c, domain.Validation("%s", message))
}
