package handler

import (
	"errors"
	"log"
	"net/http"

	"clinic_booking/internal/service"
	"clinic_booking/internal/utils"

	"github.com/gin-gonic/gin"
)

// All responses use the envelope {"success": bool, "message": string, ...}.

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// respondServiceError maps the service sentinel errors onto HTTP statuses;
// anything unrecognized is logged and reported as a generic 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrInvalidRefreshToken):
		respondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		respondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrDoctorNotFound),
		errors.Is(err, service.ErrAppointmentNotFound),
		errors.Is(err, service.ErrActorNotFound),
		errors.Is(err, service.ErrArticleNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrConversationNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUserAlreadyExists),
		errors.Is(err, service.ErrDoctorAlreadyExists),
		errors.Is(err, service.ErrSlotTaken):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrDoctorUnavailable),
		errors.Is(err, service.ErrAlreadyCancelled),
		errors.Is(err, service.ErrAlreadyCompleted),
		errors.Is(err, service.ErrBadReceiver),
		errors.Is(err, utils.ErrBadSlotDate),
		errors.Is(err, utils.ErrBadSlotTime):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		log.Printf("unexpected error: %v", err)
		respondError(c, http.StatusInternalServerError, "something went wrong")
	}
}
