package handler

import (
	"net/http"

	"clinic_booking/internal/middleware"
	"clinic_booking/internal/model"
	"clinic_booking/internal/service"

	"github.com/gin-gonic/gin"
)

// DoctorHandler handles the doctor back-office: profile and the doctor side
// of appointments.
type DoctorHandler struct {
	doctorService  service.DoctorService
	bookingService service.BookingService
}

// NewDoctorHandler creates a new DoctorHandler
func NewDoctorHandler(ds service.DoctorService, bs service.BookingService) *DoctorHandler {
	return &DoctorHandler{doctorService: ds, bookingService: bs}
}

func (h *DoctorHandler) GetProfile(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	doctor, err := h.doctorService.GetProfile(c.Request.Context(), actor.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "doctor": doctor})
}

func (h *DoctorHandler) UpdateProfile(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	var req model.UpdateDoctorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	doctor, err := h.doctorService.UpdateProfile(c.Request.Context(), actor.ID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "profile updated", "doctor": doctor})
}

func (h *DoctorHandler) ListAppointments(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	appointments, err := h.bookingService.ListForDoctor(c.Request.Context(), actor.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "appointments": appointments})
}

func (h *DoctorHandler) CancelAppointment(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	if err := h.bookingService.CancelAppointment(c.Request.Context(), c.Param("id"), actor.Role, actor.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "appointment cancelled"})
}

func (h *DoctorHandler) CompleteAppointment(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	if err := h.bookingService.CompleteAppointment(c.Request.Context(), c.Param("id"), actor.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "appointment completed"})
}

// RegisterDoctorRoutes registers doctor routes
func (h *DoctorHandler) RegisterDoctorRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	doctorGroup := rg.Group("/doctor", authMW, middleware.DoctorOnly())
	{
		doctorGroup.GET("/profile", h.GetProfile)
		doctorGroup.PATCH("/profile", h.UpdateProfile)
		doctorGroup.GET("/appointments", h.ListAppointments)
		doctorGroup.POST("/appointments/:id/cancel", h.CancelAppointment)
		doctorGroup.POST("/appointments/:id/complete", h.CompleteAppointment)
	}
}
