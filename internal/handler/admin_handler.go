package handler

import (
	"net/http"

	"clinic_booking/internal/middleware"
	"clinic_booking/internal/model"
	"clinic_booking/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles the admin back-office: doctor management and the
// appointment overview.
type AdminHandler struct {
	doctorService  service.DoctorService
	bookingService service.BookingService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(ds service.DoctorService, bs service.BookingService) *AdminHandler {
	return &AdminHandler{doctorService: ds, bookingService: bs}
}

func (h *AdminHandler) AddDoctor(c *gin.Context) {
	var req model.AddDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	doctor, err := h.doctorService.AddDoctor(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "doctor added", "doctor": doctor})
}

func (h *AdminHandler) ListDoctors(c *gin.Context) {
	doctors, err := h.doctorService.ListDoctors(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "doctors": doctors})
}

type availabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

func (h *AdminHandler) SetAvailability(c *gin.Context) {
	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if err := h.doctorService.SetAvailability(c.Request.Context(), c.Param("id"), *req.Available); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "availability updated"})
}

func (h *AdminHandler) ListAppointments(c *gin.Context) {
	appointments, err := h.bookingService.ListAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "appointments": appointments})
}

func (h *AdminHandler) CancelAppointment(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	if err := h.bookingService.CancelAppointment(c.Request.Context(), c.Param("id"), actor.Role, actor.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "appointment cancelled"})
}

// RegisterAdminRoutes registers admin routes
func (h *AdminHandler) RegisterAdminRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	adminGroup := rg.Group("/admin", authMW, middleware.AdminOnly())
	{
		adminGroup.POST("/doctors", h.AddDoctor)
		adminGroup.GET("/doctors", h.ListDoctors)
		adminGroup.POST("/doctors/:id/availability", h.SetAvailability)
		adminGroup.GET("/appointments", h.ListAppointments)
		adminGroup.POST("/appointments/:id/cancel", h.CancelAppointment)
	}
}
