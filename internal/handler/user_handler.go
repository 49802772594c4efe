package handler

import (
	"net/http"

	"clinic_booking/internal/middleware"
	"clinic_booking/internal/model"
	"clinic_booking/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler handles patient-facing requests: profile, doctor discovery,
// and the patient side of appointments.
type UserHandler struct {
	userService    service.UserService
	doctorService  service.DoctorService
	bookingService service.BookingService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(us service.UserService, ds service.DoctorService, bs service.BookingService) *UserHandler {
	return &UserHandler{userService: us, doctorService: ds, bookingService: bs}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	user, err := h.userService.GetProfile(c.Request.Context(), actor.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// UpdateProfile applies a partial update: the request carries only the
// changed fields.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	var req model.UpdateUserProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), actor.ID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "profile updated", "user": user})
}

// ListDoctors is public: patients browse doctors before logging in.
func (h *UserHandler) ListDoctors(c *gin.Context) {
	doctors, err := h.doctorService.ListDoctors(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "doctors": doctors})
}

func (h *UserHandler) BookAppointment(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	var req model.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	appt, err := h.bookingService.BookSlot(c.Request.Context(), actor.ID, req.DoctorID, req.SlotDate, req.SlotTime)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "appointment booked", "appointment": appt})
}

func (h *UserHandler) ListAppointments(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	appointments, err := h.bookingService.ListForUser(c.Request.Context(), actor.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "appointments": appointments})
}

func (h *UserHandler) CancelAppointment(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	if err := h.bookingService.CancelAppointment(c.Request.Context(), c.Param("id"), actor.Role, actor.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "appointment cancelled"})
}

// RegisterUserRoutes registers patient routes
func (h *UserHandler) RegisterUserRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/doctor/list", h.ListDoctors)

	userGroup := rg.Group("/user", authMW, middleware.UserOnly())
	{
		userGroup.GET("/profile", h.GetProfile)
		userGroup.PATCH("/profile", h.UpdateProfile)
		userGroup.POST("/appointments", h.BookAppointment)
		userGroup.GET("/appointments", h.ListAppointments)
		userGroup.POST("/appointments/:id/cancel", h.CancelAppointment)
	}
}
