package api

import (
	"athleteiq/coaching-api/internal/domain"
	"athleteiq/coaching-api/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminService service.AdminService
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

type UserStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

type UserRoleRequest struct {
	Role domain.Role `json:"role" binding:"required"`
}

// GetStats godoc
// @Summary Platform-wide counters
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Router /admin/stats [get]
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminService.Stats(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "", stats)
}

// GetUsers godoc
// @Summary List users, optionally filtered by role
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param role query string false "athlete, coach or admin"
// @Success 200 {object} Envelope
// @Router /admin/users [get]
func (h *AdminHandler) GetUsers(c *gin.Context) {
	users, err := h.adminService.ListUsers(c.Request.Context(), domain.Role(c.Query("role")))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	out := mapUsers(users)
	respondList(c, out, len(out))
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	userID, ok := paramObjectID(c, "id")
	if !ok {
		return
	}
	if err := h.adminService.DeleteUser(c.Request.Context(), adminID, userID); err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "User deleted successfully", nil)
}

func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	userID, ok := paramObjectID(c, "id")
	if !ok {
		return
	}
	var req UserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	user, err := h.adminService.SetUserStatus(c.Request.Context(), adminID, userID, *req.IsActive)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	msg := "User deactivated successfully"
	if user.IsActive {
		msg = "User activated successfully"
	}
	respond(c, http.StatusOK, msg, MapUserToResponse(user))
}

func (h *AdminHandler) SetUserRole(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	userID, ok := paramObjectID(c, "id")
	if !ok {
		return
	}
	var req UserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	user, err := h.adminService.SetUserRole(c.Request.Context(), adminID, userID, req.Role)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "User role updated successfully", MapUserToResponse(user))
}
