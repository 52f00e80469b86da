package api

import (
	"athleteiq/coaching-api/internal/domain"
	"athleteiq/coaching-api/internal/service"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

// RegisterRequest is bound only after the role has been checked, so an admin
// request is refused whatever else it carries.
type RegisterRequest struct {
	Name           string      `json:"name" binding:"required"`
	Email          string      `json:"email" binding:"required,email"`
	Password       string      `json:"password" binding:"required,min=6"`
	Role           domain.Role `json:"role" binding:"omitempty,oneof=athlete coach"`
	Phone          string      `json:"phone"`
	DateOfBirth    string      `json:"dateOfBirth"`
	Gender         string      `json:"gender"`
	SportsCategory string      `json:"sportsCategory"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name           *string `json:"name"`
	Phone          *string `json:"phone"`
	DateOfBirth    *string `json:"dateOfBirth"`
	Gender         *string `json:"gender"`
	SportsCategory *string `json:"sportsCategory"`
	ProfileImage   *string `json:"profileImage"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Role           domain.Role `json:"role"`
	IsActive       bool        `json:"isActive"`
	LastLogin      *time.Time  `json:"lastLogin,omitempty"`
	Phone          string      `json:"phone,omitempty"`
	DateOfBirth    *time.Time  `json:"dateOfBirth,omitempty"`
	Gender         string      `json:"gender,omitempty"`
	SportsCategory string      `json:"sportsCategory,omitempty"`
	ProfileImage   string      `json:"profileImage,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// AuthResponse is the user's fields with the session token alongside them.
type AuthResponse struct {
	UserResponse
	Token string `json:"token"`
}

// --- Handler Methods ---

// Register godoc
// @Summary Register a new athlete or coach
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration details"
// @Success 201 {object} Envelope "Registration successful"
// @Failure 400 {object} Envelope "Invalid input or email already registered"
// @Failure 403 {object} Envelope "Admin registration refused"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		abortWithBindError(c, err)
		return
	}
	var roleOnly struct {
		Role domain.Role `json:"role"`
	}
	if json.Unmarshal(body, &roleOnly) == nil && roleOnly.Role == domain.RoleAdmin {
		abortWithServiceError(c, service.ErrForbiddenRole)
		return
	}

	var req RegisterRequest
	if err := binding.JSON.BindBody(body, &req); err != nil {
		abortWithError(c, http.StatusBadRequest, registerBindMessage(err))
		return
	}
	dob, err := parseDate("dateOfBirth", req.DateOfBirth)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		Role:           req.Role,
		Phone:          req.Phone,
		DateOfBirth:    dob,
		Gender:         req.Gender,
		SportsCategory: req.SportsCategory,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Registration successful", AuthResponse{UserResponse: MapUserToResponse(user), Token: token})
}

// registerBindMessage turns the first failed binding rule into the message a
// client sees for it.
func registerBindMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Sprintf("Validation error: %v", err)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return "Please provide name, email, and password"
	case "email":
		return "Please provide a valid email"
	case "min":
		return fmt.Sprintf("Password must be at least %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("Invalid role '%v'", fe.Value())
	}
	return fmt.Sprintf("Validation error: %v", err)
}

// Login godoc
// @Summary Log in a user
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} Envelope "Login successful"
// @Failure 401 {object} Envelope "Invalid credentials or deactivated account"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Login successful", AuthResponse{UserResponse: MapUserToResponse(user), Token: token})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "", MapUserToResponse(user))
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	update := domain.ProfileUpdate{
		Name:           req.Name,
		Phone:          req.Phone,
		Gender:         req.Gender,
		SportsCategory: req.SportsCategory,
		ProfileImage:   req.ProfileImage,
	}
	if req.DateOfBirth != nil {
		dob, err := parseDate("dateOfBirth", *req.DateOfBirth)
		if err != nil {
			abortWithServiceError(c, err)
			return
		}
		update.DateOfBirth = dob
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), userID, update)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Profile updated successfully", MapUserToResponse(user))
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	token, err := h.authService.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Password changed successfully", gin.H{"token": token})
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:             user.ID.Hex(),
		Name:           user.Name,
		Email:          user.Email,
		Role:           user.Role,
		IsActive:       user.IsActive,
		LastLogin:      user.LastLogin,
		Phone:          user.Phone,
		DateOfBirth:    user.DateOfBirth,
		Gender:         user.Gender,
		SportsCategory: user.SportsCategory,
		ProfileImage:   user.ProfileImage,
		CreatedAt:      user.CreatedAt,
	}
}

func mapUsers(users []domain.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = MapUserToResponse(&users[i])
	}
	return out
}
