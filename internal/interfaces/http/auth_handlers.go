package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/pt-logbook/internal/application/service"
	"github.com/garyjia/pt-logbook/internal/domain/entity"
)

// LoginRequest accepts a username or email as identifier
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// LoginResponse carries the session token for API clients
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expires_at"`
	User      *entity.User `json:"user"`
}

// PasswordResetRequest holds a new password typed twice
type PasswordResetRequest struct {
	Identifier string `json:"identifier"`
	Password1  string `json:"password1"`
	Password2  string `json:"password2"`
}

// ProfileRequest holds editable profile fields with a YYYY-MM-DD start date
type ProfileRequest struct {
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Email              string `json:"email"`
	Username           string `json:"username"`
	RegistrationNumber string `json:"registration_number"`
	YearOfStudy        int    `json:"year_of_study"`
	DepartmentName     string `json:"department_name"`
	PTLocation         string `json:"pt_location"`
	PTStartDate        string `json:"practical_training_start_date"`
}

// Signup handles POST /api/auth/signup
func (h *Handlers) Signup(c *gin.Context) {
	var req service.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.services.Auth.Signup(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusCreated, user)
}

// Login handles POST /api/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, service.ErrMissingFields.Error())
		return
	}

	session, user, err := h.services.Auth.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.config.SessionCookie, session.ID, maxAge, "/", "", h.config.SecureCookies, true)
	ok(c, http.StatusOK, LoginResponse{
		Token:     session.ID,
		ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
		User:      user,
	})
}

// Logout handles POST /api/auth/logout
func (h *Handlers) Logout(c *gin.Context) {
	token := sessionToken(c, h.config.SessionCookie)
	if err := h.services.Auth.Logout(c.Request.Context(), token); err != nil {
		h.writeError(c, err)
		return
	}
	c.SetCookie(h.config.SessionCookie, "", -1, "/", "", h.config.SecureCookies, true)
	ok(c, http.StatusOK, nil)
}

// ResetPassword handles POST /api/auth/password-reset
func (h *Handlers) ResetPassword(c *gin.Context) {
	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.services.Auth.ResetPassword(c.Request.Context(), req.Identifier, req.Password1, req.Password2); err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, nil)
}

// GetProfile handles GET /api/profile
func (h *Handlers) GetProfile(c *gin.Context) {
	profile, err := h.services.Profile.GetProfile(c.Request.Context(), currentUser(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/profile
func (h *Handlers) UpdateProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	start, err := parseDate(req.PTStartDate)
	if err != nil {
		fail(c, http.StatusBadRequest, "practical_training_start_date must be YYYY-MM-DD")
		return
	}

	update := service.ProfileUpdate{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Email:              req.Email,
		Username:           req.Username,
		RegistrationNumber: req.RegistrationNumber,
		YearOfStudy:        req.YearOfStudy,
		DepartmentName:     req.DepartmentName,
		PTLocation:         req.PTLocation,
	}
	if !start.IsZero() {
		update.PTStartDate = &start
	}

	profile, err := h.services.Profile.UpdateProfile(c.Request.Context(), currentUser(c), update)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, profile)
}
