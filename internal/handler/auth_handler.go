package handler

import (
	"net/http"
	"strconv"

	"github.com/aluvasquez/schoolledger/internal/middleware"
	"github.com/aluvasquez/schoolledger/internal/service"
	"github.com/labstack/echo/v4"
)

// AuthHandler exposes login and administrative user management.
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string      `json:"accessToken"`
	TokenType   string      `json:"tokenType"`
	User        interface{} `json:"user"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	token, user, err := h.auth.Authenticate(req.Email, req.Password)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, loginResponse{AccessToken: token, TokenType: "Bearer", User: user})
}

func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.auth.Me(middleware.UserID(c))
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

type createUserRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"fullName"`
	IsSuperuser bool   `json:"isSuperuser"`
}

// CreateUser registers a new administrative collaborator. Routed behind
// RequireSuperuser.
func (h *AuthHandler) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	user, err := h.auth.CreateUser(req.Email, req.Password, req.FullName, req.IsSuperuser)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

type updateUserStatusRequest struct {
	IsActive    bool `json:"isActive"`
	IsSuperuser bool `json:"isSuperuser"`
}

// UpdateUserStatus demotes/deactivates an administrative collaborator.
// Routed behind RequireSuperuser.
func (h *AuthHandler) UpdateUserStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "invalid id", nil)
	}
	user, err := h.auth.Me(int32(id))
	if err != nil {
		return HandleError(c, err)
	}
	var req updateUserStatusRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	user.IsActive = req.IsActive
	user.IsSuperuser = req.IsSuperuser
	updated, err := h.auth.DemoteOrDeactivate(user)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}
