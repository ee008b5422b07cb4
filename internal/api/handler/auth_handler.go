package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rof/invgen/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Project:  req.Project,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, userResponse{Message: "User registered successfully", User: user})
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}

	token, user, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Project:  req.Project,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{Message: "Login successful", User: user, Token: token})
}

// Edit updates the caller's own account.
//
// @Summary      Edit the current user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      editUserRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/auth/edit [put]
func (h *AuthHandler) Edit(c echo.Context) error {
	caller, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req editUserRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.Edit(c.Request().Context(), caller.UserID, ports.EditUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Project:  req.Project,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userResponse{Message: "User updated successfully", User: user})
}

// List returns the users visible to the caller.
//
// @Summary      List users
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usersResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/auth/get [get]
func (h *AuthHandler) List(c echo.Context) error {
	caller, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	users, err := h.authService.List(c.Request().Context(), caller.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, usersResponse{Message: "Users fetched successfully", Users: users})
}
