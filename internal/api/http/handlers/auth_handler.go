package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/todo-service/internal/api/dto"
	"github.com/spec-kit/todo-service/internal/auth"
	"github.com/spec-kit/todo-service/internal/domain"
	"github.com/spec-kit/todo-service/internal/service"
	apperrors "github.com/spec-kit/todo-service/pkg/util"
)

const statusSuccess = "success"

// AuthHandler exposes signup, login and account endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, token, err := h.auth.Signup(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(authResponse(user, token))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("please provide email and password", nil)
	}

	user, token, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(authResponse(user, token))
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	user, err := h.auth.Me(c.UserContext(), principal.UserID())
	if err != nil {
		return err
	}
	return c.JSON(userResponse(user))
}

// UpdateMe handles PATCH /auth/updateMe. Password changes go through UpdatePassword.
func (h *AuthHandler) UpdateMe(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateMeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.HasPassword() {
		return apperrors.NewValidationError("this route is not for password updates, please use /updatePassword", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, err := h.auth.UpdateMe(c.UserContext(), principal.UserID(), req.ToProfileUpdate())
	if err != nil {
		return err
	}
	return c.JSON(userResponse(user))
}

// UpdatePassword handles PATCH /auth/updatePassword.
func (h *AuthHandler) UpdatePassword(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdatePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	token, err := h.auth.UpdatePassword(c.UserContext(), principal.UserID(), req.PasswordCurrent, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.TokenResponse{Status: statusSuccess, Token: token.Token, ExpiresAt: token.ExpiresAt})
}

// DeleteMe handles DELETE /auth/deleteMe.
func (h *AuthHandler) DeleteMe(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.auth.DeleteMe(c.UserContext(), principal.UserID()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return dto.Validate(out)
}

func authResponse(user *domain.User, token domain.IssuedToken) dto.AuthResponse {
	return dto.AuthResponse{
		Status:    statusSuccess,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
		Data:      dto.UserEnvelope{User: dto.NewUserResponse(user)},
	}
}

func userResponse(user *domain.User) fiber.Map {
	return fiber.Map{
		"status": statusSuccess,
		"data":   dto.UserEnvelope{User: dto.NewUserResponse(user)},
	}
}
