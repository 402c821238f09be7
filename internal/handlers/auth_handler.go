package handlers

import (
	"errors"

	"lume/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for registration, login, logout and the
// profile page.
type AuthHandler struct {
	auth *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterRoutes registers the open authentication routes with the Fiber
// app. The profile route is registered separately behind the auth
// middleware.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/logout", h.HandleLogout)
}

// RegisterRequest is the request body for registration.
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	TermsAccepted   bool   `json:"termsAccepted"`
}

// HandleRegister handles new user registration. Validation failures come
// back as user-visible messages with a 400; a duplicate email is a 409.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	err := h.auth.Register(req.Name, req.Email, req.Password, req.ConfirmPassword, req.TermsAccepted)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		if isValidationError(err) {
			return badRequest(c, err.Error())
		}
		return internalError(c, "Could not register user", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Registration successful! Redirecting to login...",
		"redirect": "/login",
	})
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

// HandleLogin handles user login and issues the session token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	token, session, err := h.auth.Login(req.Email, req.Password, req.RememberMe)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredential) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid email or password. Please register if you don't have an account.",
			})
		}
		if isValidationError(err) {
			return badRequest(c, err.Error())
		}
		return internalError(c, "Could not log in", err)
	}

	return c.JSON(fiber.Map{
		"message":  "Login successful! Redirecting...",
		"token":    token,
		"user":     session,
		"redirect": "/profile",
	})
}

// HandleLogout clears the session. The caller must confirm the action
// explicitly with confirm=true.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if c.Query("confirm") != "true" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Are you sure you want to logout? Repeat with confirm=true.",
		})
	}

	if err := h.auth.Logout(); err != nil {
		return internalError(c, "Could not log out", err)
	}
	return c.JSON(fiber.Map{
		"message":  "Logged out successfully",
		"redirect": "/login",
	})
}

// HandleProfile returns the logged-in user's profile.
func (h *AuthHandler) HandleProfile(c *fiber.Ctx) error {
	profile, err := h.auth.Profile()
	if err != nil {
		if errors.Is(err, services.ErrNotAuthenticated) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message":  "Please log in to view your profile",
				"redirect": "/login",
			})
		}
		return internalError(c, "Could not load profile", err)
	}
	return c.JSON(profile)
}

func isValidationError(err error) bool {
	for _, validation := range []error{
		services.ErrFieldsRequired,
		services.ErrInvalidEmail,
		services.ErrPasswordTooShort,
		services.ErrPasswordMismatch,
		services.ErrTermsNotAccepted,
	} {
		if errors.Is(err, validation) {
			return true
		}
	}
	return false
}
