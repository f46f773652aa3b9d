package identity

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/genedetective/genedetective/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the open endpoints on public and the
// token-protected ones on protected.
func (h *Handler) RegisterRoutes(public, protected *echo.Group) {
	public.POST("/register", h.Register)
	public.POST("/login", h.Login)

	protected.GET("/profile", h.Profile)
	protected.DELETE("/account", h.DeleteAccount)
}

// userPayload is the subset of the user returned to clients.
type userPayload struct {
	ID       string    `json:"id"`
	FullName string    `json:"fullName"`
	Email    string    `json:"email"`
	UserRole auth.Role `json:"userRole"`
}

func toPayload(u *User) userPayload {
	return userPayload{
		ID:       u.ID.String(),
		FullName: u.FullName,
		Email:    u.Email,
		UserRole: u.Role,
	}
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, token, err := h.svc.Register(c.Request().Context(), in)
	switch {
	case errors.Is(err, ErrEmailTaken):
		return echo.NewHTTPError(http.StatusBadRequest, "User with this email already exists")
	case errors.Is(err, ErrMissingField):
		return echo.NewHTTPError(http.StatusBadRequest, "fullName, email and password are required")
	case errors.Is(err, ErrInvalidRole):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user role")
	case err != nil:
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"token":   token,
		"user":    toPayload(user),
	})
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var in loginInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, token, err := h.svc.Login(c.Request().Context(), in.Email, in.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid email or password")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"token":   token,
		"user":    toPayload(user),
	})
}

func (h *Handler) Profile(c echo.Context) error {
	ident := auth.IdentityFromContext(c.Request().Context())
	if ident == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": auth.MsgInvalidToken})
	}

	profile, err := h.svc.GetProfile(c.Request().Context(), ident.ID)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"user": profile})
}

func (h *Handler) DeleteAccount(c echo.Context) error {
	ident := auth.IdentityFromContext(c.Request().Context())
	if ident == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": auth.MsgInvalidToken})
	}

	if err := h.svc.DeleteAccount(c.Request().Context(), ident.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Account deleted successfully"})
}
