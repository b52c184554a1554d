package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flighttracker/internal/accounts"
	"github.com/dharmasatrya/flighttracker/internal/models"
)

type AccountHandler struct {
	accounts *accounts.Service
	logger   *slog.Logger
}

func NewAccountHandler(svc *accounts.Service, logger *slog.Logger) *AccountHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountHandler{
		accounts: svc,
		logger:   logger,
	}
}

func (h *AccountHandler) Register(e *echo.Echo) {
	e.POST("/create-account", h.CreateAccount)
	e.POST("/login", h.Login)
	e.PUT("/update-password", h.UpdatePassword)
}

func (h *AccountHandler) CreateAccount(c echo.Context) error {
	var req models.Credentials
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid_request", "Failed to parse request body: "+err.Error())
	}

	if _, err := h.accounts.Register(c.Request().Context(), req.Username, req.Password); err != nil {
		return h.accountError(c, err)
	}

	return c.JSON(http.StatusCreated, models.MessageResponse{Message: "Account created successfully"})
}

func (h *AccountHandler) Login(c echo.Context) error {
	var req models.Credentials
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid_request", "Failed to parse request body: "+err.Error())
	}

	if _, err := h.accounts.Login(c.Request().Context(), req.Username, req.Password); err != nil {
		return h.accountError(c, err)
	}

	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Login successful"})
}

func (h *AccountHandler) UpdatePassword(c echo.Context) error {
	var req models.PasswordUpdate
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid_request", "Failed to parse request body: "+err.Error())
	}

	err := h.accounts.UpdatePassword(c.Request().Context(), req.Username, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, accounts.ErrInvalidCredentials) {
			return errorJSON(c, http.StatusUnauthorized, "unauthorized", "Current password is incorrect")
		}
		return h.accountError(c, err)
	}

	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Password updated successfully"})
}

func (h *AccountHandler) accountError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, accounts.ErrMissingCredentials):
		return errorJSON(c, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, accounts.ErrDuplicateUsername):
		return errorJSON(c, http.StatusConflict, "conflict", "Username already exists")
	case errors.Is(err, accounts.ErrInvalidCredentials):
		return errorJSON(c, http.StatusUnauthorized, "unauthorized", "Invalid username or password")
	case errors.Is(err, accounts.ErrNotFound):
		return errorJSON(c, http.StatusNotFound, "not_found", "User not found")
	default:
		h.logger.ErrorContext(c.Request().Context(), "account operation failed", "error", err)
		return errorJSON(c, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
