package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/dharmasatrya/flighttracker/internal/models"
)

// FlightCatalog is the part of catalog.Catalog the HTTP layer needs.
type FlightCatalog interface {
	Search(ctx context.Context, req models.SearchRequest) ([]models.FlightRecord, error)
	Get() []models.FlightRecord
	Len() int
	Clear()
	FilterByAirline(code string) []models.FlightRecord
	FilterByOrigin(code string) []models.FlightRecord
	FilterByPriceRange(minPrice, maxPrice decimal.Decimal) []models.FlightRecord
}

type SearchHandler struct {
	catalog FlightCatalog
	logger  *slog.Logger
}

func NewSearchHandler(c FlightCatalog, logger *slog.Logger) *SearchHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchHandler{
		catalog: c,
		logger:  logger,
	}
}

func (h *SearchHandler) Register(g *echo.Group) {
	g.POST("/flights/search", h.Search)
	g.GET("/flights", h.List)
	g.DELETE("/flights", h.Clear)
	g.GET("/flights/airline/:code", h.ByAirline)
	g.GET("/flights/origin/:code", h.ByOrigin)
	g.GET("/flights/price", h.ByPriceRange)
}

func (h *SearchHandler) Search(c echo.Context) error {
	startTime := time.Now()
	ctx := c.Request().Context()

	var req models.SearchRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid_request", "Failed to parse request body: "+err.Error())
	}

	flights, err := h.catalog.Search(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidArgument):
			return errorJSON(c, http.StatusBadRequest, "validation_error", err.Error())
		case errors.Is(err, models.ErrUpstreamFailure):
			h.logger.ErrorContext(ctx, "flight search failed", "error", err)
			return errorJSON(c, http.StatusBadGateway, "upstream_error", "Failed to search flights: "+err.Error())
		default:
			h.logger.ErrorContext(ctx, "flight search failed", "error", err)
			return errorJSON(c, http.StatusInternalServerError, "search_error", "Failed to search flights: "+err.Error())
		}
	}

	return c.JSON(http.StatusOK, models.SearchResponse{
		SearchCriteria: req,
		Metadata: models.SearchMetadata{
			NewResults:   len(flights),
			CatalogSize:  h.catalog.Len(),
			SearchTimeMs: time.Since(startTime).Milliseconds(),
		},
		Flights: flights,
	})
}

func (h *SearchHandler) List(c echo.Context) error {
	return flightsJSON(c, h.catalog.Get())
}

func (h *SearchHandler) Clear(c echo.Context) error {
	h.catalog.Clear()
	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Flights cleared"})
}

func (h *SearchHandler) ByAirline(c echo.Context) error {
	return flightsJSON(c, h.catalog.FilterByAirline(c.Param("code")))
}

func (h *SearchHandler) ByOrigin(c echo.Context) error {
	return flightsJSON(c, h.catalog.FilterByOrigin(c.Param("code")))
}

func (h *SearchHandler) ByPriceRange(c echo.Context) error {
	var pr models.PriceRange
	if err := c.Bind(&pr); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid_request", err.Error())
	}

	minPrice, err := decimal.NewFromString(pr.Min)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "validation_error", "min must be a number")
	}
	maxPrice, err := decimal.NewFromString(pr.Max)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "validation_error", "max must be a number")
	}
	if minPrice.GreaterThan(maxPrice) {
		return errorJSON(c, http.StatusBadRequest, "validation_error", "min must not exceed max")
	}

	return flightsJSON(c, h.catalog.FilterByPriceRange(minPrice, maxPrice))
}

func flightsJSON(c echo.Context, flights []models.FlightRecord) error {
	if flights == nil {
		flights = []models.FlightRecord{}
	}
	return c.JSON(http.StatusOK, models.FlightsResponse{
		Total:   len(flights),
		Flights: flights,
	})
}

func errorJSON(c echo.Context, code int, kind, message string) error {
	return c.JSON(code, models.ErrorResponse{
		Error:   kind,
		Message: message,
		Code:    code,
	})
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
