// Package catalog keeps normalized flight offers in memory and serves
// filtered views over them.
package catalog

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/dharmasatrya/flighttracker/internal/filter"
	"github.com/dharmasatrya/flighttracker/internal/models"
	"github.com/dharmasatrya/flighttracker/internal/providers"
)

// Catalog is an append-only list of flight records that only shrinks on
// Clear. It is safe for concurrent use.
type Catalog struct {
	tokens   providers.TokenSource
	searcher providers.OfferSearcher
	logger   *slog.Logger

	mu      sync.RWMutex
	flights []models.FlightRecord
}

func New(tokens providers.TokenSource, searcher providers.OfferSearcher, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "catalog")
	logger.Info("initialized flight catalog with an empty flight list")

	return &Catalog{
		tokens:   tokens,
		searcher: searcher,
		logger:   logger,
		flights:  make([]models.FlightRecord, 0),
	}
}

// Search queries the provider and appends the valid offers to the catalog.
//
// Offers are deduplicated by (airline, price) within this call only; records
// stored by earlier searches are not consulted. The returned slice holds just
// the records appended by this call. Upstream failures leave the catalog
// untouched and match models.ErrUpstreamFailure.
func (c *Catalog) Search(ctx context.Context, req models.SearchRequest) ([]models.FlightRecord, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "searching flights",
		"origin", req.Origin,
		"destination", req.Destination,
		"departure_date", req.DepartureDate,
		"return_date", req.ReturnDate,
		"adults", req.Adults,
	)

	token, err := c.tokens.FetchToken(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "error during flight search", "error", err)
		return nil, err
	}

	resp, err := c.searcher.GetOffers(ctx, token, req)
	if err != nil {
		c.logger.ErrorContext(ctx, "error during flight search", "error", err)
		return nil, err
	}

	added := c.collect(ctx, resp, req)

	if len(added) == 0 {
		c.logger.InfoContext(ctx, "no new flights found to add")
		return added, nil
	}

	c.mu.Lock()
	c.flights = append(c.flights, added...)
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "added unique flights to memory", "count", len(added))
	return added, nil
}

func (c *Catalog) collect(ctx context.Context, resp *models.OfferResponse, req models.SearchRequest) []models.FlightRecord {
	added := make([]models.FlightRecord, 0)
	if resp == nil {
		return added
	}

	for _, bad := range resp.Malformed {
		c.logger.WarnContext(ctx, "dropping flight offer", "offer_index", bad.Index, "reason", bad.Err)
	}

	seen := make(map[dedupKey]struct{}, len(resp.Data))
	for _, offer := range resp.Data {
		n, err := normalize(offer, req.DepartureDate, req.ReturnDate)
		if err != nil {
			c.logger.WarnContext(ctx, "dropping flight offer", "offer_id", offerID(offer), "reason", err)
			continue
		}
		if _, dup := seen[n.key]; dup {
			continue
		}
		seen[n.key] = struct{}{}
		added = append(added, n.record)
	}

	return added
}

// Get returns every stored record in insertion order.
func (c *Catalog) Get() []models.FlightRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.flights)
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.flights)
}

func (c *Catalog) Clear() {
	c.mu.Lock()
	c.flights = make([]models.FlightRecord, 0)
	c.mu.Unlock()

	c.logger.Info("cleared all flights from memory")
}

func (c *Catalog) FilterByAirline(code string) []models.FlightRecord {
	return c.filter(filter.Airline(code))
}

func (c *Catalog) FilterByOrigin(code string) []models.FlightRecord {
	return c.filter(filter.Origin(code))
}

// FilterByPriceRange matches USD-priced records with minPrice <= amount <= maxPrice.
func (c *Catalog) FilterByPriceRange(minPrice, maxPrice decimal.Decimal) []models.FlightRecord {
	return c.filter(filter.PriceRange(minPrice, maxPrice))
}

func (c *Catalog) filter(preds ...filter.Predicate) []models.FlightRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return filter.Apply(c.flights, preds...)
}

func offerID(o models.Offer) string {
	if o.ID == "" {
		return "N/A"
	}
	return o.ID
}
