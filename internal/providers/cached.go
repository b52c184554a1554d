package providers

import (
	"context"
	"log/slog"

	"github.com/dharmasatrya/flighttracker/internal/cache"
	"github.com/dharmasatrya/flighttracker/internal/models"
)

// CachedSearcher answers repeated searches from the cache. Results are still
// normalized by the caller on every search, so a hit behaves like a fresh
// upstream response.
type CachedSearcher struct {
	next   OfferSearcher
	cache  cache.Cache
	logger *slog.Logger
}

func NewCachedSearcher(next OfferSearcher, c cache.Cache, logger *slog.Logger) *CachedSearcher {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSearcher{
		next:   next,
		cache:  c,
		logger: logger,
	}
}

func (s *CachedSearcher) GetOffers(ctx context.Context, token string, req models.SearchRequest) (*models.OfferResponse, error) {
	if cached, found := s.cache.Get(ctx, req); found {
		s.logger.DebugContext(ctx, "offer cache hit", "origin", req.Origin, "destination", req.Destination)
		return cached, nil
	}

	offers, err := s.next.GetOffers(ctx, token, req)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, req, offers); err != nil {
		s.logger.WarnContext(ctx, "failed to cache offers", "error", err)
	}
	return offers, nil
}
