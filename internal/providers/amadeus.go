package providers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/dharmasatrya/flighttracker/internal/models"
	"github.com/dharmasatrya/flighttracker/internal/ratelimit"
)

const (
	amadeusName = "amadeus"

	DefaultAmadeusBaseURL = "https://test.api.amadeus.com"

	tokenPath  = "/v1/security/oauth2/token"
	offersPath = "/v2/shopping/flight-offers"

	OpToken  = "token"
	OpOffers = "offers"
)

var (
	ErrMissingAPICredentials = errors.New("API key and secret must be configured")
	ErrEmptyAccessToken      = errors.New("access token not found in response")
)

type AmadeusConfig struct {
	APIKey       string
	APISecret    string
	BaseURL      string
	CurrencyCode string
	MaxResults   int
	Timeout      time.Duration
}

type AmadeusProvider struct {
	config     AmadeusConfig
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	logger     *slog.Logger
}

func NewAmadeusProvider(cfg AmadeusConfig, limiter *ratelimit.Limiter, logger *slog.Logger) *AmadeusProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultAmadeusBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.CurrencyCode == "" {
		cfg.CurrencyCode = "USD"
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 50
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &AmadeusProvider{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    limiter,
		logger:     logger.With("provider", amadeusName),
	}
}

// FetchToken runs the OAuth2 client-credentials grant. Missing credentials
// fail before any request is made.
func (p *AmadeusProvider) FetchToken(ctx context.Context) (string, error) {
	if p.config.APIKey == "" || p.config.APISecret == "" {
		p.logger.ErrorContext(ctx, "API key and secret are not configured")
		return "", NewUpstreamError(amadeusName, OpToken, ErrMissingAPICredentials)
	}

	if err := p.limiter.Wait(ctx, OpToken); err != nil {
		return "", NewUpstreamError(amadeusName, OpToken, err)
	}

	cc := &clientcredentials.Config{
		ClientID:     p.config.APIKey,
		ClientSecret: p.config.APISecret,
		TokenURL:     p.config.BaseURL + tokenPath,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	p.logger.InfoContext(ctx, "fetching access token")
	tok, err := cc.Token(context.WithValue(ctx, oauth2.HTTPClient, p.httpClient))
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to fetch access token", "error", err)
		return "", NewUpstreamError(amadeusName, OpToken, err)
	}
	if tok.AccessToken == "" {
		return "", NewUpstreamError(amadeusName, OpToken, ErrEmptyAccessToken)
	}

	return tok.AccessToken, nil
}

func (p *AmadeusProvider) GetOffers(ctx context.Context, token string, req models.SearchRequest) (*models.OfferResponse, error) {
	if err := p.limiter.Wait(ctx, OpOffers); err != nil {
		return nil, NewUpstreamError(amadeusName, OpOffers, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.offersURL(req), nil)
	if err != nil {
		return nil, NewUpstreamError(amadeusName, OpOffers, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Accept", "application/json")

	p.logger.InfoContext(ctx, "fetching flight offers",
		"origin", req.Origin,
		"destination", req.Destination,
		"departure_date", req.DepartureDate,
		"return_date", req.ReturnDate,
	)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to fetch flight offers", "error", err)
		return nil, NewUpstreamError(amadeusName, OpOffers, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := errors.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		p.logger.ErrorContext(ctx, "failed to fetch flight offers", "error", err)
		return nil, NewUpstreamError(amadeusName, OpOffers, err)
	}

	var offers models.OfferResponse
	if err := json.NewDecoder(resp.Body).Decode(&offers); err != nil {
		return nil, NewUpstreamError(amadeusName, OpOffers, errors.Wrap(err, "decode flight offers"))
	}

	p.logger.InfoContext(ctx, "flight offers retrieved", "count", len(offers.Data), "malformed", len(offers.Malformed))
	return &offers, nil
}

func (p *AmadeusProvider) offersURL(req models.SearchRequest) string {
	params := url.Values{}
	params.Set("originLocationCode", req.Origin)
	params.Set("destinationLocationCode", req.Destination)
	params.Set("departureDate", req.DepartureDate)
	if req.ReturnDate != "" {
		params.Set("returnDate", req.ReturnDate)
	}
	adults := req.Adults
	if adults <= 0 {
		adults = 1
	}
	params.Set("adults", strconv.Itoa(adults))
	params.Set("currencyCode", p.config.CurrencyCode)
	params.Set("max", strconv.Itoa(p.config.MaxResults))

	return p.config.BaseURL + offersPath + "?" + params.Encode()
}
