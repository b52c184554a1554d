package providers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flighttracker/internal/models"
	"github.com/dharmasatrya/flighttracker/internal/ratelimit"
)

const offersJSON = `{
  "data": [{
    "type": "flight-offer",
    "id": "1",
    "source": "GDS",
    "itineraries": [{"segments": [{"carrierCode": "AA", "departure": {"iataCode": "JFK"}, "arrival": {"iataCode": "LAX"}}]}],
    "price": {"currency": "USD", "total": "200.00", "grandTotal": "200.00"},
    "validatingAirlineCodes": ["AA"],
    "travelerPricings": [{"fareDetailsBySegment": [{}]}]
  }]
}`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeAmadeus struct {
	tokenCalls  atomic.Int32
	offerCalls  atomic.Int32
	lastQuery   atomic.Value
	lastAuth    atomic.Value
	offerStatus int
	offerBody   string
}

func (f *fakeAmadeus) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(tokenPath, func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		assert.NoError(t, r.ParseForm())
		if r.PostForm.Get("client_id") != "key" || r.PostForm.Get("client_secret") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"type":         "amadeusOAuth2Token",
			"access_token": "mocked_token",
			"token_type":   "Bearer",
			"expires_in":   1799,
		})
	})
	mux.HandleFunc(offersPath, func(w http.ResponseWriter, r *http.Request) {
		f.offerCalls.Add(1)
		f.lastQuery.Store(r.URL.Query())
		f.lastAuth.Store(r.Header.Get("Authorization"))
		status := f.offerStatus
		if status == 0 {
			status = http.StatusOK
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, f.offerBody)
	})
	return mux
}

func newTestProvider(t *testing.T, f *fakeAmadeus, key, secret string) *AmadeusProvider {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	return NewAmadeusProvider(AmadeusConfig{
		APIKey:    key,
		APISecret: secret,
		BaseURL:   srv.URL + "/",
	}, ratelimit.New(ratelimit.Config{RequestsPerSecond: 1000, BurstSize: 10}), discardLogger())
}

func TestAmadeusProvider_FetchToken(t *testing.T) {
	f := &fakeAmadeus{}
	p := newTestProvider(t, f, "key", "secret")

	token, err := p.FetchToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "mocked_token", token)
	assert.Equal(t, int32(1), f.tokenCalls.Load())
}

func TestAmadeusProvider_FetchToken_MissingCredentials(t *testing.T) {
	f := &fakeAmadeus{}
	p := newTestProvider(t, f, "", "secret")

	_, err := p.FetchToken(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrUpstreamFailure)
	assert.ErrorIs(t, err, ErrMissingAPICredentials)
	assert.Zero(t, f.tokenCalls.Load(), "no request without credentials")
}

func TestAmadeusProvider_FetchToken_Rejected(t *testing.T) {
	f := &fakeAmadeus{}
	p := newTestProvider(t, f, "key", "wrong")

	_, err := p.FetchToken(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrUpstreamFailure)

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, "amadeus", upstream.Provider)
	assert.Equal(t, "token", upstream.Op)
}

func TestAmadeusProvider_GetOffers(t *testing.T) {
	f := &fakeAmadeus{offerBody: offersJSON}
	p := newTestProvider(t, f, "key", "secret")

	resp, err := p.GetOffers(context.Background(), "mocked_token", models.SearchRequest{
		Origin:        "JFK",
		Destination:   "LAX",
		DepartureDate: "2024-12-01",
		ReturnDate:    "2024-12-10",
		Adults:        2,
	})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)

	offer := resp.Data[0]
	assert.Equal(t, "1", offer.ID)
	assert.Equal(t, models.Amount("200.00"), offer.Price.GrandTotal)
	assert.Equal(t, "AA", offer.Itineraries[0].Segments[0].CarrierCode)

	assert.Equal(t, "Bearer mocked_token", f.lastAuth.Load())
	q := f.lastQuery.Load().(url.Values)
	assert.Equal(t, []string{"JFK"}, q["originLocationCode"])
	assert.Equal(t, []string{"LAX"}, q["destinationLocationCode"])
	assert.Equal(t, []string{"2024-12-01"}, q["departureDate"])
	assert.Equal(t, []string{"2024-12-10"}, q["returnDate"])
	assert.Equal(t, []string{"2"}, q["adults"])
	assert.Equal(t, []string{"USD"}, q["currencyCode"])
	assert.Equal(t, []string{"50"}, q["max"])
}

func TestAmadeusProvider_GetOffers_OneWayOmitsReturnDate(t *testing.T) {
	f := &fakeAmadeus{offerBody: `{"data": []}`}
	p := newTestProvider(t, f, "key", "secret")

	resp, err := p.GetOffers(context.Background(), "tok", models.SearchRequest{
		Origin:        "JFK",
		Destination:   "LAX",
		DepartureDate: "2024-12-01",
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Data)

	q := f.lastQuery.Load().(url.Values)
	assert.NotContains(t, q, "returnDate")
	assert.Equal(t, []string{"1"}, q["adults"])
}

func TestAmadeusProvider_GetOffers_MistypedOfferIsSetAside(t *testing.T) {
	body := `{"data": [
	  {"id": "1", "source": "GDS", "price": {"grandTotal": "200.00"}},
	  {"id": 2, "source": "GDS", "validatingAirlineCodes": "DL"}
	]}`
	f := &fakeAmadeus{offerBody: body}
	p := newTestProvider(t, f, "key", "secret")

	resp, err := p.GetOffers(context.Background(), "tok", models.SearchRequest{Origin: "JFK", Destination: "LAX"})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "1", resp.Data[0].ID)
	require.Len(t, resp.Malformed, 1)
	assert.Equal(t, 1, resp.Malformed[0].Index)
	assert.Error(t, resp.Malformed[0].Err)
}

func TestAmadeusProvider_TokenLimitIsSeparate(t *testing.T) {
	f := &fakeAmadeus{offerBody: offersJSON}
	p := newTestProvider(t, f, "key", "secret")
	p.limiter.SetLimit(OpToken, 0.01, 1)

	_, err := p.FetchToken(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = p.FetchToken(ctx)
	assert.ErrorIs(t, err, models.ErrUpstreamFailure)
	assert.Equal(t, int32(1), f.tokenCalls.Load())

	_, err = p.GetOffers(context.Background(), "tok", models.SearchRequest{Origin: "JFK", Destination: "LAX"})
	assert.NoError(t, err, "offers keep their own bucket")
}

func TestAmadeusProvider_GetOffers_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"errors":[{"detail":"boom"}]}`},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{}`},
		{name: "malformed payload", status: http.StatusOK, body: `{"data": [`},
		{name: "data is not a list", status: http.StatusOK, body: `{"data": {"id": "1"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeAmadeus{offerStatus: tt.status, offerBody: tt.body}
			p := newTestProvider(t, f, "key", "secret")

			resp, err := p.GetOffers(context.Background(), "tok", models.SearchRequest{Origin: "JFK", Destination: "LAX"})
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, models.ErrUpstreamFailure)
		})
	}
}

func TestAmadeusProvider_GetOffers_CanceledContext(t *testing.T) {
	f := &fakeAmadeus{offerBody: offersJSON}
	p := newTestProvider(t, f, "key", "secret")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.GetOffers(ctx, "tok", models.SearchRequest{Origin: "JFK", Destination: "LAX"})
	assert.ErrorIs(t, err, models.ErrUpstreamFailure)
	assert.Zero(t, f.offerCalls.Load())
}
