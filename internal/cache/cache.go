package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/dharmasatrya/flighttracker/internal/models"
)

// Cache holds raw upstream offer payloads keyed by the search parameters.
type Cache interface {
	Get(ctx context.Context, req models.SearchRequest) (*models.OfferResponse, bool)
	Set(ctx context.Context, req models.SearchRequest, resp *models.OfferResponse) error
	Close() error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Host: "localhost",
		Port: "6379",
		TTL:  5 * time.Minute,
	}
}

func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "ping redis at %s", cfg.Host+":"+cfg.Port)
	}

	return NewRedisCacheWithClient(client, cfg.TTL), nil
}

func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *RedisCache) Get(ctx context.Context, req models.SearchRequest) (*models.OfferResponse, bool) {
	data, err := c.client.Get(ctx, Key(req)).Bytes()
	if err != nil {
		return nil, false
	}

	resp, err := decode(data)
	if err != nil {
		return nil, false
	}

	return resp, true
}

func (c *RedisCache) Set(ctx context.Context, req models.SearchRequest, resp *models.OfferResponse) error {
	data, err := encode(resp)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, Key(req), data, c.ttl).Err()
}

func encode(resp *models.OfferResponse) ([]byte, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, errors.Wrap(err, "encode offers")
	}
	return data, nil
}

func decode(data []byte) (*models.OfferResponse, error) {
	var resp models.OfferResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, errors.Wrap(err, "decode offers")
	}
	return &resp, nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(ctx context.Context, req models.SearchRequest) (*models.OfferResponse, bool) {
	return nil, false
}

func (c *NoOpCache) Set(ctx context.Context, req models.SearchRequest, resp *models.OfferResponse) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}

// Key is stable across letter case of the airport codes.
func Key(req models.SearchRequest) string {
	keyData := struct {
		Origin        string
		Destination   string
		DepartureDate string
		ReturnDate    string
		Adults        int
	}{
		Origin:        strings.ToUpper(strings.TrimSpace(req.Origin)),
		Destination:   strings.ToUpper(strings.TrimSpace(req.Destination)),
		DepartureDate: req.DepartureDate,
		ReturnDate:    req.ReturnDate,
		Adults:        req.Adults,
	}

	data, _ := json.Marshal(keyData)
	hash := sha256.Sum256(data)
	return "offers:" + hex.EncodeToString(hash[:])
}
