package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/dharmasatrya/flighttracker/internal/accounts"
	"github.com/dharmasatrya/flighttracker/internal/cache"
	"github.com/dharmasatrya/flighttracker/internal/catalog"
	"github.com/dharmasatrya/flighttracker/internal/config"
	"github.com/dharmasatrya/flighttracker/internal/handler"
	"github.com/dharmasatrya/flighttracker/internal/logging"
	"github.com/dharmasatrya/flighttracker/internal/models"
	"github.com/dharmasatrya/flighttracker/internal/providers"
	"github.com/dharmasatrya/flighttracker/internal/ratelimit"
)

func main() {
	app := &cli.App{
		Name:  "flighttracker",
		Usage: "Search Amadeus flight offers and keep a deduplicated catalog",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP API",
				Action: serve,
			},
			{
				Name:  "search",
				Usage: "Run one flight search and print the new records as JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "origin", Required: true, Usage: "IATA code of the departure airport"},
					&cli.StringFlag{Name: "destination", Required: true, Usage: "IATA code of the arrival airport"},
					&cli.StringFlag{Name: "departure-date", Required: true, Usage: "YYYY-MM-DD"},
					&cli.StringFlag{Name: "return-date", Usage: "YYYY-MM-DD, omit for one-way"},
					&cli.IntFlag{Name: "adults", Value: 1},
				},
				Action: searchOnce,
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("flighttracker: %v", err)
	}
}

type deps struct {
	cfg     *config.Config
	logger  *slog.Logger
	catalog *catalog.Catalog
	cache   cache.Cache
}

func setup() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Pretty)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	limiter := ratelimit.New(ratelimit.Config{
		RequestsPerSecond: cfg.Amadeus.RequestsPerSecond,
		BurstSize:         cfg.Amadeus.Burst,
	})
	if cfg.Amadeus.TokenRequestsPerSecond > 0 {
		limiter.SetLimit(providers.OpToken, cfg.Amadeus.TokenRequestsPerSecond, 1)
	}

	amadeus := providers.NewAmadeusProvider(providers.AmadeusConfig{
		APIKey:     cfg.Amadeus.APIKey,
		APISecret:  cfg.Amadeus.APISecret,
		BaseURL:    cfg.Amadeus.BaseURL,
		MaxResults: cfg.Amadeus.MaxResults,
		Timeout:    cfg.Amadeus.Timeout,
	}, limiter, logger)

	var offerCache cache.Cache
	if cfg.Cache.Enabled {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Host:     cfg.Cache.RedisHost,
			Port:     cfg.Cache.RedisPort,
			Password: cfg.Cache.RedisPassword,
			TTL:      cfg.Cache.TTL,
		})
		if err != nil {
			return nil, err
		}
		offerCache = redisCache
		logger.Info("redis offer cache enabled", "addr", cfg.Cache.RedisHost+":"+cfg.Cache.RedisPort, "ttl", cfg.Cache.TTL)
	} else {
		offerCache = cache.NewNoOpCache()
		logger.Info("offer cache disabled")
	}

	searcher := providers.NewCachedSearcher(amadeus, offerCache, logger)

	return &deps{
		cfg:     cfg,
		logger:  logger,
		catalog: catalog.New(amadeus, searcher, logger),
		cache:   offerCache,
	}, nil
}

func accountStore(cfg *config.Config, logger *slog.Logger) (accounts.Store, func() error, error) {
	if cfg.Database.DSN == "" {
		logger.Info("using in-memory account store")
		return accounts.NewMemoryStore(), func() error { return nil }, nil
	}

	db, err := accounts.OpenPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, nil, err
	}
	if err := accounts.Migrate(db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	logger.Info("using postgres account store")
	return accounts.NewPostgresStore(db), db.Close, nil
}

func serve(c *cli.Context) error {
	d, err := setup()
	if err != nil {
		return err
	}
	defer d.cache.Close()

	store, closeStore, err := accountStore(d.cfg, d.logger)
	if err != nil {
		return err
	}
	defer closeStore()

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	handler.NewSearchHandler(d.catalog, d.logger).Register(e.Group("/api/v1"))
	handler.NewAccountHandler(accounts.NewService(store, d.logger), d.logger).Register(e)
	e.GET("/health", handler.HealthHandler)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		d.logger.Info("starting flight tracker server", "port", d.cfg.Port)
		errCh <- e.Start(":" + d.cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func searchOnce(c *cli.Context) error {
	d, err := setup()
	if err != nil {
		return err
	}
	defer d.cache.Close()

	flights, err := d.catalog.Search(c.Context, models.SearchRequest{
		Origin:        c.String("origin"),
		Destination:   c.String("destination"),
		DepartureDate: c.String("departure-date"),
		ReturnDate:    c.String("return-date"),
		Adults:        c.Int("adults"),
	})
	if err != nil {
		return errors.Wrap(err, "search")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(flights)
}
