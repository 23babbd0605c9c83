package server

import (
	"context"
	stderrors "errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/cruderly/wallie/internal/config"
	"github.com/cruderly/wallie/pkg/cache"
	"github.com/cruderly/wallie/pkg/errors"
	"github.com/cruderly/wallie/pkg/i18n"
	"github.com/cruderly/wallie/pkg/leads"
	"github.com/cruderly/wallie/pkg/observability"
	"github.com/cruderly/wallie/pkg/site"
)

// Build wires a Server from cfg: the Redis client when a component needs
// it, the page cache, the lead archive, the limiter, the relay and the
// metrics registry. Close releases everything Build opened.
func Build(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	var closers []io.Closer
	fail := func(err error) (*Server, error) {
		_ = closeAll(closers)
		return nil, err
	}

	var rdb redis.UniversalClient
	if cfg.UsesRedis() {
		rdb = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    []string{cfg.Redis.Addr},
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "connect to redis at %s", cfg.Redis.Addr)
		}
		closers = append(closers, rdb)
		logger.Debug("redis connected", "addr", cfg.Redis.Addr)
	}

	var pages cache.Cache
	switch cfg.Site.Cache {
	case config.BackendMemory:
		pages = cache.NewMemoryCache()
		closers = append(closers, pages)
	case config.BackendRedis:
		// The client is closed once, above.
		pages = cache.NewRedisCache(rdb, cfg.Redis.Prefix+"page:")
	default:
		pages = cache.NewNullCache()
	}

	catalog, err := i18n.Embedded()
	if err != nil {
		return fail(err)
	}
	s, err := site.New(catalog, site.Options{
		BaseURL:  cfg.Site.BaseURL,
		Contact:  contactInfo(cfg.Site),
		Cache:    pages,
		CacheTTL: cfg.Site.CacheTTL,
		Logger:   logger,
	})
	if err != nil {
		return fail(err)
	}

	var store leads.Store
	switch cfg.Leads.Store {
	case config.BackendFile:
		store, err = leads.NewFileStore(cfg.Leads.Dir)
	case config.BackendMongo:
		store, err = leads.NewMongoStore(ctx, leads.MongoConfig{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
	default:
		store = leads.NewMemoryStore()
	}
	if err != nil {
		return fail(err)
	}
	closers = append(closers, store)

	var limiter leads.Limiter
	switch cfg.Leads.Limiter {
	case config.BackendLocal:
		limiter = leads.NewLocalLimiter(cfg.Leads.RateBurst, cfg.Leads.RatePer)
	case config.BackendRedis:
		limiter = leads.NewRedisLimiter(rdb, cfg.Redis.Prefix+"rl:", cfg.Leads.RateBurst, cfg.Leads.RatePer)
	default:
		limiter = leads.NopLimiter{}
	}

	var sender leads.Sender
	if cfg.Leads.Endpoint != "" {
		opts := []leads.RelayOption{leads.WithRetry(cfg.Leads.RetryAttempts, cfg.Leads.RetryDelay)}
		if cfg.Leads.APIKey != "" {
			opts = append(opts, leads.WithHeader("Authorization", "Bearer "+cfg.Leads.APIKey))
		}
		relay, err := leads.NewRelay(cfg.Leads.Endpoint, opts...)
		if err != nil {
			return fail(err)
		}
		sender = relay
	} else {
		logger.Warn("leads.endpoint is empty; leads are archived but not forwarded")
	}

	opts := Options{
		Site:            s,
		Catalog:         catalog,
		Leads:           leads.NewService(store, limiter, sender, logger),
		Logger:          logger,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}
	if cfg.Server.Metrics {
		metrics := observability.NewMetrics()
		metrics.Register()
		opts.Metrics = metrics.Handler()
	}

	if missing := site.MissingAssets(site.Static()); len(missing) > 0 {
		logger.Warn("slider assets missing; run go generate ./pkg/site", "files", missing)
	}

	srv := New(opts)
	srv.closers = closers
	return srv, nil
}

// contactInfo overlays the configured contact data on the defaults.
func contactInfo(c config.SiteConfig) site.ContactInfo {
	info := site.DefaultContact
	if c.Email != "" {
		info.Email = c.Email
	}
	if c.Phone != "" {
		info.Phone = c.Phone
	}
	if c.WhatsApp != "" {
		info.WhatsApp = c.WhatsApp
	}
	return info
}

// Close releases the backends opened by Build, in reverse order.
func (s *Server) Close() error {
	err := closeAll(s.closers)
	s.closers = nil
	return err
}

func closeAll(closers []io.Closer) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}
