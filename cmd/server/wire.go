package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"lifepath/internal/platform/config"
	"lifepath/internal/platform/kafka"
	platformmetrics "lifepath/internal/platform/metrics"
	"lifepath/internal/platform/postgres"
	"lifepath/internal/platform/redis"
	rlconfig "lifepath/internal/ratelimit/config"
	rlmetrics "lifepath/internal/ratelimit/metrics"
	rlmiddleware "lifepath/internal/ratelimit/middleware"
	"lifepath/internal/ratelimit/service/requestlimit"
	"lifepath/internal/ratelimit/store/allowlist"
	"lifepath/internal/ratelimit/store/bucket"
	"lifepath/internal/report"
	"lifepath/internal/report/cache"
	"lifepath/internal/report/gemini"
	reportmetrics "lifepath/internal/report/metrics"
	"lifepath/internal/report/service"
	"lifepath/internal/report/store"
	audit "lifepath/pkg/platform/audit"
	"lifepath/pkg/platform/audit/publisher"
	kafkastore "lifepath/pkg/platform/audit/store/kafka"
	"lifepath/pkg/platform/audit/store/memory"
)

type healthCheck func(ctx context.Context) error

// dependencies is everything the router needs, plus what must be closed on exit.
type dependencies struct {
	logger      *slog.Logger
	registry    *prometheus.Registry
	httpMetrics *platformmetrics.HTTP
	reports     *service.Service
	generator   service.Generator
	limiter     *rlmiddleware.Middleware
	events      *publisher.Publisher
	checks      map[string]healthCheck
	closers     []func()
}

func (d *dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

func (d *dependencies) generatorName() string {
	if d.generator == nil {
		return "disabled"
	}
	return d.generator.Model()
}

// wire builds the dependency graph. Redis, Postgres and Kafka are optional;
// without them the in-memory implementations are used.
func wire(ctx context.Context, cfg config.Config, log *slog.Logger) (*dependencies, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	d := &dependencies{
		logger:      log,
		registry:    reg,
		httpMetrics: platformmetrics.NewHTTP(reg),
		checks:      map[string]healthCheck{},
	}
	ok := false
	defer func() {
		if !ok {
			d.Close()
		}
	}()

	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	if rdb != nil {
		d.closers = append(d.closers, func() { _ = rdb.Close() })
		d.checks["redis"] = rdb.Health
	}

	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return nil, err
	}
	if db != nil {
		d.closers = append(d.closers, func() { _ = db.Close() })
		d.checks["postgres"] = db.Health
	}

	events, err := newEvents(ctx, cfg, log, reg, d)
	if err != nil {
		return nil, err
	}
	d.events = events
	d.closers = append(d.closers, events.Close)

	if d.reports, err = newReports(ctx, cfg, log, reg, rdb, db, events, d); err != nil {
		return nil, err
	}
	if d.limiter, err = newLimiter(cfg, log, reg, rdb, events); err != nil {
		return nil, err
	}

	ok = true
	return d, nil
}

func newEvents(ctx context.Context, cfg config.Config, log *slog.Logger, reg prometheus.Registerer, d *dependencies) (*publisher.Publisher, error) {
	var sink audit.Store = memory.NewInMemoryStore()

	client, err := kafka.NewClient(cfg.Kafka)
	if err != nil {
		return nil, err
	}
	if client != nil {
		d.closers = append(d.closers, client.Close)
		if err := kafka.EnsureTopic(ctx, client, cfg.Kafka); err != nil {
			return nil, err
		}
		d.checks["kafka"] = func(ctx context.Context) error { return kafka.Health(ctx, client) }
		sink = kafkastore.New(client, cfg.Kafka.Topic)
		log.Info("events published to kafka", "topic", cfg.Kafka.Topic, "brokers", cfg.Kafka.Brokers)
	}

	return publisher.NewPublisher(sink,
		publisher.WithAsyncBuffer(cfg.Kafka.AsyncBuffer),
		publisher.WithLogger(log),
		publisher.WithSampler(publisher.NewSampler(cfg.Kafka.SampleRate)),
		publisher.WithMetrics(publisher.NewMetrics(reg)),
	), nil
}

func newReports(
	ctx context.Context,
	cfg config.Config,
	log *slog.Logger,
	reg prometheus.Registerer,
	rdb *redis.Client,
	db *postgres.DB,
	events *publisher.Publisher,
	d *dependencies,
) (*service.Service, error) {
	var records service.RecordStore = store.NewInMemoryStore()
	if db != nil {
		pg := store.NewPostgres(db.DB)
		if err := pg.Migrate(ctx); err != nil {
			return nil, err
		}
		records = pg
	}

	var reportCache service.Cache = cache.NewInMemory(cfg.Report.CacheTTL)
	if rdb != nil {
		reportCache = cache.NewRedis(rdb.Client, cfg.Report.CacheTTL)
	}

	fingerprinter, err := report.NewFingerprinter(cfg.FingerprintKey())
	if err != nil {
		return nil, fmt.Errorf("fingerprinter: %w", err)
	}
	signer, err := service.NewShareSigner(cfg.ShareSigningKey(), cfg.Share.TTL)
	if err != nil {
		return nil, fmt.Errorf("share signer: %w", err)
	}

	if cfg.Gemini.APIKey == "" {
		log.Warn("GEMINI_API_KEY not set, report generation disabled")
	} else {
		client, err := gemini.New(ctx, cfg.Gemini.APIKey,
			gemini.WithModel(cfg.Gemini.Model),
			gemini.WithTimeout(cfg.Gemini.Timeout),
			gemini.WithMaxOutputTokens(cfg.Gemini.MaxOutputTokens),
			gemini.WithPricing(cfg.Report.Pricing()),
			gemini.WithLogger(log),
		)
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		d.generator = client
	}

	return service.New(d.generator, records, fingerprinter,
		service.WithLogger(log),
		service.WithAuditPublisher(events),
		service.WithMetrics(reportmetrics.New(reg)),
		service.WithCache(reportCache),
		service.WithSharing(signer, cfg.Share.BaseURL),
		service.WithLanguage(report.LanguageName(cfg.Report.Language)),
		service.WithReferenceYear(cfg.Report.ReferenceYear),
		service.WithPricing(cfg.Report.Pricing()),
	), nil
}

func newLimiter(cfg config.Config, log *slog.Logger, reg prometheus.Registerer, rdb *redis.Client, events *publisher.Publisher) (*rlmiddleware.Middleware, error) {
	limits := rlconfig.New(cfg.RateLimit.GenerateRequests, cfg.RateLimit.ReadRequests, cfg.RateLimit.Window)
	allowed, err := allowlist.NewStaticStore(cfg.RateLimit.Allowlist)
	if err != nil {
		return nil, fmt.Errorf("rate limit allowlist: %w", err)
	}
	mt := rlmetrics.New(reg)

	var buckets requestlimit.BucketStore = bucket.NewInMemoryBucketStore()
	opts := []rlmiddleware.Option{
		rlmiddleware.WithDisabled(cfg.RateLimit.Disabled),
		rlmiddleware.WithMetrics(mt),
	}
	if rdb != nil {
		buckets = bucket.NewRedisBucketStore(rdb.Client)
		opts = append(opts, rlmiddleware.WithFallback(rlmiddleware.NewFallbackLimiter(limits, allowed, log)))
	}

	requests, err := requestlimit.New(buckets, allowed,
		requestlimit.WithLogger(log),
		requestlimit.WithAuditPublisher(events),
		requestlimit.WithConfig(limits),
		requestlimit.WithMetrics(mt),
	)
	if err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	return rlmiddleware.New(requests, log, opts...), nil
}
