package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	applicationmetrics "github.com/nova19-exe/eBhutanza/internal/application/metrics"
	applicationservice "github.com/nova19-exe/eBhutanza/internal/application/service"
	applicationstore "github.com/nova19-exe/eBhutanza/internal/application/store"
	"github.com/nova19-exe/eBhutanza/internal/compliance/llm"
	compliancemetrics "github.com/nova19-exe/eBhutanza/internal/compliance/metrics"
	complianceservice "github.com/nova19-exe/eBhutanza/internal/compliance/service"
	dashboardservice "github.com/nova19-exe/eBhutanza/internal/dashboard/service"
	identitymetrics "github.com/nova19-exe/eBhutanza/internal/identity/metrics"
	"github.com/nova19-exe/eBhutanza/internal/identity/secrets"
	identityservice "github.com/nova19-exe/eBhutanza/internal/identity/service"
	"github.com/nova19-exe/eBhutanza/internal/identity/store/revocation"
	sessionstore "github.com/nova19-exe/eBhutanza/internal/identity/store/session"
	userstore "github.com/nova19-exe/eBhutanza/internal/identity/store/user"
	"github.com/nova19-exe/eBhutanza/internal/identity/token"
	incorporationservice "github.com/nova19-exe/eBhutanza/internal/incorporation/service"
	incorporationstore "github.com/nova19-exe/eBhutanza/internal/incorporation/store"
	"github.com/nova19-exe/eBhutanza/internal/kv/backend"
	"github.com/nova19-exe/eBhutanza/internal/notify"
	"github.com/nova19-exe/eBhutanza/internal/platform/config"
	"github.com/nova19-exe/eBhutanza/internal/platform/kafka"
	"github.com/nova19-exe/eBhutanza/internal/platform/redis"
	profileservice "github.com/nova19-exe/eBhutanza/internal/profile/service"
	profilestore "github.com/nova19-exe/eBhutanza/internal/profile/store"
	settingsservice "github.com/nova19-exe/eBhutanza/internal/settings/service"
	settingsstore "github.com/nova19-exe/eBhutanza/internal/settings/store"
	"github.com/nova19-exe/eBhutanza/pkg/platform/audit"
	auditpublisher "github.com/nova19-exe/eBhutanza/pkg/platform/audit/publisher"
	auditmemory "github.com/nova19-exe/eBhutanza/pkg/platform/audit/store/memory"
	auditpostgres "github.com/nova19-exe/eBhutanza/pkg/platform/audit/store/postgres"
)

const (
	auditBuffer       = 1024
	auditOpsRetention = 500
)

// app holds the wired services and the resources they need released.
type app struct {
	storage *backend.Opened
	redis   *redis.Client
	kafka   *kafka.Publisher
	audit   *auditpublisher.Publisher

	jwt            *token.JWTService
	identity       *identityservice.Service
	tracker        *applicationservice.Tracker
	compliance     *complianceservice.Service
	incorporations *incorporationservice.Service
	profiles       *profileservice.Service
	settings       *settingsservice.Service
	dashboard      *dashboardservice.Service
}

// buildApp registers module metrics on reg.
func buildApp(ctx context.Context, cfg config.Config, log *slog.Logger, reg prometheus.Registerer) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	if a.redis, err = redis.New(ctx, cfg.Redis); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	var redisClient *goredis.Client
	if a.redis != nil {
		redisClient = a.redis.Client
	}

	if a.storage, err = backend.Open(ctx, cfg.Storage, redisClient); err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	kv := a.storage.Store

	if a.kafka, err = kafka.NewPublisher(cfg.Kafka.Brokers, log); err != nil {
		return nil, fmt.Errorf("connect kafka: %w", err)
	}
	if a.kafka != nil {
		if err := a.kafka.EnsureTopics(ctx, cfg.Kafka.AuditTopic, cfg.Kafka.IncorporationTopic); err != nil {
			log.Warn("could not ensure kafka topics", "error", err)
		}
	}

	if a.audit, err = newAuditPublisher(ctx, cfg, a, log); err != nil {
		return nil, err
	}

	// identity
	a.jwt = token.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)
	var trl identityservice.RevocationList = revocation.NewInMemoryTRL()
	if redisClient != nil {
		trl = revocation.NewRedisTRL(redisClient)
	}
	a.identity = identityservice.New(
		userstore.New(kv),
		sessionstore.New(kv),
		a.jwt,
		trl,
		secrets.NewHasher(0),
		identityservice.WithLogger(log),
		identityservice.WithMetrics(identitymetrics.NewWithRegistry(reg)),
		identityservice.WithAuditPublisher(a.audit),
		identityservice.WithTokenTTL(cfg.Auth.TokenTTL),
	)

	prefs := settingsstore.New(kv)

	// application draft tracker
	trackerOpts := []applicationservice.Option{
		applicationservice.WithLogger(log),
		applicationservice.WithMetrics(applicationmetrics.NewWithRegistry(reg)),
		applicationservice.WithAuditPublisher(a.audit),
	}
	notifier, err := notify.NewSES(ctx, cfg.Email, a.identity, prefs, notify.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("setup notifications: %w", err)
	}
	if notifier != nil {
		trackerOpts = append(trackerOpts, applicationservice.WithNotifier(notifier))
	}
	a.tracker = applicationservice.New(applicationstore.New(kv), trackerOpts...)

	// compliance
	a.compliance, err = complianceservice.New(llm.New(cfg.Compliance),
		complianceservice.WithLogger(log),
		complianceservice.WithMetrics(compliancemetrics.NewWithRegistry(reg)),
		complianceservice.WithAuditPublisher(a.audit),
	)
	if err != nil {
		return nil, err
	}

	// incorporation
	incOpts := []incorporationservice.Option{
		incorporationservice.WithLogger(log),
		incorporationservice.WithAuditPublisher(a.audit),
	}
	if a.kafka != nil {
		incOpts = append(incOpts, incorporationservice.WithPublisher(a.kafka, cfg.Kafka.IncorporationTopic))
	}
	a.incorporations = incorporationservice.New(incorporationstore.New(kv), incOpts...)

	a.profiles = profileservice.New(a.identity, profilestore.New(kv),
		profileservice.WithLogger(log),
		profileservice.WithAuditPublisher(a.audit),
	)
	a.settings = settingsservice.New(prefs, a.identity, a.tracker,
		settingsservice.WithLogger(log),
		settingsservice.WithAuditPublisher(a.audit),
		settingsservice.WithIncorporations(a.incorporations),
		settingsservice.WithProfiles(a.profiles),
	)
	a.dashboard = dashboardservice.New(a.identity, a.tracker,
		dashboardservice.WithLogger(log),
		dashboardservice.WithIncorporations(a.incorporations),
	)
	return a, nil
}

// newAuditPublisher keeps audit events in postgres when that backend is in
// use, in memory otherwise, and streams them to kafka when configured.
func newAuditPublisher(ctx context.Context, cfg config.Config, a *app, log *slog.Logger) (*auditpublisher.Publisher, error) {
	var store audit.Store = auditmemory.NewInMemoryStore(auditmemory.WithOperationsLimit(auditOpsRetention))
	if a.storage.DB != nil {
		pg := auditpostgres.New(a.storage.DB)
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("create audit schema: %w", err)
		}
		store = pg
	}
	opts := []auditpublisher.Option{
		auditpublisher.WithLogger(log),
		auditpublisher.WithAsyncBuffer(auditBuffer),
	}
	if a.kafka != nil {
		opts = append(opts, auditpublisher.WithSink(a.kafka, cfg.Kafka.AuditTopic))
	}
	return auditpublisher.NewPublisher(store, opts...), nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	if a.audit != nil {
		a.audit.Close()
	}
	a.kafka.Close()
	if a.storage != nil {
		_ = a.storage.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}
