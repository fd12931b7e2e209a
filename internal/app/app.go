package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/Freeeeeet/glee_portal/internal/config"
	"github.com/Freeeeeet/glee_portal/internal/httpapi"
	"github.com/Freeeeeet/glee_portal/internal/httpapi/handlers"
	"github.com/Freeeeeet/glee_portal/internal/identity"
	"github.com/Freeeeeet/glee_portal/internal/messaging"
	"github.com/Freeeeeet/glee_portal/internal/messaging/email"
	"github.com/Freeeeeet/glee_portal/internal/messaging/sms"
	"github.com/Freeeeeet/glee_portal/internal/messaging/telegram"
	"github.com/Freeeeeet/glee_portal/internal/model"
	"github.com/Freeeeeet/glee_portal/internal/notify"
	"github.com/Freeeeeet/glee_portal/internal/repository"
	"github.com/Freeeeeet/glee_portal/internal/service"
	"github.com/Freeeeeet/glee_portal/internal/slots"
	"github.com/Freeeeeet/glee_portal/migrations"
)

// App owns the pool and every service built on it.
type App struct {
	Cfg      *config.Config
	Logger   *zap.Logger
	Pool     *pgxpool.Pool
	Location *time.Location
	Registry *prometheus.Registry

	Windows      *repository.TimeWindowRepository
	Auditions    *service.AuditionService
	Appointments *service.AppointmentService
	Auth         *identity.HTTPAuthenticator
	Notifier     *notify.Service
}

// New connects to the database and wires the services. Channels without
// credentials are left out.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	loc, err := slots.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	windows := repository.NewTimeWindowRepository(pool)
	logs := repository.NewAuditionLogRepository(pool)
	profiles := repository.NewProfileRepository(pool)
	groups := repository.NewGroupRepository(pool)
	audit := repository.NewNotificationAuditRepository(pool)
	appointments := repository.NewAppointmentRepository(pool)

	horizon := time.Duration(cfg.RecurrenceHorizonWeeks) * 7 * 24 * time.Hour

	a := &App{
		Cfg:          cfg,
		Logger:       logger,
		Pool:         pool,
		Location:     loc,
		Registry:     registry,
		Windows:      windows,
		Auditions:    service.NewAuditionService(windows, logs, repository.NewTxManager(pool), loc, horizon, logger),
		Appointments: service.NewAppointmentService(appointments, loc, logger),
		Auth:         identity.NewHTTPAuthenticator(cfg.AuthBaseURL, cfg.AuthAPIKey, &http.Client{Timeout: 10 * time.Second}, profiles),
	}

	senders, err := buildSenders(ctx, cfg, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}

	a.Notifier = notify.NewService(a.Auth, profiles, groups, audit, senders, notify.NewMetrics(registry), notify.Config{
		OrgName:          cfg.OrgName,
		BatchSize:        cfg.FanoutBatchSize,
		MaxMessageLength: cfg.FanoutMaxMessageLength,
	}, logger)

	return a, nil
}

func buildSenders(ctx context.Context, cfg *config.Config, logger *zap.Logger) (map[model.Channel]messaging.Sender, error) {
	senders := make(map[model.Channel]messaging.Sender)
	// half-open admits one whole batch
	breaker := messaging.BreakerSettings{HalfOpenRequests: uint32(max(cfg.FanoutBatchSize, 1))}
	wrap := func(name string, s messaging.Sender) messaging.Sender {
		return messaging.NewThrottled(messaging.NewBreaker(name, s, breaker, logger), cfg.FanoutRatePerSecond, cfg.FanoutBatchSize)
	}

	if cfg.SMSEnabled() {
		client := sms.NewClient(sms.Config{
			BaseURL:    cfg.TwilioBaseURL,
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
			From:       cfg.TwilioFromNumber,
		}, &http.Client{Timeout: 15 * time.Second})
		senders[model.ChannelSMS] = wrap("sms", client)
	} else {
		logger.Warn("SMS channel disabled, Twilio credentials not set")
	}

	if cfg.EmailEnabled() {
		sender, err := email.NewGmailSender(ctx, cfg.GmailCredentialsFile, cfg.GmailTokenFile, cfg.GmailSender)
		if err != nil {
			return nil, fmt.Errorf("create email sender: %w", err)
		}
		senders[model.ChannelEmail] = wrap("email", sender)
	} else {
		logger.Warn("Email channel disabled, Gmail credentials not set")
	}

	if cfg.TelegramEnabled() {
		sender, err := telegram.NewSender(cfg.TelegramToken)
		if err != nil {
			return nil, fmt.Errorf("create telegram sender: %w", err)
		}
		senders[model.ChannelTelegram] = wrap("telegram", sender)
	}

	return senders, nil
}

// Migrate applies the embedded schema migrations.
func (a *App) Migrate(ctx context.Context) error {
	migrator, err := NewMigrator(a.Pool, migrations.FS, a.Logger)
	if err != nil {
		return err
	}
	defer migrator.Close()

	return migrator.Run(ctx)
}

// Handler builds the HTTP API.
func (a *App) Handler() http.Handler {
	router := httpapi.NewRouter(
		handlers.NewNotificationHandler(a.Notifier, a.Logger),
		handlers.NewAuditionHandler(a.Auditions, a.Auth, a.Logger),
		handlers.NewAppointmentHandler(a.Appointments, a.Auth),
		a.Registry,
		a.Pool,
	)
	return router.Handler()
}

func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Close()
	}
}
