package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"trattoria/internal/api"
	"trattoria/internal/cache"
	"trattoria/internal/config"
	"trattoria/internal/database"
	"trattoria/internal/metrics"
	"trattoria/internal/notify"
	"trattoria/internal/service"
)

func main() {
	// Local runs pick up configuration tweaks from .env.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
	}

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("TRATTORIA_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	loc, err := time.LoadLocation(cfg.Restaurant.Timezone)
	if err != nil {
		logger.Fatal().Err(err).Str("timezone", cfg.Restaurant.Timezone).Msg("invalid timezone")
	}

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer db.Close()

	var rdb *redis.Client
	if cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Register()

	statusSvc := service.NewStatusService(loc, cache.NewStatusCache(rdb, cfg.StatusTTL()), &logger)

	// Initial load + hot reload of the weekly schedule.
	if err := config.WatchHours(ctx, cfg.HoursConfigPath, 30*time.Second, func(hours *config.HoursConfig) {
		if hours == nil {
			return
		}
		statusSvc.SetSchedule(hours.Schedule())
	}); err != nil {
		logger.Fatal().Err(err).Msg("failed to load hours config")
	}

	// Initial load + hot reload of the menu.
	if err := config.WatchMenu(ctx, cfg.MenuConfigPath, 30*time.Second, func(menu *config.MenuConfig) {
		if menu == nil {
			return
		}
		if err := db.SyncMenuFromConfig(ctx, menu); err != nil {
			logger.Error().Err(err).Msg("failed to apply menu config")
			return
		}
		logger.Info().Time("reloaded_at", time.Now()).Msg("menu config applied")
	}); err != nil {
		logger.Fatal().Err(err).Msg("failed to load menu config")
	}

	notifier, err := notify.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("telegram notifier disabled")
	}

	orderRules, err := loadOrderRules(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid ordering config")
	}
	orderSvc := service.NewOrderService(
		db, statusSvc, orderRules,
		cfg.Restaurant.Name, cfg.Restaurant.Phone,
		notifier, &logger,
	)

	reservationSvc := service.NewReservationService(
		db, statusSvc,
		service.ReservationRules{
			MinGuests:  cfg.Reservations.MinGuests,
			MaxGuests:  cfg.Reservations.MaxGuests,
			MinAdvance: cfg.ReservationMinAdvance(),
			MaxAdvance: cfg.ReservationMaxAdvance(),
		},
		cfg.Restaurant.Name, cfg.Restaurant.Phone,
		notifier, &logger,
	)

	go statusSvc.Run(ctx, time.Minute)

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, db, rdb, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	if cfg.Backup.Enabled {
		go startBackupLoop(ctx, db, cfg, &logger)
	}

	server := api.NewHTTPServer(db, statusSvc, orderSvc, reservationSvc, cfg.Server.AdminKey, &logger)
	logger.Info().Str("restaurant", cfg.Restaurant.Name).Msg("trattoria server started")
	if err := server.Start(ctx, cfg.Server.Port); err != nil {
		logger.Fatal().Err(err).Msg("API server error")
	}
}

func loadOrderRules(cfg *config.Config) (service.OrderRules, error) {
	rules := service.OrderRules{
		MaxItems:    cfg.Ordering.MaxItemsPerOrder,
		SubmitBurst: cfg.Ordering.SubmitBurst,
	}

	var err error
	if cfg.Ordering.MinOrderDelivery != "" {
		if rules.MinOrderDelivery, err = decimal.NewFromString(cfg.Ordering.MinOrderDelivery); err != nil {
			return rules, fmt.Errorf("min_order_delivery: %w", err)
		}
	}
	if cfg.Ordering.DeliveryFee != "" {
		if rules.DeliveryFee, err = decimal.NewFromString(cfg.Ordering.DeliveryFee); err != nil {
			return rules, fmt.Errorf("delivery_fee: %w", err)
		}
	}
	if cfg.Ordering.SubmitPerMinute > 0 {
		rules.SubmitRate = rate.Limit(cfg.Ordering.SubmitPerMinute / 60)
	}
	return rules, nil
}

func startBackupLoop(ctx context.Context, db *database.DB, cfg *config.Config, logger *zerolog.Logger) {
	if cfg.Backup.Path == "" {
		cfg.Backup.Path = "backups"
	}
	if cfg.Backup.IntervalHours <= 0 {
		cfg.Backup.IntervalHours = 24
	}
	if cfg.Backup.RetentionDays <= 0 {
		cfg.Backup.RetentionDays = 14
	}

	if err := os.MkdirAll(cfg.Backup.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("failed to create backup directory")
		return
	}

	interval := time.Duration(cfg.Backup.IntervalHours) * time.Hour
	retention := time.Duration(cfg.Backup.RetentionDays) * 24 * time.Hour

	// Run first backup after a short delay
	select {
	case <-time.After(1 * time.Minute):
		runBackupTask(db, cfg, retention, logger)
	case <-ctx.Done():
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			runBackupTask(db, cfg, retention, logger)
		case <-ctx.Done():
			return
		}
	}
}

func runBackupTask(db *database.DB, cfg *config.Config, retention time.Duration, logger *zerolog.Logger) {
	timestamp := time.Now().Format("20060102_150405")
	dest := filepath.Join(cfg.Backup.Path, fmt.Sprintf("trattoria_%s.db", timestamp))

	logger.Info().Str("path", dest).Msg("starting database backup")
	if err := db.Backup(dest); err != nil {
		logger.Error().Err(err).Msg("backup failed")
	} else {
		logger.Info().Msg("backup completed successfully")
	}

	deleted, err := db.CleanupBackups(cfg.Backup.Path, retention)
	if err != nil {
		logger.Error().Err(err).Msg("backup cleanup failed")
	} else if deleted > 0 {
		logger.Info().Int("deleted", deleted).Msg("cleaned up old backups")
	}
}

func startHealthServer(ctx context.Context, port int, db *database.DB, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := db.PingContext(ctxPing); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
