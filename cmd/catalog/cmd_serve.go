package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"example.com/catalog-admin/internal/config"
	"example.com/catalog-admin/internal/infra/security"
	httpapi "example.com/catalog-admin/internal/interface/http"
	"example.com/catalog-admin/internal/metrics"
	authuc "example.com/catalog-admin/internal/usecase/auth"
	currencyuc "example.com/catalog-admin/internal/usecase/currency"
	productuc "example.com/catalog-admin/internal/usecase/product"
)

// catalog serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := bootLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, log)
	},
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	st, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	revocations, closeRevocations, err := openRevocationList(ctx, cfg.Redis, log)
	if err != nil {
		return err
	}
	defer closeRevocations()

	tokenSvc := security.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	passwordSvc, err := security.NewPasswordService(cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}

	api := httpapi.NewAPI(httpapi.Dependencies{
		AuthService:     authuc.NewService(st.Users, passwordSvc, tokenSvc, revocations, log),
		ProductService:  productuc.NewService(st.Products, productuc.WithLogger(log)),
		CurrencyService: currencyuc.NewService(),
		Metrics:         metrics.New(),
		Logger:          log,
		CookieName:      cfg.Auth.CookieName,
		SecureCookie:    cfg.Auth.SecureCookie,
		TokenTTL:        cfg.Auth.TokenTTL,
		PublicAPI:       cfg.API.Public,
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      api.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr), zap.String("driver", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openRevocationList(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) (authuc.RevocationList, func(), error) {
	if cfg.Addr == "" {
		log.Warn("redis not configured, logouts are only remembered by this process")
		return security.NewMemoryRevocationList(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return security.NewRedisRevocationList(client), func() { _ = client.Close() }, nil
}
