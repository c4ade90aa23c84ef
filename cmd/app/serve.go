package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/net/netutil"

	"vocabtest-backend/cmd/app/internal/controller"
	"vocabtest-backend/internal/config"
	"vocabtest-backend/internal/db"
	"vocabtest-backend/internal/repository"
	"vocabtest-backend/internal/service"
	"vocabtest-backend/utilities"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		printStartUpBanner()

		cfg, err := openStore()
		if err != nil {
			return err
		}
		defer utilities.CloseLogging()

		if tz := cfg.Context.TimeZone; tz != "" {
			loc, err := time.LoadLocation(tz)
			if err != nil {
				return fmt.Errorf("invalid TIME_ZONE %q: %w", tz, err)
			}
			time.Local = loc
		}

		if cfg.DB.Initialize {
			if err := seedIfEmpty(); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func buildServices(cfg *config.APIConfig) controller.Services {
	conn := db.GetDB()

	// Create repositories.
	wordRepo := repository.NewWordRepository(conn)
	categoryRepo := repository.NewCategoryRepository(conn)
	testRepo := repository.NewTestRepository(conn)

	bus := utilities.GlobalEventBus
	service.TrackWordUsage(bus, wordRepo)

	utilities.ConfigureTokenSecrets(cfg.Authentication.AccessSecret, cfg.Authentication.RefreshSecret)

	// Create services.
	return controller.Services{
		Auth:       service.NewAuthService(cfg.Authentication.Username, cfg.Authentication.PasswordHash),
		Words:      service.NewWordService(wordRepo, categoryRepo, cfg.Pagination.PageSize, cfg.Pagination.MaxPageSize),
		Import:     service.NewImportService(wordRepo, categoryRepo, bus),
		Categories: service.NewCategoryService(categoryRepo),
		Stats:      service.NewStatsService(db.NewQueryExecutor(conn)),
		Tests:      service.NewTestService(testRepo, categoryRepo, service.NewTestAssembler(wordRepo), bus, cfg.Pagination.TestPageSize, cfg.Pagination.MaxPageSize),
		PDF:        service.NewPDFService(testRepo, cfg.PDF.FontPath),
	}
}

func serve(ctx context.Context, cfg *config.APIConfig) error {
	if cfg.Authentication.EnableTokenAuth && cfg.Authentication.PasswordHash == "" {
		utilities.Warn("token auth is enabled but no PASSWORD_HASH is configured; nobody can log in")
	}

	// Route gin's own output through the leveled logger.
	gin.SetMode(gin.ReleaseMode)
	gin.DefaultWriter = log.Writer()
	gin.DefaultErrorWriter = log.Writer()

	router := controller.NewRouter(buildServices(cfg), controller.Options{
		EnableTokenAuth: cfg.Authentication.EnableTokenAuth,
		RequestDump:     cfg.RequestDump,
		RateRPS:         cfg.RateLimit.RPS,
		RateBurst:       cfg.RateLimit.Burst,
		StaticDir:       cfg.Context.StaticDir,
		Version:         version,
	})

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
	}
	if cfg.Context.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, cfg.Context.MaxConnections)
	}

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utilities.Info("listening on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	utilities.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	utilities.GlobalEventBus.Wait()
	return nil
}
