package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mikajoos-cmyk/pfotencard/internal/auth/jwt"
	"github.com/mikajoos-cmyk/pfotencard/internal/backend"
	"github.com/mikajoos-cmyk/pfotencard/internal/common/cnst"
	"github.com/mikajoos-cmyk/pfotencard/internal/common/config"
	"github.com/mikajoos-cmyk/pfotencard/internal/console"
	"github.com/mikajoos-cmyk/pfotencard/internal/gate"
	"github.com/mikajoos-cmyk/pfotencard/internal/i18n"
	"github.com/mikajoos-cmyk/pfotencard/internal/preview"
	"github.com/mikajoos-cmyk/pfotencard/internal/session"
	"github.com/mikajoos-cmyk/pfotencard/pkg/logger"
	"github.com/mikajoos-cmyk/pfotencard/pkg/metrics"
	"github.com/mikajoos-cmyk/pfotencard/pkg/trace"
	"github.com/mikajoos-cmyk/pfotencard/pkg/utils"
	"github.com/mikajoos-cmyk/pfotencard/pkg/version"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of the console",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("console version %s\n", version.Get())
		},
	}

	rootCmd = &cobra.Command{
		Use:   "console",
		Short: "PfotenCard Console",
		Long:  `PfotenCard Console serves the marketing site and the self-service console for dog training schools`,
		Run: func(cmd *cobra.Command, args []string) {
			run()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "conf", "configs/console.yaml", "path to configuration file")
	rootCmd.AddCommand(versionCmd)
}

func run() {
	cfg, cfgPath, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	lg, err := logger.NewLogger(&cfg.Logger)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = lg.Sync() }()

	lg.Info("starting console",
		zap.String("version", version.Get()),
		zap.String("config", cfgPath))

	if cfg.PID != "" {
		pid := utils.NewPIDManager(cfg.PID)
		if err := pid.WritePID(); err != nil {
			lg.Fatal("failed to write PID file",
				zap.String("path", cfg.PID),
				zap.Error(err))
		}
		defer func() { _ = pid.RemovePID() }()
	}

	i18n.SetDefaultLanguage(cnst.LangDefault)
	if err := i18n.InitTranslator(cfg.I18n.Path); err != nil {
		lg.Warn("failed to load translations, using message ids",
			zap.String("path", cfg.I18n.Path),
			zap.Error(err))
	}

	ctx := context.Background()
	if cfg.Tracing.Enabled {
		shutdown, err := trace.InitTracing(ctx, &cfg.Tracing, lg)
		if err != nil {
			lg.Fatal("failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(sctx)
		}()
	}

	store, err := session.NewStore(lg, &cfg.Session)
	if err != nil {
		lg.Fatal("failed to initialize session store",
			zap.String("type", cfg.Session.Type),
			zap.Error(err))
	}
	defer func() { _ = store.Close() }()

	sessions := session.NewManager(lg, store)

	jwtService, err := jwt.NewService(jwt.Config{
		SecretKey: cfg.JWT.SecretKey,
		Duration:  cfg.JWT.Duration,
	})
	if err != nil {
		lg.Fatal("failed to initialize session cookies", zap.Error(err))
	}

	client := backend.NewClient(lg, &cfg.Backend)
	accessGate := gate.New(lg, client, sessions)

	relay, err := preview.NewRelay(lg, &cfg.Preview.Relay)
	if err != nil {
		lg.Fatal("failed to initialize preview relay",
			zap.String("type", cfg.Preview.Relay.Type),
			zap.Error(err))
	}
	defer func() { _ = relay.Close() }()

	hub := preview.NewHub(lg, cfg.Preview.Debounce, relay)
	defer func() { _ = hub.Close() }()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics)
		client.WithObserver(m)
	}

	router := console.NewRouter(console.Deps{
		Logger:     lg,
		Config:     cfg,
		Backend:    client,
		Sessions:   sessions,
		JWTService: jwtService,
		Gate:       accessGate,
		Hub:        hub,
		Metrics:    m,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		lg.Info("console listening", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lg.Info("shutting down console")
	sctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		lg.Error("failed to shutdown server", zap.Error(err))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
