package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"fusiondex/internal/auth"
	"fusiondex/internal/catalog"
	"fusiondex/internal/events"
	"fusiondex/internal/ingest"
	"fusiondex/internal/sprite"
	"fusiondex/pkg/database"
	"fusiondex/pkg/logger"
	"fusiondex/pkg/utils"
)

func main() {
	utils.LoadEnv()
	logger.Init(utils.LoadLogConfig())

	cfg := database.DefaultConfig()
	db := database.MustOpen(cfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("db migrate failed", "error", err)
		os.Exit(1)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	hub := events.NewHub()
	router.GET("/ws", events.WSHandler(hub))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": cfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":     "not_ready",
				"db_error":   err.Error(),
				"ws_clients": stats.WSClients,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":     "ready",
			"db":         "ok",
			"ws_clients": stats.WSClients,
		})
	})

	sheetCfg := utils.LoadSheetConfig()
	store := catalog.NewStore(db)
	handler := catalog.NewHandler(
		store,
		sprite.NewResolver(sheetCfg.TileSize),
		ingest.Loader(utils.LoadCatalogConfig()),
		hub,
	)
	handler.RegisterRoutes(router.Group(""))

	authCfg := utils.LoadAuthConfig()
	tokenSvc := auth.TokenService{
		Secret:   []byte(authCfg.JWTSecret),
		Issuer:   authCfg.JWTIssuer,
		Duration: authCfg.JWTDuration,
	}
	admin := router.Group("/admin")
	admin.Use(auth.RequireRole(tokenSvc, auth.RoleAdmin))
	handler.RegisterAdminRoutes(admin)

	srvCfg := utils.LoadServerConfig()
	httpSrv := &http.Server{
		Addr:              srvCfg.Addr,
		Handler:           newCORS(srvCfg).Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP API server listening", "addr", srvCfg.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", "signal", sig.String())
	case err := <-errCh:
		slog.Error("server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown error", "error", err)
	}
	slog.Info("server stopped")
}

func newCORS(cfg utils.ServerConfig) *cors.Cors {
	methods := []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	slog.With("component", "cors").Info("CORS configured",
		"allowed_origins", cfg.AllowedOrigins,
		"allowed_methods", methods,
		"debug_mode", cfg.CORSDebug,
	)
	return cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: methods,
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		Debug:          cfg.CORSDebug,
	})
}
