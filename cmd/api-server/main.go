package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/glebradiotec/publisher-site/internal/article"
	"github.com/glebradiotec/publisher-site/internal/auth"
	"github.com/glebradiotec/publisher-site/internal/backup"
	"github.com/glebradiotec/publisher-site/internal/dashboard"
	"github.com/glebradiotec/publisher-site/internal/issue"
	"github.com/glebradiotec/publisher-site/internal/journal"
	"github.com/glebradiotec/publisher-site/internal/upload"
	"github.com/glebradiotec/publisher-site/pkg/database"
	"github.com/glebradiotec/publisher-site/pkg/utils"
)

func main() {
	// .env is optional, env vars win
	_ = godotenv.Load()

	cfg := database.DefaultConfig()
	db := database.MustOpen(cfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": cfg.Path})
	})
	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "db_error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "db": "ok"})
	})

	journalRepo := journal.NewRepo(db)
	issueRepo := issue.NewRepo(db)
	articleRepo := article.NewRepo(db)

	journalHandler := journal.NewHandler(journalRepo, issueRepo)
	issueHandler := issue.NewHandler(issueRepo, journalRepo, articleRepo)
	articleHandler := article.NewHandler(articleRepo, issueRepo, journalRepo)

	public := router.Group("")
	journalHandler.RegisterPublicRoutes(public)
	issueHandler.RegisterPublicRoutes(public)
	articleHandler.RegisterPublicRoutes(public)

	uploadCfg := utils.LoadUploadConfig()
	router.Static("/static/uploads/covers", uploadCfg.CoversDir)
	router.Static("/static/uploads/pdfs", uploadCfg.PDFsDir)

	// Admin API
	authCfg := utils.LoadAuthConfig()
	tokenSvc := auth.TokenService{
		Secret:   []byte(authCfg.JWTSecret),
		Issuer:   authCfg.JWTIssuer,
		Duration: authCfg.JWTDuration,
	}
	authRepo := auth.NewRepo(db)
	authHandler := auth.NewHandler(authRepo, tokenSvc, auth.NewLoginLimiter(10, 5))

	admin := router.Group("/admin")
	authHandler.RegisterRoutes(admin)

	protected := admin.Group("")
	protected.Use(auth.AuthMiddleware(tokenSvc, authRepo))
	authHandler.RegisterProtectedRoutes(protected)
	journalHandler.RegisterAdminRoutes(protected)
	issueHandler.RegisterAdminRoutes(protected)
	articleHandler.RegisterAdminRoutes(protected)
	dashboard.NewHandler(db, articleRepo).RegisterAdminRoutes(protected)
	upload.NewHandler(upload.NewStore(uploadCfg.CoversDir, uploadCfg.PDFsDir)).RegisterAdminRoutes(protected)
	backup.NewHandler(backup.NewManager(cfg.Path, uploadCfg.BackupsDir)).RegisterAdminRoutes(protected)

	addr := os.Getenv("PUBLISHER_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	httpSrv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("HTTP API server listening on %s", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	log.Println("server stopped")
}
