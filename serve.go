package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/handlers"
	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/db"
	"github.com/Zachkp/portfolio/internal/analytics"
	"github.com/Zachkp/portfolio/internal/auth"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/metrics"
	"github.com/Zachkp/portfolio/internal/notify"
	"github.com/Zachkp/portfolio/internal/pdftext"
	"github.com/Zachkp/portfolio/internal/seed"
	"github.com/Zachkp/portfolio/internal/store"
	"github.com/Zachkp/portfolio/internal/store/memstore"
	"github.com/Zachkp/portfolio/internal/web"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Run the HTTP server.

Requires DATABASE_URL, and SESSION_SECRET outside debug mode. When the
profiles table is empty and ADMIN_EMAIL / ADMIN_PASSWORD are set, an admin
account is created on start.

Use --memory to run against an in-memory store (nothing is persisted).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		memory, _ := cmd.Flags().GetBool("memory")
		migrateFirst, _ := cmd.Flags().GetBool("migrate")
		return serve(cmd.Context(), memory, migrateFirst)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Bool("memory", false, "use an in-memory content store instead of Postgres")
	serveCmd.Flags().Bool("migrate", true, "apply pending database migrations before serving")
}

func serve(ctx context.Context, memory, migrateFirst bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !memory {
		if err := cfg.ValidateServe(); err != nil {
			return err
		}
	}
	gin.SetMode(cfg.GinMode)

	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		if !cfg.Debug() {
			return fmt.Errorf("%w: SESSION_SECRET", config.ErrMissing)
		}
		log.Println("SESSION_SECRET not set, using a random one; sessions end on restart")
		secret = []byte(auth.RandomToken())
	}

	var st *store.Store
	if memory {
		log.Println("Using the in-memory content store; changes are lost on exit")
		st = memstore.New()
	} else {
		if migrateFirst {
			version, err := db.Up(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			log.Printf("Database schema at version %d", version)
		}
		var closeStore func()
		st, closeStore, err = openStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()
	}

	if _, err := auth.Bootstrap(ctx, st.Profiles, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return err
	}
	if cfg.SeedFile != "" {
		res, err := seed.New(st).ApplyFile(ctx, cfg.SeedFile)
		if err != nil {
			log.Printf("Failed to apply seed file %s: %v", cfg.SeedFile, err)
		} else {
			log.Printf("Seeded from %s: %s", cfg.SeedFile, res)
		}
	}

	// A fresh salt each start means visitor hashes cannot be linked
	// across restarts.
	hasher := analytics.NewHasher(auth.RandomToken())
	tracker, err := analytics.Open(cfg.AnalyticsPath, hasher, cfg.Retention)
	if err != nil {
		log.Printf("Visitor tracking disabled: %v", err)
	} else {
		defer func() { _ = tracker.Close() }()
		if removed, err := tracker.Cleanup(ctx); err != nil {
			log.Printf("Failed to cleanup old visitor data: %v", err)
		} else if removed > 0 {
			log.Printf("Privacy cleanup: removed %d old visitor records", removed)
		}
	}

	mailer := notify.NewMailer(cfg.SMTP)
	if !mailer.Enabled() {
		log.Println("SMTP credentials not configured; contact messages are stored but not emailed")
	}

	fetcher := newFetcher(cfg)
	d := web.Deps{
		Config:   cfg,
		Store:    st,
		Sessions: auth.NewSessions(secret, cfg.SessionTTL, cfg.CookieSecure),
		Unlocks:  auth.NewUnlockTokens(secret, cfg.SessionTTL, cfg.CookieSecure),
		Hasher:   hasher,
		Tracker:  tracker,
		Metrics:  metrics.New(),
		Notifier: mailer,
		Importer: newImporter(cfg, st, fetcher),
		PDF:      pdftext.NewExtractor(fetcher),
	}
	s, err := web.New(d)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handlers.CombinedLoggingHandler(os.Stdout, s.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Addr())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
