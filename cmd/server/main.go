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

	"goodlife/internal/adapters/aidraft"
	"goodlife/internal/adapters/email"
	web "goodlife/internal/adapters/http"
	"goodlife/internal/adapters/http/perf"
	"goodlife/internal/adapters/photostore"
	"goodlife/internal/adapters/storage"
	"goodlife/internal/application/orchestrators"
	"goodlife/internal/bootstrap"
	"goodlife/internal/config"

	"github.com/google/uuid"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("server_failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(cfg.NewLogger(os.Stderr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Performance instrumentation: requests, queries and outbound calls share one collector.
	collector := perf.NewCollector(perf.DefaultRingSize)

	st, err := bootstrap.LoadState(ctx, cfg, collector)
	if err != nil {
		return err
	}
	defer st.Close()

	seedDeps := orchestrators.StaffDeps{State: st.Container, GenerateID: uuid.NewString, Now: time.Now}
	if err := orchestrators.ExecuteSeedAdmin(ctx, orchestrators.SeedAdminInput{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}, seedDeps); err != nil {
		return err
	}

	var sender email.Sender
	if cfg.EmailConfigured() {
		sender = email.NewResendSender(cfg.ResendKey, cfg.EmailFrom, cfg.EmailReplyTo)
		slog.Info("email_sender", "provider", "resend", "from", email.NormalizeFrom(cfg.EmailFrom))
	} else {
		sender = email.NewNoopSender()
		if cfg.IsProduction() {
			slog.Warn("email_sender", "provider", "noop", "note", "GOODLIFE_RESEND_KEY is not set; email delivery is disabled")
		} else {
			slog.Info("email_sender", "provider", "noop")
		}
	}

	var gen aidraft.Generator
	if cfg.AIConfigured() {
		gemini, err := aidraft.NewGemini(ctx, cfg.GeminiKey, cfg.GeminiModel)
		if err != nil {
			return err
		}
		gen = web.TimedGenerator(gemini, collector)
	}

	var photos photostore.Store = photostore.Inline{}
	if cfg.PhotoStoreConfigured() {
		s3, err := photostore.NewS3(cfg.S3Bucket, cfg.S3Region)
		if err != nil {
			return err
		}
		photos = s3
	}

	srv := web.NewServer(web.Deps{
		Config:    cfg,
		State:     st.Container,
		Email:     sender,
		Drafter:   aidraft.NewDrafter(gen),
		Photos:    photos,
		Collector: collector,
	})

	pollStop := make(chan struct{})
	orchestrators.StartAnnouncementPoller(&orchestrators.AnnouncementPoller{
		State:          st.Container,
		ActiveSessions: srv.Sessions().Active,
	}, cfg.PollInterval, pollStop)
	defer close(pollStop)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_starting", "version", version, "addr", cfg.Addr, "env", cfg.Env,
			"connected", st.Container.Connected(), "schema", storage.LatestSchemaVersion())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
