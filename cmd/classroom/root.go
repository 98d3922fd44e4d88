package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dkeye/Classroom/internal/adapters/backend"
	"github.com/dkeye/Classroom/internal/adapters/capture"
	router "github.com/dkeye/Classroom/internal/adapters/http"
	"github.com/dkeye/Classroom/internal/adapters/rtc"
	streams "github.com/dkeye/Classroom/internal/adapters/signal"
	"github.com/dkeye/Classroom/internal/app/session"
	"github.com/dkeye/Classroom/internal/config"
	"github.com/dkeye/Classroom/internal/core"
	"github.com/dkeye/Classroom/internal/domain"
)

var rootCmd = &cobra.Command{
	Use:   "classroom",
	Short: "Local classroom session service",
	Long: `classroom keeps one participant's classroom session: roster, room state,
media and screen share permissions, backed by the classroom backend and a
WebRTC media channel. The UI drives it over REST and an event websocket.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	f := rootCmd.Flags()
	f.Int("port", 0, "HTTP port (overrides config)")
	f.String("log-level", "", "log level: debug, info, warn, error")
	f.String("backend-url", "", "classroom backend websocket URL")
	f.Bool("passthrough", false, "route member property updates through passthrough")
}

func run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	v := config.New()
	for key, flag := range map[string]string{
		"port":                "port",
		"log_level":           "log-level",
		"backend.url":         "backend-url",
		"backend.passthrough": "passthrough",
	} {
		if fl := cmd.Flags().Lookup(flag); fl != nil && fl.Changed {
			if err := v.BindPFlag(key, fl); err != nil {
				return err
			}
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	applyLogLevel(cfg.LogLevel)

	link := backend.NewLink(cfg.Backend)
	defer link.Close()
	svc := backend.NewServices(link, backend.RouteFor(cfg.Backend.Passthrough))
	media := rtc.New(cfg.RTC.ICEServers, svc.Signal, nil)
	host := capture.NewHost(cfg.Capture.Consent)

	mgr := session.NewManager(session.Services{
		Auth:    svc.Auth,
		Members: svc.Members,
		Rooms:   svc.Rooms,
		IM:      svc.IM,
		RTC:     media,
		Share:   svc.Share,
		Board:   svc.Board,
		Capture: host,
	}, session.Options{RequestTimeout: cfg.Backend.RequestTimeout})

	link.SetPushHandler(core.PushHandlerFunc(func(ev domain.PushEvent) {
		if s, ok := mgr.Current(); ok {
			s.HandlePush(ev)
		}
	}))
	media.Remotes().OnStream = func(uid uint64, kind rtc.Kind, enabled bool) {
		s, ok := mgr.Current()
		if !ok {
			return
		}
		m, ok := s.Roster.GetByRTCUid(uid)
		if !ok {
			log.Debug().Str("module", "main").Uint64("uid", uid).Msg("stream of unknown member")
			return
		}
		s.HandlePush(domain.StreamChangePush{UserUUID: m.UserUUID, Capability: kind.Capability(), Enabled: enabled})
	}

	config.Watch(v, func(next *config.Config) {
		applyLogLevel(next.LogLevel)
		host.SetConsent(next.Capture.Consent)
	})

	api := &router.API{
		Sessions: mgr,
		Stream:   streams.NewStreamController(mgr, streams.NewRegistry(), cfg.Stream),
		Limiter:  streams.NewIntentLimiter(cfg.Intents.Rate, cfg.Intents.Burst),
	}
	r := router.SetupRouter(ctx, cfg, api)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Classroom server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := mgr.Destroy(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("session teardown")
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
	return nil
}

func applyLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
