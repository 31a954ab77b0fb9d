// Command server runs the live-session access gateway. main wires stores,
// services, and the HTTP router; business logic lives in the internal
// packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"livegate/internal/admission"
	admissionhandler "livegate/internal/admission/handler"
	admissionmetrics "livegate/internal/admission/metrics"
	"livegate/internal/attendance"
	httpapi "livegate/internal/http"
	jwttoken "livegate/internal/jwt_token"
	"livegate/internal/membership"
	"livegate/internal/platform/config"
	"livegate/internal/platform/httpserver"
	"livegate/internal/platform/kafka"
	"livegate/internal/platform/logger"
	platformredis "livegate/internal/platform/redis"
	"livegate/internal/policy"
	"livegate/internal/provider/roomjwt"
	"livegate/internal/session"
	sessionhandler "livegate/internal/session/handler"
	sessionmetrics "livegate/internal/session/metrics"
	"livegate/internal/session/store"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stores: PostgreSQL when a DSN is configured, in-memory otherwise.
	var (
		sessionStore    store.Store
		attendanceStore attendance.Store
		memberStore     membership.Store
		db              *sql.DB
	)
	if cfg.PostgresDSN != "" {
		var err error
		db, err = sql.Open("pgx", cfg.PostgresDSN)
		if err != nil {
			log.Error("postgres open failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("postgres ping failed", "error", err)
			os.Exit(1)
		}
		sessionStore = store.NewPostgres(db)
		attendanceStore = attendance.NewPostgres(db)
		memberStore = membership.NewPostgres(db)
	} else {
		log.Warn("no postgres DSN configured, using in-memory stores")
		sessionStore = store.NewMemory()
		attendanceStore = attendance.NewMemory()
		memberStore = membership.NewMemory()
	}

	redisClient, err := platformredis.New(cfg.Redis())
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers)
	if err != nil {
		log.Error("kafka connect failed", "error", err)
		os.Exit(1)
	}
	if producer != nil {
		defer producer.Close()
	}

	hostPolicy := policy.NewHostPolicy(sessionStore)

	sessionOpts := []session.Option{
		session.WithMetrics(sessionmetrics.New()),
		session.WithGuestLinkTTL(cfg.GuestLinkTTL),
	}
	if redisClient != nil {
		sessionOpts = append(sessionOpts, session.WithNotifier(session.NewRedisNotifier(redisClient.Client)))
	}
	sessionSvc := session.NewService(sessionStore, hostPolicy, log, sessionOpts...)

	attendanceOpts := []attendance.Option{}
	if producer != nil {
		attendanceOpts = append(attendanceOpts, attendance.WithPublisher(producer, cfg.KafkaAttendance))
	}
	attendanceSvc := attendance.NewService(attendanceStore, log, attendanceOpts...)

	gateOpts := []membership.GateOption{}
	if redisClient != nil {
		gateOpts = append(gateOpts, membership.WithCache(redisClient.Client))
	}
	gate := membership.NewGate(memberStore, log, gateOpts...)

	roomProvider := roomjwt.New(cfg.RoomSigningKey, cfg.RoomTokenIssuer)
	minter := admission.NewMinter(roomProvider, cfg.CredentialGrace, cfg.CredentialCeiling, cfg.ProviderTimeout)
	admissionSvc := admission.NewService(sessionStore, hostPolicy, gate, minter, attendanceSvc, log,
		admission.WithMetrics(admissionmetrics.New()),
		admission.WithPollHint(cfg.PollInterval),
	)

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.RoomTokenIssuer, "livegate-api")

	checkers := map[string]httpapi.HealthChecker{}
	if redisClient != nil {
		checkers["redis"] = redisClient
	}
	if db != nil {
		checkers["postgres"] = dbChecker{db}
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:    log,
		Validator: jwttoken.NewJWTServiceAdapter(jwtService),
		Sessions:  sessionhandler.New(sessionSvc, attendanceSvc, hostPolicy, log),
		Admission: admissionhandler.New(admissionSvc, log),
		Checkers:  checkers,
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting livegate", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

type dbChecker struct{ db *sql.DB }

func (c dbChecker) Health(ctx context.Context) error {
	return c.db.PingContext(ctx)
}
