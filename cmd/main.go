package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"gorm.io/gorm"

	calendarpb "github.com/Leganyst/clinic-booking/internal/api/calendar/v1"
	"github.com/Leganyst/clinic-booking/internal/calendar"
	"github.com/Leganyst/clinic-booking/internal/config"
	"github.com/Leganyst/clinic-booking/internal/db"
	"github.com/Leganyst/clinic-booking/internal/httpapi"
	"github.com/Leganyst/clinic-booking/internal/lock"
	"github.com/Leganyst/clinic-booking/internal/logger"
	"github.com/Leganyst/clinic-booking/internal/model"
	"github.com/Leganyst/clinic-booking/internal/repository"
	"github.com/Leganyst/clinic-booking/internal/service"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "clinic-booking",
		Short:         "Clinic reservation service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(serveCmd(), migrateCmd(), createAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP and gRPC servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Только настройки БД: JWT и SMS для миграций не нужны.
			dbCfg, err := config.LoadDBConfig()
			if err != nil {
				return fmt.Errorf("load db config: %w", err)
			}
			log := logger.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"), os.Stdout)

			gormDB, err := openDB(dbCfg)
			if err != nil {
				return err
			}
			defer closeDB(gormDB, log)

			log.Info().Str("driver", dbCfg.Driver).Msg("migrations applied")
			return nil
		},
	}
}

func createAdminCmd() *cobra.Command {
	var in service.RegisterInput

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator or promote an existing user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			gormDB, err := openDB(&cfg.DB)
			if err != nil {
				return err
			}
			defer closeDB(gormDB, log)

			repos := repository.NewRepositories(gormDB)
			auth := service.NewAuthService(gormDB, repos, smsSender(cfg, log), newTokenManager(cfg), log, authOptions(cfg))

			u, err := auth.RegisterAdmin(cmd.Context(), in)
			if err != nil && !(errors.Is(err, service.ErrSmsFailed) && u != nil) {
				return fmt.Errorf("create admin: %w", err)
			}
			log.Info().Str("user_id", u.ID.String()).Str("phone", u.Phone).Msg("admin ready")
			return nil
		},
	}

	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&in.NationalID, "national-id", "", "national id")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "phone number")
	for _, name := range []string{"first-name", "last-name", "national-id", "phone"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func runServer(ctx context.Context) error {
	// 1. Конфиг и логгер.
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// 2. БД + миграции.
	gormDB, err := openDB(&cfg.DB)
	if err != nil {
		return err
	}
	defer closeDB(gormDB, log)

	// 3. Репозитории и доменные правила.
	repos := repository.NewRepositories(gormDB)
	checker := calendar.NewChecker(cfg.CancelLeadTime, loc)
	src := repository.NewCalendarSource(repos.WorkingHours, repos.Reservations)
	availability := calendar.NewAvailabilityService(src, src)

	// 4. Блокировка слотов: Redis между инстансами, иначе в памяти процесса.
	reservationOpts := []service.ReservationOption{service.WithSlotLocker(lock.NewLocal(), cfg.SlotLockTTL)}
	if cfg.RedisAddr != "" {
		client, err := lock.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer client.Close()
		reservationOpts = append(reservationOpts, service.WithSlotLocker(lock.NewRedis(client), cfg.SlotLockTTL))
		log.Info().Str("addr", cfg.RedisAddr).Msg("redis slot lock enabled")
	}

	// 5. Сервисы.
	sms := smsSender(cfg, log)
	tokens := newTokenManager(cfg)
	reservations := service.NewReservationService(gormDB, repos, checker, log,
		append(reservationOpts, service.WithNotifier(sms))...)

	e := httpapi.NewServer(httpapi.Deps{
		DB:           gormDB,
		Auth:         service.NewAuthService(gormDB, repos, sms, tokens, log, authOptions(cfg)),
		Tokens:       tokens,
		Specialties:  service.NewSpecialtyService(repos.Specialties, log),
		WorkingHours: service.NewWorkingHourService(gormDB, repos, availability, log),
		Reservations: reservations,
		Availability: availability,
		Checker:      checker,
		Log:          log,
		CORSOrigins:  cfg.CORSOrigins,
	})

	// 6. gRPC-сервер календаря.
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(service.UnaryLogger(log)))
	calendarpb.RegisterCalendarServiceServer(grpcServer, service.NewCalendarService(availability, reservations))
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	reflection.Register(grpcServer)

	errCh := make(chan error, 2)

	// 7. Запускаем оба сервера в горутинах.
	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", cfg.GRPCAddr, err)
		}
		go func() {
			log.Info().Str("addr", cfg.GRPCAddr).Msg("gRPC server listening")
			if err := grpcServer.Serve(lis); err != nil {
				errCh <- fmt.Errorf("grpc serve: %w", err)
			}
		}()
	}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server listening")
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http serve: %w", err)
		}
	}()

	// 8. Грейсфул-шатдаун по сигналу или ошибке сервера.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-stop:
	case err := <-errCh:
		log.Error().Err(err).Msg("server failed")
	}

	log.Info().Msg("shutting down")
	healthSrv.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	grpcServer.GracefulStop()
	log.Info().Msg("stopped")
	return nil
}

func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}
	return cfg, logger.New(cfg.LogLevel, cfg.LogFormat, os.Stdout), nil
}

func openDB(cfg *config.DBConfig) (*gorm.DB, error) {
	gormDB, err := db.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("init db: %w", err)
	}
	if err := model.AutoMigrate(gormDB); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return gormDB, nil
}

func closeDB(gormDB *gorm.DB, log zerolog.Logger) {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn().Err(err).Msg("close db")
	}
}

func smsSender(cfg *config.Config, log zerolog.Logger) service.SmsSender {
	if cfg.SMSAPIKey == "" {
		log.Warn().Msg("SMS_API_KEY is empty, messages are only logged")
		return service.NewLogSmsSender(log)
	}
	return service.NewHTTPSmsSender(cfg.SMSAPIURL, cfg.SMSAPIKey, cfg.SMSLineNumber)
}

func newTokenManager(cfg *config.Config) *service.TokenManager {
	return service.NewTokenManager(cfg.JWTKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL)
}

func authOptions(cfg *config.Config) service.AuthOptions {
	return service.AuthOptions{
		CodeTTL:   cfg.VerificationCodeTTL,
		PerMinute: cfg.VerificationPerMinute,
		Burst:     cfg.VerificationBurst,
	}
}
