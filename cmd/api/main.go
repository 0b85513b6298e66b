package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/fifo-valuation-api/internal/application/ports"
	"github.com/jhoicas/fifo-valuation-api/internal/application/recalculation"
	"github.com/jhoicas/fifo-valuation-api/internal/application/usecase"
	"github.com/jhoicas/fifo-valuation-api/internal/application/valuation"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/inventory"
	infraexcel "github.com/jhoicas/fifo-valuation-api/internal/infrastructure/excel"
	infrakafka "github.com/jhoicas/fifo-valuation-api/internal/infrastructure/kafka"
	inframail "github.com/jhoicas/fifo-valuation-api/internal/infrastructure/mail"
	"github.com/jhoicas/fifo-valuation-api/internal/infrastructure/memory"
	"github.com/jhoicas/fifo-valuation-api/internal/infrastructure/metrics"
	"github.com/jhoicas/fifo-valuation-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/fifo-valuation-api/internal/infrastructure/redis"
	"github.com/jhoicas/fifo-valuation-api/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/fifo-valuation-api/internal/interfaces/http"
	"github.com/jhoicas/fifo-valuation-api/pkg/config"
	"github.com/jhoicas/fifo-valuation-api/pkg/logger"

	_ "github.com/jhoicas/fifo-valuation-api/docs"
)

// @title        FIFO Valuation API
// @version      1.0
// @description  Valoración de inventario FIFO por bodega y recalculación de capas.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var txRunner valuation.TxRunner
	if cfg.Storage.UseMemory() {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		txRunner = memory.NewStore()
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner = postgres.NewTxRunner(pool)
	}

	m := metrics.New()

	settings := valuation.DefaultSettings()
	settings.Precision = inventory.Precision{Value: cfg.FIFO.PricePrecision, UnitDigits: cfg.FIFO.UnitCostPrecision}
	settings.DefaultShortagePolicy = cfg.FIFO.ShortagePolicy
	settings.DefaultLocationValidation = cfg.FIFO.LocationValidation
	settings.QueueReadLimit = cfg.FIFO.QueueReadLimit

	fifo := valuation.NewFIFOService(settings, m, log)
	allocator := valuation.NewLandedCostAllocator(settings.Precision, log)
	returns := valuation.NewReturnResolver(fifo, log)
	moveSvc := valuation.NewMoveValuationService(settings, fifo, allocator, returns, nil, nil, log)

	moveUC := valuation.NewMoveUseCase(txRunner, moveSvc, log)
	queryUC := valuation.NewQueryUseCase(txRunner, fifo, allocator)
	landedUC := valuation.NewLandedCostUseCase(txRunner, allocator, log)
	paramUC := valuation.NewConfigParamUseCase(txRunner, settings)
	catalogUC := usecase.NewCatalogUseCase(txRunner)

	// Candado por ejecución: sin Redis solo se protege dentro del proceso (estado processing).
	var locker ports.RunLocker
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		locker = infraredis.NewRunLocker(rdb, log)
	}

	var notifier ports.Notifier = inframail.NewLogNotifier(log)
	if cfg.Mail.Enabled() {
		notifier = inframail.NewSMTPNotifier(cfg.Mail, log)
	}

	recalSettings := recalculation.Settings{
		DefaultBatchSize: cfg.FIFO.DefaultBatchSize,
		BackupRetention:  time.Duration(cfg.FIFO.BackupRetentionDays) * 24 * time.Hour,
		LockTTL:          cfg.FIFO.LockTTL,
	}
	exporter := infraexcel.NewPreviewExporter()
	backups := recalculation.NewBackupService(txRunner, recalSettings.BackupRetention, m, log)
	recalUC := recalculation.NewUseCase(txRunner, moveSvc, backups, exporter, locker, m, recalSettings, log)
	scheduleUC := recalculation.NewScheduleUseCase(txRunner, recalUC, exporter, notifier, log)

	var sched *scheduler.Scheduler
	var reloader httpRouter.ScheduleReloader
	if cfg.Scheduler.Enabled {
		loc, err := time.LoadLocation(cfg.Scheduler.Location)
		if err != nil {
			log.Warn().Err(err).Str("tz", cfg.Scheduler.Location).Msg("zona horaria inválida, se usa UTC")
			loc = time.UTC
		}
		sched = scheduler.New(scheduleUC, recalUC, cfg.Scheduler.BackupExpiryCron, loc, log)
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("iniciar planificador")
		}
		reloader = sched
	}

	var consumer *infrakafka.MoveConsumer
	consumerDone := make(chan struct{})
	if cfg.Kafka.Enabled() {
		consumer = infrakafka.NewMoveConsumer(infrakafka.NewReader(cfg.Kafka), moveUC, cfg.Kafka.CompanyID, m, log)
		go func() {
			defer close(consumerDone)
			if err := consumer.Run(ctx); err != nil {
				log.Error().Err(err).Msg("consumidor de movimientos finalizado")
			}
		}()
	} else {
		close(consumerDone)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Minute * 5, // apply de recalculaciones grandes
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(m.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "FIFO Valuation API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		MoveUC:        moveUC,
		QueryUC:       queryUC,
		LandedCostUC:  landedUC,
		ConfigParamUC: paramUC,
		RecalUC:       recalUC,
		ScheduleUC:    scheduleUC,
		CatalogUC:     catalogUC,
		Reloader:      reloader,
		Metrics:       m.Handler(),
		JWTSecret:     cfg.JWT.Secret,
		JWTIssuer:     cfg.JWT.Issuer,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if sched != nil {
		sched.Stop()
	}
	stop()
	<-consumerDone
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar consumidor de movimientos")
		}
	}

	log.Info().Msg("aplicación detenida")
}
