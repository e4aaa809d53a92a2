package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appdoc "github.com/jhoicas/kardex-core/internal/application/document"
	"github.com/jhoicas/kardex-core/internal/application/stock"
	"github.com/jhoicas/kardex-core/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/kardex-core/internal/interfaces/http"
	"github.com/jhoicas/kardex-core/pkg/config"
	"github.com/jhoicas/kardex-core/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	lockTimeout := time.Duration(cfg.DB.LockTimeoutMS) * time.Millisecond
	txRunner := postgres.NewTxRunner(pool, lockTimeout)
	mutator := stock.NewMutator(txRunner)

	// Repos de solo lectura atados al pool (fuera de transacción)
	balanceRepo := postgres.NewStockBalanceRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	ledgerQuery := stock.NewLedgerQuery(balanceRepo, movementRepo)

	sequenceRepo := postgres.NewSequenceRepository(pool)
	allocator := appdoc.NewAllocator(sequenceRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Mutator:   mutator,
		Query:     ledgerQuery,
		Documents: allocator,
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

	log.Info().Msg("aplicación detenida")
}
